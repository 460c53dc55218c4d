// Command replay reads a JSON-encoded event tape and the expected outcome
// from a file and reports whether replaying the tape reproduces it.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"truco-lite/replay"
	"truco-lite/truco"
)

type request struct {
	Events []json.RawMessage           `json:"events"`
	Winner truco.PlayerId              `json:"winner"`
	Points map[truco.PlayerId]int      `json:"points"`
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: replay <tape.json>")
		os.Exit(2)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("read tape: %v", err)
	}

	var req request
	if err := json.Unmarshal(data, &req); err != nil {
		log.Fatalf("parse tape: %v", err)
	}

	err = replay.Verify(req.Events, replay.Outcome{Winner: req.Winner, Points: req.Points})
	if err != nil {
		fmt.Printf("FAIL: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("OK: replay matches expected outcome")
}
