// Package replay re-derives a match's outcome from its recorded event log:
// replaying a tape from START should yield the same points and winner as
// the live game it was recorded from.
package replay

import (
	"encoding/json"
	"fmt"

	"truco-lite/truco"
)

// VerifyError reports why a tape failed verification. StepIndex is the
// index of the tape's last event, or -1 when the tape failed to decode.
type VerifyError struct {
	StepIndex int
	Reason    string
	Message   string
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("replay step %d: %s: %s", e.StepIndex, e.Reason, e.Message)
}

// Outcome is the part of a Game's derived state replay is expected to
// reproduce exactly.
type Outcome struct {
	Winner truco.PlayerId
	Points map[truco.PlayerId]int
}

// DeriveOutcome scans events for the terminal RESULT event and returns its
// payload. Returns false if the tape has no RESULT (match not finished).
func DeriveOutcome(events []truco.GameEvent) (Outcome, bool) {
	for _, e := range events {
		if r, ok := e.(truco.ResultEvent); ok {
			return Outcome{Winner: r.Winner, Points: r.Points}, true
		}
	}
	return Outcome{}, false
}

// Verify replays a tape of raw JSON GameEvents from START and asserts the
// outcome it derives, via DeriveOutcome, matches want. This exercises
// exactly the decode path a repository uses to rehydrate a persisted game,
// so a tape that fails to decode is itself a verification failure, not a
// caller bug.
func Verify(raw []json.RawMessage, want Outcome) error {
	events, err := truco.DecodeEvents(raw)
	if err != nil {
		return &VerifyError{StepIndex: -1, Reason: "decode_failed", Message: err.Error()}
	}

	got, ok := DeriveOutcome(events)
	if !ok {
		return &VerifyError{StepIndex: len(events) - 1, Reason: "no_result", Message: "tape has no RESULT event"}
	}

	if got.Winner != want.Winner {
		return &VerifyError{
			StepIndex: len(events) - 1,
			Reason:    "winner_mismatch",
			Message:   fmt.Sprintf("got winner %d, want %d", got.Winner, want.Winner),
		}
	}
	for p, pts := range want.Points {
		if got.Points[p] != pts {
			return &VerifyError{
				StepIndex: len(events) - 1,
				Reason:    "points_mismatch",
				Message:   fmt.Sprintf("player %d: got %d points, want %d", p, got.Points[p], pts),
			}
		}
	}
	return nil
}
