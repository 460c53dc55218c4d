package main

import (
	"log"
	"net/http"

	"truco-lite/match"
	"truco-lite/repository"
	"truco-lite/transport"
	"truco-lite/truco"
)

func main() {
	repo, repoMode, err := repository.NewRepositoryFromEnv()
	if err != nil {
		log.Fatalf("[server] failed to init games repository: %v", err)
	}
	defer repo.Close()

	// The lobby broadcasts through the gateway and the gateway routes client
	// messages into the lobby, so one of the two references has to be filled
	// in after construction; the lobby only calls broadcast from its actors,
	// which don't run until a client message arrives, well after gw is set.
	var gw *transport.Gateway
	lobby := match.New(repo, func(gameId uint64, userId truco.PlayerId, events []truco.GameEvent) {
		gw.Broadcast(gameId, userId, events)
	})
	gw = transport.New(lobby)
	defer lobby.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gw.HandleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	addr := ":8080"
	log.Printf("[server] games repository mode: %s", repoMode)
	log.Printf("[server] starting websocket server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("[server] failed to start: %v", err)
	}
}
