package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"truco-lite/truco"
)

var ErrNotFound = errors.New("game not found")

// Repository is the key-value store of games by id, plus a secondary
// index of joinable games (not started, one player seated). Load/Save and
// any optimistic concurrency are this layer's concern; the truco package
// itself is pure and side-effect-free.
type Repository interface {
	Load(ctx context.Context, id uint64) (*truco.Game, error)
	// Save persists g. If g.Id is 0 a new id is assigned and returned.
	Save(ctx context.Context, g *truco.Game) (uint64, error)
	ListJoinable(ctx context.Context) ([]uint64, error)
	Close() error
}

// record is the persisted shape of a Game: everything Load/Save need to
// round-trip it through the repository without reaching into the
// aggregate's unexported fields.
type record struct {
	Id      uint64                   `json:"id"`
	Name    string                   `json:"name"`
	Players []truco.PlayerId         `json:"players"`
	Config  truco.Config             `json:"config"`
	State   truco.GameState          `json:"state"`
	Events  []json.RawMessage        `json:"events"`
}

func encodeGame(g *truco.Game) ([]byte, error) {
	events := make([]json.RawMessage, len(g.Events))
	for i, e := range g.Events {
		raw, err := json.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("encode event %d: %w", i, err)
		}
		events[i] = raw
	}
	rec := record{
		Id:      g.Id,
		Name:    g.Name,
		Players: g.PlayerIds(),
		Config:  g.Config(),
		State:   g.State,
		Events:  events,
	}
	return json.Marshal(rec)
}

func decodeGame(data []byte) (*truco.Game, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	events, err := truco.DecodeEvents(rec.Events)
	if err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	g, err := truco.Restore(rec.Id, rec.Name, rec.Players, rec.State, events, rec.Config)
	if err != nil {
		return nil, fmt.Errorf("restore game %d: %w", rec.Id, err)
	}
	return g, nil
}

// isJoinable reports whether a decoded game belongs in the joinable index.
func isJoinable(g *truco.Game) bool {
	return !g.State.Started && len(g.Players) == 1
}
