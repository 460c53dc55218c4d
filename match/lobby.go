package match

import (
	"context"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/singleflight"

	"truco-lite/repository"
	"truco-lite/truco"
)

// Lobby owns the set of live Tables, keyed by game id, and the
// create/join/list lobby-level operations (game-created, game-joined,
// games-list).
type Lobby struct {
	mu     sync.RWMutex
	tables map[uint64]*Table
	repo   repository.Repository

	loads singleflight.Group

	broadcast func(gameId uint64, userId truco.PlayerId, events []truco.GameEvent)
}

func New(repo repository.Repository, broadcast func(uint64, truco.PlayerId, []truco.GameEvent)) *Lobby {
	return &Lobby{
		tables:    make(map[uint64]*Table),
		repo:      repo,
		broadcast: broadcast,
	}
}

// Create persists a new game with creator as its sole player and starts its
// actor.
func (l *Lobby) Create(ctx context.Context, name string, creator truco.PlayerId, cfg truco.Config) (*Table, error) {
	g, err := truco.New(name, creator, cfg)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	id, err := l.repo.Save(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("save new game: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	t := newTable(id, l.repo, l.broadcast, l.startRematch)
	l.tables[id] = t
	log.Printf("[lobby] created game %d (%q) for player %d", id, name, creator)
	return t, nil
}

// startRematch creates and starts the follow-up game once both of a
// finished match's players have signaled they want one, sharing the same
// two players. Invoked by a Table's actor after it detects the decision;
// l.mu guards the resulting write to l.tables the same way Create and
// Table do.
func (l *Lobby) startRematch(players []truco.PlayerId) error {
	if len(players) != 2 {
		return fmt.Errorf("rematch requires exactly two players, got %d", len(players))
	}

	g, err := truco.New("rematch", players[0], truco.Config{})
	if err != nil {
		return fmt.Errorf("new rematch game: %w", err)
	}
	g, err = g.Join(players[1])
	if err != nil {
		return fmt.Errorf("join rematch game: %w", err)
	}
	g, err = g.Start()
	if err != nil {
		return fmt.Errorf("start rematch game: %w", err)
	}

	ctx := context.Background()
	id, err := l.repo.Save(ctx, g)
	if err != nil {
		return fmt.Errorf("save rematch game: %w", err)
	}

	l.mu.Lock()
	t := newTable(id, l.repo, l.broadcast, l.startRematch)
	l.tables[id] = t
	l.mu.Unlock()

	log.Printf("[lobby] started rematch game %d for players %v", id, players)
	if l.broadcast != nil {
		for _, p := range g.PlayerIds() {
			l.broadcast(id, p, g.Events)
		}
	}
	return nil
}

// ListJoinable returns the ids of games waiting for a second player.
func (l *Lobby) ListJoinable(ctx context.Context) ([]uint64, error) {
	return l.repo.ListJoinable(ctx)
}

// Replay is one running table's full event log, returned for a
// reconnecting player who is seated at it.
type Replay struct {
	Table  *Table
	Events []truco.GameEvent
}

// ReplaysForPlayer tail-replays every currently running table userId is
// seated at. A game whose actor isn't running yet (never touched since the
// process started) has nothing to catch a reconnecting client up on
// anyway, since its persisted state already reflects everything that
// happened to it.
func (l *Lobby) ReplaysForPlayer(userId truco.PlayerId) []Replay {
	l.mu.RLock()
	tables := make([]*Table, 0, len(l.tables))
	for _, t := range l.tables {
		tables = append(tables, t)
	}
	l.mu.RUnlock()

	var out []Replay
	for _, t := range tables {
		res := t.Send(Event{Type: EventReplay, UserId: userId})
		if res.Err != nil || res.Game == nil {
			continue
		}
		for _, p := range res.Game.PlayerIds() {
			if p == userId {
				out = append(out, Replay{Table: t, Events: res.Events})
				break
			}
		}
	}
	return out
}

// Table returns the running actor for id, loading it from the repository
// and starting its actor on first access. Concurrent calls for the same id
// collapse onto a single load via singleflight, so two requests racing to
// join the same game id never spin up two actors for it.
func (l *Lobby) Table(ctx context.Context, id uint64) (*Table, error) {
	l.mu.RLock()
	if t, ok := l.tables[id]; ok {
		l.mu.RUnlock()
		return t, nil
	}
	l.mu.RUnlock()

	key := fmt.Sprintf("game:%d", id)
	v, err, _ := l.loads.Do(key, func() (interface{}, error) {
		l.mu.Lock()
		defer l.mu.Unlock()
		if t, ok := l.tables[id]; ok {
			return t, nil
		}
		if _, err := l.repo.Load(ctx, id); err != nil {
			return nil, err
		}
		t := newTable(id, l.repo, l.broadcast, l.startRematch)
		l.tables[id] = t
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Table), nil
}

// Join adds userId as the second player of game id, starting its actor if
// it is not already running.
func (l *Lobby) Join(ctx context.Context, id uint64, userId truco.PlayerId) (*Table, error) {
	t, err := l.Table(ctx, id)
	if err != nil {
		return nil, err
	}
	res := t.Send(Event{Type: EventJoin, UserId: userId})
	if res.Err != nil {
		return nil, res.Err
	}
	return t, nil
}

// Close stops every running table actor. Used on server shutdown.
func (l *Lobby) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, t := range l.tables {
		t.Close()
		delete(l.tables, id)
	}
}
