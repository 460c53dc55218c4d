package repository

import (
	"context"
	"sync"

	"truco-lite/truco"
)

// MemoryRepository is an in-process Repository backed by a map. Used for
// tests and for single-process deployments that don't need durability.
type MemoryRepository struct {
	mu     sync.Mutex
	games  map[uint64]*truco.Game
	nextId uint64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{games: map[uint64]*truco.Game{}}
}

func (r *MemoryRepository) Load(ctx context.Context, id uint64) (*truco.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	return g, nil
}

func (r *MemoryRepository) Save(ctx context.Context, g *truco.Game) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g.Id == 0 {
		r.nextId++
		g = g.WithId(r.nextId)
	}
	r.games[g.Id] = g
	return g.Id, nil
}

func (r *MemoryRepository) ListJoinable(ctx context.Context) ([]uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []uint64
	for id, g := range r.games {
		if isJoinable(g) {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *MemoryRepository) Close() error { return nil }
