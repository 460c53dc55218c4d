package match

import (
	"context"
	"testing"

	"truco-lite/repository"
	"truco-lite/truco"
)

func TestTable_JoinAndStartSerialized(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ctx := context.Background()

	g, err := truco.New("mesa", 1, truco.Config{Seed: 9})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	id, err := repo.Save(ctx, g)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	var got []truco.GameEvent
	table := newTable(id, repo, func(gameId uint64, p truco.PlayerId, events []truco.GameEvent) {
		got = append(got, events...)
	}, nil)
	defer table.Close()

	if res := table.Send(Event{Type: EventJoin, UserId: 2}); res.Err != nil {
		t.Fatalf("join: %v", res.Err)
	}
	if res := table.Send(Event{Type: EventStart, UserId: 1}); res.Err != nil {
		t.Fatalf("start: %v", res.Err)
	}

	reloaded, err := repo.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reloaded.State.Started {
		t.Fatalf("expected persisted game to be started")
	}
	if len(got) == 0 {
		t.Fatalf("expected broadcast callback to receive events")
	}
}

func TestTable_UnknownEventTypeErrors(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ctx := context.Background()
	g, err := truco.New("mesa", 1, truco.Config{Seed: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	id, _ := repo.Save(ctx, g)

	table := newTable(id, repo, nil, nil)
	defer table.Close()

	res := table.Send(Event{Type: EventType(999), UserId: 1})
	if res.Err == nil {
		t.Fatalf("expected error for unhandled event type")
	}
}
