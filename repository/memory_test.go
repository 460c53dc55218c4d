package repository

import (
	"context"
	"testing"

	"truco-lite/truco"
)

func TestMemoryRepository_SaveAssignsId(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	g, err := truco.New("mesa", 1, truco.Config{Seed: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if g.Id != 0 {
		t.Fatalf("expected unpersisted game to have id 0, got %d", g.Id)
	}

	id, err := repo.Save(ctx, g)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected a nonzero assigned id")
	}

	loaded, err := repo.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Id != id {
		t.Fatalf("loaded id %d != saved id %d", loaded.Id, id)
	}
}

func TestMemoryRepository_LoadMissing(t *testing.T) {
	repo := NewMemoryRepository()
	if _, err := repo.Load(context.Background(), 999); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRepository_ListJoinable(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	waiting, err := truco.New("mesa1", 1, truco.Config{Seed: 1})
	if err != nil {
		t.Fatalf("New waiting: %v", err)
	}
	if _, err := repo.Save(ctx, waiting); err != nil {
		t.Fatalf("Save waiting: %v", err)
	}

	full, err := truco.New("mesa2", 2, truco.Config{Seed: 1})
	if err != nil {
		t.Fatalf("New full: %v", err)
	}
	full, err = full.Join(3)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if _, err := repo.Save(ctx, full); err != nil {
		t.Fatalf("Save full: %v", err)
	}

	ids, err := repo.ListJoinable(ctx)
	if err != nil {
		t.Fatalf("ListJoinable: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("expected exactly one joinable game, got %d", len(ids))
	}
}

func TestEncodeDecodeGameRoundtrip(t *testing.T) {
	g, err := truco.New("mesa", 1, truco.Config{Seed: 7})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g, err = g.Join(2)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	g, err = g.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	data, err := encodeGame(g)
	if err != nil {
		t.Fatalf("encodeGame: %v", err)
	}

	restored, err := decodeGame(data)
	if err != nil {
		t.Fatalf("decodeGame: %v", err)
	}
	if restored.State.PlayerTurn != g.State.PlayerTurn {
		t.Fatalf("playerTurn mismatch after roundtrip: got %v want %v", restored.State.PlayerTurn, g.State.PlayerTurn)
	}
	if len(restored.Events) != len(g.Events) {
		t.Fatalf("event count mismatch: got %d want %d", len(restored.Events), len(g.Events))
	}
}
