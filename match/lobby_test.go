package match

import (
	"context"
	"testing"

	"truco-lite/repository"
	"truco-lite/truco"
)

func TestLobby_CreateAndJoin(t *testing.T) {
	repo := repository.NewMemoryRepository()
	lobby := New(repo, nil)
	ctx := context.Background()

	table, err := lobby.Create(ctx, "mesa", 1, truco.Config{Seed: 3})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer lobby.Close()

	ids, err := lobby.ListJoinable(ctx)
	if err != nil {
		t.Fatalf("ListJoinable: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("expected one joinable game, got %d", len(ids))
	}

	joined, err := lobby.Join(ctx, ids[0], 2)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if joined != table {
		t.Fatalf("expected Join to return the same table actor created above")
	}

	ids, err = lobby.ListJoinable(ctx)
	if err != nil {
		t.Fatalf("ListJoinable after join: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected no joinable games once full, got %d", len(ids))
	}
}

func TestLobby_BothPlayAgainStartsRematch(t *testing.T) {
	repo := repository.NewMemoryRepository()
	lobby := New(repo, nil)
	ctx := context.Background()

	table, err := lobby.Create(ctx, "mesa", 1, truco.Config{Seed: 5})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer lobby.Close()

	if _, err := lobby.Join(ctx, table.Id(), 2); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if res := table.Send(Event{Type: EventStart, UserId: 1}); res.Err != nil {
		t.Fatalf("Start: %v", res.Err)
	}

	// Force the match to a finished state without driving the full scoring
	// protocol; that sequencing is exercised in the truco package's own
	// tests, here only the rematch wiring is under test.
	g, err := repo.Load(ctx, table.Id())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	g.State.Winner = 1
	g.State.Points = map[truco.PlayerId]int{1: 15, 2: 14}
	if _, err := repo.Save(ctx, g); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if res := table.Send(Event{Type: EventPlayAgain, UserId: 1}); res.Err != nil {
		t.Fatalf("p1 PlayAgain: %v", res.Err)
	}

	lobby.mu.RLock()
	before := len(lobby.tables)
	lobby.mu.RUnlock()
	if before != 1 {
		t.Fatalf("expected exactly the original table before both signal, got %d", before)
	}

	if res := table.Send(Event{Type: EventPlayAgain, UserId: 2}); res.Err != nil {
		t.Fatalf("p2 PlayAgain: %v", res.Err)
	}

	lobby.mu.RLock()
	after := len(lobby.tables)
	lobby.mu.RUnlock()
	if after != 2 {
		t.Fatalf("expected a rematch table to have been started, got %d tables", after)
	}
}

func TestLobby_TableCollapsesConcurrentLoads(t *testing.T) {
	repo := repository.NewMemoryRepository()
	lobby := New(repo, nil)
	ctx := context.Background()

	if _, err := lobby.Create(ctx, "mesa", 1, truco.Config{Seed: 1}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	lobby.mu.Lock()
	var id uint64
	for gid := range lobby.tables {
		id = gid
	}
	delete(lobby.tables, id) // force a fresh load path
	lobby.mu.Unlock()

	results := make(chan *Table, 8)
	for i := 0; i < 8; i++ {
		go func() {
			tbl, err := lobby.Table(ctx, id)
			if err != nil {
				t.Errorf("Table: %v", err)
			}
			results <- tbl
		}()
	}

	var first *Table
	for i := 0; i < 8; i++ {
		tbl := <-results
		if first == nil {
			first = tbl
		} else if tbl != first {
			t.Fatalf("expected all concurrent loads to resolve to the same table actor")
		}
	}
}
