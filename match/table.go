// Package match wraps a *truco.Game in a per-game actor, serializing every
// transition through a single goroutine and persisting the result through a
// repository.Repository. The truco package itself stays pure and knows
// nothing about concurrency or storage.
package match

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"truco-lite/card"
	"truco-lite/repository"
	"truco-lite/truco"
)

var ErrTableClosed = errors.New("table closed")

// EventType is the kind of message sent to a Table's actor loop.
type EventType int

const (
	EventJoin EventType = iota
	EventStart
	EventThrowCard
	EventCallEnvido
	EventAnswerEnvido
	EventCallTruco
	EventAnswerTruco
	EventGoToDeck
	EventPlayAgain
	EventNoPlayAgain
	EventForfeitTimeout
	EventReplay
	EventClose
)

// Event is a single message handled by the Table actor. Response, if set,
// receives the outcome before the caller proceeds.
type Event struct {
	Type       EventType
	UserId     truco.PlayerId
	Card       card.Card
	EnvidoCall truco.EnvidoCall
	TrucoCall  truco.TrucoCall
	Accepted   bool
	Response   chan Result
}

// Result is what a Table reports back for a handled Event: the new events
// appended by the transition (unfiltered; per-connection filtering is done
// by the transport layer, not here), or an error.
type Result struct {
	Game   *truco.Game
	Events []truco.GameEvent
	Err    error
}

// Table is a single game's actor: every transition is processed by exactly
// one goroutine, so there is never a lost-update race between two requests
// for the same game id.
type Table struct {
	id   uint64
	repo repository.Repository

	events chan Event
	done   chan struct{}

	broadcast func(gameId uint64, userId truco.PlayerId, events []truco.GameEvent)

	// startRematch spins up a follow-up game sharing the same two players,
	// once both have signaled they want one. Supplied by the Lobby, which
	// owns game creation; the Table only detects the decision.
	startRematch func(players []truco.PlayerId) error

	lastSeen map[truco.PlayerId]time.Time
}

const disconnectForfeitTTL = 2 * time.Minute

// newTable starts a Table actor for an already-persisted game id. broadcast
// is called after every successful transition with the newly appended
// events, once per participant; the transport layer decides how to filter
// NEXT_ROUND hands down to the addressee before sending. startRematch may be
// nil (e.g. in tests that don't exercise rematch negotiation).
func newTable(id uint64, repo repository.Repository, broadcast func(uint64, truco.PlayerId, []truco.GameEvent), startRematch func(players []truco.PlayerId) error) *Table {
	t := &Table{
		id:           id,
		repo:         repo,
		events:       make(chan Event, 64),
		done:         make(chan struct{}),
		broadcast:    broadcast,
		startRematch: startRematch,
		lastSeen:     make(map[truco.PlayerId]time.Time),
	}
	go t.run()
	return t
}

func (t *Table) Close() {
	close(t.done)
}

// Id returns the game id this table's actor serves.
func (t *Table) Id() uint64 { return t.id }

// Touch records that userId's connection is alive, resetting its
// disconnect-to-forfeit countdown.
func (t *Table) Touch(userId truco.PlayerId) {
	resp := make(chan Result, 1)
	t.events <- Event{Type: EventForfeitTimeout, UserId: userId, Response: resp}
	<-resp
}

func (t *Table) run() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case e := <-t.events:
			res := t.handle(e)
			if e.Response != nil {
				e.Response <- res
			}
		case <-ticker.C:
			t.checkForfeits()
		case <-t.done:
			return
		}
	}
}

func (t *Table) handle(e Event) Result {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if e.Type == EventForfeitTimeout && e.Response != nil {
		t.lastSeen[e.UserId] = time.Now()
		return Result{}
	}

	if e.Type == EventReplay {
		g, err := t.repo.Load(ctx, t.id)
		if err != nil {
			return Result{Err: err}
		}
		return Result{Game: g, Events: g.GetNewEvents(0)}
	}

	g, err := t.repo.Load(ctx, t.id)
	if err != nil {
		return Result{Err: err}
	}
	before := g.EventLogLen()

	next, err := t.apply(g, e)
	if err != nil {
		return Result{Err: err}
	}

	if _, err := t.repo.Save(ctx, next); err != nil {
		return Result{Err: fmt.Errorf("save game %d: %w", t.id, err)}
	}

	t.lastSeen[e.UserId] = time.Now()

	newEvents := next.GetNewEvents(before)
	if t.broadcast != nil {
		for _, p := range next.PlayerIds() {
			t.broadcast(t.id, p, newEvents)
		}
	}

	if e.Type == EventPlayAgain || e.Type == EventNoPlayAgain {
		if wants, decided := next.RematchDecision(); decided && wants && t.startRematch != nil {
			if err := t.startRematch(next.PlayerIds()); err != nil {
				log.Printf("[table %d] rematch creation failed: %v", t.id, err)
			}
		}
	}

	return Result{Game: next, Events: newEvents}
}

func (t *Table) apply(g *truco.Game, e Event) (*truco.Game, error) {
	switch e.Type {
	case EventJoin:
		return g.Join(e.UserId)
	case EventStart:
		return g.Start()
	case EventThrowCard:
		return g.ThrowCard(e.UserId, e.Card)
	case EventCallEnvido:
		return g.CallEnvido(e.UserId, e.EnvidoCall)
	case EventAnswerEnvido:
		return g.AnswerEnvido(e.UserId, e.Accepted)
	case EventCallTruco:
		return g.CallTruco(e.UserId, e.TrucoCall)
	case EventAnswerTruco:
		return g.AnswerTruco(e.UserId, e.Accepted)
	case EventGoToDeck:
		return g.GoToDeck(e.UserId)
	case EventPlayAgain:
		return g.PlayAgain(e.UserId)
	case EventNoPlayAgain:
		return g.NoPlayAgain(e.UserId)
	default:
		return nil, fmt.Errorf("unhandled event type %d", e.Type)
	}
}

// checkForfeits calls GoToDeck on behalf of any seated player whose
// connection has been silent past disconnectForfeitTTL. The transport layer
// is expected to call Touch on every inbound message; absent that, a
// player who simply closes their client forfeits the round rather than
// freezing the match forever.
func (t *Table) checkForfeits() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	g, err := t.repo.Load(ctx, t.id)
	if err != nil || !g.State.Started {
		return
	}

	now := time.Now()
	for _, p := range g.PlayerIds() {
		seen, ok := t.lastSeen[p]
		if !ok || now.Sub(seen) < disconnectForfeitTTL {
			continue
		}
		before := g.EventLogLen()
		next, err := g.GoToDeck(p)
		if err != nil {
			continue
		}
		if _, err := t.repo.Save(ctx, next); err != nil {
			log.Printf("[table %d] forfeit save failed: %v", t.id, err)
			continue
		}
		log.Printf("[table %d] player %d forfeited round by disconnect timeout", t.id, p)
		newEvents := next.GetNewEvents(before)
		if t.broadcast != nil {
			for _, pid := range next.PlayerIds() {
				t.broadcast(t.id, pid, newEvents)
			}
		}
		delete(t.lastSeen, p)
		return
	}
}

// Send dispatches e to the actor and blocks for its Result.
func (t *Table) Send(e Event) Result {
	resp := make(chan Result, 1)
	e.Response = resp
	select {
	case t.events <- e:
		return <-resp
	case <-t.done:
		return Result{Err: ErrTableClosed}
	}
}
