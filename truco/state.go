package truco

import (
	"math/rand"

	"truco-lite/card"
)

// GameState is the mutable-looking, but always copy-on-write, heart of a
// Game. Every transition produces a new GameState; nothing here is ever
// mutated in place once it is reachable from a published Game.
type GameState struct {
	Started     bool
	FirstPlayer PlayerId
	PlayerTurn  PlayerId
	Winner      PlayerId
	Round       int
	Cards       map[PlayerId][]card.Card
	ThrownCards map[PlayerId][]card.Card
	TrucoPoints int
	Points      map[PlayerId]int
	Envido      EnvidoNegotiation
	Truco       TrucoNegotiation
	Rematch     map[PlayerId]RematchChoice
}

// clone deep-copies the state so a transition can build its successor by
// mutating the copy freely.
func (s GameState) clone() GameState {
	c := s
	c.Cards = cloneCardMap(s.Cards)
	c.ThrownCards = cloneCardMap(s.ThrownCards)
	c.Points = make(map[PlayerId]int, len(s.Points))
	for k, v := range s.Points {
		c.Points[k] = v
	}
	c.Envido = s.Envido.clone()
	c.Truco = s.Truco.clone()
	c.Rematch = make(map[PlayerId]RematchChoice, len(s.Rematch))
	for k, v := range s.Rematch {
		c.Rematch[k] = v
	}
	return c
}

func cloneCardMap(m map[PlayerId][]card.Card) map[PlayerId][]card.Card {
	out := make(map[PlayerId][]card.Card, len(m))
	for k, v := range m {
		out[k] = append([]card.Card(nil), v...)
	}
	return out
}

// opponent returns the other player id from the two-element players list.
func opponent(players []PlayerId, id PlayerId) PlayerId {
	for _, p := range players {
		if p != id {
			return p
		}
	}
	return NoPlayer
}

// Game is the immutable aggregate. Every exported transition method
// returns a new *Game (or an error, leaving the receiver untouched).
type Game struct {
	Id      uint64
	Name    string
	Players []PlayerId
	State   GameState
	Events  []GameEvent
	cfg     Config
	rng     *rand.Rand
}

// New creates a Game with a single player, id 0 (meaning unpersisted; the
// repository assigns a real id on first save).
func New(name string, creator PlayerId, cfg Config) (*Game, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Game{
		Name:    name,
		Players: []PlayerId{creator},
		State: GameState{
			Points:  map[PlayerId]int{},
			Rematch: map[PlayerId]RematchChoice{},
		},
		cfg: cfg,
		rng: newRNG(cfg),
	}, nil
}

// Restore rebuilds a Game from persisted fields, e.g. after loading it
// from the repository. The event log is taken as-is; callers that loaded
// it from storage are expected to have decoded it with DecodeEvents.
func Restore(id uint64, name string, players []PlayerId, state GameState, events []GameEvent, cfg Config) (*Game, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Game{
		Id:      id,
		Name:    name,
		Players: players,
		State:   state,
		Events:  events,
		cfg:     cfg,
		rng:     newRNG(cfg),
	}, nil
}

// Config returns the match configuration this Game was created with.
func (g *Game) Config() Config { return g.cfg }

// WithId returns a copy of g with its Id set. Used by the repository to
// assign a real id to a freshly created, unpersisted (Id==0) Game.
func (g *Game) WithId(id uint64) *Game {
	next := *g
	next.Id = id
	return &next
}

// CanJoin reports whether userId may join this game as the second player.
func (g *Game) CanJoin(userId PlayerId) bool {
	return !g.State.Started && len(g.Players) == 1 && g.Players[0] != userId
}

// PlayerIds returns the (up to two) participants, in join order.
func (g *Game) PlayerIds() []PlayerId {
	out := make([]PlayerId, len(g.Players))
	copy(out, g.Players)
	return out
}

// withEvents returns a shallow copy of g with additional events appended.
// Used internally by every transition to build the successor Game.
func (g *Game) withEvents(state GameState, events ...GameEvent) *Game {
	next := &Game{
		Id:      g.Id,
		Name:    g.Name,
		Players: append([]PlayerId(nil), g.Players...),
		State:   state,
		Events:  append(append([]GameEvent(nil), g.Events...), events...),
		cfg:     g.cfg,
		rng:     g.rng,
	}
	return next
}
