package truco

import (
	"math/rand"
	"time"

	"truco-lite/card"
)

// dealHands draws two disjoint 3-card hands, one per player, from a freshly
// shuffled 40-card deck. rng is injected so tests can make the deal
// deterministic; production callers pass a time-seeded source.
func dealHands(rng *rand.Rand, players []PlayerId) map[PlayerId][]card.Card {
	deck := card.NewShuffledDeck(rng)
	hands := make(map[PlayerId][]card.Card, len(players))
	for _, p := range players {
		h, ok := deck.PopCards(3)
		if !ok {
			panic("truco: deck exhausted dealing hands")
		}
		hands[p] = h
	}
	return hands
}

// newRNG builds a production RNG from the configured seed, falling back to
// a time-based seed when unset.
func newRNG(cfg Config) *rand.Rand {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
