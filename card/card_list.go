package card

import "math/rand"

type CardList []Card

func (ds *CardList) Init(cards []Card) {
	*ds = make([]Card, len(cards))
	copy(*ds, cards)
}

// Count returns the number of cards remaining.
func (ds CardList) Count() int {
	return len(ds)
}

// Shuffle permutes the list in place using rng. Callers own the RNG so that
// deals can be made deterministic in tests.
func (ds CardList) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(ds), func(i, j int) {
		ds[i], ds[j] = ds[j], ds[i]
	})
}

func (ds *CardList) PopCards(size int) ([]Card, bool) {
	if size > ds.Count() {
		return nil, false
	}
	cards := make([]Card, size)
	copy(cards, (*ds)[:size])
	*ds = (*ds)[size:]
	return cards, true
}

// NewShuffledDeck returns a freshly shuffled copy of the full 40-card deck.
func NewShuffledDeck(rng *rand.Rand) CardList {
	var deck CardList
	deck.Init(FullDeck)
	deck.Shuffle(rng)
	return deck
}
