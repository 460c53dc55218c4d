package truco

import "truco-lite/card"

// Join seats the second player and returns the joined Game. No event is
// emitted; the lobby layer observes the join through the repository.
func (g *Game) Join(userId PlayerId) (*Game, error) {
	if g.State.Started {
		return nil, ErrGameAlreadyStarted
	}
	if len(g.Players) != 1 {
		return nil, ErrGameFull
	}
	if g.Players[0] == userId {
		return nil, errInvalidState("creator cannot join their own game")
	}

	return &Game{
		Id:      g.Id,
		Name:    g.Name,
		Players: append(append([]PlayerId(nil), g.Players...), userId),
		State:   g.State.clone(),
		Events:  append([]GameEvent(nil), g.Events...),
		cfg:     g.cfg,
		rng:     g.rng,
	}, nil
}

// Start deals the first round and begins the match.
func (g *Game) Start() (*Game, error) {
	if g.State.Started {
		return nil, ErrGameAlreadyStarted
	}
	if len(g.Players) != 2 {
		return nil, ErrGameNotStarted
	}

	p1, p2 := g.Players[0], g.Players[1]
	state := g.State.clone()
	state.Started = true
	state.FirstPlayer = p1
	state.PlayerTurn = p1
	state.Round = 1
	state.TrucoPoints = 1
	state.Points = map[PlayerId]int{p1: 0, p2: 0}
	state.ThrownCards = map[PlayerId][]card.Card{p1: nil, p2: nil}
	hands := dealHands(g.rng, g.Players)
	state.Cards = hands

	return g.withEvents(state,
		StartEvent{},
		NextRoundEvent{Round: state.Round, Cards: cloneHands(hands), NextPlayerId: state.FirstPlayer},
	), nil
}

// ThrowCard plays c from userId's hand face up.
func (g *Game) ThrowCard(userId PlayerId, c card.Card) (*Game, error) {
	if err := g.checkTurn(userId); err != nil {
		return nil, err
	}
	if err := g.checkNotWaitingResponse(); err != nil {
		return nil, err
	}

	hand := g.State.Cards[userId]
	idx := -1
	for i, hc := range hand {
		if hc == c {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrInvalidCard
	}

	state := g.State.clone()
	newHand := append(append([]card.Card{}, hand[:idx]...), hand[idx+1:]...)
	state.Cards[userId] = newHand
	state.ThrownCards[userId] = append(state.ThrownCards[userId], c)

	nextPlayer := setNextTurnPlayer(state, g.Players)
	state.PlayerTurn = nextPlayer

	next := g.withEvents(state, ThrowCardEvent{PlayerId: userId, Card: c, NextPlayerId: nextPlayer})
	return next.withRoundWinnerValidation(), nil
}
