package truco

import "truco-lite/card"

// step is the one-based index of the current trick: min throw count + 1,
// clamped to the valid range {1,2,3}.
func step(state GameState, players []PlayerId) int {
	n1 := len(state.ThrownCards[players[0]])
	n2 := len(state.ThrownCards[players[1]])
	m := n1
	if n2 < m {
		m = n2
	}
	s := m + 1
	if s > 3 {
		s = 3
	}
	return s
}

type trickResult byte

const (
	trickP1 trickResult = iota
	trickP2
	trickDraw
)

// roundWinner consults the tricks thrown so far and returns a winner only
// once the outcome is mathematically decided under best-of-three trick
// taking, with mano winning ties needed for tie-break purposes.
func roundWinner(players []PlayerId, thrown map[PlayerId][]card.Card, mano PlayerId) (PlayerId, bool) {
	p1, p2 := players[0], players[1]
	n1, n2 := len(thrown[p1]), len(thrown[p2])
	n := n1
	if n2 < n {
		n = n2
	}
	if n == 0 {
		return NoPlayer, false
	}

	results := make([]trickResult, n)
	for i := 0; i < n; i++ {
		v1 := cardTrucoValue(thrown[p1][i])
		v2 := cardTrucoValue(thrown[p2][i])
		switch {
		case v1 > v2:
			results[i] = trickP1
		case v2 > v1:
			results[i] = trickP2
		default:
			results[i] = trickDraw
		}
	}

	byResult := func(r trickResult) PlayerId {
		if r == trickP1 {
			return p1
		}
		return p2
	}

	wins1, wins2 := 0, 0
	for _, r := range results {
		switch r {
		case trickP1:
			wins1++
		case trickP2:
			wins2++
		}
	}
	if wins1 >= 2 {
		return p1, true
	}
	if wins2 >= 2 {
		return p2, true
	}

	switch n {
	case 3:
		if wins1 == wins2 {
			// A tie after three tricks is either a triple parda (mano
			// wins) or exactly one parda with the other two split
			// between the players, in which case the first decided
			// trick's winner takes the round, not whoever is mano.
			for _, r := range results {
				if r != trickDraw {
					return byResult(r), true
				}
			}
			return mano, true
		}
		if wins1 > wins2 {
			return p1, true
		}
		return p2, true
	case 2:
		if results[0] == trickDraw && results[1] != trickDraw {
			return byResult(results[1]), true
		}
		if results[1] == trickDraw && results[0] != trickDraw {
			return byResult(results[0]), true
		}
		return NoPlayer, false
	default: // n == 1
		return NoPlayer, false
	}
}

// setNextTurnPlayer decides who acts next after a card throw. When both
// players have thrown the same number of cards the trick is complete: the
// trick winner leads next, or on a parda the turn simply swaps. When the
// counts differ, whoever is behind must catch up.
func setNextTurnPlayer(state GameState, players []PlayerId) PlayerId {
	p1, p2 := players[0], players[1]
	n1, n2 := len(state.ThrownCards[p1]), len(state.ThrownCards[p2])
	if n1 != n2 {
		if n1 < n2 {
			return p1
		}
		return p2
	}
	if n1 == 0 {
		return state.PlayerTurn
	}
	last1 := state.ThrownCards[p1][n1-1]
	last2 := state.ThrownCards[p2][n2-1]
	v1, v2 := cardTrucoValue(last1), cardTrucoValue(last2)
	switch {
	case v1 > v2:
		return p1
	case v2 > v1:
		return p2
	default:
		return opponent(players, state.PlayerTurn)
	}
}

// withRoundWinnerValidation checks whether the round just became decided
// and, if so, settles it.
func (g *Game) withRoundWinnerValidation() *Game {
	winner, ok := roundWinner(g.Players, g.State.ThrownCards, g.State.FirstPlayer)
	if !ok {
		return g
	}
	return g.setRoundWinner(winner)
}

// setRoundWinner awards the current trucoPoints to winner and advances the
// match.
func (g *Game) setRoundWinner(winner PlayerId) *Game {
	state := g.State.clone()
	state.Points[winner] += state.TrucoPoints
	next := g.withEvents(state, RoundResultEvent{Winner: winner, Points: clonePoints(state.Points)})
	return next.withNextRoundOrWin()
}

// withNextRoundOrWin checks for a match winner; if none, deals the next
// round.
func (g *Game) withNextRoundOrWin() *Game {
	if decided, ok := g.withWinnerResult(); ok {
		return decided
	}

	state := g.State.clone()
	state.Round++
	state.FirstPlayer = opponent(g.Players, state.FirstPlayer)
	state.PlayerTurn = state.FirstPlayer
	state.ThrownCards = map[PlayerId][]card.Card{
		g.Players[0]: nil,
		g.Players[1]: nil,
	}
	state.TrucoPoints = 1
	state.Envido = EnvidoNegotiation{}
	state.Truco = TrucoNegotiation{}
	hands := dealHands(g.rng, g.Players)
	state.Cards = hands

	return g.withEvents(state, NextRoundEvent{
		Round:        state.Round,
		Cards:        cloneHands(hands),
		NextPlayerId: state.FirstPlayer,
	})
}

// GoToDeck lets userId concede the current round. The opponent wins at the
// round's current value.
func (g *Game) GoToDeck(userId PlayerId) (*Game, error) {
	if err := g.checkTurn(userId); err != nil {
		return nil, err
	}
	if err := g.checkNotWaitingResponse(); err != nil {
		return nil, err
	}

	winner := opponent(g.Players, userId)
	next := g.withEvents(g.State.clone(), ToDeckEvent{PlayerId: userId})
	return next.setRoundWinner(winner), nil
}

func clonePoints(m map[PlayerId]int) map[PlayerId]int {
	out := make(map[PlayerId]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneHands(m map[PlayerId][]card.Card) map[PlayerId][]card.Card {
	out := make(map[PlayerId][]card.Card, len(m))
	for k, v := range m {
		out[k] = append([]card.Card(nil), v...)
	}
	return out
}
