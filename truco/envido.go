package truco

import "truco-lite/card"

// isValidEnvidoCall checks call against the escalation chain represented
// by the calls already made this round.
func isValidEnvidoCall(calls []EnvidoCall, call EnvidoCall) bool {
	if len(calls) == 0 {
		return true
	}
	switch calls[len(calls)-1] {
	case Envido:
		if call == Envido {
			count := 0
			for _, c := range calls {
				if c == Envido {
					count++
				}
			}
			return count < 2
		}
		return call == RealEnvido || call == FaltaEnvido
	case RealEnvido:
		return call == FaltaEnvido
	default: // FaltaEnvido
		return false
	}
}

// CallEnvido opens or escalates the envido sub-protocol. A pending envido
// call does not block it: the responder may raise instead of answering. A
// pending truco call does.
func (g *Game) CallEnvido(userId PlayerId, call EnvidoCall) (*Game, error) {
	if err := g.checkTurn(userId); err != nil {
		return nil, err
	}
	if g.State.Truco.WaitingResponse {
		return nil, ErrWaitingResponse
	}
	if step(g.State, g.Players) != 1 {
		return nil, ErrInvalidStep
	}
	if !isValidEnvidoCall(g.State.Envido.Calls, call) {
		return nil, ErrInvalidEnvidoCall
	}

	state := g.State.clone()
	state.Envido.Calls = append(state.Envido.Calls, call)
	if state.Envido.FirstCaller == NoPlayer {
		state.Envido.FirstCaller = userId
	}
	state.Envido.LastCaller = userId
	state.Envido.WaitingResponse = true
	state.PlayerTurn = opponent(g.Players, userId)

	return g.withEvents(state, EnvidoCallEvent{Call: call, Caller: userId}), nil
}

// AnswerEnvido resolves the pending envido call.
func (g *Game) AnswerEnvido(userId PlayerId, accepted bool) (*Game, error) {
	if err := g.checkTurn(userId); err != nil {
		return nil, err
	}
	if !g.State.Envido.WaitingResponse {
		return nil, ErrNotWaitingResponse
	}

	winner, playersPoints := g.analyzeEnvido(accepted)

	state := g.State.clone()
	for p, pts := range playersPoints {
		state.Points[p] += pts
	}
	state.Envido.WaitingResponse = false
	state.Envido.AcceptedBy = userId
	state.Envido.Accepted = accepted
	state.Envido.Resolved = true
	state.Envido.Winner = winner
	state.Envido.PlayersPoints = playersPoints
	state.PlayerTurn = state.Envido.FirstCaller

	var event GameEvent
	if accepted {
		event = EnvidoAcceptedEvent{AcceptedBy: userId, Points: clonePoints(state.Points)}
	} else {
		event = EnvidoDeclinedEvent{DeclinedBy: userId, Points: clonePoints(state.Points)}
	}

	next := g.withEvents(state, event)
	if decided, ok := next.withWinnerResult(); ok {
		return decided, nil
	}
	return next, nil
}

// analyzeEnvido computes the envido winner and the points each player is
// to be awarded, without mutating state.
//
// FaltaEnvido's payout is defined against 2*MaxPoints rather than a
// hardcoded constant, generalizing the traditional "reach the match
// target" rule to a configurable MaxPoints.
func (g *Game) analyzeEnvido(accepted bool) (winner PlayerId, playersPoints map[PlayerId]int) {
	e := g.State.Envido
	playersPoints = map[PlayerId]int{g.Players[0]: 0, g.Players[1]: 0}

	if !accepted {
		winner = e.LastCaller
		playersPoints[winner] = len(e.Calls)
		return winner, playersPoints
	}

	p1, p2 := g.Players[0], g.Players[1]
	v1 := envidoValue(playerEnvidoUniverse(g.State, p1))
	v2 := envidoValue(playerEnvidoUniverse(g.State, p2))
	switch {
	case v1 > v2:
		winner = p1
	case v2 > v1:
		winner = p2
	default:
		winner = g.State.FirstPlayer
	}

	loser := opponent(g.Players, winner)
	awarded := 0
	for _, c := range e.Calls {
		if c == FaltaEnvido {
			awarded += 2*g.cfg.MaxPoints - g.State.Points[loser]
			continue
		}
		awarded += c.points()
	}
	playersPoints[winner] = awarded
	return winner, playersPoints
}

// playerEnvidoUniverse is the set of a player's own cards (still-held plus
// already thrown) their envido value is computed over.
func playerEnvidoUniverse(state GameState, p PlayerId) []card.Card {
	out := make([]card.Card, 0, 3)
	out = append(out, state.Cards[p]...)
	out = append(out, state.ThrownCards[p]...)
	return out
}
