package truco

// CallTruco opens or escalates the truco sub-protocol. The escalation
// chain (Truco < Retruco < ValeCuatro) is enforced by requiring the call's
// value to be exactly one above the round's current value, and once a
// call has been accepted only the other side may escalate further.
func (g *Game) CallTruco(userId PlayerId, call TrucoCall) (*Game, error) {
	if err := g.checkTurn(userId); err != nil {
		return nil, err
	}
	if err := g.checkNotWaitingResponse(); err != nil {
		return nil, err
	}
	if call.value() != g.State.TrucoPoints+1 {
		return nil, ErrInvalidTrucoCall
	}
	if g.State.TrucoPoints > 1 && userId == g.State.Truco.Caller {
		return nil, ErrInvalidTrucoCall
	}

	state := g.State.clone()
	state.Truco.Level = call
	state.Truco.Caller = userId
	state.Truco.WaitingResponse = true
	state.PlayerTurn = opponent(g.Players, userId)

	return g.withEvents(state, TrucoCallEvent{Call: call, Caller: userId}), nil
}

// AnswerTruco resolves the pending truco call. Declining forfeits the
// round at its value before this call; accepting raises the round's value
// and returns the turn to the caller.
func (g *Game) AnswerTruco(userId PlayerId, accepted bool) (*Game, error) {
	if err := g.checkTurn(userId); err != nil {
		return nil, err
	}
	if !g.State.Truco.WaitingResponse {
		return nil, ErrNotWaitingResponse
	}

	call := g.State.Truco.Level
	caller := g.State.Truco.Caller

	if !accepted {
		state := g.State.clone()
		state.Truco.WaitingResponse = false
		next := g.withEvents(state, TrucoDeclineEvent{DeclinedBy: userId, Call: call})
		return next.setRoundWinner(caller), nil
	}

	state := g.State.clone()
	state.TrucoPoints = call.value()
	state.Truco.WaitingResponse = false
	state.PlayerTurn = caller

	return g.withEvents(state, TrucoAcceptEvent{AcceptedBy: userId, Call: call}), nil
}
