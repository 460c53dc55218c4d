package truco

// withWinnerResult checks whether either player has reached the match
// target and, if so, settles the match. Idempotent: once state.Winner is
// already set, it is a no-op.
//
// The player whose score reaches MaxPoints first wins; a tie (only
// possible off the regulation target) is broken in favor of the mano.
func (g *Game) withWinnerResult() (*Game, bool) {
	if g.State.Winner != NoPlayer {
		return g, false
	}

	p1, p2 := g.Players[0], g.Players[1]
	pts1, pts2 := g.State.Points[p1], g.State.Points[p2]
	if pts1 < g.cfg.MaxPoints && pts2 < g.cfg.MaxPoints {
		return g, false
	}

	winner := p1
	switch {
	case pts2 > pts1:
		winner = p2
	case pts2 == pts1:
		winner = g.State.FirstPlayer
	}

	state := g.State.clone()
	state.Winner = winner
	next := g.withEvents(state, ResultEvent{Winner: winner, Points: clonePoints(state.Points)})
	return next, true
}

// PlayAgain records userId's wish to start a rematch. Only valid once the
// match has a winner.
func (g *Game) PlayAgain(userId PlayerId) (*Game, error) {
	return g.recordRematchChoice(userId, RematchWantsPlayAgain)
}

// NoPlayAgain records userId's refusal to rematch.
func (g *Game) NoPlayAgain(userId PlayerId) (*Game, error) {
	return g.recordRematchChoice(userId, RematchRefuses)
}

func (g *Game) recordRematchChoice(userId PlayerId, choice RematchChoice) (*Game, error) {
	if g.State.Winner == NoPlayer {
		return nil, ErrGameNotFinished
	}
	if !g.hasPlayer(userId) {
		return nil, errInvalidState("rematch signal from a non-participant")
	}
	state := g.State.clone()
	state.Rematch[userId] = choice
	return g.withEvents(state, RematchSignalEvent{PlayerId: userId, Choice: choice}), nil
}

// RematchDecision reports the outcome of rematch negotiation once both
// players have signaled: (wantsRematch, bothDecided).
func (g *Game) RematchDecision() (bool, bool) {
	p1, p2 := g.Players[0], g.Players[1]
	c1, c2 := g.State.Rematch[p1], g.State.Rematch[p2]
	if c1 == RematchUndecided || c2 == RematchUndecided {
		return false, false
	}
	return c1 == RematchWantsPlayAgain && c2 == RematchWantsPlayAgain, true
}

func (g *Game) hasPlayer(userId PlayerId) bool {
	for _, p := range g.Players {
		if p == userId {
			return true
		}
	}
	return false
}
