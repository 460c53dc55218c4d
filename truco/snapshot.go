package truco

// Snapshot is a read-only, deep-copied view of a Game at a point in time.
type Snapshot struct {
	Id      uint64
	Name    string
	Players []PlayerId
	State   GameState
}

// Snapshot captures the current state for the orchestration layer to diff
// against on the next transition.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Id:      g.Id,
		Name:    g.Name,
		Players: g.PlayerIds(),
		State:   g.State.clone(),
	}
}

// EventLogLen is the current length of the event log, to be passed back
// into GetNewEvents on the next transition.
func (g *Game) EventLogLen() int {
	return len(g.Events)
}

// GetNewEvents returns the events appended since priorLen, i.e. since the
// caller last observed the log. Used by the orchestration layer to push
// only what changed to the transport.
func (g *Game) GetNewEvents(priorLen int) []GameEvent {
	if priorLen < 0 || priorLen > len(g.Events) {
		priorLen = 0
	}
	out := make([]GameEvent, len(g.Events)-priorLen)
	copy(out, g.Events[priorLen:])
	return out
}
