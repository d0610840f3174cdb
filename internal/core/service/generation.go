package service

import "sync/atomic"

// generation orders overlapping session operations. Every operation takes a
// token when it starts; its result may commit only if no operation that
// started later has committed already.
type generation struct {
	next      atomic.Uint64
	committed uint64
}

func (g *generation) issue() uint64 {
	return g.next.Add(1)
}

// admit records tok as committed when it is newer than the last commit.
// Callers hold the owning state machine's lock.
func (g *generation) admit(tok uint64) bool {
	if tok <= g.committed {
		return false
	}
	g.committed = tok
	return true
}
