package scheduler

import "time"

// State is the scheduler's in-memory escalation bookkeeping. It is owned by
// exactly one Scheduler, constructed empty at daemon start and discarded on
// exit: after a restart every still-overdue reminder notifies afresh.
type State struct {
	notified  map[int64]struct{}
	lastNudge map[int64]time.Time
}

// NewState creates empty escalation state.
func NewState() *State {
	return &State{
		notified:  make(map[int64]struct{}),
		lastNudge: make(map[int64]time.Time),
	}
}

// Notified reports whether the reminder has already received its one
// initial notification during this process's lifetime.
func (s *State) Notified(id int64) bool {
	_, ok := s.notified[id]
	return ok
}

// MarkNotified records that the reminder's initial notification has been
// claimed. Called before the dispatch side effect so a slow or failing
// dispatch cannot double-notify on the next tick.
func (s *State) MarkNotified(id int64) {
	s.notified[id] = struct{}{}
}

// LastNudge returns the time of the reminder's most recent escalation.
func (s *State) LastNudge(id int64) (time.Time, bool) {
	t, ok := s.lastNudge[id]
	return t, ok
}

// RecordNudge records an escalation at the given time.
func (s *State) RecordNudge(id int64, t time.Time) {
	s.lastNudge[id] = t
}
