package dialog

import "sync"

// Tracker holds the volatile dialog state per user. Durable positions
// live in the checkpoint store; this map only drives routing within a
// process lifetime.
type Tracker struct {
	mu     sync.Mutex
	states map[int64]State
}

func NewTracker() *Tracker {
	return &Tracker{states: make(map[int64]State)}
}

func (t *Tracker) State(userID int64) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.states[userID]
}

func (t *Tracker) Set(userID int64, s State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s == StateNone {
		delete(t.states, userID)
		return
	}
	t.states[userID] = s
}

// InProgress reports whether the user has an active dialog, which gives
// the conversation engine priority over command matching for free text.
func (t *Tracker) InProgress(userID int64) bool {
	return t.State(userID) != StateNone
}
