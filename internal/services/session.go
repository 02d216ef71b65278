package services

import (
	"sync"
)

// Step is one node of the order-flow state machine.
type Step string

// Order flow steps
const (
	StepIdle          Step = "idle"
	StepPlatform      Step = "platform"
	StepQuantity      Step = "quantity"
	StepURL           Step = "url"
	StepContentChoice Step = "content_choice"
	StepInstructions  Step = "instructions"
	StepRecap         Step = "recap"
	StepConfirm       Step = "confirm"
)

// Awaiting names the free-text field the next inbound message should fill.
// It disambiguates text entry from button-only steps.
type Awaiting string

// Awaiting markers
const (
	AwaitingNone         Awaiting = ""
	AwaitingQuantity     Awaiting = "quantity"
	AwaitingURL          Awaiting = "url"
	AwaitingInstructions Awaiting = "instructions"
)

// OrderDraft accumulates the fields of an in-progress order across steps.
type OrderDraft struct {
	Platform          string
	Quantity          int
	TargetLink        string
	ContentGeneration bool
	ContentChosen     bool
	Instructions      string
}

// ReadyForContentChoice reports whether platform, quantity and target link
// are all set. Content authorship cannot be chosen before that.
func (d *OrderDraft) ReadyForContentChoice() bool {
	return d.Platform != "" && d.Quantity >= 1 && d.TargetLink != ""
}

// ClientSession is the per-user conversational state. It lives only for the
// process lifetime; there is no durable conversation continuity.
type ClientSession struct {
	UserID        string
	CurrentStep   Step
	Draft         OrderDraft
	SupportMode   bool
	SupportTicket string
	Awaiting      Awaiting
}

// Reset returns the session to its default idle state: draft discarded,
// support mode cleared.
func (s *ClientSession) Reset() {
	s.CurrentStep = StepIdle
	s.Draft = OrderDraft{}
	s.SupportMode = false
	s.SupportTicket = ""
	s.Awaiting = AwaitingNone
}

type sessionEntry struct {
	mu      sync.Mutex
	session ClientSession
}

// SessionStore owns all per-user conversational state. Access for a given
// user is linearized through the entry mutex; different users never contend
// beyond the brief map lookup.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

// NewSessionStore creates an empty session store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*sessionEntry),
	}
}

func (st *SessionStore) entry(userID string) *sessionEntry {
	st.mu.RLock()
	e, exists := st.sessions[userID]
	st.mu.RUnlock()
	if exists {
		return e
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if e, exists = st.sessions[userID]; exists {
		return e
	}
	e = &sessionEntry{session: ClientSession{UserID: userID, CurrentStep: StepIdle}}
	st.sessions[userID] = e
	return e
}

// Update runs fn against the user's session under the session lock.
// The session is created in its default idle state on first use. Concurrent
// updates for the same user are applied one after the other; fn always
// observes the previous update's completed state.
func (st *SessionStore) Update(userID string, fn func(*ClientSession)) {
	e := st.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.session)
}

// Snapshot returns a copy of the user's current session.
func (st *SessionStore) Snapshot(userID string) ClientSession {
	e := st.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

// Reset discards the user's draft and returns the session to idle.
func (st *SessionStore) Reset(userID string) {
	st.Update(userID, func(s *ClientSession) {
		s.Reset()
	})
}

// ActiveCount returns the number of tracked sessions (for monitoring).
func (st *SessionStore) ActiveCount() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
