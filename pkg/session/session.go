package session

import (
	"sync"
)

// Session holds the "current database" a client is working against.
// Registry operations never consult a Session; callers resolve the
// database name first and pass it explicitly.
type Session struct {
	mu        sync.RWMutex
	currentDB string
}

var (
	defaultSession *Session
	defaultOnce    sync.Once
)

// New creates a session with no current database.
func New() *Session {
	return &Session{}
}

// Default returns the bootstrap session. It is created on first use and
// lives for the rest of the process.
func Default() *Session {
	defaultOnce.Do(func() {
		defaultSession = New()
	})
	return defaultSession
}

// CurrentDB returns the name of the database the session is using.
func (s *Session) CurrentDB() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentDB
}

// SetCurrentDB switches the session to the named database.
func (s *Session) SetCurrentDB(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentDB = name
}

// SessionEvent is one request flowing through the SQL pipeline: the session
// it belongs to plus the slot its textual response is written into.
type SessionEvent struct {
	session  *Session
	response string
}

// NewSessionEvent binds an event to s. A nil s means the bootstrap session.
func NewSessionEvent(s *Session) *SessionEvent {
	if s == nil {
		s = Default()
	}
	return &SessionEvent{session: s}
}

// Session returns the session the event belongs to.
func (e *SessionEvent) Session() *Session {
	return e.session
}

// SetResponse records the response text for this event.
func (e *SessionEvent) SetResponse(response string) {
	e.response = response
}

// Response returns the text written by SetResponse.
func (e *SessionEvent) Response() string {
	return e.response
}
