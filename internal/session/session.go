// Package session tracks which account is current for the interactive
// session. The value is owned by main and passed by reference; it is never
// persisted.
package session

type Session struct {
	currentUser string
}

func New() *Session {
	return &Session{}
}

// CurrentUser returns the authenticated username, if any.
func (s *Session) CurrentUser() (string, bool) {
	return s.currentUser, s.currentUser != ""
}

func (s *Session) Authenticated() bool {
	return s.currentUser != ""
}

func (s *Session) SetCurrentUser(username string) {
	s.currentUser = username
}

// Clear resets the session to anonymous. Idempotent.
func (s *Session) Clear() {
	s.currentUser = ""
}
