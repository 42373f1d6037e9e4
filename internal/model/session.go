package model

// Session is the single-user auth aggregate: the authenticated flag plus
// the connected-accounts map. The map always carries all three platform
// keys; a nil value means disconnected.
type Session struct {
	Authenticated     bool                  `json:"authenticated"`
	ConnectedAccounts map[Platform]*Account `json:"connectedAccounts"`
}

func NewSession() *Session {
	return &Session{
		ConnectedAccounts: emptyAccounts(),
	}
}

func emptyAccounts() map[Platform]*Account {
	accounts := make(map[Platform]*Account, 3)
	for _, p := range AllPlatforms() {
		accounts[p] = nil
	}
	return accounts
}

// Reset returns the session to its logged-out state: unauthenticated,
// every platform disconnected.
func (s *Session) Reset() {
	s.Authenticated = false
	s.ConnectedAccounts = emptyAccounts()
}

func (s *Session) Connected(p Platform) bool {
	return s.ConnectedAccounts[p] != nil
}

// Clone returns a deep copy so callers can hand session snapshots out
// without exposing the mutable aggregate.
func (s *Session) Clone() *Session {
	out := &Session{
		Authenticated:     s.Authenticated,
		ConnectedAccounts: make(map[Platform]*Account, len(s.ConnectedAccounts)),
	}
	for p, acct := range s.ConnectedAccounts {
		if acct == nil {
			out.ConnectedAccounts[p] = nil
			continue
		}
		c := *acct
		out.ConnectedAccounts[p] = &c
	}
	return out
}

// LoginRecord is the value stored under the user-auth key. It is opaque to
// the load path: only the record's presence marks the session as
// authenticated, the fields are never re-validated.
type LoginRecord struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	LoggedIn bool   `json:"loggedIn"`
}
