package session

// Role is the access level the remote API reported at login. Client-side
// role checks only gate which controls render; the server enforces
// authorization on every mutating call regardless.
type Role string

const (
	RoleGuest Role = "guest"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Session is the authenticated identity of this client. An empty token means
// guest; Role and Name carry meaning only alongside a non-empty token.
type Session struct {
	Token string
	Role  Role
	Name  string
}

// Guest is the zero-value session used before login and after logout.
func Guest() Session {
	return Session{Role: RoleGuest}
}

// Authenticated reports whether the session holds a token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// IsAdmin reports whether the session may render admin controls. Advisory
// only: a stale or forged token still gets rejected server-side.
func (s Session) IsAdmin() bool {
	return s.Authenticated() && s.Role == RoleAdmin
}
