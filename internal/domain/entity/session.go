package entity

// Session is the per-run authentication state shared read-only by all collectors
type Session struct {
	// Token is sent as the token query parameter; empty for anonymous sessions
	Token string
}

// Anonymous reports whether the session carries no token
func (s Session) Anonymous() bool {
	return s.Token == ""
}
