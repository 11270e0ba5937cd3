package session

import "time"

// UserSummary is the identity slice of the logged-in artist that the portal
// keeps client-side. The full profile stays server-owned and is fetched per
// page view.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

// Session is the client-held authentication state: tokens plus user identity.
// The zero value is the anonymous session.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *UserSummary
	TokenExpiry  time.Time // zero when the access token is opaque
}

// Authenticated reports whether the session is usable for authenticated
// requests. True iff both an access token and a user identity are present,
// never one without the other.
func (s Session) Authenticated() bool {
	return s.AccessToken != "" && s.User != nil
}
