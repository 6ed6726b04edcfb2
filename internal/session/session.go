// Package session persists the authenticated user and holds the current
// session for the lifetime of a process.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the authenticated user's identity and bearer token.
type Session struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Token string `json:"token,omitempty"`
}

// Expiry returns the exp claim of a JWT token.
// The signature is not verified; only the backend can do that.
// Returns the zero time for opaque tokens or tokens without exp.
func (s Session) Expiry() time.Time {
	if s.Token == "" {
		return time.Time{}
	}
	tok, _, err := jwt.NewParser().ParseUnverified(s.Token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}
	}
	exp, err := tok.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// Expired reports whether the token has a known expiry before now.
func (s Session) Expired(now time.Time) bool {
	exp := s.Expiry()
	return !exp.IsZero() && !now.Before(exp)
}
