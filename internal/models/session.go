package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the ephemeral authenticated-identity triple persisted
// between runs: token, role, and user id. It is created on successful
// login, destroyed on logout, and read before every protected view.
type Session struct {
	Token  string
	Role   Role
	UserID uint
}

// Complete reports whether every session field is present. The three
// fields are all-or-nothing: a token without a role (or vice versa)
// reads as logged out.
func (s *Session) Complete() bool {
	return s != nil && s.Token != "" && s.Role != "" && s.UserID != 0
}

// Expired inspects the token's exp claim without verifying the
// signature; verification is the server's job, the client only wants to
// avoid presenting a token it knows is dead. Tokens that do not parse
// or carry no expiry are treated as unexpired and left for the server
// to reject.
func (s *Session) Expired(now time.Time) bool {
	if s == nil || s.Token == "" {
		return true
	}
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(s.Token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return now.After(exp.Time)
}
