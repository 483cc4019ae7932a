// Package session exposes the current actor identity to repositories that
// stamp ownership (authorUserId, uploadedBy, ownerUserId). It is a read-only
// lookup; nothing here ever mutates session state.
package session

import (
	"github.com/golang-jwt/jwt/v5"
)

// Session supplies the current actor id and the bearer credential.
type Session interface {
	UserID() string
	Token() string
}

type bearerSession struct {
	token  string
	userID string
}

func (s *bearerSession) UserID() string { return s.userID }
func (s *bearerSession) Token() string  { return s.token }

// FromBearer derives a Session from a bearer credential. The token is parsed
// without signature verification purely to read the subject claim; the
// backend remains the authority on validity. A token that does not parse
// yields an empty user id, not an error.
func FromBearer(token string) Session {
	s := &bearerSession{token: token}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return s
	}
	if sub, err := parsed.Claims.GetSubject(); err == nil {
		s.userID = sub
	}
	return s
}

// Static returns a fixed session, used by the in-memory driver and tests.
func Static(userID string) Session {
	return &bearerSession{userID: userID}
}
