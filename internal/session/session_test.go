package session

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func TestFromBearerReadsSubject(t *testing.T) {
	tok := signedToken(t, jwt.MapClaims{"sub": "user-123", "role": "service_role"})
	s := FromBearer(tok)
	if s.UserID() != "user-123" {
		t.Fatalf("UserID: %q", s.UserID())
	}
	if s.Token() != tok {
		t.Fatalf("Token not preserved")
	}
}

func TestFromBearerWithoutSubject(t *testing.T) {
	tok := signedToken(t, jwt.MapClaims{"role": "anon"})
	if got := FromBearer(tok).UserID(); got != "" {
		t.Fatalf("UserID: %q, want empty", got)
	}
}

// Opaque credentials are legal; they just carry no actor identity.
func TestFromBearerWithOpaqueToken(t *testing.T) {
	s := FromBearer("not-a-jwt")
	if s.UserID() != "" {
		t.Fatalf("UserID: %q, want empty", s.UserID())
	}
	if s.Token() != "not-a-jwt" {
		t.Fatalf("Token: %q", s.Token())
	}
}

func TestStatic(t *testing.T) {
	s := Static("fixed-user")
	if s.UserID() != "fixed-user" || s.Token() != "" {
		t.Fatalf("got userID=%q token=%q", s.UserID(), s.Token())
	}
}
