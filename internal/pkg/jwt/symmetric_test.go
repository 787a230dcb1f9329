package jwt

import (
	"strings"
	"testing"
	"time"

	libJWT "github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedID string

func (f fixedID) Generate() string { return string(f) }

var secret = []byte(strings.Repeat("k", 64))

func newSigner(t *testing.T, c clockwork.FakeClock) *Symmetric {
	t.Helper()

	s, err := NewHS512(Config{
		Secret:    secret,
		Issuer:    "greenvista",
		Audiences: []string{"greenvista-web"},
		Clock:     c,
		UUID:      fixedID("jti-1"),
	})
	require.NoError(t, err)
	return s
}

func TestNewHS512(t *testing.T) {
	_, err := NewHS512(Config{Secret: []byte("short")})
	assert.ErrorIs(t, err, ErrSigningKeyTooShort)

	s := newSigner(t, clockwork.NewFakeClockAt(time.Now()))
	assert.Equal(t, 7*24*time.Hour, s.TTL())
}

func TestSymmetric_RoundTrip(t *testing.T) {
	c := clockwork.NewFakeClockAt(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	s := newSigner(t, c)

	tok, err := s.Generate(Subject{ID: 17, Role: "owner", Email: "alice@example.com", Name: "Alice"})
	require.NoError(t, err)

	claims, err := s.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(17), claims.UserID)
	assert.Equal(t, "owner", claims.Role)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "17", claims.Subject)
	assert.Equal(t, "jti-1", claims.ID)
	assert.WithinDuration(t, c.Now().Add(DefaultTTL), claims.ExpiresAt.Time, 0)
}

func TestSymmetric_RejectsEveryFailureTheSameWay(t *testing.T) {
	c := clockwork.NewFakeClockAt(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	s := newSigner(t, c)

	tok, err := s.Generate(Subject{ID: 1, Role: "admin"})
	require.NoError(t, err)

	other, err := NewHS512(Config{
		Secret: []byte(strings.Repeat("z", 64)), Issuer: "greenvista", Audiences: []string{"greenvista-web"},
		Clock: c, UUID: fixedID("x"),
	})
	require.NoError(t, err)
	forged, err := other.Generate(Subject{ID: 1, Role: "admin"})
	require.NoError(t, err)

	hs256, err := libJWT.NewWithClaims(libJWT.SigningMethodHS256, Claims{}).SignedString(secret)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	tests := map[string]string{
		"tampered":     tampered,
		"wrong secret": forged,
		"wrong alg":    hs256,
		"malformed":    "not-a-token",
		"empty":        "",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := s.Verify(in)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	t.Run("expired", func(t *testing.T) {
		c.Advance(DefaultTTL + time.Second)
		_, err := s.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
