package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the token lifetime when Config.TTL is zero.
const DefaultTTL = 7 * 24 * time.Hour

var (
	// ErrSigningKeyTooShort is returned when the HS512 signing key is less than 64 bytes.
	ErrSigningKeyTooShort = errors.New("HS512 signing key must be at least 64 bytes (512 bits)")

	// ErrInvalidToken is returned for every verification failure.
	ErrInvalidToken = errors.New("invalid token")
)

// JWT generates and verifies session tokens.
type JWT interface {
	Generate(sub Subject) (string, error)
	Verify(tokenStr string) (Claims, error)
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

// Subject is the authenticated identity a token is issued for.
type Subject struct {
	ID    int64
	Role  string
	Email string
	Name  string
}

// Config defines the inputs for building a JWT implementation.
type Config struct {
	Secret    []byte
	Issuer    string
	Audiences []string
	// TTL applies to every role. Zero means DefaultTTL.
	TTL   time.Duration
	Clock clocker
	// UUID generates the jti claim.
	UUID generator
}

// Claims are the registered claims plus the subject payload.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"user_id,string"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

type jwtContextKey struct{}

// GetAuth returns the claims stored in ctx by the authentication middleware, or nil.
func GetAuth(ctx context.Context) *Claims {
	clm, ok := ctx.Value(jwtContextKey{}).(Claims)
	if !ok {
		return nil
	}

	return &clm
}

// SetAuth stores claims in ctx.
func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, jwtContextKey{}, clm)
}
