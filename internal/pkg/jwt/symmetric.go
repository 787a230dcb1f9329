package jwt

import (
	"errors"
	"strconv"
	"time"

	libJWT "github.com/golang-jwt/jwt/v5"
)

// Symmetric signs and verifies tokens with an HS512 secret.
type Symmetric struct {
	secret    []byte
	issuer    string
	audiences []string
	ttl       time.Duration
	clock     clocker
	uuid      generator
}

// NewHS512 returns a Symmetric signer. The secret must be at least 64 bytes.
func NewHS512(cfg Config) (*Symmetric, error) {
	if len(cfg.Secret) < 64 {
		return nil, ErrSigningKeyTooShort
	}
	if cfg.Clock == nil || cfg.UUID == nil {
		return nil, errors.New("jwt: clock and uuid generator are required")
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Symmetric{
		secret:    cfg.Secret,
		issuer:    cfg.Issuer,
		audiences: cfg.Audiences,
		ttl:       ttl,
		clock:     cfg.Clock,
		uuid:      cfg.UUID,
	}, nil
}

// TTL reports the lifetime given to generated tokens.
func (s *Symmetric) TTL() time.Duration { return s.ttl }

func (s *Symmetric) Generate(sub Subject) (string, error) {
	now := s.clock.Now()

	return libJWT.
		NewWithClaims(libJWT.SigningMethodHS512, Claims{
			RegisteredClaims: libJWT.RegisteredClaims{
				ID:        s.uuid.Generate(),
				Subject:   strconv.FormatInt(sub.ID, 10),
				Issuer:    s.issuer,
				Audience:  s.audiences,
				IssuedAt:  libJWT.NewNumericDate(now),
				NotBefore: libJWT.NewNumericDate(now),
				ExpiresAt: libJWT.NewNumericDate(now.Add(s.ttl)),
			},
			UserID: sub.ID,
			Role:   sub.Role,
			Email:  sub.Email,
			Name:   sub.Name,
		}).
		SignedString(s.secret)
}

func (s *Symmetric) Verify(tokenStr string) (Claims, error) {
	opts := []libJWT.ParserOption{
		libJWT.WithValidMethods([]string{libJWT.SigningMethodHS512.Alg()}),
		libJWT.WithIssuer(s.issuer),
		libJWT.WithIssuedAt(),
		libJWT.WithExpirationRequired(),
		libJWT.WithTimeFunc(s.clock.Now),
	}
	if len(s.audiences) > 0 {
		opts = append(opts, libJWT.WithAudience(s.audiences...))
	}

	var claims Claims
	token, err := libJWT.ParseWithClaims(tokenStr, &claims, func(*libJWT.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
