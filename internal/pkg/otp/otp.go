package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/pquerna/otp"
)

var (
	// ErrInvalid means no outstanding code matched. It does not say whether
	// the identity, the purpose or the code was wrong.
	ErrInvalid = errors.New("otp: invalid code")

	// ErrExpired means the code matched but its window had elapsed. The
	// record is gone afterwards.
	ErrExpired = errors.New("otp: code expired")

	// ErrDispatch means the code was stored but could not be delivered.
	ErrDispatch = errors.New("otp: dispatch failed")

	ErrUnknownPurpose   = errors.New("otp: unknown purpose")
	ErrIdentityRequired = errors.New("otp: identity is required")
	ErrNoRecord         = errors.New("otp: no matching record")
	ErrMisconfigured    = errors.New("otp: store, sender, clock and id generator are required")
)

// Digits is the rendered code length.
const Digits = otp.DigitsSix

// Record is one outstanding code.
type Record struct {
	ID       string
	Identity string
	// Code is the stored form: a keyed digest when the manager has a hasher,
	// the plain six digits otherwise.
	Code     string
	Purpose  Purpose
	IssuedAt time.Time
	Consumed bool
}

// Store persists records keyed by (identity, purpose).
type Store interface {
	// Replace drops any record for rec's key and stores rec as one atomic
	// step. ttl bounds how long the record is retained.
	Replace(ctx context.Context, rec Record, ttl time.Duration) error

	// Take deletes and returns the record for the key when its stored code
	// equals code. A mismatch leaves the record in place and returns
	// ErrNoRecord.
	Take(ctx context.Context, identity string, purpose Purpose, code string) (*Record, error)

	// Lookup returns the record for the key without consuming it.
	Lookup(ctx context.Context, identity string, purpose Purpose) (*Record, error)
}

// Sweeper is implemented by stores without native expiry. Sweep deletes
// records whose retention ended before t.
type Sweeper interface {
	Sweep(ctx context.Context, before time.Time) (int64, error)
}

// Sender delivers a plain code to its destination.
type Sender interface {
	SendOTP(ctx context.Context, destination, code string, purpose Purpose) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, destination, code string, purpose Purpose) error

func (f SenderFunc) SendOTP(ctx context.Context, destination, code string, purpose Purpose) error {
	return f(ctx, destination, code, purpose)
}

var codeSpace = big.NewInt(1_000_000)

// GenerateCode draws a code uniformly from [0, 999999] and renders it
// zero-padded to six digits.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", err
	}

	return renderCode(n.Int64()), nil
}

func renderCode(n int64) string {
	return Digits.Format(int32(n))
}

// NormalizeIdentity lowercases and trims an email.
func NormalizeIdentity(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
