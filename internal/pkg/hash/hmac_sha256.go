package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HMACSHA256 produces deterministic keyed digests. It suits short-lived
// secrets that must be looked up or compared exactly, such as OTP codes.
type HMACSHA256 struct {
	secret []byte
}

func NewHMACSHA256(secret string) *HMACSHA256 {
	return &HMACSHA256{secret: []byte(secret)}
}

// Hash returns the hex-encoded HMAC-SHA256 of plaintext. It never fails.
func (s *HMACSHA256) Hash(plaintext string) ([]byte, error) {
	return s.sum(plaintext), nil
}

func (s *HMACSHA256) Verify(hashed, plaintext string) bool {
	return hmac.Equal([]byte(hashed), s.sum(plaintext))
}

func (s *HMACSHA256) sum(plaintext string) []byte {
	m := hmac.New(sha256.New, s.secret)
	m.Write([]byte(plaintext))
	return []byte(hex.EncodeToString(m.Sum(nil)))
}
