package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt implements Hash using bcrypt.
//
// When a pepper is set the plaintext is first reduced to hex(HMAC-SHA256(pepper, plaintext)),
// which keeps peppered input inside bcrypt's 72 byte limit.
type Bcrypt struct {
	cost   int
	pepper []byte
}

// NewBcrypt returns a bcrypt-based hasher. A cost outside bcrypt's accepted
// range falls back to bcrypt.DefaultCost.
func NewBcrypt(cost int, pepper string) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost, pepper: []byte(pepper)}
}

func (h *Bcrypt) Hash(plaintext string) ([]byte, error) {
	return bcrypt.GenerateFromPassword(h.input(plaintext), h.cost)
}

func (h *Bcrypt) Verify(hashed, plaintext string) bool {
	if hashed == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), h.input(plaintext)) == nil
}

func (h *Bcrypt) input(plaintext string) []byte {
	if len(h.pepper) == 0 {
		return []byte(plaintext)
	}

	m := hmac.New(sha256.New, h.pepper)
	m.Write([]byte(plaintext))
	return []byte(hex.EncodeToString(m.Sum(nil)))
}
