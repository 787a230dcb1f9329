package hash

import (
	"fmt"
	"strings"
)

// Hash hashes secrets and verifies plaintext against a stored hash.
type Hash interface {
	Hash(plaintext string) ([]byte, error)
	Verify(hashed, plaintext string) bool
}

// Password algorithms accepted by NewPassword.
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// PasswordConfig selects and tunes the password hasher.
type PasswordConfig struct {
	Algorithm  string
	BcryptCost int
	Pepper     string
}

// NewPassword returns the password hasher named by cfg.Algorithm. An empty
// algorithm selects bcrypt.
func NewPassword(cfg PasswordConfig) (Hash, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Algorithm)) {
	case "", AlgorithmBcrypt:
		return NewBcrypt(cfg.BcryptCost, cfg.Pepper), nil
	case AlgorithmArgon2id:
		return NewArgon2id(cfg.Pepper), nil
	default:
		return nil, fmt.Errorf("hash: unsupported password algorithm %q", cfg.Algorithm)
	}
}
