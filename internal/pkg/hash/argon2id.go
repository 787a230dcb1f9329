package hash

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id implements Hash using Argon2id with PHC-formatted output:
//
//	$argon2id$v=19$m=32768,t=3,p=2$<salt>$<key>
type Argon2id struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	saltLength  uint32
	keyLength   uint32
	pepper      string
}

// NewArgon2id returns an Argon2id hasher with interactive-login parameters.
func NewArgon2id(pepper string) *Argon2id {
	return &Argon2id{
		memory:      32 * 1024,
		iterations:  3,
		parallelism: 2,
		saltLength:  16,
		keyLength:   32,
		pepper:      pepper,
	}
}

func (a *Argon2id) Hash(plaintext string) ([]byte, error) {
	salt := make([]byte, a.saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("hash: generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(plaintext+a.pepper), salt, a.iterations, a.memory, a.parallelism, a.keyLength)

	return fmt.Appendf(nil, "$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, a.memory, a.iterations, a.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (a *Argon2id) Verify(hashed, plaintext string) bool {
	if hashed == "" {
		return false
	}

	parts := strings.Split(hashed, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var (
		memory      uint32
		iterations  uint32
		parallelism uint8
	)
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false
	}

	got := argon2.IDKey([]byte(plaintext+a.pepper), salt, iterations, memory, parallelism, uint32(len(want)))

	return subtle.ConstantTimeCompare(want, got) == 1
}
