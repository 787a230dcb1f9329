package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewPassword(t *testing.T) {
	h, err := NewPassword(PasswordConfig{Algorithm: "", BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	assert.IsType(t, &Bcrypt{}, h)

	h, err = NewPassword(PasswordConfig{Algorithm: "ARGON2ID"})
	require.NoError(t, err)
	assert.IsType(t, &Argon2id{}, h)

	_, err = NewPassword(PasswordConfig{Algorithm: "md5"})
	assert.Error(t, err)
}

func TestPasswordHashers_RoundTrip(t *testing.T) {
	hashers := map[string]Hash{
		"bcrypt":          NewBcrypt(bcrypt.MinCost, ""),
		"bcrypt_peppered": NewBcrypt(bcrypt.MinCost, "pepper"),
		"argon2id":        NewArgon2id("pepper"),
	}

	for name, h := range hashers {
		t.Run(name, func(t *testing.T) {
			hashed, err := h.Hash("secret1")
			require.NoError(t, err)

			assert.True(t, h.Verify(string(hashed), "secret1"))
			assert.False(t, h.Verify(string(hashed), "secret2"))
			assert.False(t, h.Verify("", "secret1"))
		})
	}
}

func TestBcrypt_PepperAllowsMaxLengthPassword(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost, "a-long-server-side-pepper")
	long := strings.Repeat("x", 72)

	hashed, err := h.Hash(long)
	require.NoError(t, err)
	assert.True(t, h.Verify(string(hashed), long))
}

func TestArgon2id_RejectsMalformed(t *testing.T) {
	h := NewArgon2id("")
	assert.False(t, h.Verify("$bcrypt$v=19$m=1,t=1,p=1$AA$AA", "x"))
	assert.False(t, h.Verify("$argon2id$v=19$bad$AA$AA", "x"))
}

func TestHMACSHA256(t *testing.T) {
	h := NewHMACSHA256("k")

	a, err := h.Hash("000042")
	require.NoError(t, err)
	b, _ := h.Hash("000042")

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.True(t, h.Verify(string(a), "000042"))
	assert.False(t, h.Verify(string(a), "000043"))
	assert.False(t, NewHMACSHA256("other").Verify(string(a), "000042"))
}
