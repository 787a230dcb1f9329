package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,password"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	DisplayName     string `validate:"required"`
}

func TestV10Validator_Validate(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, v.Validate(signup{
			Email: "alice@example.com", Password: "secret1", ConfirmPassword: "secret1", DisplayName: "Alice",
		}))
	})

	t.Run("keys use json names", func(t *testing.T) {
		err := v.Validate(signup{Email: "not-an-email", Password: "abc"})

		var verr V10ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Values(), "email")
		assert.Contains(t, verr.Values(), "confirm_password")
		assert.Contains(t, verr.Values(), "display_name")
		assert.Equal(t, "password must be 6-72 characters", verr["password"])
	})

	t.Run("password upper bound", func(t *testing.T) {
		err := v.Validate(signup{
			Email: "a@b.co", Password: strings.Repeat("p", 73), ConfirmPassword: "x", DisplayName: "A",
		})

		var verr V10ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr, "password")
	})
}

func TestV10ValidationError_Error(t *testing.T) {
	assert.Equal(t, "validation error", V10ValidationError{}.Error())
	assert.JSONEq(t, `{"email":"bad"}`, V10ValidationError{"email": "bad"}.Error())
}
