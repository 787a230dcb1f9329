package otp

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sixDigits = regexp.MustCompile(`^[0-9]{6}$`)

func TestRenderCode_ZeroPads(t *testing.T) {
	assert.Equal(t, "000042", renderCode(42))
	assert.Equal(t, "000000", renderCode(0))
	assert.Equal(t, "999999", renderCode(999_999))
}

func TestGenerateCode_AlwaysSixDigits(t *testing.T) {
	for range 2000 {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Regexp(t, sixDigits, code)
	}
}

func TestPurpose_Window(t *testing.T) {
	tests := []struct {
		purpose Purpose
		want    string
	}{
		{PurposeLogin, "1m0s"},
		{PurposeRegistration, "1m0s"},
		{PurposePasswordReset, "1m0s"},
		{PurposeServiceRequest, "10m0s"},
		{Purpose("bogus"), "0s"},
	}

	for _, tt := range tests {
		t.Run(string(tt.purpose), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.purpose.Window().String())
		})
	}
}

func TestParsePurpose(t *testing.T) {
	p, err := ParsePurpose(" Password-Reset ")
	require.NoError(t, err)
	assert.Equal(t, PurposePasswordReset, p)

	_, err = ParsePurpose("2fa")
	assert.ErrorIs(t, err, ErrUnknownPurpose)

	assert.Len(t, Purposes(), 4)
}

func TestNormalizeIdentity(t *testing.T) {
	assert.Equal(t, "alice@example.com", NormalizeIdentity("  Alice@Example.COM "))
}
