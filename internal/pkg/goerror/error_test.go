package goerror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_StatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid format", err: NewInvalidFormat(), want: http.StatusBadRequest},
		{name: "invalid input", err: NewInvalidInput(errors.New("email required")), want: http.StatusBadRequest},
		{name: "duplicate", err: NewBusiness("Email already registered", CodeDuplicate), want: http.StatusBadRequest},
		{name: "unauthorized", err: NewBusiness("Invalid OTP", CodeUnauthorized), want: http.StatusUnauthorized},
		{name: "forbidden", err: NewBusiness("Access denied", CodeForbidden), want: http.StatusForbidden},
		{name: "conflict", err: NewBusiness("Duplicate request", CodeConflict), want: http.StatusConflict},
		{name: "dependency", err: NewDependency(errors.New("smtp down"), "Failed to send OTP"), want: http.StatusInternalServerError},
		{name: "server", err: NewServer(errors.New("boom")), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gerr *Error
			if assert.ErrorAs(t, tt.err, &gerr) {
				assert.Equal(t, tt.want, gerr.StatusCode())
			}
		})
	}
}

func TestNewInvalidInput_Fields(t *testing.T) {
	err := NewInvalidInput(nil, "new_password", "Passwords do not match")

	var gerr *Error
	assert.ErrorAs(t, err, &gerr)
	assert.Equal(t, map[string]string{"new_password": "Passwords do not match"}, gerr.Fields())
	assert.Equal(t, CodeInvalidInput, gerr.Code())

	odd := NewInvalidInput(nil, "lonely")
	assert.ErrorAs(t, odd, &gerr)
	assert.Equal(t, CodeInvalidFormat, gerr.Code())
}

func TestNewDependency_Unwraps(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := NewDependency(cause, "Failed to send OTP")

	assert.ErrorIs(t, err, cause)

	var gerr *Error
	assert.ErrorAs(t, err, &gerr)
	assert.Equal(t, "Failed to send OTP", gerr.Msg())
	assert.Equal(t, TypeServer, gerr.Type())
}
