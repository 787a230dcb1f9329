package otp

import (
	"fmt"
	"strings"
	"time"
)

// Purpose is the flow a code is scoped to. Purposes are independent
// namespaces for the same identity.
type Purpose string

const (
	PurposeLogin          Purpose = "login"
	PurposeRegistration   Purpose = "registration"
	PurposePasswordReset  Purpose = "password-reset"
	PurposeServiceRequest Purpose = "service-request"
)

var windows = map[Purpose]time.Duration{
	PurposeLogin:          60 * time.Second,
	PurposeRegistration:   60 * time.Second,
	PurposePasswordReset:  60 * time.Second,
	PurposeServiceRequest: 600 * time.Second,
}

// Purposes lists every known purpose.
func Purposes() []Purpose {
	return []Purpose{PurposeLogin, PurposeRegistration, PurposePasswordReset, PurposeServiceRequest}
}

// ParsePurpose accepts the canonical names case-insensitively.
func ParsePurpose(s string) (Purpose, error) {
	p := Purpose(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPurpose, s)
	}
	return p, nil
}

func (p Purpose) Valid() bool {
	_, ok := windows[p]
	return ok
}

// Window is how long a code stays valid after issue. Unknown purposes
// return zero.
func (p Purpose) Window() time.Duration {
	return windows[p]
}

func (p Purpose) String() string { return string(p) }
