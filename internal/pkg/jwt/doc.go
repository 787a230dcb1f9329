// Package jwt issues and verifies HS512 session tokens.
//
// A token carries the registered claims plus the user id, role, email and
// name of the subject. Verification failures of any kind collapse to
// ErrInvalidToken so callers cannot tell a forged token from an expired one.
package jwt
