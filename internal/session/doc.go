// Package session enforces the client side inactivity window for standard
// accounts.
//
// A Monitor persists the signed-in state through a Store, arms a one-shot
// timer for the remaining window and re-validates on a ticker so changes made
// by another process are noticed. Privileged roles are exempt.
package session
