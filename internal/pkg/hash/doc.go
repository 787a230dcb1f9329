// Package hash hashes secrets at rest.
//
// Passwords go through bcrypt or argon2id, chosen at startup with NewPassword.
// One-time codes go through HMACSHA256 so the store never holds a usable code.
package hash
