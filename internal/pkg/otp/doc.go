// Package otp issues and validates short-lived numeric one-time codes sent by
// mail.
//
// Every code belongs to an (identity, purpose) pair. A pair holds at most one
// outstanding code; issuing again replaces it. Validation deletes the record
// it matches, so a code works once. Each purpose has its own expiry window
// (see Purpose.Window).
//
// Storage is pluggable: MemoryStore for tests and single-process use,
// RedisStore with native key expiry, and PostgresStore for durable records.
package otp
