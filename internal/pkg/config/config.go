package config

import (
	"io"
	"time"
)

// DurationConfig reads integer values and scales them to a time unit.
type DurationConfig interface {
	// GetSecond returns the value for key interpreted as seconds. Missing or
	// non-numeric values yield zero.
	GetSecond(key string) time.Duration

	// GetMinute returns the value for key interpreted as minutes.
	GetMinute(key string) time.Duration

	// GetDay returns the value for key interpreted as 24-hour days.
	GetDay(key string) time.Duration
}

// Config is the read-only view of application settings used by the wiring
// layer. Every getter returns the zero value for a missing key, so callers
// fall back with their own defaults.
type Config interface {
	io.Closer
	DurationConfig

	GetBool(key string) bool
	GetInt(key string) int
	GetInt64(key string) int64
	GetFloat64(key string) float64
	GetString(key string) string

	// GetBinary returns the base64-decoded value for key, or nil when the
	// value is not valid base64.
	GetBinary(key string) []byte

	// GetArray splits a "a,b,c" value into trimmed, non-empty elements.
	// A missing key yields an empty slice.
	GetArray(key string) []string

	// GetMap parses a "k1:v1,k2:v2" value. Pairs without a colon are skipped.
	GetMap(key string) map[string]string
}
