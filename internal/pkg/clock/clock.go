package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clocker abstracts time so callers can replace real time in tests.
type Clocker interface {
	Now() time.Time
}

// Scheduler is a Clocker that can also arm timers and tickers.
type Scheduler interface {
	Clocker
	AfterFunc(d time.Duration, f func()) clockwork.Timer
	NewTicker(d time.Duration) clockwork.Ticker
}

// New returns the system clock. It satisfies both Clocker and Scheduler.
func New() clockwork.Clock {
	return clockwork.NewRealClock()
}
