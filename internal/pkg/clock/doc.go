// Package clock provides a tiny time abstraction.
//
// Production code depends on Clocker for reading time and on Scheduler when it
// also arms timers or tickers. Both are satisfied by clockwork clocks, so tests
// pass clockwork.NewFakeClockAt and advance it by hand.
package clock
