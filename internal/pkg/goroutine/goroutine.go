// Package goroutine runs fire-and-forget background work with a cap on
// concurrency and a drain point for shutdown.
package goroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/shandysiswandi/greenvista/internal/pkg/stacktrace"
	"go.uber.org/atomic"
)

// DefaultMaxGoroutine is multiplied by NumCPU when NewManager receives a non-positive limit.
const DefaultMaxGoroutine int = 100

// Manager runs functions in goroutines with a concurrency limit and collects
// their errors for Wait.
type Manager struct {
	mu      sync.Mutex
	errs    []error
	wg      sync.WaitGroup
	sema    chan struct{}
	stateMu sync.RWMutex
	closed  atomic.Bool
	dropped atomic.Int64
}

func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = runtime.NumCPU() * DefaultMaxGoroutine
	}

	return &Manager{sema: make(chan struct{}, maxGoroutine)}
}

// Go runs f in a new goroutine when a slot is free.
//
// f receives a context that keeps pCtx's values (trace and correlation IDs)
// but not its cancellation, so work outlives the request that scheduled it.
// When the manager is saturated or closed, f is dropped and a warning is logged.
func (g *Manager) Go(pCtx context.Context, f func(ctx context.Context) error) {
	if g == nil {
		return
	}

	g.stateMu.RLock()
	defer g.stateMu.RUnlock()

	if g.closed.Load() {
		g.dropped.Inc()
		slog.WarnContext(pCtx, "goroutine manager is closed, skipping new goroutine")
		return
	}

	select {
	case g.sema <- struct{}{}:
	default:
		g.dropped.Inc()
		slog.WarnContext(pCtx, "maximum goroutine limit reached, failed to start new goroutine")
		return
	}

	ctx := context.WithoutCancel(pCtx)

	g.wg.Go(func() {
		defer func() {
			<-g.sema

			if rvr := recover(); rvr != nil {
				stack := debug.Stack()
				if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
					slog.ErrorContext(ctx, "panic occurred in goroutine", "panic", rvr, "stack", paths)
				} else {
					slog.ErrorContext(ctx, "panic occurred in goroutine", "panic", rvr, "stack", string(stack))
				}
			}
		}()

		if err := f(ctx); err != nil {
			g.mu.Lock()
			g.errs = append(g.errs, err)
			g.mu.Unlock()
		}
	})
}

// Dropped reports how many functions were refused since creation.
func (g *Manager) Dropped() int64 {
	return g.dropped.Load()
}

// Wait stops accepting new work, blocks until running goroutines finish and
// returns their joined errors.
func (g *Manager) Wait() error {
	if g == nil {
		return nil
	}

	g.stateMu.Lock()
	g.closed.Store(true)
	g.stateMu.Unlock()

	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	return errors.Join(g.errs...)
}
