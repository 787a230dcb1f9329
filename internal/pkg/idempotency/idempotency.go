// Package idempotency guards side-effecting operations behind a client
// supplied key so a retried request runs at most once.
package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrAlreadyInProgress = errors.New("operation already in progress")
	ErrAlreadyCompleted  = errors.New("operation already completed")
	ErrAlreadyFailed     = errors.New("operation already failed")
	ErrInvalidState      = errors.New("invalid idempotency state")
)

// State is the recorded progress of a keyed operation.
type State string

const (
	StateNone       State = "none"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

const (
	defaultLockDuration = time.Minute
	defaultStateTTL     = 24 * time.Hour
)

// Idempotency runs fn at most once per key within the state TTL.
type Idempotency interface {
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error
}

type Option func(*execOptions)

type execOptions struct {
	lockDuration time.Duration
	stateTTL     time.Duration
}

// WithLockDuration bounds how long an in-progress marker survives a crashed worker.
func WithLockDuration(d time.Duration) Option {
	return func(o *execOptions) { o.lockDuration = d }
}

// WithStateTTL sets how long the completed or failed outcome is remembered.
func WithStateTTL(d time.Duration) Option {
	return func(o *execOptions) { o.stateTTL = d }
}

// StateTracker stores operation state in Redis under "idempotency:<key>".
type StateTracker struct {
	client redis.UniversalClient
	prefix string
}

func New(client redis.UniversalClient) *StateTracker {
	return &StateTracker{client: client, prefix: "idempotency:"}
}

// Acquire marks key in progress. It returns StateNone when the caller now
// owns the key, or the state someone else recorded.
func (s *StateTracker) Acquire(ctx context.Context, key string, lock time.Duration) (State, error) {
	fk := s.prefix + key

	for range 2 {
		ok, err := s.client.SetNX(ctx, fk, string(StateInProgress), lock).Result()
		if err != nil {
			return "", err
		}
		if ok {
			return StateNone, nil
		}

		cur, err := s.client.Get(ctx, fk).Result()
		if errors.Is(err, redis.Nil) {
			// expired between SETNX and GET
			continue
		}
		if err != nil {
			return "", err
		}

		switch State(cur) {
		case StateInProgress, StateCompleted, StateFailed:
			return State(cur), nil
		default:
			return "", ErrInvalidState
		}
	}

	return "", ErrInvalidState
}

func (s *StateTracker) mark(ctx context.Context, key string, st State, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, string(st), ttl).Err()
}

// Exec runs fn unless key was already seen. A repeated key yields one of
// ErrAlreadyInProgress, ErrAlreadyCompleted or ErrAlreadyFailed. A failing fn
// records the failed state unless its error is Retryable.
func (s *StateTracker) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	o := execOptions{lockDuration: defaultLockDuration, stateTTL: defaultStateTTL}
	for _, opt := range opts {
		opt(&o)
	}
	if o.lockDuration <= 0 {
		o.lockDuration = defaultLockDuration
	}
	if o.stateTTL <= 0 {
		o.stateTTL = defaultStateTTL
	}

	state, err := s.Acquire(ctx, key, o.lockDuration)
	if err != nil {
		return err
	}

	switch state {
	case StateInProgress:
		return ErrAlreadyInProgress
	case StateCompleted:
		return ErrAlreadyCompleted
	case StateFailed:
		return ErrAlreadyFailed
	}

	if err := fn(ctx); err != nil {
		if IsRetryable(err) {
			return errors.Join(err, s.client.Del(ctx, s.prefix+key).Err())
		}
		return errors.Join(err, s.mark(ctx, key, StateFailed, o.stateTTL))
	}

	return s.mark(ctx, key, StateCompleted, o.stateTTL)
}

// Retryable marks an error returned by fn as leaving no state behind: Exec
// forgets the key so the caller may use it again.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &retryableError{err: err}
}

// IsRetryable reports whether err was marked with Retryable.
func IsRetryable(err error) bool {
	var r *retryableError
	return errors.As(err, &r)
}

type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }

func (e *retryableError) Unwrap() error { return e.err }

// IsDuplicate reports whether err means the key was already used.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrAlreadyInProgress) ||
		errors.Is(err, ErrAlreadyCompleted) ||
		errors.Is(err, ErrAlreadyFailed)
}
