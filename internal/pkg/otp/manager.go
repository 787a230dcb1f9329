package otp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/greenvista/internal/pkg/clock"
	"github.com/shandysiswandi/greenvista/internal/pkg/hash"
	"github.com/shandysiswandi/greenvista/internal/pkg/instrument"
	"github.com/shandysiswandi/greenvista/internal/pkg/uid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultDispatchTimeout bounds one Sender call.
	DefaultDispatchTimeout = 10 * time.Second

	// DefaultGrace keeps a record past its window so a late submission is
	// reported as expired instead of invalid.
	DefaultGrace = 2 * time.Minute
)

// Issuance describes an issued code without revealing it.
type Issuance struct {
	ID        string
	Purpose   Purpose
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type Config struct {
	Store  Store
	Sender Sender
	Clock  clock.Clocker
	UUID   uid.StringID

	// Hasher, when set, turns codes into keyed digests before they reach
	// the store.
	Hasher hash.Hash

	// Instrument defaults to a noop.
	Instrument instrument.Instrumentation

	DispatchTimeout time.Duration
	Grace           time.Duration

	// Generate produces plain codes. Nil means GenerateCode.
	Generate func() (string, error)
}

// Manager issues and validates codes against a Store.
type Manager struct {
	store   Store
	sender  Sender
	clock   clock.Clocker
	uuid    uid.StringID
	hasher  hash.Hash
	tracer  trace.Tracer
	gen     func() (string, error)
	timeout time.Duration
	grace   time.Duration

	issued      metric.Int64Counter
	dispatchErr metric.Int64Counter
	validations metric.Int64Counter
}

func NewManager(cfg Config) (*Manager, error) {
	if cfg.Store == nil || cfg.Sender == nil || cfg.Clock == nil || cfg.UUID == nil {
		return nil, ErrMisconfigured
	}

	ins := cfg.Instrument
	if ins == nil {
		ins = instrument.NewNoop()
	}

	timeout := cfg.DispatchTimeout
	if timeout <= 0 {
		timeout = DefaultDispatchTimeout
	}

	gen := cfg.Generate
	if gen == nil {
		gen = GenerateCode
	}

	grace := cfg.Grace
	if grace < 0 {
		grace = 0
	}

	meter := ins.Meter("otp")

	issued, err := meter.Int64Counter("otp.issued", metric.WithDescription("Codes stored for delivery"))
	if err != nil {
		return nil, err
	}

	dispatchErr, err := meter.Int64Counter("otp.dispatch.failures", metric.WithDescription("Codes the sender failed to deliver"))
	if err != nil {
		return nil, err
	}

	validations, err := meter.Int64Counter("otp.validations", metric.WithDescription("Validation attempts by outcome"))
	if err != nil {
		return nil, err
	}

	return &Manager{
		store:       cfg.Store,
		sender:      cfg.Sender,
		clock:       cfg.Clock,
		uuid:        cfg.UUID,
		hasher:      cfg.Hasher,
		tracer:      ins.Tracer("otp"),
		gen:         gen,
		timeout:     timeout,
		grace:       grace,
		issued:      issued,
		dispatchErr: dispatchErr,
		validations: validations,
	}, nil
}

// Issue generates a code for (identity, purpose), replaces any outstanding
// one and hands it to the Sender.
//
// When delivery fails the new record stays in place and the error wraps
// ErrDispatch.
func (m *Manager) Issue(ctx context.Context, identity string, purpose Purpose) (Issuance, error) {
	ctx, span := m.tracer.Start(ctx, "otp.Issue", trace.WithAttributes(attribute.String("otp.purpose", purpose.String())))
	defer span.End()

	if !purpose.Valid() {
		return Issuance{}, fmt.Errorf("%w: %q", ErrUnknownPurpose, purpose)
	}

	identity = NormalizeIdentity(identity)
	if identity == "" {
		return Issuance{}, ErrIdentityRequired
	}

	code, err := m.gen()
	if err != nil {
		return Issuance{}, fmt.Errorf("otp: generate: %w", err)
	}

	stored, err := m.storedForm(code)
	if err != nil {
		return Issuance{}, err
	}

	now := m.clock.Now()
	rec := Record{
		ID:       m.uuid.Generate(),
		Identity: identity,
		Code:     stored,
		Purpose:  purpose,
		IssuedAt: now,
	}

	if err := m.store.Replace(ctx, rec, purpose.Window()+m.grace); err != nil {
		return Issuance{}, fmt.Errorf("otp: replace: %w", err)
	}

	attrs := metric.WithAttributes(attribute.String("purpose", purpose.String()))
	m.issued.Add(ctx, 1, attrs)

	if err := m.dispatch(ctx, identity, code, purpose); err != nil {
		m.dispatchErr.Add(ctx, 1, attrs)
		slog.ErrorContext(ctx, "failed to dispatch otp", "purpose", purpose, "otp_id", rec.ID, "error", err)
		return Issuance{}, fmt.Errorf("%w: %w", ErrDispatch, err)
	}

	return Issuance{
		ID:        rec.ID,
		Purpose:   purpose,
		IssuedAt:  now,
		ExpiresAt: now.Add(purpose.Window()),
	}, nil
}

// dispatch runs the sender under the timeout and returns once the deadline
// passes even if the sender itself ignores ctx.
func (m *Manager) dispatch(ctx context.Context, identity, code string, purpose Purpose) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("sender panic: %v", r)
			}
		}()
		done <- m.sender.SendOTP(ctx, identity, code, purpose)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Validate consumes the code for (identity, purpose).
//
// It returns ErrInvalid when nothing matches, including a replay of an
// already used code, and ErrExpired when more than the purpose window has
// passed since issue. A code exactly at the window boundary is accepted.
func (m *Manager) Validate(ctx context.Context, identity string, purpose Purpose, code string) error {
	_, err := m.Consume(ctx, identity, purpose, code)
	return err
}

// Consume is Validate returning the consumed record, marked Consumed.
func (m *Manager) Consume(ctx context.Context, identity string, purpose Purpose, code string) (rec *Record, err error) {
	ctx, span := m.tracer.Start(ctx, "otp.Validate", trace.WithAttributes(attribute.String("otp.purpose", purpose.String())))
	defer span.End()

	defer func() {
		m.validations.Add(ctx, 1, metric.WithAttributes(
			attribute.String("purpose", purpose.String()),
			attribute.String("outcome", outcome(err)),
		))
	}()

	if !purpose.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPurpose, purpose)
	}

	identity = NormalizeIdentity(identity)
	code = strings.TrimSpace(code)
	if identity == "" || code == "" {
		return nil, ErrInvalid
	}

	stored, err := m.storedForm(code)
	if err != nil {
		return nil, err
	}

	rec, err = m.store.Take(ctx, identity, purpose, stored)
	if errors.Is(err, ErrNoRecord) {
		return nil, ErrInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("otp: take: %w", err)
	}

	if m.clock.Now().Sub(rec.IssuedAt) > purpose.Window() {
		return nil, ErrExpired
	}

	rec.Consumed = true
	return rec, nil
}

// Sweep reclaims records whose retention has ended. Stores with native
// expiry report zero.
func (m *Manager) Sweep(ctx context.Context) (int64, error) {
	sw, ok := m.store.(Sweeper)
	if !ok {
		return 0, nil
	}

	ctx, span := m.tracer.Start(ctx, "otp.Sweep")
	defer span.End()

	return sw.Sweep(ctx, m.clock.Now())
}

// Sweepable reports whether Sweep has any work to do for this store.
func (m *Manager) Sweepable() bool {
	_, ok := m.store.(Sweeper)
	return ok
}

func (m *Manager) storedForm(code string) (string, error) {
	if m.hasher == nil {
		return code, nil
	}

	digest, err := m.hasher.Hash(code)
	if err != nil {
		return "", fmt.Errorf("otp: hash code: %w", err)
	}

	return string(digest), nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalid):
		return "invalid"
	case errors.Is(err, ErrExpired):
		return "expired"
	default:
		return "error"
	}
}
