package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/greenvista/internal/pkg/clock"
	"github.com/shandysiswandi/greenvista/internal/pkg/goerror"
	"github.com/shandysiswandi/greenvista/internal/pkg/idempotency"
	"github.com/shandysiswandi/greenvista/internal/pkg/instrument"
	"github.com/shandysiswandi/greenvista/internal/pkg/jwt"
	"github.com/shandysiswandi/greenvista/internal/pkg/otp"
	"github.com/shandysiswandi/greenvista/internal/pkg/uid"
	"github.com/shandysiswandi/greenvista/internal/pkg/validator"
	"github.com/shandysiswandi/greenvista/internal/servicerequest/entity"
	"go.opentelemetry.io/otel/trace"
)

const (
	msgUserNotFound     = "User not found"
	msgInvalidOTP       = "Invalid OTP"
	msgExpiredOTP       = "OTP has expired. Please request a new OTP"
	msgSendOTPFailed    = "Failed to send OTP"
	msgDuplicateRequest = "Duplicate request"
	msgAuthRequired     = "Authentication required"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100

	defaultIdempotencyTTL = 24 * time.Hour
)

type repoDB interface {
	CreateRequest(ctx context.Context, in entity.ServiceRequest) error
	ListRequests(ctx context.Context, f entity.Filter) ([]entity.ServiceRequest, int64, error)
	ListRequestsByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]entity.ServiceRequest, int64, error)
	GetOwner(ctx context.Context, id int64) (*entity.Owner, error)
}

type repoNotify interface {
	RequestSubmitted(ctx context.Context, owner entity.Owner, req entity.ServiceRequest) error
}

type otpManager interface {
	Issue(ctx context.Context, identity string, purpose otp.Purpose) (otp.Issuance, error)
	Validate(ctx context.Context, identity string, purpose otp.Purpose, code string) error
}

type goroutine interface {
	Go(ctx context.Context, f func(ctx context.Context) error)
}

type Usecase struct {
	repoDB         repoDB
	repoNotify     repoNotify
	otp            otpManager
	idem           idempotency.Idempotency
	goroutine      goroutine
	validator      validator.Validator
	uid            uid.NumberID
	clock          clock.Clocker
	ins            instrument.Instrumentation
	idempotencyTTL time.Duration
}

type Dependency struct {
	RepoDB         repoDB
	RepoNotify     repoNotify
	OTP            otpManager
	Idempotency    idempotency.Idempotency
	Goroutine      goroutine
	Validator      validator.Validator
	UID            uid.NumberID
	Clock          clock.Clocker
	Instrument     instrument.Instrumentation
	IdempotencyTTL time.Duration
}

func New(dep Dependency) *Usecase {
	ins := dep.Instrument
	if ins == nil {
		ins = instrument.NewNoop()
	}

	ttl := dep.IdempotencyTTL
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}

	return &Usecase{
		repoDB:         dep.RepoDB,
		repoNotify:     dep.RepoNotify,
		otp:            dep.OTP,
		idem:           dep.Idempotency,
		goroutine:      dep.Goroutine,
		validator:      dep.Validator,
		uid:            dep.UID,
		clock:          dep.Clock,
		ins:            ins,
		idempotencyTTL: ttl,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("servicerequest.usecase").Start(ctx, name)
}

func authenticated(ctx context.Context) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness(msgAuthRequired, goerror.CodeUnauthorized)
	}
	return clm, nil
}

func (s *Usecase) findOwner(ctx context.Context, id int64) (*entity.Owner, error) {
	owner, err := s.repoDB.GetOwner(ctx, id)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "service request owner not found", "owner_id", id)
		return nil, goerror.NewBusiness(msgUserNotFound, goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get owner", "owner_id", id, "error", err)
		return nil, goerror.NewServer(err)
	}

	return owner, nil
}

// Page is one slice of a listing.
type Page struct {
	Items []entity.ServiceRequest
	Total int64
	Page  int
	Size  int
}

func pagination(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}
