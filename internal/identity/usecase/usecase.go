package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/greenvista/internal/identity/entity"
	"github.com/shandysiswandi/greenvista/internal/pkg/clock"
	"github.com/shandysiswandi/greenvista/internal/pkg/goerror"
	"github.com/shandysiswandi/greenvista/internal/pkg/hash"
	"github.com/shandysiswandi/greenvista/internal/pkg/instrument"
	"github.com/shandysiswandi/greenvista/internal/pkg/jwt"
	"github.com/shandysiswandi/greenvista/internal/pkg/otp"
	"github.com/shandysiswandi/greenvista/internal/pkg/uid"
	"github.com/shandysiswandi/greenvista/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

// User-facing messages.
const (
	msgEmailNotRegistered = "Email not registered"
	msgIncorrectPassword  = "Incorrect password"
	msgUserNotFound       = "User not found"
	msgInvalidOTP         = "Invalid OTP"
	msgExpiredOTP         = "OTP has expired. Please request a new OTP"
	msgSendOTPFailed      = "Failed to send OTP"
	msgEmailRegistered    = "Email already registered"
	msgPasswordMismatch   = "Passwords do not match"
	msgPasswordTooShort   = "Password must be at least 6 characters"
	msgPasswordTooLong    = "Password must be at most 72 characters"
)

type repoDB interface {
	GetIdentityByEmail(ctx context.Context, email string) (*entity.Identity, error)
	CreateIdentity(ctx context.Context, in entity.Identity) error
	UpdatePassword(ctx context.Context, id int64, hash string, at time.Time) error
}

type otpManager interface {
	Issue(ctx context.Context, identity string, purpose otp.Purpose) (otp.Issuance, error)
	Validate(ctx context.Context, identity string, purpose otp.Purpose, code string) error
	Sweep(ctx context.Context) (int64, error)
}

type Usecase struct {
	repoDB    repoDB
	otp       otpManager
	validator validator.Validator
	password  hash.Hash
	uid       uid.NumberID
	clock     clock.Clocker
	jwt       jwt.JWT
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	OTP        otpManager
	Validator  validator.Validator
	Password   hash.Hash
	UID        uid.NumberID
	Clock      clock.Clocker
	JWT        jwt.JWT
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	ins := dep.Instrument
	if ins == nil {
		ins = instrument.NewNoop()
	}

	return &Usecase{
		repoDB:    dep.RepoDB,
		otp:       dep.OTP,
		validator: dep.Validator,
		password:  dep.Password,
		uid:       dep.UID,
		clock:     dep.Clock,
		jwt:       dep.JWT,
		ins:       ins,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

// OTPIssued is returned by every send-otp flow. The code itself never is.
type OTPIssued struct {
	OTPID     string
	ExpiresAt time.Time
}

// AuthOutput carries a session token and the identity it was issued for.
type AuthOutput struct {
	Token string
	User  entity.Summary
}

func (s *Usecase) issue(ctx context.Context, email string, purpose otp.Purpose) (*OTPIssued, error) {
	iss, err := s.otp.Issue(ctx, email, purpose)
	if errors.Is(err, otp.ErrDispatch) {
		return nil, goerror.NewDependency(err, msgSendOTPFailed)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to issue otp", "email", email, "purpose", purpose, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &OTPIssued{OTPID: iss.ID, ExpiresAt: iss.ExpiresAt}, nil
}

func (s *Usecase) consume(ctx context.Context, email string, purpose otp.Purpose, code string) error {
	err := s.otp.Validate(ctx, email, purpose, code)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, otp.ErrInvalid):
		slog.WarnContext(ctx, "otp did not match", "email", email, "purpose", purpose)
		return goerror.NewBusiness(msgInvalidOTP, goerror.CodeUnauthorized)
	case errors.Is(err, otp.ErrExpired):
		slog.WarnContext(ctx, "otp expired", "email", email, "purpose", purpose)
		return goerror.NewBusiness(msgExpiredOTP, goerror.CodeUnauthorized)
	default:
		slog.ErrorContext(ctx, "failed to validate otp", "email", email, "purpose", purpose, "error", err)
		return goerror.NewServer(err)
	}
}

// findIdentity reports a missing account as unauthorized with notFoundMsg.
func (s *Usecase) findIdentity(ctx context.Context, email, notFoundMsg string) (*entity.Identity, error) {
	ident, err := s.repoDB.GetIdentityByEmail(ctx, email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "identity not found", "email", email)
		return nil, goerror.NewBusiness(notFoundMsg, goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get identity by email", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}

	return ident, nil
}

func (s *Usecase) signIn(ctx context.Context, ident *entity.Identity) (*AuthOutput, error) {
	token, err := s.jwt.Generate(jwt.Subject{
		ID:    ident.ID,
		Role:  ident.Role.String(),
		Email: ident.Email,
		Name:  ident.Name,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate jwt token", "user_id", ident.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &AuthOutput{Token: token, User: ident.Summary()}, nil
}
