package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/greenvista/internal/pkg/goerror"
	"github.com/shandysiswandi/greenvista/internal/pkg/otp"
)

type SendOTPInput struct {
	Email string `validate:"omitempty,email"`
}

type OTPIssued struct {
	OTPID     string
	Email     string
	ExpiresAt time.Time
}

// SendOTP mails a service-request code. Email defaults to the caller's own.
func (s *Usecase) SendOTP(ctx context.Context, in SendOTPInput) (*OTPIssued, error) {
	ctx, span := s.startSpan(ctx, "SendOTP")
	defer span.End()

	clm, err := authenticated(ctx)
	if err != nil {
		return nil, err
	}

	in.Email = otp.NormalizeIdentity(in.Email)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	owner, err := s.findOwner(ctx, clm.UserID)
	if err != nil {
		return nil, err
	}

	dest := in.Email
	if dest == "" {
		dest = strings.ToLower(owner.Email)
	}

	iss, err := s.otp.Issue(ctx, dest, otp.PurposeServiceRequest)
	if errors.Is(err, otp.ErrDispatch) {
		return nil, goerror.NewDependency(err, msgSendOTPFailed)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to issue otp", "owner_id", owner.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &OTPIssued{OTPID: iss.ID, Email: dest, ExpiresAt: iss.ExpiresAt}, nil
}
