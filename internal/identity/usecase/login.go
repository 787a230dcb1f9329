package usecase

import (
	"context"

	"github.com/shandysiswandi/greenvista/internal/identity/entity"
	"github.com/shandysiswandi/greenvista/internal/pkg/goerror"
	"github.com/shandysiswandi/greenvista/internal/pkg/otp"
)

type SendLoginOTPInput struct {
	Email string `validate:"required,email"`
}

// SendLoginOTP mails a login code to an existing account without a password check.
func (s *Usecase) SendLoginOTP(ctx context.Context, in SendLoginOTPInput) (*OTPIssued, error) {
	ctx, span := s.startSpan(ctx, "SendLoginOTP")
	defer span.End()

	in.Email = entity.NormalizeEmail(in.Email)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	ident, err := s.findIdentity(ctx, in.Email, msgUserNotFound)
	if err != nil {
		return nil, err
	}

	return s.issue(ctx, ident.Email, otp.PurposeLogin)
}

type VerifyLoginOTPInput struct {
	Email string `validate:"required,email"`
	OTP   string `validate:"required"`
}

// VerifyLoginOTP consumes a login code and issues a session token.
func (s *Usecase) VerifyLoginOTP(ctx context.Context, in VerifyLoginOTPInput) (*AuthOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyLoginOTP")
	defer span.End()

	in.Email = entity.NormalizeEmail(in.Email)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if err := s.consume(ctx, in.Email, otp.PurposeLogin, in.OTP); err != nil {
		return nil, err
	}

	ident, err := s.findIdentity(ctx, in.Email, msgUserNotFound)
	if err != nil {
		return nil, err
	}

	return s.signIn(ctx, ident)
}
