package usecase

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/shandysiswandi/greenvista/internal/identity/entity"
	"github.com/shandysiswandi/greenvista/internal/pkg/goerror"
	"github.com/shandysiswandi/greenvista/internal/pkg/otp"
	"github.com/shandysiswandi/greenvista/internal/pkg/validator"
)

type ForgotPasswordInput struct {
	Email string `validate:"required,email"`
}

// ForgotPasswordSendOTP mails a password reset code to an existing account.
func (s *Usecase) ForgotPasswordSendOTP(ctx context.Context, in ForgotPasswordInput) (*OTPIssued, error) {
	ctx, span := s.startSpan(ctx, "ForgotPasswordSendOTP")
	defer span.End()

	in.Email = entity.NormalizeEmail(in.Email)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	ident, err := s.findIdentity(ctx, in.Email, msgEmailNotRegistered)
	if err != nil {
		return nil, err
	}

	return s.issue(ctx, ident.Email, otp.PurposePasswordReset)
}

type ResetPasswordInput struct {
	Email           string `validate:"required,email"`
	OTP             string `validate:"required"`
	NewPassword     string `validate:"required"`
	ConfirmPassword string `validate:"required"`
}

// ResetPassword checks the new password, consumes the reset code and stores
// the new hash.
func (s *Usecase) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	ctx, span := s.startSpan(ctx, "ResetPassword")
	defer span.End()

	in.Email = entity.NormalizeEmail(in.Email)
	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	if in.NewPassword != in.ConfirmPassword {
		return goerror.NewInvalidInput(nil, "confirm_password", msgPasswordMismatch)
	}

	switch n := utf8.RuneCountInString(in.NewPassword); {
	case n < validator.PasswordMinLength:
		return goerror.NewInvalidInput(nil, "new_password", msgPasswordTooShort)
	case len(in.NewPassword) > validator.PasswordMaxLength:
		return goerror.NewInvalidInput(nil, "new_password", msgPasswordTooLong)
	}

	if err := s.consume(ctx, in.Email, otp.PurposePasswordReset, in.OTP); err != nil {
		return err
	}

	ident, err := s.findIdentity(ctx, in.Email, msgUserNotFound)
	if err != nil {
		return err
	}

	hashed, err := s.password.Hash(in.NewPassword)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash new password", "user_id", ident.ID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.UpdatePassword(ctx, ident.ID, string(hashed), s.clock.Now()); err != nil {
		slog.ErrorContext(ctx, "failed to repo update password", "user_id", ident.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
