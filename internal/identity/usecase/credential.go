package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/greenvista/internal/identity/entity"
	"github.com/shandysiswandi/greenvista/internal/pkg/goerror"
	"github.com/shandysiswandi/greenvista/internal/pkg/otp"
)

type VerifyCredentialsInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// verifyCredential checks the secret for email. It authorizes nothing by
// itself.
func (s *Usecase) verifyCredential(ctx context.Context, email, password string) (*entity.Identity, error) {
	ident, err := s.findIdentity(ctx, email, msgEmailNotRegistered)
	if err != nil {
		return nil, err
	}

	if !s.password.Verify(ident.PasswordHash, password) {
		slog.WarnContext(ctx, "password identity not match", "user_id", ident.ID)
		return nil, goerror.NewBusiness(msgIncorrectPassword, goerror.CodeUnauthorized)
	}

	return ident, nil
}

// VerifyCredentialsSendOTP checks email and password, then mails a login code.
func (s *Usecase) VerifyCredentialsSendOTP(ctx context.Context, in VerifyCredentialsInput) (*OTPIssued, error) {
	ctx, span := s.startSpan(ctx, "VerifyCredentialsSendOTP")
	defer span.End()

	in.Email = entity.NormalizeEmail(in.Email)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	ident, err := s.verifyCredential(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	return s.issue(ctx, ident.Email, otp.PurposeLogin)
}
