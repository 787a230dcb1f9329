package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/greenvista/internal/identity/entity"
	"github.com/shandysiswandi/greenvista/internal/pkg/goerror"
	"github.com/shandysiswandi/greenvista/internal/pkg/otp"
)

type RegisterInput struct {
	Name            string `validate:"required,max=100"`
	Email           string `validate:"required,email,max=254"`
	Phone           string `validate:"required,max=32"`
	Password        string `validate:"required,password"`
	Address         string `validate:"required,max=255"`
	ApartmentNumber string `validate:"omitempty,max=32"`
}

func (in *RegisterInput) normalize() {
	in.Email = entity.NormalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.ApartmentNumber = strings.TrimSpace(in.ApartmentNumber)
}

// ensureEmailFree fails with a duplicate error when email has an account.
func (s *Usecase) ensureEmailFree(ctx context.Context, email, msg string) error {
	_, err := s.repoDB.GetIdentityByEmail(ctx, email)
	if err == nil {
		slog.WarnContext(ctx, "identity already registered", "email", email)
		return goerror.NewBusiness(msg, goerror.CodeDuplicate)
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get identity by email", "email", email, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}

// RegisterSendOTP mails a registration code. The account must not exist yet.
func (s *Usecase) RegisterSendOTP(ctx context.Context, in RegisterInput) (*OTPIssued, error) {
	ctx, span := s.startSpan(ctx, "RegisterSendOTP")
	defer span.End()

	in.normalize()
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if err := s.ensureEmailFree(ctx, in.Email, msgEmailRegistered+". Please login or use a different email."); err != nil {
		return nil, err
	}

	return s.issue(ctx, in.Email, otp.PurposeRegistration)
}

type RegisterVerifyInput struct {
	RegisterInput
	OTP string `validate:"required"`
}

// RegisterVerify consumes the registration code, creates the owner account
// and signs it in.
func (s *Usecase) RegisterVerify(ctx context.Context, in RegisterVerifyInput) (*AuthOutput, error) {
	ctx, span := s.startSpan(ctx, "RegisterVerify")
	defer span.End()

	in.normalize()
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if err := s.consume(ctx, in.Email, otp.PurposeRegistration, in.OTP); err != nil {
		return nil, err
	}

	// Someone may have registered the address since the code was sent.
	if err := s.ensureEmailFree(ctx, in.Email, msgEmailRegistered); err != nil {
		return nil, err
	}

	hashed, err := s.password.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	ident := entity.Identity{
		ID:              s.uid.Generate(),
		Name:            in.Name,
		Email:           in.Email,
		Phone:           in.Phone,
		Address:         in.Address,
		ApartmentNumber: in.ApartmentNumber,
		PasswordHash:    string(hashed),
		Role:            entity.RoleOwner,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = s.repoDB.CreateIdentity(ctx, ident)
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "identity registered concurrently", "email", in.Email)
		return nil, goerror.NewBusiness(msgEmailRegistered, goerror.CodeDuplicate)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create identity", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	return s.signIn(ctx, &ident)
}
