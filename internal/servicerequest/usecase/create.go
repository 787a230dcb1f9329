package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/shandysiswandi/greenvista/internal/pkg/goerror"
	"github.com/shandysiswandi/greenvista/internal/pkg/idempotency"
	"github.com/shandysiswandi/greenvista/internal/pkg/otp"
	"github.com/shandysiswandi/greenvista/internal/servicerequest/entity"
)

type CreateInput struct {
	Type    string   `validate:"required,max=100"`
	Details string   `validate:"required,max=2000"`
	Images  []string `validate:"max=10,dive,required,max=2048"`

	// Email and OTP are verified only when both are present.
	Email string
	OTP   string

	IdempotencyKey string `validate:"omitempty,max=128"`
}

func (in *CreateInput) normalize() {
	in.Type = strings.TrimSpace(in.Type)
	in.Details = strings.TrimSpace(in.Details)
	in.Email = otp.NormalizeIdentity(in.Email)
	in.OTP = strings.TrimSpace(in.OTP)
	in.IdempotencyKey = strings.TrimSpace(in.IdempotencyKey)
	in.Images = lo.Compact(lo.Map(in.Images, func(s string, _ int) string { return strings.TrimSpace(s) }))
}

// Create records a pending service request for the caller and mails the
// owner a receipt in the background.
func (s *Usecase) Create(ctx context.Context, in CreateInput) (*entity.ServiceRequest, error) {
	ctx, span := s.startSpan(ctx, "Create")
	defer span.End()

	clm, err := authenticated(ctx)
	if err != nil {
		return nil, err
	}

	in.normalize()
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	var out *entity.ServiceRequest
	create := func(ctx context.Context) error {
		var err error
		out, err = s.create(ctx, clm.UserID, in)
		return err
	}

	if in.IdempotencyKey == "" {
		if err := create(ctx); err != nil {
			return nil, err
		}
	} else {
		key := "service-request:" + strconv.FormatInt(clm.UserID, 10) + ":" + in.IdempotencyKey
		// Rejected attempts did nothing, so they must not burn the key.
		err := s.idem.Exec(ctx, key, func(ctx context.Context) error {
			err := create(ctx)
			var gerr *goerror.Error
			if errors.As(err, &gerr) && gerr.Type() != goerror.TypeServer {
				return idempotency.Retryable(err)
			}
			return err
		}, idempotency.WithStateTTL(s.idempotencyTTL))
		if idempotency.IsDuplicate(err) {
			slog.WarnContext(ctx, "duplicate service request", "owner_id", clm.UserID, "idempotency_key", in.IdempotencyKey)
			return nil, goerror.NewBusiness(msgDuplicateRequest, goerror.CodeConflict)
		}
		if err != nil {
			var gerr *goerror.Error
			if errors.As(err, &gerr) {
				return nil, gerr
			}
			slog.ErrorContext(ctx, "failed to exec idempotent create", "owner_id", clm.UserID, "error", err)
			return nil, goerror.NewServer(err)
		}
	}

	s.notify(ctx, *out)
	return out, nil
}

func (s *Usecase) create(ctx context.Context, ownerID int64, in CreateInput) (*entity.ServiceRequest, error) {
	if in.Email != "" && in.OTP != "" {
		if err := s.verifyOTP(ctx, in.Email, in.OTP); err != nil {
			return nil, err
		}
	}

	now := s.clock.Now()
	req := entity.ServiceRequest{
		ID:        s.uid.Generate(),
		OwnerID:   ownerID,
		Type:      in.Type,
		Details:   in.Details,
		Status:    entity.StatusPending,
		Images:    in.Images,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repoDB.CreateRequest(ctx, req); err != nil {
		slog.ErrorContext(ctx, "failed to repo create service request", "owner_id", ownerID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &req, nil
}

func (s *Usecase) verifyOTP(ctx context.Context, email, code string) error {
	err := s.otp.Validate(ctx, email, otp.PurposeServiceRequest, code)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, otp.ErrInvalid):
		slog.WarnContext(ctx, "service request otp did not match", "email", email)
		return goerror.NewBusiness(msgInvalidOTP, goerror.CodeUnauthorized)
	case errors.Is(err, otp.ErrExpired):
		slog.WarnContext(ctx, "service request otp expired", "email", email)
		return goerror.NewBusiness(msgExpiredOTP, goerror.CodeUnauthorized)
	default:
		slog.ErrorContext(ctx, "failed to validate otp", "email", email, "error", err)
		return goerror.NewServer(err)
	}
}

func (s *Usecase) notify(ctx context.Context, req entity.ServiceRequest) {
	s.goroutine.Go(ctx, func(ctx context.Context) error {
		owner, err := s.repoDB.GetOwner(ctx, req.OwnerID)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo get owner for notification", "request_id", req.ID, "error", err)
			return nil
		}

		if err := s.repoNotify.RequestSubmitted(ctx, *owner, req); err != nil {
			slog.ErrorContext(ctx, "failed to notify service request", "request_id", req.ID, "error", err)
		}
		return nil
	})
}
