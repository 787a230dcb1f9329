package usecase

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/shandysiswandi/greenvista/internal/identity/entity"
	"github.com/shandysiswandi/greenvista/internal/pkg/goerror"
	"github.com/shandysiswandi/greenvista/internal/pkg/jwt"
)

type SessionOutput struct {
	User      entity.Summary
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func authenticated(ctx context.Context) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}
	return clm, nil
}

// Session describes the caller's token.
func (s *Usecase) Session(ctx context.Context) (*SessionOutput, error) {
	_, span := s.startSpan(ctx, "Session")
	defer span.End()

	clm, err := authenticated(ctx)
	if err != nil {
		return nil, err
	}

	out := &SessionOutput{
		User: entity.Summary{
			ID:    strconv.FormatInt(clm.UserID, 10),
			Name:  clm.Name,
			Email: clm.Email,
			Role:  entity.RoleFromString(clm.Role),
		},
	}
	if clm.IssuedAt != nil {
		out.IssuedAt = clm.IssuedAt.Time
	}
	if clm.ExpiresAt != nil {
		out.ExpiresAt = clm.ExpiresAt.Time
	}

	return out, nil
}

// Logout acknowledges a sign-out. Tokens are stateless, so the client drops
// its copy and the server has nothing to revoke.
func (s *Usecase) Logout(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "Logout")
	defer span.End()

	clm, err := authenticated(ctx)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "identity logged out", "user_id", clm.UserID, "role", clm.Role)
	return nil
}

// SweepOTP reclaims expired codes from stores without native expiry.
func (s *Usecase) SweepOTP(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "SweepOTP")
	defer span.End()

	n, err := s.otp.Sweep(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to sweep otp records", "error", err)
		return err
	}

	if n > 0 {
		slog.InfoContext(ctx, "swept otp records", "count", n)
	}
	return nil
}
