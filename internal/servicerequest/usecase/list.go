package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/greenvista/internal/pkg/goerror"
	"github.com/shandysiswandi/greenvista/internal/servicerequest/entity"
)

type ListInput struct {
	Status string
	Page   int
	Size   int
}

// List returns every request, newest first. Callers are expected to be
// privileged; the router enforces that.
func (s *Usecase) List(ctx context.Context, in ListInput) (*Page, error) {
	ctx, span := s.startSpan(ctx, "List")
	defer span.End()

	if _, err := authenticated(ctx); err != nil {
		return nil, err
	}

	var status entity.Status
	if in.Status != "" {
		st, ok := entity.StatusFromString(in.Status)
		if !ok {
			return nil, goerror.NewInvalidInput(nil, "status", "status must be one of pending, approved, rejected, assigned, completed, cancelled")
		}
		status = st
	}

	page, size := pagination(in.Page, in.Size)
	items, total, err := s.repoDB.ListRequests(ctx, entity.Filter{
		Status: status,
		Limit:  size,
		Offset: (page - 1) * size,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list service requests", "status", status, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &Page{Items: items, Total: total, Page: page, Size: size}, nil
}

type ListMineInput struct {
	Page int
	Size int
}

// ListMine returns the caller's own requests, newest first.
func (s *Usecase) ListMine(ctx context.Context, in ListMineInput) (*Page, error) {
	ctx, span := s.startSpan(ctx, "ListMine")
	defer span.End()

	clm, err := authenticated(ctx)
	if err != nil {
		return nil, err
	}

	page, size := pagination(in.Page, in.Size)
	items, total, err := s.repoDB.ListRequestsByOwner(ctx, clm.UserID, size, (page-1)*size)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list owner service requests", "owner_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &Page{Items: items, Total: total, Page: page, Size: size}, nil
}
