package inbound

import (
	"context"

	"github.com/shandysiswandi/greenvista/internal/pkg/authz"
	"github.com/shandysiswandi/greenvista/internal/pkg/router"
	"github.com/shandysiswandi/greenvista/internal/servicerequest/entity"
	"github.com/shandysiswandi/greenvista/internal/servicerequest/usecase"
)

type uc interface {
	SendOTP(ctx context.Context, in usecase.SendOTPInput) (*usecase.OTPIssued, error)
	Create(ctx context.Context, in usecase.CreateInput) (*entity.ServiceRequest, error)
	List(ctx context.Context, in usecase.ListInput) (*usecase.Page, error)
	ListMine(ctx context.Context, in usecase.ListMineInput) (*usecase.Page, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}
	authed := r.Require(authz.ScopeAuthenticated)

	r.POST("/api/v1/requests/send-otp", end.SendOTP, authed)
	r.POST("/api/v1/requests", end.Create, authed)
	r.GET("/api/v1/requests/my", end.ListMine, authed)
	r.GET("/api/v1/requests", end.List, r.Require(authz.ScopePrivileged))
}
