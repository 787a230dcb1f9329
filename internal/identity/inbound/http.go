package inbound

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/greenvista/internal/identity/usecase"
	"github.com/shandysiswandi/greenvista/internal/pkg/authz"
	"github.com/shandysiswandi/greenvista/internal/pkg/router"
)

type uc interface {
	VerifyCredentialsSendOTP(ctx context.Context, in usecase.VerifyCredentialsInput) (*usecase.OTPIssued, error)
	SendLoginOTP(ctx context.Context, in usecase.SendLoginOTPInput) (*usecase.OTPIssued, error)
	VerifyLoginOTP(ctx context.Context, in usecase.VerifyLoginOTPInput) (*usecase.AuthOutput, error)

	RegisterSendOTP(ctx context.Context, in usecase.RegisterInput) (*usecase.OTPIssued, error)
	RegisterVerify(ctx context.Context, in usecase.RegisterVerifyInput) (*usecase.AuthOutput, error)

	ForgotPasswordSendOTP(ctx context.Context, in usecase.ForgotPasswordInput) (*usecase.OTPIssued, error)
	ResetPassword(ctx context.Context, in usecase.ResetPasswordInput) error

	Session(ctx context.Context) (*usecase.SessionOutput, error)
	Logout(ctx context.Context) error
}

var publicRoutes = []string{
	"/api/v1/auth/verify-credentials-send-otp",
	"/api/v1/auth/send-otp",
	"/api/v1/auth/verify-otp",
	"/api/v1/auth/register-send-otp",
	"/api/v1/auth/verify-registration-otp",
	"/api/v1/auth/forgot-password-send-otp",
	"/api/v1/auth/reset-password",
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	for _, path := range publicRoutes {
		r.Public(http.MethodPost, path)
	}

	// Login
	r.POST("/api/v1/auth/verify-credentials-send-otp", end.VerifyCredentialsSendOTP)
	r.POST("/api/v1/auth/send-otp", end.SendLoginOTP)
	r.POST("/api/v1/auth/verify-otp", end.VerifyLoginOTP)

	// Registration
	r.POST("/api/v1/auth/register-send-otp", end.RegisterSendOTP)
	r.POST("/api/v1/auth/verify-registration-otp", end.RegisterVerify)

	// Password
	r.POST("/api/v1/auth/forgot-password-send-otp", end.ForgotPasswordSendOTP)
	r.POST("/api/v1/auth/reset-password", end.ResetPassword)

	// Session
	r.POST("/api/v1/auth/logout", end.Logout, r.Require(authz.ScopeAuthenticated))
	r.GET("/api/v1/auth/session", end.Session, r.Require(authz.ScopeAuthenticated))
}
