package inbound

import (
	"github.com/shandysiswandi/greenvista/internal/identity/usecase"
	"github.com/shandysiswandi/greenvista/internal/pkg/router"
)

const (
	msgOTPSent         = "OTP sent successfully to your registered email"
	msgRegisterOTPSent = "OTP sent successfully to your email for verification"
)

// HTTPEndpoint exposes the authentication flows over HTTP.
type HTTPEndpoint struct {
	uc uc
}

// VerifyCredentialsSendOTP checks email and password and mails a login code.
// @Summary Verify credentials
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "Credentials"
// @Success 200 {object} router.successResponse{data=OTPSentResponse}
// @Failure 400 {object} router.errorResponse "Validation error"
// @Failure 401 {object} router.errorResponse "Email not registered or incorrect password"
// @Failure 500 {object} router.errorResponse "Failed to send OTP"
// @Router /api/v1/auth/verify-credentials-send-otp [post]
func (h *HTTPEndpoint) VerifyCredentialsSendOTP(r *router.Request) (any, error) {
	var req CredentialsRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.VerifyCredentialsSendOTP(r.Context(), usecase.VerifyCredentialsInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return newOTPSent(out, msgOTPSent), nil
}

func (h *HTTPEndpoint) SendLoginOTP(r *router.Request) (any, error) {
	var req EmailRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.SendLoginOTP(r.Context(), usecase.SendLoginOTPInput{Email: req.Email})
	if err != nil {
		return nil, err
	}

	return newOTPSent(out, msgOTPSent), nil
}

// VerifyLoginOTP exchanges a login code for a session token.
// @Summary Verify login OTP
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Email and code"
// @Success 200 {object} router.successResponse{data=LoginResponse}
// @Failure 401 {object} router.errorResponse "Invalid or expired OTP"
// @Router /api/v1/auth/verify-otp [post]
func (h *HTTPEndpoint) VerifyLoginOTP(r *router.Request) (any, error) {
	var req VerifyOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.VerifyLoginOTP(r.Context(), usecase.VerifyLoginOTPInput{
		Email: req.Email,
		OTP:   req.OTP.String(),
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{Token: out.Token, User: newUser(out.User)}, nil
}

func (h *HTTPEndpoint) RegisterSendOTP(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.RegisterSendOTP(r.Context(), req.input())
	if err != nil {
		return nil, err
	}

	return newOTPSent(out, msgRegisterOTPSent), nil
}

// RegisterVerify consumes the registration code and creates the account.
// @Summary Complete registration
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RegisterVerifyRequest true "Profile and code"
// @Success 201 {object} router.successResponse{data=RegisterResponse}
// @Failure 400 {object} router.errorResponse "Validation error or email already registered"
// @Failure 401 {object} router.errorResponse "Invalid or expired OTP"
// @Router /api/v1/auth/verify-registration-otp [post]
func (h *HTTPEndpoint) RegisterVerify(r *router.Request) (any, error) {
	var req RegisterVerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.RegisterVerify(r.Context(), usecase.RegisterVerifyInput{
		RegisterInput: req.input(),
		OTP:           req.OTP.String(),
	})
	if err != nil {
		return nil, err
	}

	return RegisterResponse{Token: out.Token, User: newUser(out.User)}, nil
}

func (h *HTTPEndpoint) ForgotPasswordSendOTP(r *router.Request) (any, error) {
	var req EmailRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.ForgotPasswordSendOTP(r.Context(), usecase.ForgotPasswordInput{Email: req.Email})
	if err != nil {
		return nil, err
	}

	return newOTPSent(out, msgOTPSent), nil
}

func (h *HTTPEndpoint) ResetPassword(r *router.Request) (any, error) {
	var req ResetPasswordRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.ResetPassword(r.Context(), req.input()); err != nil {
		return nil, err
	}

	return ResetPasswordResponse{}, nil
}

func (h *HTTPEndpoint) Logout(r *router.Request) (any, error) {
	if err := h.uc.Logout(r.Context()); err != nil {
		return nil, err
	}

	return LogoutResponse{}, nil
}

func (h *HTTPEndpoint) Session(r *router.Request) (any, error) {
	out, err := h.uc.Session(r.Context())
	if err != nil {
		return nil, err
	}

	return SessionResponse{
		User:      newUser(out.User),
		IssuedAt:  out.IssuedAt,
		ExpiresAt: out.ExpiresAt,
	}, nil
}
