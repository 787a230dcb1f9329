package inbound

import (
	"net/http"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/greenvista/internal/identity/entity"
	"github.com/shandysiswandi/greenvista/internal/identity/usecase"
	"github.com/shandysiswandi/greenvista/internal/pkg/otp"
)

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type EmailRequest struct {
	Email string `json:"email"`
}

type VerifyOTPRequest struct {
	Email string   `json:"email"`
	OTP   otp.Code `json:"otp"`
}

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	Address         string `json:"address"`
	ApartmentNumber string `json:"apartment_number"`

	// Accepted on input alongside the snake_case name.
	ApartmentNumberCamel string `json:"apartmentNumber"`
}

func (r RegisterRequest) input() usecase.RegisterInput {
	return usecase.RegisterInput{
		Name:            r.Name,
		Email:           r.Email,
		Phone:           r.Phone,
		Password:        r.Password,
		Address:         r.Address,
		ApartmentNumber: lo.CoalesceOrEmpty(r.ApartmentNumber, r.ApartmentNumberCamel),
	}
}

type RegisterVerifyRequest struct {
	RegisterRequest
	OTP otp.Code `json:"otp"`
}

type ResetPasswordRequest struct {
	Email           string   `json:"email"`
	OTP             otp.Code `json:"otp"`
	NewPassword     string   `json:"new_password"`
	ConfirmPassword string   `json:"confirm_password"`

	// Accepted on input alongside the snake_case names.
	NewPasswordCamel     string `json:"newPassword"`
	ConfirmPasswordCamel string `json:"confirmPassword"`
}

func (r ResetPasswordRequest) input() usecase.ResetPasswordInput {
	return usecase.ResetPasswordInput{
		Email:           r.Email,
		OTP:             r.OTP.String(),
		NewPassword:     lo.CoalesceOrEmpty(r.NewPassword, r.NewPasswordCamel),
		ConfirmPassword: lo.CoalesceOrEmpty(r.ConfirmPassword, r.ConfirmPasswordCamel),
	}
}

type OTPSentResponse struct {
	OTPID     string    `json:"otp_id"`
	ExpiresAt time.Time `json:"expires_at"`

	msg string
}

func newOTPSent(out *usecase.OTPIssued, msg string) OTPSentResponse {
	return OTPSentResponse{OTPID: out.OTPID, ExpiresAt: out.ExpiresAt, msg: msg}
}

func (r OTPSentResponse) Message() string { return r.msg }

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func newUser(s entity.Summary) UserResponse {
	return UserResponse{ID: s.ID, Name: s.Name, Email: s.Email, Role: s.Role.String()}
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func (LoginResponse) Message() string { return "Login successful" }

type RegisterResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func (RegisterResponse) Message() string { return "Registration completed successfully" }

func (RegisterResponse) StatusCode() int { return http.StatusCreated }

type ResetPasswordResponse struct{}

func (ResetPasswordResponse) Message() string {
	return "Password reset successfully. You can now login with your new password."
}

type LogoutResponse struct{}

func (LogoutResponse) Message() string { return "Logout successful" }

type SessionResponse struct {
	User      UserResponse `json:"user"`
	IssuedAt  time.Time    `json:"issued_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

func (SessionResponse) Message() string { return "Session is active" }
