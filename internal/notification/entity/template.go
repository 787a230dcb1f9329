package entity

import "time"

// TriggerKey names the event a mail is sent for.
type TriggerKey string

const (
	TriggerOTPLogin                TriggerKey = "otp.login"
	TriggerOTPRegistration         TriggerKey = "otp.registration"
	TriggerOTPPasswordReset        TriggerKey = "otp.password-reset"
	TriggerOTPServiceRequest       TriggerKey = "otp.service-request"
	TriggerServiceRequestSubmitted TriggerKey = "service-request.submitted"
)

func (t TriggerKey) String() string { return string(t) }

// Template is the subject and copy of one trigger's mail.
type Template struct {
	Subject string
	Title   string
	// Action completes "Your one-time password for ..." in OTP mails.
	Action string
}

var templates = map[TriggerKey]Template{
	TriggerOTPLogin: {
		Subject: "GREEN VISTA - Login OTP Verification",
		Title:   "Login Verification",
		Action:  "login",
	},
	TriggerOTPRegistration: {
		Subject: "GREEN VISTA - Registration OTP Verification",
		Title:   "Registration Verification",
		Action:  "account registration",
	},
	TriggerOTPPasswordReset: {
		Subject: "GREEN VISTA - Password Reset OTP Verification",
		Title:   "Password Reset Verification",
		Action:  "password reset",
	},
	TriggerOTPServiceRequest: {
		Subject: "GREEN VISTA - Service Request OTP Verification",
		Title:   "Service Request Verification",
		Action:  "submitting a service request",
	},
	TriggerServiceRequestSubmitted: {
		Subject: "✅ GREEN VISTA - Service Request Received",
		Title:   "Service Request Submitted",
	},
}

// TemplateFor returns the template registered for t.
func TemplateFor(t TriggerKey) (Template, bool) {
	tpl, ok := templates[t]
	return tpl, ok
}

// OTPMail is the data rendered into an OTP mail.
type OTPMail struct {
	Template
	Code     string
	ValidFor time.Duration
}

// ServiceRequestMail is the data rendered into a submission notice.
type ServiceRequestMail struct {
	Template
	OwnerName string
	RequestID string
	Type      string
	Details   string
	Status    string
}
