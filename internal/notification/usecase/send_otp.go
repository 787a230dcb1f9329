package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shandysiswandi/greenvista/internal/notification/entity"
	"github.com/shandysiswandi/greenvista/internal/pkg/mail"
	"github.com/shandysiswandi/greenvista/internal/pkg/otp"
)

// SendOTP mails code to destination using the purpose's template.
func (s *Usecase) SendOTP(ctx context.Context, destination, code string, purpose otp.Purpose) error {
	ctx, span := s.startSpan(ctx, "SendOTP")
	defer span.End()

	trigger := entity.TriggerKey("otp." + purpose.String())
	tpl, ok := entity.TemplateFor(trigger)
	if !ok {
		return fmt.Errorf("notification: no template for %s", trigger)
	}

	body, err := s.render("otp.html", entity.OTPMail{Template: tpl, Code: code, ValidFor: purpose.Window()})
	if err != nil {
		slog.ErrorContext(ctx, "failed to render otp email", "trigger_key", trigger.String(), "error", err)
		return err
	}

	return s.repoMail.Send(ctx, mail.Message{
		To:       []string{destination},
		Subject:  tpl.Subject,
		TextBody: fmt.Sprintf("Your GREEN VISTA verification code is %s.", code),
		HTMLBody: body,
	})
}
