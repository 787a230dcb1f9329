package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/greenvista/internal/notification/entity"
	"github.com/shandysiswandi/greenvista/internal/pkg/mail"
)

// ServiceRequestPayload describes a freshly submitted service request.
type ServiceRequestPayload struct {
	OwnerName string
	RequestID string
	Type      string
	Details   string
	Status    string
}

// NotifyServiceRequest tells the owner their request was received.
func (s *Usecase) NotifyServiceRequest(ctx context.Context, destination string, p ServiceRequestPayload) error {
	ctx, span := s.startSpan(ctx, "NotifyServiceRequest")
	defer span.End()

	tpl, _ := entity.TemplateFor(entity.TriggerServiceRequestSubmitted)

	body, err := s.render("service_request.html", entity.ServiceRequestMail{
		Template:  tpl,
		OwnerName: p.OwnerName,
		RequestID: p.RequestID,
		Type:      p.Type,
		Details:   p.Details,
		Status:    p.Status,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to render service request email", "request_id", p.RequestID, "error", err)
		return err
	}

	return s.repoMail.Send(ctx, mail.Message{
		To:       []string{destination},
		Subject:  tpl.Subject,
		HTMLBody: body,
	})
}
