package notify

import (
	"context"
	"strconv"

	notification "github.com/shandysiswandi/greenvista/internal/notification/usecase"
	"github.com/shandysiswandi/greenvista/internal/pkg/instrument"
	"github.com/shandysiswandi/greenvista/internal/servicerequest/entity"
)

type notifier interface {
	NotifyServiceRequest(ctx context.Context, destination string, p notification.ServiceRequestPayload) error
}

// Notify hands service request events to the notification module.
type Notify struct {
	n   notifier
	ins instrument.Instrumentation
}

func New(n notifier, ins instrument.Instrumentation) *Notify {
	return &Notify{n: n, ins: ins}
}

func (s *Notify) RequestSubmitted(ctx context.Context, owner entity.Owner, req entity.ServiceRequest) error {
	ctx, span := s.ins.Tracer("servicerequest.outbound.notify").Start(ctx, "RequestSubmitted")
	defer span.End()

	return s.n.NotifyServiceRequest(ctx, owner.Email, notification.ServiceRequestPayload{
		OwnerName: owner.Name,
		RequestID: strconv.FormatInt(req.ID, 10),
		Type:      req.Type,
		Details:   req.Details,
		Status:    req.Status.String(),
	})
}
