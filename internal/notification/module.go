// Package notification renders and mails the messages other modules emit:
// one-time codes and service request receipts.
package notification

import (
	"github.com/shandysiswandi/greenvista/internal/notification/outbound/email"
	"github.com/shandysiswandi/greenvista/internal/notification/usecase"
	"github.com/shandysiswandi/greenvista/internal/pkg/instrument"
	"github.com/shandysiswandi/greenvista/internal/pkg/mail"
)

type Dependency struct {
	Mail       mail.Mail
	Instrument instrument.Instrumentation
}

// Module exposes the rendered mail senders. Usecase satisfies otp.Sender.
type Module struct {
	*usecase.Usecase
}

func New(dep Dependency) (*Module, error) {
	uc, err := usecase.NewNotification(usecase.Dependency{
		RepoMail:   email.New(dep.Mail, dep.Instrument),
		Instrument: dep.Instrument,
	})
	if err != nil {
		return nil, err
	}

	return &Module{Usecase: uc}, nil
}
