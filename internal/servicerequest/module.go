// Package servicerequest takes in maintenance requests from owners, with an
// optional mailed code for callers that want the submission verified.
package servicerequest

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/greenvista/internal/notification"
	"github.com/shandysiswandi/greenvista/internal/pkg/clock"
	"github.com/shandysiswandi/greenvista/internal/pkg/goroutine"
	"github.com/shandysiswandi/greenvista/internal/pkg/idempotency"
	"github.com/shandysiswandi/greenvista/internal/pkg/instrument"
	"github.com/shandysiswandi/greenvista/internal/pkg/otp"
	"github.com/shandysiswandi/greenvista/internal/pkg/router"
	"github.com/shandysiswandi/greenvista/internal/pkg/uid"
	"github.com/shandysiswandi/greenvista/internal/pkg/validator"
	"github.com/shandysiswandi/greenvista/internal/servicerequest/inbound"
	"github.com/shandysiswandi/greenvista/internal/servicerequest/outbound/db"
	"github.com/shandysiswandi/greenvista/internal/servicerequest/outbound/notify"
	"github.com/shandysiswandi/greenvista/internal/servicerequest/usecase"
)

type Dependency struct {
	DBConn       *pgxpool.Pool              `validate:"required"`
	OTP          *otp.Manager               `validate:"required"`
	Notification *notification.Module       `validate:"required"`
	Idempotency  idempotency.Idempotency    `validate:"required"`
	Goroutine    *goroutine.Manager         `validate:"required"`
	Router       *router.Router             `validate:"required"`
	Validator    validator.Validator        `validate:"required"`
	UID          uid.NumberID               `validate:"required"`
	Clock        clock.Clocker              `validate:"required"`
	Instrument   instrument.Instrumentation `validate:"required"`

	IdempotencyTTL time.Duration
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:         db.NewDB(dep.DBConn, dep.Instrument),
		RepoNotify:     notify.New(dep.Notification, dep.Instrument),
		OTP:            dep.OTP,
		Idempotency:    dep.Idempotency,
		Goroutine:      dep.Goroutine,
		Validator:      dep.Validator,
		UID:            dep.UID,
		Clock:          dep.Clock,
		Instrument:     dep.Instrument,
		IdempotencyTTL: dep.IdempotencyTTL,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
