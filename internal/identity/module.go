// Package identity wires the OTP gated authentication flows: credential
// check, login, registration, password reset and session introspection.
package identity

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/greenvista/internal/identity/inbound"
	"github.com/shandysiswandi/greenvista/internal/identity/outbound/db"
	"github.com/shandysiswandi/greenvista/internal/identity/usecase"
	"github.com/shandysiswandi/greenvista/internal/pkg/clock"
	"github.com/shandysiswandi/greenvista/internal/pkg/hash"
	"github.com/shandysiswandi/greenvista/internal/pkg/instrument"
	"github.com/shandysiswandi/greenvista/internal/pkg/jwt"
	"github.com/shandysiswandi/greenvista/internal/pkg/otp"
	"github.com/shandysiswandi/greenvista/internal/pkg/router"
	"github.com/shandysiswandi/greenvista/internal/pkg/scheduler"
	"github.com/shandysiswandi/greenvista/internal/pkg/uid"
	"github.com/shandysiswandi/greenvista/internal/pkg/validator"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	OTP        *otp.Manager               `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Password   hash.Hash                  `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	JWT        jwt.JWT                    `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
}

type Module struct {
	uc *usecase.Usecase
}

func New(dep Dependency) (*Module, error) {
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:     db.NewDB(dep.DBConn, dep.Instrument),
		OTP:        dep.OTP,
		Validator:  dep.Validator,
		Password:   dep.Password,
		UID:        dep.UID,
		Clock:      dep.Clock,
		JWT:        dep.JWT,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return &Module{uc: uc}, nil
}

// SweepJob reclaims expired codes on a schedule.
func (m *Module) SweepJob() scheduler.Job {
	return scheduler.JobFunc{JobName: "otp-sweep", Fn: m.uc.SweepOTP}
}
