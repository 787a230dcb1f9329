package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/greenvista/internal/identity"
	"github.com/shandysiswandi/greenvista/internal/servicerequest"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.identity.enabled") {
		mod, err := identity.New(identity.Dependency{
			DBConn:     a.dbConn,
			OTP:        a.otp,
			Router:     a.router,
			Validator:  a.validator,
			Password:   a.password,
			UID:        a.uid,
			Clock:      a.clock,
			JWT:        a.jwt,
			Instrument: a.ins,
		})
		if err != nil {
			slog.Error("failed to init module identity", "error", err)
			os.Exit(1)
		}

		spec := a.config.GetString("modules.identity.otp.sweep_cron")
		if spec == "" {
			spec = "*/5 * * * *"
		}
		if a.otp.Sweepable() {
			if err := a.cron.AddJob(mod.SweepJob(), spec); err != nil {
				slog.Error("failed to schedule otp sweep", "spec", spec, "error", err)
				os.Exit(1)
			}
		}
	}

	if a.config.GetBool("modules.servicerequest.enabled") {
		if err := servicerequest.New(servicerequest.Dependency{
			DBConn:         a.dbConn,
			OTP:            a.otp,
			Notification:   a.notification,
			Idempotency:    a.idemp,
			Goroutine:      a.goroutine,
			Router:         a.router,
			Validator:      a.validator,
			UID:            a.uid,
			Clock:          a.clock,
			Instrument:     a.ins,
			IdempotencyTTL: a.config.GetSecond("modules.servicerequest.idempotency_ttl_seconds"),
		}); err != nil {
			slog.Error("failed to init module servicerequest", "error", err)
			os.Exit(1)
		}
	}
}
