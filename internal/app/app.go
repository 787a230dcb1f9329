package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/greenvista/internal/notification"
	"github.com/shandysiswandi/greenvista/internal/pkg/authz"
	"github.com/shandysiswandi/greenvista/internal/pkg/clock"
	"github.com/shandysiswandi/greenvista/internal/pkg/config"
	"github.com/shandysiswandi/greenvista/internal/pkg/goroutine"
	"github.com/shandysiswandi/greenvista/internal/pkg/hash"
	"github.com/shandysiswandi/greenvista/internal/pkg/idempotency"
	"github.com/shandysiswandi/greenvista/internal/pkg/instrument"
	"github.com/shandysiswandi/greenvista/internal/pkg/jwt"
	"github.com/shandysiswandi/greenvista/internal/pkg/mail"
	"github.com/shandysiswandi/greenvista/internal/pkg/otp"
	"github.com/shandysiswandi/greenvista/internal/pkg/router"
	"github.com/shandysiswandi/greenvista/internal/pkg/scheduler"
	"github.com/shandysiswandi/greenvista/internal/pkg/uid"
	"github.com/shandysiswandi/greenvista/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	password  hash.Hash
	uid       uid.NumberID
	uuid      uid.StringID
	jwt       jwt.JWT
	gate      *authz.Gate

	// resources
	dbConn       *pgxpool.Pool
	cacheConn    *redis.Client
	idemp        idempotency.Idempotency
	mail         mail.Mail
	notification *notification.Module
	otp          *otp.Manager
	cron         *scheduler.Cron

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initAuthz()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initOTP()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
