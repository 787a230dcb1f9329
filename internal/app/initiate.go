package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/shandysiswandi/greenvista/internal/notification"
	"github.com/shandysiswandi/greenvista/internal/pkg/authz"
	"github.com/shandysiswandi/greenvista/internal/pkg/clock"
	"github.com/shandysiswandi/greenvista/internal/pkg/config"
	"github.com/shandysiswandi/greenvista/internal/pkg/database"
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

// OTP store drivers accepted by modules.identity.otp.store.
const (
	otpStoreRedis    = "redis"
	otpStorePostgres = "postgres"
	otpStoreMemory   = "memory"
)

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("app.tz"))

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(context.Background(), &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
		LogLevel:         a.config.GetString("instrument.log_level"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))
	a.hmac = hash.NewHMACSHA256(a.config.GetString("hash.hmac.secret"))

	password, err := hash.NewPassword(hash.PasswordConfig{
		Algorithm:  a.config.GetString("hash.password.algorithm"),
		BcryptCost: a.config.GetInt("hash.bcrypt.cost"),
		Pepper:     a.passwordPepper(),
	})
	if err != nil {
		slog.Error("failed to init password hasher", "error", err)
		os.Exit(1)
	}
	a.password = password

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator

	snow, err := uid.NewSnowflake()
	if err != nil {
		slog.Error("failed to init uid number snowflake", "error", err)
		os.Exit(1)
	}
	a.uid = snow
}

func (a *App) passwordPepper() string {
	if strings.EqualFold(a.config.GetString("hash.password.algorithm"), hash.AlgorithmArgon2id) {
		return a.config.GetString("hash.argon2id.pepper")
	}
	return a.config.GetString("hash.bcrypt.pepper")
}

func (a *App) initAuthz() {
	var rules []authz.Rule
	if entries := a.config.GetArray("authz.policies"); len(entries) > 0 {
		parsed, err := authz.ParseRules(entries)
		if err != nil {
			slog.Error("failed to parse authz policies", "error", err)
			os.Exit(1)
		}
		rules = parsed
	}

	gate, err := authz.New(rules)
	if err != nil {
		slog.Error("failed to init authz gate", "error", err)
		os.Exit(1)
	}
	a.gate = gate
}

func (a *App) initJWT() {
	defaultJWT, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(a.config.GetString("jwt.secret")),
		Issuer:    a.config.GetString("jwt.issuer"),
		Audiences: a.config.GetArray("jwt.audiences"),
		TTL:       a.config.GetDay("jwt.ttl_days"),
		Clock:     a.clock,
		UUID:      a.uuid,
	})
	if err != nil {
		slog.Error("failed to init jwt token", "error", err)
		os.Exit(1)
	}
	a.jwt = defaultJWT
}

func (a *App) retryConfig() database.RetryConfig {
	return database.RetryConfig{
		Base:        a.config.GetSecond("database.retry.base_seconds"),
		MaxAttempts: uint64(max(a.config.GetInt("database.retry.max_attempts"), 0)),
		PingTimeout: a.config.GetSecond("database.retry.ping_timeout_seconds"),
	}
}

func (a *App) initDatabase() {
	pool, err := database.ConnectPostgres(a.ctx, database.PostgresConfig{
		URL:               a.config.GetString("database.url"),
		MaxConns:          int32(a.config.GetInt("database.pool.max_conns")),
		MinConns:          int32(a.config.GetInt("database.pool.min_conns")),
		MaxConnLifetime:   a.config.GetSecond("database.pool.max_conn_lifetime_seconds"),
		MaxConnIdleTime:   a.config.GetSecond("database.pool.max_conn_idle_seconds"),
		HealthCheckPeriod: a.config.GetSecond("database.pool.health_check_period_seconds"),
		Retry:             a.retryConfig(),
	})
	if err != nil {
		slog.Error("failed to connect DB", "error", err)
		os.Exit(1)
	}

	if a.config.GetBool("database.migrate") {
		if err := database.Migrate(a.ctx, pool); err != nil {
			slog.Error("failed to migrate DB", "error", err)
			os.Exit(1)
		}
	}

	a.dbConn = pool
}

func (a *App) initCache() {
	rdb, err := database.ConnectRedis(a.ctx, a.config.GetString("redis.url"), a.retryConfig())
	if err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
	a.idemp = idempotency.New(a.cacheConn)
}

func (a *App) initMail() {
	m, err := mail.NewFromDriver(a.config.GetString("mail.driver"), mail.Config{
		Host:     a.config.GetString("mail.host"),
		Port:     a.config.GetInt("mail.port"),
		Username: a.config.GetString("mail.username"),
		Password: a.config.GetString("mail.password"),
		From:     a.config.GetString("mail.from"),
	})
	if err != nil {
		slog.Error("failed to init mail", "error", err)
		os.Exit(1)
	}
	a.mail = m

	notif, err := notification.New(notification.Dependency{
		Mail:       a.mail,
		Instrument: a.ins,
	})
	if err != nil {
		slog.Error("failed to init module notification", "error", err)
		os.Exit(1)
	}
	a.notification = notif
}

func (a *App) initOTP() {
	store, err := newOTPStore(a.config.GetString("modules.identity.otp.store"), a.cacheConn, a.dbConn)
	if err != nil {
		slog.Error("failed to init otp store", "error", err)
		os.Exit(1)
	}

	grace := otp.DefaultGrace
	if a.config.GetString("modules.identity.otp.grace_seconds") != "" {
		grace = a.config.GetSecond("modules.identity.otp.grace_seconds")
	}

	manager, err := otp.NewManager(otp.Config{
		Store:           store,
		Sender:          a.notification,
		Clock:           a.clock,
		UUID:            a.uuid,
		Hasher:          a.hmac,
		Instrument:      a.ins,
		DispatchTimeout: a.config.GetSecond("modules.identity.otp.dispatch_timeout_seconds"),
		Grace:           grace,
	})
	if err != nil {
		slog.Error("failed to init otp manager", "error", err)
		os.Exit(1)
	}
	a.otp = manager

	a.cron = scheduler.New()
}

func newOTPStore(driver string, rdb redis.UniversalClient, db otp.DBTX) (otp.Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", otpStoreRedis:
		return otp.NewRedisStore(rdb), nil
	case otpStorePostgres:
		return otp.NewPostgresStore(db), nil
	case otpStoreMemory:
		return otp.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported otp store %q", driver)
	}
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		JWT:        a.jwt,
		Instrument: a.ins,
		Gate:       a.gate,
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Scheduler",
			fn: func(ctx context.Context) error {
				return a.cron.Stop(ctx)
			},
		},
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Mail",
			fn: func(context.Context) error {
				return a.mail.Close()
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				return a.cacheConn.Close()
			},
		},
		{
			name: "Database",
			fn: func(context.Context) error {
				a.dbConn.Close()

				return nil
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
