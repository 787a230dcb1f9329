package main

import (
	"bufio"
	"fmt"
	"net/http"
	"strings"

	"github.com/shandysiswandi/greenvista/internal/client"
	"github.com/shandysiswandi/greenvista/internal/pkg/authz"
	"github.com/shandysiswandi/greenvista/internal/pkg/clock"
	"github.com/shandysiswandi/greenvista/internal/session"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// cli holds what every subcommand needs. Tests build it directly.
type cli struct {
	cfg   *Config
	api   *client.Client
	store session.Store
	clock clock.Scheduler
	gate  *authz.Gate
}

func newCLI(cfg *Config) (*cli, error) {
	gate, err := authz.New(nil)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{
		Timeout:   cfg.HTTPTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	return &cli{
		cfg:   cfg,
		api:   client.New(cfg.APIURL, httpClient),
		store: session.NewFileStore(cfg.SessionFile),
		clock: clock.New(),
		gate:  gate,
	}, nil
}

// privileged roles are never timed out locally.
func (c *cli) privileged(role string) bool {
	ok, err := c.gate.Allow(role, authz.ScopePrivileged)
	return err == nil && ok
}

func (c *cli) monitor(onExpire func(session.Reason)) (*session.Monitor, error) {
	return session.NewMonitor(session.Config{
		Clock:    c.clock,
		Store:    c.store,
		Window:   c.cfg.SessionWindow,
		Interval: c.cfg.CheckInterval,
		Exempt:   c.privileged,
		OnExpire: onExpire,
	})
}

// newRootCmd wires the command tree. A nil c is built from the environment
// before any subcommand runs.
func newRootCmd(c *cli) *cobra.Command {
	fromEnv := c == nil
	if fromEnv {
		c = &cli{}
	}

	root := &cobra.Command{
		Use:           "gvctl",
		Short:         "GreenVista command line client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if !fromEnv {
				return nil
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			built, err := newCLI(cfg)
			if err != nil {
				return err
			}
			*c = *built
			return nil
		},
	}

	root.AddCommand(
		newLoginCmd(c),
		newStatusCmd(c),
		newWatchCmd(c),
		newLogoutCmd(c),
	)

	return root
}

func prompt(cmd *cobra.Command, in *bufio.Reader, label string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), label)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read %s: %w", label, err)
	}
	return strings.TrimSpace(line), nil
}
