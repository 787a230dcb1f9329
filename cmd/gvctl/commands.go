package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shandysiswandi/greenvista/internal/client"
	"github.com/shandysiswandi/greenvista/internal/session"
	"github.com/spf13/cobra"
)

const msgExpired = "Session expired. Please login again."

func newLoginCmd(c *cli) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with password and a one-time code sent by mail",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			in := bufio.NewReader(cmd.InOrStdin())

			addr := email
			if addr == "" {
				v, err := prompt(cmd, in, "Email: ")
				if err != nil {
					return err
				}
				addr = v
			}

			password, err := prompt(cmd, in, "Password: ")
			if err != nil {
				return err
			}

			sent, err := c.api.VerifyCredentials(ctx, addr, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s, valid until %s\n", sent.Message, sent.ExpiresAt.Local().Format(time.TimeOnly))

			code, err := prompt(cmd, in, "OTP: ")
			if err != nil {
				return err
			}

			login, err := c.api.VerifyOTP(ctx, addr, code)
			if err != nil {
				return err
			}

			m, err := c.monitor(nil)
			if err != nil {
				return err
			}
			defer m.Close()

			if err := m.Begin(ctx, session.State{Token: login.Token, Role: login.User.Role, User: login.User}); err != nil {
				return err
			}

			fmt.Fprintf(out, "Signed in as %s (%s)\n", login.User.Email, login.User.Role)
			if !c.privileged(login.User.Role) {
				fmt.Fprintf(out, "Session ends in %s\n", c.cfg.SessionWindow)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")

	return cmd
}

func newStatusCmd(c *cli) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the signed-in account and the time left in the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			m, err := c.monitor(nil)
			if err != nil {
				return err
			}
			defer m.Close()

			st, err := m.Resume(ctx)
			switch {
			case errors.Is(err, session.ErrNoSession):
				fmt.Fprintln(out, "Not signed in")
				return nil
			case errors.Is(err, session.ErrExpired):
				fmt.Fprintln(out, msgExpired)
				return nil
			case err != nil:
				return err
			}

			if remote {
				info, err := c.api.Session(ctx, st.Token)
				if client.IsUnauthorized(err) {
					if err := m.End(ctx); err != nil {
						return err
					}
					fmt.Fprintln(out, msgExpired)
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Token valid until %s\n", info.ExpiresAt.Local().Format(time.DateTime))
			}

			status := m.Status()
			fmt.Fprintf(out, "Signed in as %s (%s)\n", st.User.Email, st.Role)
			if status.Limited {
				fmt.Fprintf(out, "Session ends in %s\n", status.Remaining.Round(time.Second))
			} else {
				fmt.Fprintln(out, "Session does not expire locally")
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "also ask the API whether the token is still accepted")

	return cmd
}

func newWatchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep the session monitor running until the session ends or SIGINT",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return c.watch(ctx, cmd)
		},
	}
}

// watch blocks until the session expires or ctx is done.
func (c *cli) watch(ctx context.Context, cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	expired := make(chan session.Reason, 1)

	m, err := c.monitor(func(r session.Reason) {
		select {
		case expired <- r:
		default:
		}
	})
	if err != nil {
		return err
	}
	defer m.Close()

	st, err := m.Resume(ctx)
	switch {
	case errors.Is(err, session.ErrNoSession):
		fmt.Fprintln(out, "Not signed in")
		return nil
	case errors.Is(err, session.ErrExpired):
		fmt.Fprintln(out, msgExpired)
		return nil
	case err != nil:
		return err
	}

	fmt.Fprintf(out, "Watching session for %s\n", st.User.Email)

	select {
	case r := <-expired:
		if r == session.ReasonCleared {
			fmt.Fprintln(out, "Signed out elsewhere")
		} else {
			fmt.Fprintln(out, msgExpired)
		}
	case <-ctx.Done():
		fmt.Fprintln(out, "Stopped")
	}

	return nil
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and remove the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			st, err := c.store.Load(ctx)
			if errors.Is(err, session.ErrNoSession) {
				fmt.Fprintln(out, "Not signed in")
				return nil
			}
			if err != nil {
				return err
			}

			if err := c.api.Logout(ctx, st.Token); err != nil && !client.IsUnauthorized(err) {
				return err
			}

			m, err := c.monitor(nil)
			if err != nil {
				return err
			}
			defer m.Close()

			if err := m.End(ctx); err != nil {
				return err
			}

			fmt.Fprintln(out, "Logout successful")
			return nil
		},
	}
}
