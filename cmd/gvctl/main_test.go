package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shandysiswandi/greenvista/internal/client"
	"github.com/shandysiswandi/greenvista/internal/pkg/authz"
	"github.com/shandysiswandi/greenvista/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

var now = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

type fakeAPI struct {
	role      string
	loggedOut atomic.Bool
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	reply := func(status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	var body map[string]string
	_ = json.NewDecoder(r.Body).Decode(&body)

	switch r.URL.Path {
	case "/api/v1/auth/verify-credentials-send-otp":
		if body["password"] != "secret1" {
			reply(http.StatusUnauthorized, map[string]any{"message": "Incorrect password"})
			return
		}
		reply(http.StatusOK, map[string]any{
			"message": "OTP sent to your email",
			"data":    map[string]any{"otp_id": "otp-1", "expires_at": now.Add(time.Minute)},
		})
	case "/api/v1/auth/verify-otp":
		if body["otp"] != "123456" {
			reply(http.StatusUnauthorized, map[string]any{"message": "Invalid OTP"})
			return
		}
		reply(http.StatusOK, map[string]any{
			"message": "Login successful",
			"data": map[string]any{
				"token": "jwt-" + f.role,
				"user":  map[string]any{"id": "7", "name": "Alice", "email": body["email"], "role": f.role},
			},
		})
	case "/api/v1/auth/logout":
		f.loggedOut.Store(true)
		reply(http.StatusOK, map[string]any{"message": "Logout successful"})
	case "/api/v1/auth/session":
		reply(http.StatusUnauthorized, map[string]any{"message": "Invalid or expired token"})
	default:
		http.NotFound(w, r)
	}
}

type harness struct {
	cli   *cli
	api   *fakeAPI
	clock clockwork.FakeClock
	store *session.MemoryStore
}

func newHarness(t *testing.T, role string) *harness {
	t.Helper()

	api := &fakeAPI{role: role}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	gate, err := authz.New(nil)
	require.NoError(t, err)

	fc := clockwork.NewFakeClockAt(now)
	store := session.NewMemoryStore()

	return &harness{
		cli: &cli{
			cfg:   &Config{APIURL: srv.URL, SessionWindow: 5 * time.Minute, CheckInterval: -1},
			api:   client.New(srv.URL, srv.Client()),
			store: store,
			clock: fc,
			gate:  gate,
		},
		api:   api,
		clock: fc,
		store: store,
	}
}

func (h *harness) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCmd(h.cli)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLogin_OwnerGetsTimedSession(t *testing.T) {
	h := newHarness(t, "owner")

	out, err := h.run(t, "secret1\n123456\n", "login", "--email", "alice@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "OTP sent to your email")
	assert.Contains(t, out, "Signed in as alice@example.com (owner)")
	assert.Contains(t, out, "Session ends in 5m0s")

	st, err := h.store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "jwt-owner", st.Token)
	assert.Equal(t, now, st.SessionStart)

	h.clock.Advance(2 * time.Minute)
	out, err = h.run(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Session ends in 3m0s")

	h.clock.Advance(3 * time.Minute)
	out, err = h.run(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, msgExpired)

	_, err = h.store.Load(context.Background())
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestLogin_AdminIsNotTimed(t *testing.T) {
	h := newHarness(t, "admin")

	out, err := h.run(t, "alice@example.com\nsecret1\n123456\n", "login")
	require.NoError(t, err)
	assert.NotContains(t, out, "Session ends in")

	h.clock.Advance(time.Hour)
	out, err = h.run(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Session does not expire locally")
}

func TestLogin_Rejected(t *testing.T) {
	h := newHarness(t, "owner")

	_, err := h.run(t, "wrong\n", "login", "--email", "alice@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect password")

	_, err = h.run(t, "secret1\n000000\n", "login", "--email", "alice@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid OTP")

	_, err = h.store.Load(context.Background())
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestStatus_RemoteRejectionClearsSession(t *testing.T) {
	h := newHarness(t, "owner")
	_, err := h.run(t, "secret1\n123456\n", "login", "--email", "alice@example.com")
	require.NoError(t, err)

	out, err := h.run(t, "", "status", "--remote")
	require.NoError(t, err)
	assert.Contains(t, out, msgExpired)

	_, err = h.store.Load(context.Background())
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestLogout(t *testing.T) {
	h := newHarness(t, "owner")

	out, err := h.run(t, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")
	assert.False(t, h.api.loggedOut.Load())

	_, err = h.run(t, "secret1\n123456\n", "login", "--email", "alice@example.com")
	require.NoError(t, err)

	out, err = h.run(t, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logout successful")
	assert.True(t, h.api.loggedOut.Load())

	_, err = h.store.Load(context.Background())
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestWatch_ReturnsOnExpiry(t *testing.T) {
	h := newHarness(t, "owner")
	_, err := h.run(t, "secret1\n123456\n", "login", "--email", "alice@example.com")
	require.NoError(t, err)

	done := make(chan string, 1)
	go func() {
		out, _ := h.run(t, "", "watch")
		done <- out
	}()

	h.clock.BlockUntil(1)
	h.clock.Advance(5 * time.Minute)

	select {
	case out := <-done:
		assert.Contains(t, out, "Watching session for alice@example.com")
		assert.Contains(t, out, msgExpired)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not return after expiry")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("GVCTL_API_URL", "https://api.example.com")
	t.Setenv("GVCTL_SESSION_FILE", filepath.Join(t.TempDir(), "s.json"))
	t.Setenv("GVCTL_SESSION_WINDOW", "90s")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.APIURL)
	assert.Equal(t, 90*time.Second, cfg.SessionWindow)
	assert.Equal(t, time.Minute, cfg.CheckInterval)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
}
