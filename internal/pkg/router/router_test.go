package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shandysiswandi/greenvista/internal/pkg/authz"
	"github.com/shandysiswandi/greenvista/internal/pkg/goerror"
	"github.com/shandysiswandi/greenvista/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticID string

func (s staticID) Generate() string { return string(s) }

type fixture struct {
	router *Router
	clock  clockwork.FakeClock
	signer *jwt.Symmetric
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	c := clockwork.NewFakeClockAt(time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC))
	signer, err := jwt.NewHS512(jwt.Config{
		Secret: []byte(strings.Repeat("s", 64)),
		Issuer: "greenvista",
		Clock:  c,
		UUID:   staticID("jti"),
	})
	require.NoError(t, err)

	gate, err := authz.New(nil)
	require.NoError(t, err)

	r := NewRouter(Config{UUID: staticID("cid-generated"), JWT: signer, Gate: gate})

	r.Public(http.MethodPost, "/api/v1/auth/send-otp")
	r.POST("/api/v1/auth/send-otp", func(req *Request) (any, error) {
		var body struct {
			Email string `json:"email"`
		}
		if err := req.DecodeBody(&body); err != nil {
			return nil, err
		}
		if body.Email == "" {
			return nil, goerror.NewInvalidInput(nil, "email", "email is a required field")
		}
		return map[string]string{"otp_id": "1"}, nil
	})
	r.GET("/api/v1/requests/my", func(req *Request) (any, error) {
		return map[string]int64{"user_id": jwt.GetAuth(req.Context()).UserID}, nil
	})
	r.GET("/api/v1/requests", func(*Request) (any, error) {
		return []string{}, nil
	}, r.Require(authz.ScopePrivileged))
	r.GET("/boom", func(*Request) (any, error) { panic("kaboom") })
	r.GET("/fail", func(*Request) (any, error) { return nil, errors.New("raw") })

	return &fixture{router: r, clock: c, signer: signer}
}

func (f *fixture) token(t *testing.T, role string) string {
	t.Helper()
	tok, err := f.signer.Generate(jwt.Subject{ID: 7, Role: role, Email: "a@example.com"})
	require.NoError(t, err)
	return tok
}

func (f *fixture) do(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRouter_Health(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cid-generated", rec.Header().Get(HeaderCorrelationID))
	assert.Equal(t, map[string]any{"status": "ok"}, decode(t, rec)["data"])
}

func TestRouter_PublicEndpointAndEnvelopes(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/auth/send-otp", `{"email":"a@example.com"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"otp_id": "1"}, decode(t, rec)["data"])

	rec = f.do(http.MethodPost, "/api/v1/auth/send-otp", `{"email":""}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]any{
		"message": "Validation error",
		"error":   map[string]any{"email": "email is a required field"},
	}, decode(t, rec))

	rec = f.do(http.MethodPost, "/api/v1/auth/send-otp", `{"email":"a@example.com","extra":1}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Authentication(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/requests/my", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, MsgAuthRequired, decode(t, rec)["message"])

	owner := f.token(t, "owner")
	rec = f.do(http.MethodGet, "/api/v1/requests/my", "", owner)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"user_id": float64(7)}, decode(t, rec)["data"])

	dot := strings.LastIndex(owner, ".") + 1
	flip := byte('A')
	if owner[dot] == 'A' {
		flip = 'B'
	}
	tampered := owner[:dot] + string(flip) + owner[dot+1:]
	tamperedRec := f.do(http.MethodGet, "/api/v1/requests/my", "", tampered)

	f.clock.Advance(jwt.DefaultTTL + time.Minute)
	expiredRec := f.do(http.MethodGet, "/api/v1/requests/my", "", owner)

	assert.Equal(t, http.StatusUnauthorized, tamperedRec.Code)
	assert.Equal(t, http.StatusUnauthorized, expiredRec.Code)
	assert.Equal(t, tamperedRec.Body.String(), expiredRec.Body.String())
	assert.Equal(t, MsgInvalidToken, decode(t, expiredRec)["message"])
}

func TestRouter_RequireScope(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/requests", "", f.token(t, "owner"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, MsgAccessDenied, decode(t, rec)["message"])

	rec = f.do(http.MethodGet, "/api/v1/requests", "", f.token(t, "admin"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/api/v1/requests", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_FailuresAreEnveloped(t *testing.T) {
	f := newFixture(t)
	admin := f.token(t, "admin")

	rec := f.do(http.MethodGet, "/boom", "", admin)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decode(t, rec)["message"])

	rec = f.do(http.MethodGet, "/fail", "", admin)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = f.do(http.MethodGet, "/nope", "", admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "handler") }),
		mw("outer"), mw("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientIP(req))

	req.Header.Set("X-Real-IP", "not-an-ip")
	assert.Equal(t, "203.0.113.9", clientIP(req))
}
