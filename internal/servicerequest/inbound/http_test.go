package inbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shandysiswandi/greenvista/internal/pkg/authz"
	"github.com/shandysiswandi/greenvista/internal/pkg/goerror"
	"github.com/shandysiswandi/greenvista/internal/pkg/jwt"
	"github.com/shandysiswandi/greenvista/internal/pkg/router"
	"github.com/shandysiswandi/greenvista/internal/servicerequest/entity"
	"github.com/shandysiswandi/greenvista/internal/servicerequest/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUsecase struct {
	mock.Mock
}

func (m *mockUsecase) SendOTP(ctx context.Context, in usecase.SendOTPInput) (*usecase.OTPIssued, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*usecase.OTPIssued)
	return out, args.Error(1)
}

func (m *mockUsecase) Create(ctx context.Context, in usecase.CreateInput) (*entity.ServiceRequest, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*entity.ServiceRequest)
	return out, args.Error(1)
}

func (m *mockUsecase) List(ctx context.Context, in usecase.ListInput) (*usecase.Page, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*usecase.Page)
	return out, args.Error(1)
}

func (m *mockUsecase) ListMine(ctx context.Context, in usecase.ListMineInput) (*usecase.Page, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*usecase.Page)
	return out, args.Error(1)
}

type staticID string

func (s staticID) Generate() string { return string(s) }

type harness struct {
	uc     *mockUsecase
	router *router.Router
	owner  string
	admin  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	signer, err := jwt.NewHS512(jwt.Config{
		Secret: []byte(strings.Repeat("k", 64)),
		Issuer: "greenvista",
		Clock:  clockwork.NewFakeClockAt(time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)),
		UUID:   staticID("jti"),
	})
	require.NoError(t, err)

	gate, err := authz.New(nil)
	require.NoError(t, err)

	h := &harness{
		uc:     &mockUsecase{},
		router: router.NewRouter(router.Config{UUID: staticID("cid"), JWT: signer, Gate: gate}),
	}
	RegisterHTTPEndpoint(h.router, h.uc)

	h.owner, err = signer.Generate(jwt.Subject{ID: 7, Role: "owner", Email: "alice@example.com"})
	require.NoError(t, err)
	h.admin, err = signer.Generate(jwt.Subject{ID: 1, Role: "admin", Email: "root@example.com"})
	require.NoError(t, err)

	t.Cleanup(func() { h.uc.AssertExpectations(t) })
	return h
}

func (h *harness) do(t *testing.T, req *http.Request) (int, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec.Code, out
}

func newRequest(method, path, body, token string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestHTTP_SendOTP(t *testing.T) {
	h := newHarness(t)
	exp := time.Date(2026, 6, 1, 8, 10, 0, 0, time.UTC)

	h.uc.On("SendOTP", mock.Anything, usecase.SendOTPInput{}).
		Return(&usecase.OTPIssued{OTPID: "o1", Email: "alice@example.com", ExpiresAt: exp}, nil).Once()

	code, body := h.do(t, newRequest(http.MethodPost, "/api/v1/requests/send-otp", "", h.owner))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"otp_id": "o1", "email": "alice@example.com", "expires_at": "2026-06-01T08:10:00Z"}, body["data"])

	code, _ = h.do(t, newRequest(http.MethodPost, "/api/v1/requests/send-otp", "", ""))
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestHTTP_Create(t *testing.T) {
	h := newHarness(t)
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	h.uc.On("Create", mock.Anything, usecase.CreateInput{
		Type:           "plumbing",
		Details:        "Sink",
		Images:         []string{"u1"},
		IdempotencyKey: "k-1",
	}).Return(&entity.ServiceRequest{
		ID: 501, OwnerID: 7, Type: "plumbing", Details: "Sink", Status: entity.StatusPending,
		Images: []string{"u1"}, CreatedAt: now, UpdatedAt: now,
	}, nil).Once()
	h.uc.On("Create", mock.Anything, mock.MatchedBy(func(in usecase.CreateInput) bool { return in.IdempotencyKey == "k-2" })).
		Return(nil, goerror.NewBusiness("Duplicate request", goerror.CodeConflict)).Once()

	req := newRequest(http.MethodPost, "/api/v1/requests", `{"type":"plumbing","details":"Sink","images":["u1"]}`, h.owner)
	req.Header.Set(HeaderIdempotencyKey, "k-1")
	code, body := h.do(t, req)
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Service request created successfully", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "501", data["id"])
	assert.Equal(t, "pending", data["status"])

	req = newRequest(http.MethodPost, "/api/v1/requests", `{"type":"plumbing","details":"Sink"}`, h.owner)
	req.Header.Set(HeaderIdempotencyKey, "k-2")
	code, body = h.do(t, req)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Duplicate request", body["message"])
}

func TestHTTP_CreateWithNumericOTP(t *testing.T) {
	h := newHarness(t)

	h.uc.On("Create", mock.Anything, usecase.CreateInput{
		Type:    "electrical",
		Details: "Hall light",
		Email:   "alice@example.com",
		OTP:     "123456",
	}).Return(&entity.ServiceRequest{ID: 502, OwnerID: 7, Type: "electrical", Status: entity.StatusPending}, nil).Once()

	code, _ := h.do(t, newRequest(http.MethodPost, "/api/v1/requests",
		`{"type":"electrical","details":"Hall light","email":"alice@example.com","otp":123456}`, h.owner))
	assert.Equal(t, http.StatusCreated, code)
}

func TestHTTP_ListNeedsPrivilege(t *testing.T) {
	h := newHarness(t)

	code, _ := h.do(t, newRequest(http.MethodGet, "/api/v1/requests", "", h.owner))
	assert.Equal(t, http.StatusForbidden, code)

	h.uc.On("List", mock.Anything, usecase.ListInput{Status: "pending", Page: 2, Size: 5}).
		Return(&usecase.Page{Items: []entity.ServiceRequest{{ID: 3, OwnerID: 7, Status: entity.StatusPending}}, Total: 6, Page: 2, Size: 5}, nil).Once()

	code, body := h.do(t, newRequest(http.MethodGet, "/api/v1/requests?status=pending&page=2&size=5", "", h.admin))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"page": float64(2), "size": float64(5), "total": float64(6), "pages": float64(2)}, body["meta"])
	items := body["data"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, []any{}, items[0].(map[string]any)["images"])

	code, _ = h.do(t, newRequest(http.MethodGet, "/api/v1/requests?page=two", "", h.admin))
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHTTP_ListMine(t *testing.T) {
	h := newHarness(t)

	h.uc.On("ListMine", mock.Anything, usecase.ListMineInput{Page: 1, Size: 3}).
		Return(&usecase.Page{Items: []entity.ServiceRequest{}, Total: 0, Page: 1, Size: 3}, nil).Once()

	code, body := h.do(t, newRequest(http.MethodGet, "/api/v1/requests/my?page=1&limit=3", "", h.owner))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{}, body["data"])
}
