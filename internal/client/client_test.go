package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_LoginFlow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}

		switch r.URL.Path {
		case "/api/v1/auth/verify-credentials-send-otp":
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, map[string]string{"email": "alice@example.com", "password": "secret1"}, body)
			writeJSON(w, http.StatusOK, map[string]any{
				"message": "OTP sent to your email",
				"data":    map[string]any{"otp_id": "otp-1", "expires_at": "2026-05-04T10:01:00Z"},
			})
		case "/api/v1/auth/verify-otp":
			assert.Equal(t, "042042", body["otp"])
			writeJSON(w, http.StatusOK, map[string]any{
				"message": "Login successful",
				"data": map[string]any{
					"token": "jwt-token",
					"user":  map[string]any{"id": "7", "name": "Alice", "email": "alice@example.com", "role": "owner"},
				},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL+"/", nil)
	ctx := context.Background()

	sent, err := c.VerifyCredentials(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "otp-1", sent.OTPID)
	assert.Equal(t, "OTP sent to your email", sent.Message)

	login, err := c.VerifyOTP(ctx, "alice@example.com", "042042")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", login.Token)
	assert.Equal(t, "owner", login.User.Role)
	assert.Equal(t, "7", login.User.ID)
}

func TestClient_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/verify-otp":
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid OTP"})
		case "/api/v1/auth/send-otp":
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"message": "Invalid input",
				"error":   map[string]string{"email": "email is required"},
			})
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	ctx := context.Background()

	_, err := c.VerifyOTP(ctx, "alice@example.com", "000000")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Contains(t, err.Error(), "Invalid OTP")

	_, err = c.SendOTP(ctx, "")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "email is required", apiErr.Fields["email"])
	assert.False(t, IsUnauthorized(err))

	_, err = c.Session(ctx, "tok")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestClient_AuthenticatedCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Authentication required"})
			return
		}

		switch r.URL.Path {
		case "/api/v1/auth/session":
			assert.Equal(t, http.MethodGet, r.Method)
			writeJSON(w, http.StatusOK, map[string]any{
				"message": "Session is active",
				"data": map[string]any{
					"user":       map[string]any{"id": "7", "role": "owner"},
					"issued_at":  "2026-05-04T10:00:00Z",
					"expires_at": "2026-05-11T10:00:00Z",
				},
			})
		case "/api/v1/auth/logout":
			writeJSON(w, http.StatusOK, map[string]any{"message": "Logout successful"})
		}
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client())
	ctx := context.Background()

	info, err := c.Session(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "7", info.User.ID)
	assert.Equal(t, 7*24, int(info.ExpiresAt.Sub(info.IssuedAt).Hours()))

	require.NoError(t, c.Logout(ctx, "tok"))

	err = c.Logout(ctx, "")
	assert.True(t, IsUnauthorized(err))
}
