// Package client calls the GreenVista auth API on behalf of gvctl.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shandysiswandi/greenvista/internal/session"
)

const DefaultTimeout = 15 * time.Second

// APIError is a non-2xx answer decoded from the error envelope.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}

	parts := make([]string, 0, len(e.Fields))
	for k, v := range e.Fields {
		parts = append(parts, k+": "+v)
	}
	return fmt.Sprintf("%s (status %d): %s", e.Message, e.Status, strings.Join(parts, ", "))
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

type OTPSent struct {
	Message   string    `json:"-"`
	OTPID     string    `json:"otp_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Login struct {
	Message string       `json:"-"`
	Token   string       `json:"token"`
	User    session.User `json:"user"`
}

type SessionInfo struct {
	User      session.User `json:"user"`
	IssuedAt  time.Time    `json:"issued_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for baseURL. A nil httpClient gets DefaultTimeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) VerifyCredentials(ctx context.Context, email, password string) (*OTPSent, error) {
	var out OTPSent
	msg, err := c.do(ctx, http.MethodPost, "/api/v1/auth/verify-credentials-send-otp", "", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}

	out.Message = msg
	return &out, nil
}

func (c *Client) SendOTP(ctx context.Context, email string) (*OTPSent, error) {
	var out OTPSent
	msg, err := c.do(ctx, http.MethodPost, "/api/v1/auth/send-otp", "", map[string]string{"email": email}, &out)
	if err != nil {
		return nil, err
	}

	out.Message = msg
	return &out, nil
}

func (c *Client) VerifyOTP(ctx context.Context, email, code string) (*Login, error) {
	var out Login
	msg, err := c.do(ctx, http.MethodPost, "/api/v1/auth/verify-otp", "", map[string]string{
		"email": email,
		"otp":   code,
	}, &out)
	if err != nil {
		return nil, err
	}

	out.Message = msg
	return &out, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/v1/auth/logout", token, nil, nil)
	return err
}

func (c *Client) Session(ctx context.Context, token string) (*SessionInfo, error) {
	var out SessionInfo
	if _, err := c.do(ctx, http.MethodGet, "/api/v1/auth/session", token, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

type envelope struct {
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   map[string]string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path, token string, body, dst any) (string, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return "", err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return "", fmt.Errorf("client: decode %s: %w", path, err)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", &APIError{Status: resp.StatusCode, Message: msg, Fields: env.Error}
	}

	if dst != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, dst); err != nil {
			return "", fmt.Errorf("client: decode %s data: %w", path, err)
		}
	}

	return env.Message, nil
}
