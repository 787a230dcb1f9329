package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestLogging_MasksSensitiveFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, "greenvista", "info", nil, []string{"password", "OTP", "token"}))

	ctx := SetCorrelationID(context.Background(), "cid-1")
	logger.InfoContext(ctx, "request received",
		"email", "alice@example.com",
		"otp", "000042",
		"body", `{"email":"alice@example.com","password":"secret1"}`,
		"headers", map[string]string{"Token": "abc"},
	)

	line := decodeLine(t, &buf)
	assert.Equal(t, "alice@example.com", line["email"])
	assert.Equal(t, masked, line["otp"])
	assert.JSONEq(t, `{"email":"alice@example.com","password":"***"}`, line["body"].(string))
	assert.Equal(t, map[string]any{"Token": masked}, line["headers"])
	assert.Equal(t, "cid-1", line["_cID"])
	assert.Equal(t, "greenvista", line["service"])
	assert.Equal(t, "INFO", line["severity"])
}

func TestLogging_MasksWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, "", "", nil, []string{"password"})).With("password", "hunter2")

	logger.Info("x")

	line := decodeLine(t, &buf)
	assert.Equal(t, masked, line["password"])
	assert.NotContains(t, line, "service")
}

func TestLogging_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, "", "warn", nil, nil))

	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("shown")
	assert.NotZero(t, buf.Len())
}

func TestCorrelationID(t *testing.T) {
	assert.Empty(t, GetCorrelationID(context.Background()))
	assert.Equal(t, "x", GetCorrelationID(SetCorrelationID(context.Background(), "x")))
}
