package mail

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromDriver(t *testing.T) {
	cfg := Config{Host: "localhost", Port: 2525, From: "noreply@greenvista.test"}

	m, err := NewFromDriver("", cfg)
	require.NoError(t, err)
	assert.IsType(t, &SMTP{}, m)

	m, err = NewFromDriver("SMTPS", cfg)
	require.NoError(t, err)
	assert.IsType(t, &SMTPS{}, m)

	_, err = NewFromDriver("sendgrid", cfg)
	assert.Error(t, err)

	_, err = NewFromDriver("smtp", Config{})
	assert.ErrorIs(t, err, ErrHostPortRequired)
}

func TestSMTP_ValidatesMessage(t *testing.T) {
	s, err := NewSMTP(Config{Host: "localhost", Port: 2525})
	require.NoError(t, err)

	err = s.Send(context.Background(), Message{Subject: "x"})
	assert.ErrorIs(t, err, ErrNoRecipients)

	err = s.Send(context.Background(), Message{To: []string{"a@example.com"}})
	assert.ErrorIs(t, err, ErrNoSender)
}

func TestSMTP_HonorsDeadlineOnSilentServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			// Never send the 220 greeting.
			defer conn.Close()
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	s, err := NewSMTP(Config{Host: "127.0.0.1", Port: addr.Port, From: "noreply@greenvista.test"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = s.Send(ctx, Message{To: []string{"a@example.com"}, Subject: "hi", TextBody: "hello"})

	assert.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestCompose(t *testing.T) {
	raw := string(compose("noreply@greenvista.test", Message{
		To:       []string{"a@example.com"},
		Cc:       []string{"b@example.com"},
		Subject:  "✅ GREEN VISTA - Service Request Received",
		TextBody: "plain",
		HTMLBody: "<p>html</p>",
	}))

	assert.Contains(t, raw, "From: noreply@greenvista.test\r\n")
	assert.Contains(t, raw, "Cc: b@example.com\r\n")
	assert.Contains(t, raw, "Subject: =?utf-8?q?")
	assert.Contains(t, raw, "multipart/alternative; boundary=greenvista-")
	assert.True(t, strings.Contains(raw, "plain") && strings.Contains(raw, "<p>html</p>"))
}
