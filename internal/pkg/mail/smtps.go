package mail

import (
	"context"
	"crypto/tls"

	"gopkg.in/gomail.v2"
)

// SMTPS delivers mail over implicit TLS using gomail.
type SMTPS struct {
	dialer      *gomail.Dialer
	defaultFrom string
}

func NewSMTPS(cfg Config) (*SMTPS, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, ErrHostPortRequired
	}

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = true
	d.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}

	return &SMTPS{dialer: d, defaultFrom: cfg.From}, nil
}

// Send delivers msg. gomail has no context support, so the delivery runs in
// its own goroutine and Send returns ctx.Err() once ctx is done; the
// abandoned attempt finishes or times out on its own.
func (s *SMTPS) Send(ctx context.Context, msg Message) error {
	from, err := resolveSender(msg, s.defaultFrom)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	if len(msg.To) > 0 {
		m.SetHeader("To", msg.To...)
	}
	if len(msg.Cc) > 0 {
		m.SetHeader("Cc", msg.Cc...)
	}
	if len(msg.Bcc) > 0 {
		m.SetHeader("Bcc", msg.Bcc...)
	}
	m.SetHeader("Subject", msg.Subject)

	switch {
	case msg.TextBody != "" && msg.HTMLBody != "":
		m.SetBody("text/plain", msg.TextBody)
		m.AddAlternative("text/html", msg.HTMLBody)
	case msg.HTMLBody != "":
		m.SetBody("text/html", msg.HTMLBody)
	default:
		m.SetBody("text/plain", msg.TextBody)
	}

	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SMTPS) Close() error {
	return nil
}
