package mail

import (
	"context"
	"crypto/rand"
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// SMTP delivers mail with net/smtp over a context-bound connection.
type SMTP struct {
	addr        string
	host        string
	defaultFrom string
	auth        smtp.Auth
}

func NewSMTP(cfg Config) (*SMTP, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, ErrHostPortRequired
	}

	var auth smtp.Auth
	if cfg.Username != "" && cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &SMTP{
		addr:        net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		host:        cfg.Host,
		defaultFrom: cfg.From,
		auth:        auth,
	}, nil
}

// Send delivers msg. The whole exchange, dial included, is cut off when ctx
// is done.
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	from, err := resolveSender(msg, s.defaultFrom)
	if err != nil {
		return err
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("mail: dial %s: %w", s.addr, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	if err := s.deliver(conn, from, msg); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("mail: %w: %w", ctxErr, err)
		}
		return err
	}
	return nil
}

func (s *SMTP) deliver(conn net.Conn, from string, msg Message) error {
	c, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return fmt.Errorf("mail: greeting: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("mail: starttls: %w", err)
		}
	}

	if s.auth != nil {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(s.auth); err != nil {
				return fmt.Errorf("mail: auth: %w", err)
			}
		}
	}

	if err := c.Mail(from); err != nil {
		return fmt.Errorf("mail: from: %w", err)
	}
	for _, rcpt := range msg.recipients() {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("mail: rcpt %s: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("mail: data: %w", err)
	}
	if _, err := w.Write(compose(from, msg)); err != nil {
		return fmt.Errorf("mail: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("mail: data close: %w", err)
	}

	return c.Quit()
}

// Close implements io.Closer. Connections are per message.
func (s *SMTP) Close() error {
	return nil
}

func compose(from string, msg Message) []byte {
	body, contentType := buildBody(msg)

	headers := []string{
		"From: " + from,
		"To: " + strings.Join(msg.To, ", "),
	}
	if len(msg.Cc) > 0 {
		headers = append(headers, "Cc: "+strings.Join(msg.Cc, ", "))
	}
	headers = append(headers,
		"Subject: "+mime.QEncoding.Encode("utf-8", msg.Subject),
		"Date: "+time.Now().Format(time.RFC1123Z),
		"MIME-Version: 1.0",
		"Content-Type: "+contentType,
	)

	return []byte(strings.Join(headers, "\r\n") + "\r\n\r\n" + body)
}

func buildBody(msg Message) (body, contentType string) {
	switch {
	case msg.HTMLBody != "" && msg.TextBody != "":
		boundary := multipartBoundary()
		var sb strings.Builder
		fmt.Fprintf(&sb, "--%s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n", boundary, msg.TextBody)
		fmt.Fprintf(&sb, "--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n", boundary, msg.HTMLBody)
		fmt.Fprintf(&sb, "--%s--", boundary)
		return sb.String(), "multipart/alternative; boundary=" + boundary
	case msg.HTMLBody != "":
		return msg.HTMLBody, "text/html; charset=UTF-8"
	default:
		return msg.TextBody, "text/plain; charset=UTF-8"
	}
}

func multipartBoundary() string {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "greenvista-boundary"
	}
	return "greenvista-" + hex.EncodeToString(b[:])
}
