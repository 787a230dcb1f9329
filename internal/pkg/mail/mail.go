package mail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Drivers accepted by NewFromDriver.
const (
	DriverSMTP  = "smtp"
	DriverSMTPS = "smtps"
)

var (
	// ErrHostPortRequired is returned when Host/Port are missing.
	ErrHostPortRequired = errors.New("mail: host and port are required")
	// ErrNoRecipients is returned when To, Cc and Bcc are all empty.
	ErrNoRecipients = errors.New("mail: no recipients provided")
	// ErrNoSender is returned when both Message.From and the configured From are empty.
	ErrNoSender = errors.New("mail: no sender provided")
)

// Message is an email payload.
type Message struct {
	// From overrides the configured sender when set.
	From     string
	To       []string
	Cc       []string
	Bcc      []string
	Subject  string
	TextBody string
	HTMLBody string
}

func (m Message) recipients() []string {
	out := make([]string, 0, len(m.To)+len(m.Cc)+len(m.Bcc))
	out = append(out, m.To...)
	out = append(out, m.Cc...)
	return append(out, m.Bcc...)
}

// Mail abstracts an email provider.
type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) error
}

// Config configures either driver.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	// From is the default sender when Message.From is empty.
	From string
}

// NewFromDriver builds the Mail implementation named by driver. An empty
// driver selects smtp.
func NewFromDriver(driver string, cfg Config) (Mail, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverSMTP:
		return NewSMTP(cfg)
	case DriverSMTPS:
		return NewSMTPS(cfg)
	default:
		return nil, fmt.Errorf("mail: unsupported driver %q", driver)
	}
}

func resolveSender(msg Message, fallback string) (string, error) {
	if len(msg.recipients()) == 0 {
		return "", ErrNoRecipients
	}
	if msg.From != "" {
		return msg.From, nil
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", ErrNoSender
}
