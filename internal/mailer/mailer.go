// Package mailer wraps the outbound SMTP transport and the connection
// checks exposed by the settings endpoints.
package mailer

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/emersion/go-imap/client"
	gomail "gopkg.in/gomail.v2"

	"github.com/Celestebz/sendemail/pkg/models"
)

// Message is one outbound email.
type Message struct {
	From        string
	To          string
	Cc          []string
	Subject     string
	HTML        string
	Attachments []models.Attachment
}

// Transport dispatches a single message using the supplied settings.
// Settings are passed per call so the singleton row is never cached as
// process state.
type Transport interface {
	Send(settings *models.Settings, msg *Message) error
}

// SMTPTransport sends mail through the configured SMTP server.
type SMTPTransport struct {
	logger *slog.Logger
}

// NewSMTPTransport creates an SMTP transport
func NewSMTPTransport(logger *slog.Logger) *SMTPTransport {
	return &SMTPTransport{logger: logger}
}

// Send builds and dispatches one message. The dial happens per call; a
// batch therefore reconnects per recipient, which matches the sequential
// one-at-a-time send model.
func (t *SMTPTransport) Send(settings *models.Settings, msg *Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	if len(msg.Cc) > 0 {
		m.SetHeader("Cc", msg.Cc...)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)
	for _, a := range msg.Attachments {
		m.Attach(a.Path, gomail.Rename(a.Filename))
	}

	d := newDialer(settings)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("could not send email: %w", err)
	}

	t.logger.Debug("email dispatched", "to", msg.To, "subject", msg.Subject)
	return nil
}

// VerifySMTP dials and authenticates against the SMTP server without
// sending anything.
func VerifySMTP(settings *models.Settings) error {
	sc, err := newDialer(settings).Dial()
	if err != nil {
		return fmt.Errorf("smtp connection failed: %w", err)
	}
	return sc.Close()
}

// VerifyIMAP connects to the inbound server over TLS and logs in, then
// logs straight out.
func VerifyIMAP(settings *models.Settings) error {
	if settings.IMAPHost == "" || settings.IMAPPort == 0 {
		return fmt.Errorf("imap host and port are not configured")
	}

	addr := fmt.Sprintf("%s:%d", settings.IMAPHost, settings.IMAPPort)
	dialer := &net.Dialer{Timeout: 30 * time.Second}
	conn, err := tls.DialWithDialer(dialer, "tcp", addr, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	imapClient, err := client.New(conn)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create IMAP client: %w", err)
	}

	if err := imapClient.Login(settings.Username, settings.Password); err != nil {
		imapClient.Logout()
		return fmt.Errorf("failed to login: %w", err)
	}
	return imapClient.Logout()
}

func newDialer(settings *models.Settings) *gomail.Dialer {
	d := gomail.NewDialer(settings.SMTPHost, settings.SMTPPort, settings.Username, settings.Password)
	// Port 465 is implicit TLS; gomail sets SSL for it, everything else
	// upgrades via STARTTLS when offered.
	d.TLSConfig = &tls.Config{ServerName: settings.SMTPHost}
	return d
}
