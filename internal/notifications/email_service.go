package notifications

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"tourbook/internal/shared/config"
	"tourbook/pkg/logger"
)

// Email is a rendered message ready for delivery
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// EmailSender delivers rendered emails
type EmailSender interface {
	Send(ctx context.Context, email Email) error
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

func NewSMTPConfig(cfg config.EmailConfig) *SMTPConfig {
	return &SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.FromEmail,
		FromName:  "Tourbook",
	}
}

func (c *SMTPConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("SMTP port must be between 1 and 65535")
	}
	if c.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

// NewEmailSender returns an SMTP sender, or a log-only sender when SMTP is
// not configured.
func NewEmailSender(cfg *SMTPConfig) EmailSender {
	if err := cfg.Validate(); err != nil {
		logger.GetDefault().Warn("SMTP disabled, emails will only be logged", "reason", err.Error())
		return &LogSender{log: logger.GetDefault()}
	}
	return &SMTPSender{config: cfg, log: logger.GetDefault()}
}

type SMTPSender struct {
	config *SMTPConfig
	log    *logger.Logger
}

// Send delivers over STARTTLS
func (s *SMTPSender) Send(ctx context.Context, email Email) error {
	addr := s.config.Host + ":" + strconv.Itoa(s.config.Port)
	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Quit()

	if err := client.StartTLS(&tls.Config{ServerName: s.config.Host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}
	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}
	if err := client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(email.To); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err := w.Write(buildMessage(s.config, email, time.Now())); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.InfoWithContext(ctx, "Email sent", map[string]interface{}{"to": email.To, "subject": email.Subject})
	return nil
}

// buildMessage renders a multipart/alternative message
func buildMessage(cfg *SMTPConfig, email Email, now time.Time) []byte {
	boundary := "boundary_" + strconv.FormatInt(now.UnixNano(), 10)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", cfg.FromName, cfg.FromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", email.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", email.Subject)
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	if email.TextBody != "" {
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n", boundary, email.TextBody)
	}
	if email.HTMLBody != "" {
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n", boundary, email.HTMLBody)
	}
	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}

// LogSender writes emails to the log instead of delivering them
type LogSender struct {
	log *logger.Logger
}

func (s *LogSender) Send(ctx context.Context, email Email) error {
	s.log.InfoWithContext(ctx, "Email (not delivered)", map[string]interface{}{
		"to":      email.To,
		"subject": email.Subject,
	})
	return nil
}
