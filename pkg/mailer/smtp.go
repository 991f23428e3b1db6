package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"
)

type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
}

type SMTPMailer struct {
	cfg          SMTPConfig
	dialTimeout  time.Duration
	writeTimeout time.Duration
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		cfg:          cfg,
		dialTimeout:  5 * time.Second,
		writeTimeout: 10 * time.Second,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, e Email) error {
	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)

	dialer := &net.Dialer{Timeout: m.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp dial failed: %w", err)
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return fmt.Errorf("smtp new client failed: %w", err)
	}
	defer c.Quit()

	// Auth only when credentials are configured (local relays have none)
	if m.cfg.User != "" && m.cfg.Pass != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
			if err := c.Auth(auth); err != nil {
				return fmt.Errorf("smtp auth failed: %w", err)
			}
		}
	}

	if err := c.Mail(e.From); err != nil {
		return fmt.Errorf("smtp mail from failed: %w", err)
	}
	if err := c.Rcpt(e.To); err != nil {
		return fmt.Errorf("smtp rcpt failed (%s): %w", e.To, err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data failed: %w", err)
	}

	_ = conn.SetWriteDeadline(time.Now().Add(m.writeTimeout))
	if _, err := w.Write([]byte(buildMessage(e))); err != nil {
		_ = w.Close()
		return fmt.Errorf("smtp write failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close failed: %w", err)
	}

	return nil
}

func buildMessage(e Email) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", e.From)
	fmt.Fprintf(&b, "To: %s\r\n", e.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", e.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(e.Body)
	return b.String()
}
