package utils

import (
	"fmt"
	"html"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// SMTPConfig is read from SMTP_* variables. An incomplete config puts the
// mailer in log-only mode.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	FromName string
}

func (c SMTPConfig) complete() bool {
	return c.Host != "" && c.Port != "" && c.Username != "" && c.Password != ""
}

const defaultSendTimeout = 20 * time.Second

type Mailer struct {
	cfg    SMTPConfig
	logger *zap.Logger
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

	// Timeout bounds one delivery. smtp.SendMail takes no context, so a
	// stuck relay is abandoned rather than cancelled.
	Timeout time.Duration
}

func NewMailer(cfg SMTPConfig, logger *zap.Logger) *Mailer {
	if cfg.FromName == "" {
		cfg.FromName = "Campsite Booking"
	}
	return &Mailer{cfg: cfg, logger: logger, send: smtp.SendMail, Timeout: defaultSendTimeout}
}

func (m *Mailer) deliver(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	if m.Timeout <= 0 {
		return m.send(addr, a, from, to, msg)
	}
	done := make(chan error, 1)
	go func() { done <- m.send(addr, a, from, to, msg) }()

	timer := time.NewTimer(m.Timeout)
	defer timer.Stop()
	select {
	case err := <-done:
		return err
	case <-timer.C:
		return fmt.Errorf("smtp send to %s timed out after %s", addr, m.Timeout)
	}
}

// SendRegistrationDecision tells an applicant whether their account was
// approved or rejected.
func (m *Mailer) SendRegistrationDecision(recipientEmail, name string, approved bool) error {
	safe := func(s string) string {
		return strings.ReplaceAll(strings.ReplaceAll(strings.TrimSpace(s), "\r", " "), "\n", " ")
	}
	recipientEmail = safe(recipientEmail)
	name = safe(name)

	if !m.cfg.complete() {
		m.logger.Info("[MOCK EMAIL] registration decision",
			zap.String("to", recipientEmail),
			zap.Bool("approved", approved))
		return nil
	}

	subject := "Your campsite booking account was approved"
	line := "Your account has been approved. You can now sign in and book campsites."
	if !approved {
		subject = "Your campsite booking registration"
		line = "Unfortunately your registration was not approved. Reply to this email if you think this is a mistake."
	}

	boundary := "----=_DECISION_EMAIL_BOUNDARY"
	plainBody := fmt.Sprintf("Hi %s,\n\n%s\n", name, line)
	htmlBody := fmt.Sprintf(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>%s</title></head>
<body style="background:#f5f7fb;font-family:Arial,Helvetica,sans-serif;color:#222;">
<div style="max-width:640px;margin:20px auto;background:#fff;border:1px solid #e6eef6;padding:24px;border-radius:8px;">
<p>Hi %s,</p>
<p>%s</p>
</div>
</body>
</html>`, html.EscapeString(subject), html.EscapeString(name), html.EscapeString(line))

	from := fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.Username)

	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", from)
	fmt.Fprintf(&sb, "To: %s\r\n", recipientEmail)
	fmt.Fprintf(&sb, "Subject: %s\r\n", subject)
	sb.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&sb, "Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", boundary)

	fmt.Fprintf(&sb, "--%s\r\n", boundary)
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(plainBody + "\r\n")

	fmt.Fprintf(&sb, "--%s\r\n", boundary)
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	sb.WriteString(htmlBody + "\r\n")
	fmt.Fprintf(&sb, "--%s--\r\n", boundary)

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port
	if err := m.deliver(addr, auth, m.cfg.Username, []string{recipientEmail}, []byte(sb.String())); err != nil {
		m.logger.Warn("Failed to send decision email", zap.String("to", recipientEmail), zap.Error(err))
		return err
	}

	m.logger.Info("Decision email sent", zap.String("to", recipientEmail), zap.Bool("approved", approved))
	return nil
}
