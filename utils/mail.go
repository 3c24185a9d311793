package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/kymani/dukahub-api/config"
)

type EmailData struct {
	Name        string
	Message     string
	ActionURL   string
	OrderNumber string
	Total       string
}

// Mailer sends templated HTML email. Callers on best-effort paths (webhook
// confirmation) log send failures instead of propagating them.
type Mailer interface {
	Send(to, subject string, data EmailData, templatePath string) error
}

type SMTPMailer struct {
	cfg config.SMTP
}

func NewSMTPMailer(cfg config.SMTP) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(to, subject string, data EmailData, templatePath string) error {
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return fmt.Errorf("template parse error: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	message := fmt.Sprintf(
		"From: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		m.cfg.FromEmail,
		subject,
		body.String(),
	)

	auth := smtp.PlainAuth("", m.cfg.FromEmail, m.cfg.FromPassword, m.cfg.Host)

	if err := smtp.SendMail(m.cfg.Address, auth, m.cfg.FromEmail, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
