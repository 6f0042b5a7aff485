// Package mailer sends plain-text notification emails over SMTP.
package mailer

import (
	"fmt"
	"net/smtp"

	"lume-api/internal/config"
	"lume-api/internal/utils"
)

type Mailer struct {
	cfg config.EmailConfig
}

func New(cfg config.EmailConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Send delivers a single plain-text message. Callers treat errors as
// non-fatal; email here is a notification channel, not a transaction
// participant.
func (m *Mailer) Send(to, subject, body string) error {
	if m.cfg.Host == "" || m.cfg.Username == "" {
		return fmt.Errorf("mailer not configured")
	}

	addr := m.cfg.Host + ":" + m.cfg.Port
	msg := []byte(
		"From: " + m.cfg.Username + "\r\n" +
			"To: " + to + "\r\n" +
			"Subject: " + subject + "\r\n" +
			"Message-ID: <" + utils.GenerateMessageID("lume") + "@" + m.cfg.Host + ">\r\n" +
			"\r\n" +
			body + "\r\n")

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	return smtp.SendMail(addr, auth, m.cfg.Username, []string{to}, msg)
}
