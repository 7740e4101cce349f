// Package mail sends transactional mail over plain SMTP. Sending is
// best-effort: callers log and continue when delivery fails.
package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"healthtrack/backend/internal/config"
)

// Send delivers a plain-text message to a single recipient. It returns an
// error when SMTP is configured and delivery fails; with no SMTP_ADDR set
// it is a no-op so local development works without a mail server.
func Send(to, subject, body string) error {
	cfg := config.AppConfig
	if cfg.SMTPAddr == "" {
		return nil
	}

	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		host := cfg.SMTPAddr
		if i := strings.IndexByte(host, ':'); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, host)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		cfg.SMTPFrom, to, subject, body)

	return smtp.SendMail(cfg.SMTPAddr, auth, cfg.SMTPFrom, []string{to}, []byte(msg))
}
