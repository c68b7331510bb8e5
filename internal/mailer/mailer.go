// AngelaMos | 2026
// mailer.go

// Package mailer sends transactional email over plain SMTP. Sends are
// fire-and-forget: a failed email is logged, never surfaced to the
// request that triggered it.
package mailer

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/config"
)

// sendMail is swappable in tests.
var sendMail = smtp.SendMail

type Mailer struct {
	cfg     config.SMTPConfig
	logger  *slog.Logger
	enabled bool

	// async is disabled in tests so assertions see the send
	async bool
}

func New(cfg config.SMTPConfig, logger *slog.Logger) *Mailer {
	enabled := cfg.Host != "" && cfg.Username != "" && cfg.From != ""
	if !enabled {
		logger.Warn("mailer disabled, smtp config incomplete")
	}

	return &Mailer{cfg: cfg, logger: logger, enabled: enabled, async: true}
}

func (m *Mailer) SendWelcome(email, firstName string) {
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\n"+
			"Welcome to Jits Planner. Log your first class, start a "+
			"technique note, and set a weekly mat-time commitment.\r\n\r\n"+
			"Oss,\r\nThe Jits Planner team\r\n",
		firstName,
	)
	m.send([]string{email}, "Welcome to Jits Planner", body)
}

func (m *Mailer) SendContactNotification(name, email, message string) {
	if m.cfg.AdminTo == "" {
		return
	}
	body := fmt.Sprintf(
		"New contact form message\r\n\r\n"+
			"From: %s <%s>\r\n\r\n%s\r\n",
		name, email, message,
	)
	m.send([]string{m.cfg.AdminTo}, "Contact form: "+name, body)
}

func (m *Mailer) send(to []string, subject, body string) {
	if !m.enabled {
		return
	}

	deliver := func() {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

		msg := []byte(fmt.Sprintf(
			"To: %s\r\nFrom: %s\r\nSubject: %s\r\n"+
				"MIME-version: 1.0;\r\nContent-Type: text/plain; charset=\"UTF-8\";\r\n\r\n%s",
			strings.Join(to, ","), m.cfg.From, subject, body,
		))

		if err := sendMail(addr, auth, m.cfg.From, to, msg); err != nil {
			m.logger.Error("send email failed",
				"to", strings.Join(to, ","), "subject", subject, "error", err)
			return
		}
		m.logger.Info("email sent",
			"to", strings.Join(to, ","), "subject", subject)
	}

	if m.async {
		go deliver()
		return
	}
	deliver()
}
