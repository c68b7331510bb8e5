// AngelaMos | 2026
// mailer_test.go

package mailer

import (
	"io"
	"log/slog"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/config"
)

type capturedMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func captureSends(t *testing.T) *[]capturedMail {
	t.Helper()

	var sent []capturedMail
	orig := sendMail
	sendMail = func(
		addr string,
		_ smtp.Auth,
		from string,
		to []string,
		msg []byte,
	) error {
		sent = append(sent, capturedMail{
			addr: addr, from: from, to: to, msg: string(msg),
		})
		return nil
	}
	t.Cleanup(func() { sendMail = orig })

	return &sent
}

func newTestMailer(cfg config.SMTPConfig) *Mailer {
	m := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	m.async = false
	return m
}

func TestSendWelcome(t *testing.T) {
	sent := captureSends(t)
	m := newTestMailer(config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "mailer",
		Password: "secret",
		From:     "hello@jitsplanner.app",
	})

	m.SendWelcome("roller@example.com", "Ana")

	require.Len(t, *sent, 1)
	got := (*sent)[0]
	assert.Equal(t, "smtp.example.com:587", got.addr)
	assert.Equal(t, []string{"roller@example.com"}, got.to)
	assert.Contains(t, got.msg, "Subject: Welcome to Jits Planner")
	assert.Contains(t, got.msg, "Hi Ana,")
}

func TestSendContactNotification(t *testing.T) {
	sent := captureSends(t)
	m := newTestMailer(config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "mailer",
		From:     "hello@jitsplanner.app",
		AdminTo:  "admin@jitsplanner.app",
	})

	m.SendContactNotification("Bruno", "bruno@example.com", "love the app")

	require.Len(t, *sent, 1)
	got := (*sent)[0]
	assert.Equal(t, []string{"admin@jitsplanner.app"}, got.to)
	assert.Contains(t, got.msg, "bruno@example.com")
	assert.Contains(t, got.msg, "love the app")
}

func TestDisabledMailerDropsSends(t *testing.T) {
	sent := captureSends(t)
	m := newTestMailer(config.SMTPConfig{})

	m.SendWelcome("roller@example.com", "Ana")
	m.SendContactNotification("Bruno", "bruno@example.com", "hi")

	assert.Empty(t, *sent)
}

func TestContactWithoutAdminAddressDropped(t *testing.T) {
	sent := captureSends(t)
	m := newTestMailer(config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "mailer",
		From:     "hello@jitsplanner.app",
	})

	m.SendContactNotification("Bruno", "bruno@example.com", "hi")

	assert.Empty(t, *sent)
}
