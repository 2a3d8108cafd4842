package utils

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"cognigenx/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func testMailer(host string) (*SMTPMailer, *[]capturedMail) {
	cfg := &config.Config{}
	cfg.SMTP.Host = host
	cfg.SMTP.Port = 2525
	cfg.SMTP.SenderEmail = "noreply@cognigenx.app"
	cfg.SMTP.SenderName = "CognigenX"

	var sent []capturedMail
	m := NewSMTPMailer(cfg)
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		sent = append(sent, capturedMail{addr, from, to, string(msg)})
		return nil
	}
	return m, &sent
}

func TestSendPasswordReset(t *testing.T) {
	m, sent := testMailer("smtp.example.com")

	err := m.SendPasswordReset(context.Background(), "ann@x.com", "https://app/reset?email=ann%40x.com&token=abc")
	require.NoError(t, err)
	require.Len(t, *sent, 1)

	mail := (*sent)[0]
	assert.Equal(t, "smtp.example.com:2525", mail.addr)
	assert.Equal(t, "noreply@cognigenx.app", mail.from)
	assert.Equal(t, []string{"ann@x.com"}, mail.to)
	assert.Contains(t, mail.msg, "Subject: Reset your password")
	assert.Contains(t, mail.msg, "token=abc")
	assert.Contains(t, mail.msg, "&amp;", "the link is HTML escaped")
}

func TestSendPasswordResetWithoutHost(t *testing.T) {
	m, sent := testMailer("")
	require.NoError(t, m.SendPasswordReset(context.Background(), "ann@x.com", "https://app/reset"))
	assert.Empty(t, *sent)
}

func TestSendPasswordResetError(t *testing.T) {
	m, _ := testMailer("smtp.example.com")
	m.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("connection refused") }

	err := m.SendPasswordReset(context.Background(), "ann@x.com", "https://app/reset")
	assert.ErrorContains(t, err, "connection refused")
}
