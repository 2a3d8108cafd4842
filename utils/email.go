package utils

import (
	"context"
	"fmt"
	"html"
	"log"
	"net/smtp"

	"cognigenx/config"
)

// SMTPMailer delivers password reset links over SMTP
type SMTPMailer struct {
	host        string
	port        int
	username    string
	password    string
	senderEmail string
	senderName  string
	send        func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:        cfg.SMTP.Host,
		port:        cfg.SMTP.Port,
		username:    cfg.SMTP.Username,
		password:    cfg.SMTP.Password,
		senderEmail: cfg.SMTP.SenderEmail,
		senderName:  cfg.SMTP.SenderName,
		send:        smtp.SendMail,
	}
}

// SendPasswordReset emails the reset link. Without an SMTP host the send is skipped.
func (m *SMTPMailer) SendPasswordReset(_ context.Context, email, link string) error {
	if m.host == "" {
		log.Printf("SMTP host not configured; skipping password reset email to %s", email)
		return nil
	}
	if m.senderEmail == "" {
		return fmt.Errorf("SMTP sender email is not configured")
	}

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	escaped := html.EscapeString(link)
	msg := []byte(fmt.Sprintf(
		"To: %s\r\n"+
			"From: %s <%s>\r\n"+
			"Subject: Reset your password\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n"+
			"<p>Hello,</p>\r\n"+
			"<p>Click the link below to reset your password. If you did not request this, you can safely ignore this email.</p>\r\n"+
			"<p><a href=\"%s\">Reset Password</a></p>\r\n"+
			"<p>If the button doesn't work, copy and paste this URL into your browser:</p>\r\n"+
			"<p>%s</p>\r\n",
		email, m.senderName, m.senderEmail, escaped, escaped))

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	if err := m.send(addr, auth, m.senderEmail, []string{email}, msg); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}
