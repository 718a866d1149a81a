// Package mail delivers transactional mail for account verification and
// password reset.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Sender delivers a single plain-text message.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

var _ Sender = (*SMTPSender)(nil)

// SMTPSender sends mail through an authenticated SMTP relay.
type SMTPSender struct {
	host     string
	port     string
	account  string
	password string
}

func NewSMTPSender(host, port, account, password string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		account:  account,
		password: password,
	}
}

func (s *SMTPSender) Send(_ context.Context, to, subject, body string) error {
	addr := s.host + ":" + s.port
	auth := smtp.PlainAuth("", s.account, s.password, s.host)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.account)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	if err := smtp.SendMail(addr, auth, s.account, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("mail.SMTPSender.Send: %w", err)
	}
	return nil
}

// VerificationMessage builds the signup verification mail pointing at
// the frontend's verify page.
func VerificationMessage(frontendURL, token string) (subject, body string) {
	subject = "[Portfolio] Verify your email"
	link := frontendURL + "/verify?token=" + token
	body = "Thanks for signing up! Please confirm your email address by following this link:\n" + link
	return subject, body
}

// PasswordResetMessage builds the password-reset mail.
func PasswordResetMessage(frontendURL, token string) (subject, body string) {
	subject = "[Portfolio] Reset your password"
	link := frontendURL + "/reset-password?token=" + token
	body = "A password reset was requested for your account. Follow this link to choose a new password:\n" + link
	return subject, body
}
