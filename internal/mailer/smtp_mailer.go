package mailer

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// SMTPMailer implements Mailer over SMTP using gomail.
type SMTPMailer struct {
	dialer       *gomail.Dialer
	from         string
	resetBaseURL string
	logger       *zap.Logger
}

// NewSMTPMailer creates a new SMTPMailer. resetBaseURL is the frontend page
// the emailed link points at; the token is appended as a query parameter.
func NewSMTPMailer(host string, port int, username, password, from, resetBaseURL string, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer:       gomail.NewDialer(host, port, username, password),
		from:         from,
		resetBaseURL: resetBaseURL,
		logger:       logger.Named("mailer"),
	}
}

// SendPasswordReset delivers the reset link to the given address.
func (m *SMTPMailer) SendPasswordReset(toEmail, toName, token string) error {
	resetLink := fmt.Sprintf("%s?token=%s", m.resetBaseURL, token)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Reset your password")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hello %s,\n\nA password reset was requested for your account. "+
			"Open the link below within one hour to choose a new password:\n\n%s\n\n"+
			"If you did not request this, you can ignore this email.\n",
		toName, resetLink))
	msg.AddAlternative("text/html", fmt.Sprintf(
		"<p>Hello %s,</p><p>A password reset was requested for your account. "+
			"Open the link below within one hour to choose a new password:</p>"+
			"<p><a href=%q>%s</a></p>"+
			"<p>If you did not request this, you can ignore this email.</p>",
		toName, resetLink, resetLink))

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error("failed to send password reset email",
			zap.String("to", toEmail),
			zap.Error(err))
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	m.logger.Info("password reset email sent", zap.String("to", toEmail))
	return nil
}
