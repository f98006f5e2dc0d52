package mailer

// Mailer defines the interface for sending account emails.
type Mailer interface {
	// SendPasswordReset delivers a reset token to the given address.
	SendPasswordReset(toEmail, toName, token string) error
}
