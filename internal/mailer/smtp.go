// Package mailer delivers password reset links out of band.
package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/unklab/lostfound-server/internal/model"
)

var _ model.ResetMailer = (*SMTP)(nil)

// SMTP sends reset links through an SMTP relay.
type SMTP struct {
	client  *mail.Client
	from    string
	baseURL string
}

// NewSMTP creates an SMTP mailer. baseURL is the SPA origin the reset link
// points at.
func NewSMTP(host string, port int, username, password, from, baseURL string) (*SMTP, error) {
	client, err := mail.NewClient(host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(username),
		mail.WithPassword(password),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &SMTP{client: client, from: from, baseURL: baseURL}, nil
}

// SendResetLink mails the reset link to the address on file.
func (s *SMTP) SendResetLink(ctx context.Context, email, displayName, token string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := msg.To(email); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	msg.Subject("Reset your password")
	msg.SetBodyString(mail.TypeTextPlain, resetBody(displayName, s.baseURL, token))

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send reset mail: %w", err)
	}

	return nil
}

func resetBody(displayName, baseURL, token string) string {
	link := fmt.Sprintf("%s/reset-password/%s", baseURL, token)
	return fmt.Sprintf(
		"Hi %s,\n\n"+
			"We received a request to reset your password. Open the link below to choose a new one:\n\n"+
			"%s\n\n"+
			"The link expires in 30 minutes and can only be used once. If you did not request this, you can ignore this message.\n",
		displayName, link)
}
