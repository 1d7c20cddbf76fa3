package mailer

import (
	"context"
	"fmt"

	"github.com/unklab/lostfound-server/internal/logger"
	"github.com/unklab/lostfound-server/internal/model"
)

var _ model.ResetMailer = (*Log)(nil)

// Log writes the reset link to the application log instead of sending mail.
// Used when no SMTP host is configured, e.g. in local development.
type Log struct {
	baseURL string
	logger  *logger.Logger
}

func NewLog(baseURL string, logger *logger.Logger) *Log {
	return &Log{baseURL: baseURL, logger: logger}
}

// SendResetLink logs the link that would have been mailed.
func (l *Log) SendResetLink(_ context.Context, email, displayName, token string) error {
	l.logger.Info("mail delivery disabled, logging reset link",
		"email", email,
		"name", displayName,
		"reset_link", fmt.Sprintf("%s/reset-password/%s", l.baseURL, token))
	return nil
}
