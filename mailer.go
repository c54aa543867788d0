package authkit

import (
	"context"
	"fmt"
)

// LoggerMailer is a development Mailer that writes messages to the logger
// instead of dispatching them.
type LoggerMailer struct {
	logger Logger
}

func NewLoggerMailer(logger Logger) *LoggerMailer {
	if logger == nil {
		logger = defLogger{}
	}
	return &LoggerMailer{logger: logger}
}

func (m *LoggerMailer) Send(ctx context.Context, to, subject, body string) error {
	m.logger.Info("====== SENDING EMAIL NOTIFICATION =======")
	m.logger.Info("to: %s", to)
	m.logger.Info("subject: %s", subject)
	m.logger.Info("body: %s", body)
	return nil
}

var _ Mailer = (*LoggerMailer)(nil)

func resetPasswordEmail(token string) (subject, body string) {
	subject = "Reset password"
	body = fmt.Sprintf(
		"Dear user,\nTo reset your password, click on this link: /reset-password?token=%s\nIf you did not request any password resets, then ignore this email.",
		token,
	)
	return subject, body
}

func verifyEmailEmail(token string) (subject, body string) {
	subject = "Email Verification"
	body = fmt.Sprintf(
		"Dear user,\nTo verify your email, click on this link: /verify-email?token=%s\nIf you did not create an account, then ignore this email.",
		token,
	)
	return subject, body
}
