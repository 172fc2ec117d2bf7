package worker

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/agro-export/backend/internal/config"
	emailProvider "github.com/agro-export/backend/pkg/email"
	"github.com/agro-export/backend/pkg/logger"

	"go.uber.org/zap"
)

type emailSender struct {
	sender emailProvider.Sender
	config config.EmailConfig
}

func newEmailSender(
	sender emailProvider.Sender,
	config config.EmailConfig,
) *emailSender {
	return &emailSender{
		sender: sender,
		config: config,
	}
}

type passwordChangedEmailInput struct {
	Email string
}

func (s *emailSender) SendPasswordChangedEmail(ctx context.Context, email string) error {
	if !s.config.Enabled {
		logger.Debug("email delivery disabled, password changed notice skipped", zap.String("email", email))
		return nil
	}

	subject := "Your password has been changed"

	templateInput := passwordChangedEmailInput{Email: email}
	sendInput := emailProvider.SendEmailInput{Subject: subject, To: email}

	templatePath := filepath.Join(s.config.Dir, s.config.Templates.PasswordChanged)
	if err := sendInput.GenerateBodyFromHTML(templatePath, templateInput); err != nil {
		return fmt.Errorf("generate email failed: %w", err)
	}

	if err := s.sender.Send(ctx, sendInput); err != nil {
		return fmt.Errorf("send email failed: %w", err)
	}

	return nil
}
