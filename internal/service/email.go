package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/agro-export/backend/internal/config"
	emailProvider "github.com/agro-export/backend/pkg/email"
	"github.com/agro-export/backend/pkg/logger"

	"go.uber.org/zap"
)

type EmailService struct {
	sender  emailProvider.Sender
	config  config.EmailConfig
	enabled bool
}

func newEmailsService(sender emailProvider.Sender, config config.EmailConfig) *EmailService {
	return &EmailService{
		enabled: config.Enabled,
		sender:  sender,
		config:  config,
	}
}

type passwordResetCodeInput struct {
	Code             string
	ExpiresInMinutes int
}

func (s *EmailService) SendPasswordResetCode(ctx context.Context, email string, code string, expiresIn time.Duration) error {
	if !s.enabled {
		logger.Debug("email delivery disabled, reset code not sent", zap.String("email", email))
		return nil
	}

	subject := "Password reset code"

	templateInput := passwordResetCodeInput{Code: code, ExpiresInMinutes: int(expiresIn / time.Minute)}
	sendInput := emailProvider.SendEmailInput{Subject: subject, To: email}

	templatePath := filepath.Join(s.config.Dir, s.config.Templates.PasswordResetCode)
	if err := sendInput.GenerateBodyFromHTML(templatePath, templateInput); err != nil {
		return fmt.Errorf("generate email failed: %w", err)
	}

	return s.sender.Send(ctx, sendInput)
}
