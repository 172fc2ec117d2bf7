package worker

import (
	"context"

	"github.com/agro-export/backend/internal/config"
	emailProvider "github.com/agro-export/backend/pkg/email"
)

type Workers struct {
	EmailSender EmailSender
}

type Deps struct {
	EmailProvider emailProvider.Sender
	Config        *config.Config
}

type EmailSender interface {
	SendPasswordChangedEmail(ctx context.Context, email string) error
}

func NewWorkers(deps Deps) *Workers {
	return &Workers{
		EmailSender: newEmailSender(deps.EmailProvider, deps.Config.Email),
	}
}
