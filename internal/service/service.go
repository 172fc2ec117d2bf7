package service

import (
	"context"
	"time"

	"github.com/agro-export/backend/internal/config"
	"github.com/agro-export/backend/internal/domain"
	"github.com/agro-export/backend/internal/repository"
	emailProvider "github.com/agro-export/backend/pkg/email"
	"github.com/agro-export/backend/pkg/hash"
	"github.com/agro-export/backend/pkg/otp"
)

type Services struct {
	PasswordReset PasswordReset
}

type Deps struct {
	Config       *config.Config
	Hasher       hash.PasswordHasher
	OtpGenerator otp.Generator
	EmailSender  emailProvider.Sender
	Notifier     PasswordChangedNotifier
	Clock        Clock
	Repos        *repository.Repositories
}

func NewServices(deps Deps) *Services {
	clock := deps.Clock
	if clock == nil {
		clock = realClock{}
	}

	return &Services{
		PasswordReset: newPasswordResetService(
			deps.Repos.Users,
			deps.Repos.ResetRequests,
			deps.Hasher,
			deps.OtpGenerator,
			newEmailsService(deps.EmailSender, deps.Config.Email),
			deps.Notifier,
			clock,
			deps.Config.PasswordReset,
		),
	}
}

type PasswordReset interface {
	RequestReset(ctx context.Context, email string) (*IssueResult, error)
	ResendCode(ctx context.Context, email string) (*IssueResult, error)
	IsValid(ctx context.Context, email string, code string) (bool, error)
	VerifyCode(ctx context.Context, email string, code string) (*VerifyResult, error)
	ResetPassword(ctx context.Context, email string, code string, newPassword string) error
}

// CodeSender delivers an issued reset code to its owner.
type CodeSender interface {
	SendPasswordResetCode(ctx context.Context, email string, code string, expiresIn time.Duration) error
}

type PasswordChangedNotifier interface {
	EnqueuePasswordChanged(ctx context.Context, email string) error
}

type IssueResult struct {
	ExpiresIn time.Duration
}

type VerifyResult struct {
	State     domain.ResetState
	Remaining time.Duration
}
