package repository

import (
	"context"
	"time"

	"github.com/agro-export/backend/internal/config"
	"github.com/agro-export/backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

type Repositories struct {
	Users         Users
	ResetRequests ResetRequests
}

func NewRepositories(db *sqlx.DB, rdb redis.UniversalClient, cfg config.PasswordResetConfig) *Repositories {
	return &Repositories{
		Users:         newUserRepository(db),
		ResetRequests: newResetRequestRepository(rdb, cfg.RecordRetention),
	}
}

type Users interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type ResetRequests interface {
	// Get returns domain.ErrNotFound when email has no record.
	Get(ctx context.Context, email string) (*domain.ResetRequest, error)
	// Save stores req as the only record of req.Email, replacing any previous one.
	Save(ctx context.Context, req *domain.ResetRequest) error
	// Update runs fn on the current record and stores the result atomically.
	// Nothing is written when fn returns an error, which is passed through as is.
	Update(ctx context.Context, email string, fn func(req *domain.ResetRequest) error) (*domain.ResetRequest, error)
	// Discard deletes the record of email only while it is still the issuance id.
	Discard(ctx context.Context, email string, id uuid.UUID) error
	// AcquireIssueSlot reports false when a code was issued for email less than cooldown ago.
	AcquireIssueSlot(ctx context.Context, email string, cooldown time.Duration) (bool, error)
	ReleaseIssueSlot(ctx context.Context, email string) error
}
