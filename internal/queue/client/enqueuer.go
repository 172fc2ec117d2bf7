package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/agro-export/backend/internal/queue/task"
)

var ErrNoClient = errors.New("asynq client is not configured")

// Enqueuer puts password reset follow-ups on the queue through the client
// returned by GetClient.
type Enqueuer struct {
	maxRetry int
}

func NewEnqueuer(maxRetry int) *Enqueuer {
	return &Enqueuer{maxRetry: maxRetry}
}

func (e *Enqueuer) EnqueuePasswordChanged(ctx context.Context, email string) error {
	c := GetClient()
	if c == nil {
		return ErrNoClient
	}

	t, err := task.NewPasswordChangedTask(email, e.maxRetry)
	if err != nil {
		return fmt.Errorf("create password changed task failed: %w", err)
	}

	if _, err := c.EnqueueContext(ctx, t); err != nil {
		return fmt.Errorf("enqueue password changed task failed: %w", err)
	}

	return nil
}
