package processor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/agro-export/backend/internal/queue/task"
	"github.com/agro-export/backend/internal/worker"

	"github.com/hibiken/asynq"
)

type passwordChangedProcessor struct {
	workers *worker.Workers
}

func NewPasswordChangedProcessor(workers *worker.Workers) *passwordChangedProcessor {
	return &passwordChangedProcessor{
		workers: workers,
	}
}

func (p *passwordChangedProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var data task.PasswordChanged
	err := json.Unmarshal(t.Payload(), &data)
	if err != nil {
		return fmt.Errorf("process password changed task json unmarshal failed: %w: %w", err, asynq.SkipRetry)
	}

	if err = p.workers.EmailSender.SendPasswordChangedEmail(ctx, data.Email); err != nil {
		return fmt.Errorf("send password changed email failed: %w", err)
	}

	return nil
}
