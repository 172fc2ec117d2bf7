package task

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	PasswordChangedTaskName  = "passwordChangedTask"
	PasswordChangedQueueName = "passwordChangedQueue"
)

const defaultMaxRetry = 5

type PasswordChanged struct {
	Email string `json:"email"`
}

func NewPasswordChangedTask(email string, maxRetry int) (*asynq.Task, error) {
	if maxRetry <= 0 {
		maxRetry = defaultMaxRetry
	}

	payload, err := json.Marshal(PasswordChanged{Email: email})
	if err != nil {
		return nil, fmt.Errorf("json data marshal failed: %w", err)
	}

	return asynq.NewTask(
		PasswordChangedTaskName,
		payload,
		asynq.MaxRetry(maxRetry),
		asynq.Queue(PasswordChangedQueueName),
	), nil
}
