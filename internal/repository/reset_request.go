package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/agro-export/backend/internal/domain"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	resetRequestKeyPrefix = "password_reset:request:"
	issueSlotKeyPrefix    = "password_reset:issue_slot:"

	maxUpdateRetries = 10
)

var ErrUpdateConflict = errors.New("reset request changed concurrently too many times")

type resetRequestRepository struct {
	client    redis.UniversalClient
	retention time.Duration
}

func newResetRequestRepository(client redis.UniversalClient, retention time.Duration) *resetRequestRepository {
	return &resetRequestRepository{
		client:    client,
		retention: retention,
	}
}

func resetRequestKey(email string) string {
	return resetRequestKeyPrefix + email
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *resetRequestRepository) read(ctx context.Context, g stringGetter, key string) (*domain.ResetRequest, error) {
	payload, err := g.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get %s", key)
	}

	var req domain.ResetRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, errors.Wrapf(err, "decode %s", key)
	}

	return &req, nil
}

func (r *resetRequestRepository) Get(ctx context.Context, email string) (*domain.ResetRequest, error) {
	return r.read(ctx, r.client, resetRequestKey(email))
}

// Save keeps the record for its validity window plus the retention period,
// so that late attempts are still told apart from unknown codes.
func (r *resetRequestRepository) Save(ctx context.Context, req *domain.ResetRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return errors.Wrap(err, "encode reset request")
	}

	ttl := req.ExpiresAt.Sub(req.IssuedAt) + r.retention
	if ttl <= 0 {
		ttl = r.retention
	}

	if err := r.client.Set(ctx, resetRequestKey(req.Email), payload, ttl).Err(); err != nil {
		return errors.Wrapf(err, "set %s", resetRequestKey(req.Email))
	}

	return nil
}

func (r *resetRequestRepository) Update(ctx context.Context, email string, fn func(req *domain.ResetRequest) error) (*domain.ResetRequest, error) {
	key := resetRequestKey(email)

	var updated *domain.ResetRequest
	txf := func(tx *redis.Tx) error {
		req, err := r.read(ctx, tx, key)
		if err != nil {
			return err
		}

		if err := fn(req); err != nil {
			return err
		}

		payload, err := json.Marshal(req)
		if err != nil {
			return errors.Wrap(err, "encode reset request")
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, redis.KeepTTL)
			return nil
		})
		if err != nil {
			return err
		}

		updated = req
		return nil
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}

	return nil, ErrUpdateConflict
}

func (r *resetRequestRepository) Discard(ctx context.Context, email string, id uuid.UUID) error {
	key := resetRequestKey(email)

	txf := func(tx *redis.Tx) error {
		req, err := r.read(ctx, tx, key)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			return err
		}

		if req.ID != id {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return errors.Wrapf(err, "discard %s", key)
	}

	return ErrUpdateConflict
}

func (r *resetRequestRepository) AcquireIssueSlot(ctx context.Context, email string, cooldown time.Duration) (bool, error) {
	if cooldown <= 0 {
		return true, nil
	}

	ok, err := r.client.SetNX(ctx, issueSlotKeyPrefix+email, 1, cooldown).Result()
	if err != nil {
		return false, errors.Wrapf(err, "setnx %s", issueSlotKeyPrefix+email)
	}

	return ok, nil
}

func (r *resetRequestRepository) ReleaseIssueSlot(ctx context.Context, email string) error {
	if err := r.client.Del(ctx, issueSlotKeyPrefix+email).Err(); err != nil {
		return errors.Wrapf(err, "del %s", issueSlotKeyPrefix+email)
	}

	return nil
}
