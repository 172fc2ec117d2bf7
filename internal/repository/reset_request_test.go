package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/agro-export/backend/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var issued = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*resetRequestRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return newResetRequestRepository(client, time.Hour), mr
}

func newRecord(email, code string) *domain.ResetRequest {
	return domain.NewResetRequest(uuid.New(), email, code, issued, 10*time.Minute)
}

func TestResetRequestRepository_SaveAndGet(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	req := newRecord("user@example.com", "004821")
	require.NoError(t, store.Save(ctx, req))

	got, err := store.Get(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, req.ID, got.ID)
	assert.Equal(t, "004821", got.Code)
	assert.True(t, req.ExpiresAt.Equal(got.ExpiresAt))

	assert.Equal(t, 10*time.Minute+time.Hour, mr.TTL(resetRequestKey("user@example.com")))
}

func TestResetRequestRepository_Get_NotFound(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResetRequestRepository_Get_ExpiredKey(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newRecord("user@example.com", "123456")))
	mr.FastForward(10*time.Minute + time.Hour + time.Second)

	_, err := store.Get(ctx, "user@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResetRequestRepository_SaveSupersedes(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	first := newRecord("user@example.com", "111111")
	second := newRecord("user@example.com", "222222")
	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	got, err := store.Get(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	assert.Equal(t, "222222", got.Code)
}

func TestResetRequestRepository_Update(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newRecord("user@example.com", "123456")))
	mr.FastForward(time.Minute)

	updated, err := store.Update(ctx, "user@example.com", func(req *domain.ResetRequest) error {
		req.Consume(issued.Add(time.Minute))
		return nil
	})
	require.NoError(t, err)
	assert.True(t, updated.Consumed)

	got, err := store.Get(ctx, "user@example.com")
	require.NoError(t, err)
	assert.True(t, got.Consumed)

	// the original expiry of the key is kept
	assert.Equal(t, 10*time.Minute+time.Hour-time.Minute, mr.TTL(resetRequestKey("user@example.com")))
}

func TestResetRequestRepository_Update_FnErrorWritesNothing(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newRecord("user@example.com", "123456")))

	_, err := store.Update(ctx, "user@example.com", func(req *domain.ResetRequest) error {
		req.AttemptCount = 42
		return domain.ErrCodeExpired
	})
	assert.ErrorIs(t, err, domain.ErrCodeExpired)

	got, err := store.Get(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Zero(t, got.AttemptCount)
}

func TestResetRequestRepository_Update_NotFound(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Update(context.Background(), "ghost@example.com", func(*domain.ResetRequest) error {
		t.Fatal("fn must not run without a record")
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResetRequestRepository_Update_ConcurrentConsumeOnlyOnce(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newRecord("user@example.com", "123456")))

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		used      int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, "user@example.com", func(req *domain.ResetRequest) error {
				if err := req.Check(issued.Add(time.Minute), "123456"); err != nil {
					return err
				}
				req.Consume(issued.Add(time.Minute))
				return nil
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrCodeAlreadyUsed):
				used++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, used)
}

func TestResetRequestRepository_Discard(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	req := newRecord("user@example.com", "123456")
	require.NoError(t, store.Save(ctx, req))

	// a different issuance id leaves the record alone
	require.NoError(t, store.Discard(ctx, "user@example.com", uuid.New()))
	_, err := store.Get(ctx, "user@example.com")
	require.NoError(t, err)

	require.NoError(t, store.Discard(ctx, "user@example.com", req.ID))
	_, err = store.Get(ctx, "user@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// discarding a missing record is a no-op
	assert.NoError(t, store.Discard(ctx, "user@example.com", req.ID))
}

func TestResetRequestRepository_AcquireIssueSlot(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	ok, err := store.AcquireIssueSlot(ctx, "user@example.com", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.AcquireIssueSlot(ctx, "user@example.com", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(time.Minute + time.Second)

	ok, err = store.AcquireIssueSlot(ctx, "user@example.com", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestResetRequestRepository_ReleaseIssueSlot(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	ok, err := store.AcquireIssueSlot(ctx, "user@example.com", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, store.ReleaseIssueSlot(ctx, "user@example.com"))

	ok, err = store.AcquireIssueSlot(ctx, "user@example.com", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestResetRequestRepository_AcquireIssueSlot_Disabled(t *testing.T) {
	store, mr := newTestStore(t)

	for i := 0; i < 3; i++ {
		ok, err := store.AcquireIssueSlot(context.Background(), "user@example.com", 0)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.Empty(t, mr.Keys())
}
