package service

import (
	"context"
	"sync"
	"time"

	"github.com/agro-export/backend/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type usersMock struct {
	mock.Mock
}

func (m *usersMock) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domain.User)

	return user, args.Error(1)
}

func (m *usersMock) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)

	return args.Error(0)
}

type codeSenderMock struct {
	mock.Mock
}

func (m *codeSenderMock) SendPasswordResetCode(ctx context.Context, email string, code string, expiresIn time.Duration) error {
	args := m.Called(ctx, email, code, expiresIn)

	return args.Error(0)
}

type notifierMock struct {
	mock.Mock
}

func (m *notifierMock) EnqueuePasswordChanged(ctx context.Context, email string) error {
	args := m.Called(ctx, email)

	return args.Error(0)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

// sequenceGenerator hands out the queued codes in order.
type sequenceGenerator struct {
	mu    sync.Mutex
	codes []string
}

func (g *sequenceGenerator) RandomCode() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	code := g.codes[0]
	g.codes = g.codes[1:]

	return code
}
