package domain

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ResetState is the client visible step of a password reset session.
type ResetState string

const (
	StateAwaitingCode     ResetState = "awaiting_code"
	StateAwaitingPassword ResetState = "awaiting_password"
	StateComplete         ResetState = "complete"
)

// ResetRequest is the single active reset code of one email.
// Issuing a new code replaces the record as a whole.
type ResetRequest struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	Code         string     `json:"code"`
	IssuedAt     time.Time  `json:"issued_at"`
	ExpiresAt    time.Time  `json:"expires_at"`
	Consumed     bool       `json:"consumed"`
	ConsumedAt   *time.Time `json:"consumed_at,omitempty"`
	AttemptCount int        `json:"attempt_count"`
}

func NewResetRequest(id uuid.UUID, email, code string, now time.Time, ttl time.Duration) *ResetRequest {
	return &ResetRequest{
		ID:        id,
		Email:     email,
		Code:      code,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired is true from ExpiresAt onwards.
func (r *ResetRequest) IsExpired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

func (r *ResetRequest) Matches(code string) bool {
	return subtle.ConstantTimeCompare([]byte(r.Code), []byte(code)) == 1
}

// Check classifies code against the record. A used record reports
// ErrCodeAlreadyUsed and an expired one ErrCodeExpired whatever the digits.
func (r *ResetRequest) Check(now time.Time, code string) error {
	switch {
	case r.Consumed:
		return ErrCodeAlreadyUsed
	case r.IsExpired(now):
		return ErrCodeExpired
	case !r.Matches(code):
		return ErrInvalidCode
	}

	return nil
}

func (r *ResetRequest) IsValid(now time.Time, code string) bool {
	return r.Check(now, code) == nil
}

func (r *ResetRequest) Consume(now time.Time) {
	r.Consumed = true
	r.ConsumedAt = &now
}

func (r *ResetRequest) Remaining(now time.Time) time.Duration {
	return Remaining(now, r.ExpiresAt)
}

// Remaining is max(0, expiresAt-now) truncated to whole seconds.
func Remaining(now, expiresAt time.Time) time.Duration {
	d := expiresAt.Sub(now)
	if d <= 0 {
		return 0
	}

	return d.Truncate(time.Second)
}

// FormatCountdown renders d as mm:ss.
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)

	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
