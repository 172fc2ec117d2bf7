package service

import (
	"errors"

	"github.com/agro-export/backend/internal/domain"
)

var (
	ErrInvalidEmail    = errors.New("invalid email")
	ErrDeliveryFailed  = errors.New("code delivery failed")
	ErrWeakPassword    = errors.New("password does not meet policy")
	ErrUserNotFound    = errors.New("user not found")
	ErrTooManyAttempts = errors.New("too many wrong codes")
	ErrResendTooSoon   = errors.New("code requested too soon")

	ErrInvalidCode     = domain.ErrInvalidCode
	ErrCodeExpired     = domain.ErrCodeExpired
	ErrCodeAlreadyUsed = domain.ErrCodeAlreadyUsed
)
