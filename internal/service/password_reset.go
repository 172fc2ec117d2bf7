package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agro-export/backend/internal/config"
	"github.com/agro-export/backend/internal/domain"
	"github.com/agro-export/backend/internal/repository"
	"github.com/agro-export/backend/pkg/hash"
	"github.com/agro-export/backend/pkg/logger"
	"github.com/agro-export/backend/pkg/otp"
	"github.com/agro-export/backend/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultCodeTTL is the validity window of a reset code.
const DefaultCodeTTL = 10 * time.Minute

// rollbackTimeout bounds the undo steps that run after the caller has gone.
const rollbackTimeout = 3 * time.Second

var errSuperseded = errors.New("reset request superseded")

type passwordResetService struct {
	userRepository         repository.Users
	resetRequestRepository repository.ResetRequests
	hasher                 hash.PasswordHasher
	otpGenerator           otp.Generator
	codeSender             CodeSender
	notifier               PasswordChangedNotifier
	clock                  Clock
	locks                  *keyedMutex
	config                 config.PasswordResetConfig
}

func newPasswordResetService(userRepository repository.Users,
	resetRequestRepository repository.ResetRequests,
	hasher hash.PasswordHasher,
	otpGenerator otp.Generator,
	codeSender CodeSender,
	notifier PasswordChangedNotifier,
	clock Clock,
	cfg config.PasswordResetConfig,
) *passwordResetService {
	if cfg.CodeTTL <= 0 {
		cfg.CodeTTL = DefaultCodeTTL
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}

	return &passwordResetService{
		userRepository:         userRepository,
		resetRequestRepository: resetRequestRepository,
		hasher:                 hasher,
		otpGenerator:           otpGenerator,
		codeSender:             codeSender,
		notifier:               notifier,
		clock:                  clock,
		locks:                  newKeyedMutex(),
		config:                 cfg,
	}
}

// RequestReset issues a new code for email and delivers it. The answer is the
// same whether or not an account exists for email.
func (s *passwordResetService) RequestReset(ctx context.Context, email string) (*IssueResult, error) {
	email = validator.NormalizeEmail(email)
	if !validator.IsEmailValid(email) {
		return nil, ErrInvalidEmail
	}

	unlock := s.locks.Lock(email)
	defer unlock()

	ok, err := s.resetRequestRepository.AcquireIssueSlot(ctx, email, s.config.ResendCooldown)
	if err != nil {
		return nil, fmt.Errorf("acquire issue slot failed: %w", err)
	}
	if !ok {
		return nil, ErrResendTooSoon
	}

	result := &IssueResult{ExpiresIn: s.config.CodeTTL}

	if _, err := s.userRepository.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Info("password reset requested for unknown email", zap.String("email", email))
			return result, nil
		}
		s.releaseIssueSlot(ctx, email)
		return nil, fmt.Errorf("get user by email failed: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		s.releaseIssueSlot(ctx, email)
		return nil, fmt.Errorf("generate reset request id failed: %w", err)
	}

	req := domain.NewResetRequest(id, email, s.otpGenerator.RandomCode(), s.clock.Now(), s.config.CodeTTL)

	if err := s.resetRequestRepository.Save(ctx, req); err != nil {
		s.releaseIssueSlot(ctx, email)
		return nil, fmt.Errorf("save reset request failed: %w", err)
	}

	if err := s.codeSender.SendPasswordResetCode(ctx, email, req.Code, s.config.CodeTTL); err != nil {
		logger.Error("password reset code delivery failed", zap.String("email", email), zap.Error(err))

		s.discard(ctx, email, req.ID)
		s.releaseIssueSlot(ctx, email)

		return nil, ErrDeliveryFailed
	}

	logger.Info("password reset code issued",
		zap.String("email", email),
		zap.String("request_id", req.ID.String()),
		zap.Time("expires_at", req.ExpiresAt),
	)

	return result, nil
}

// ResendCode replaces the current code of email with a new one.
func (s *passwordResetService) ResendCode(ctx context.Context, email string) (*IssueResult, error) {
	return s.RequestReset(ctx, email)
}

// IsValid reports whether code currently unlocks a reset for email. It never
// changes state.
func (s *passwordResetService) IsValid(ctx context.Context, email string, code string) (bool, error) {
	email = validator.NormalizeEmail(email)

	req, err := s.resetRequestRepository.Get(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get reset request failed: %w", err)
	}

	return req.IsValid(s.clock.Now(), code), nil
}

// VerifyCode moves a session from awaiting the code to awaiting the new
// password. A wrong code only increments the attempt counter.
func (s *passwordResetService) VerifyCode(ctx context.Context, email string, code string) (*VerifyResult, error) {
	email = validator.NormalizeEmail(email)
	if !validator.IsEmailValid(email) {
		return nil, ErrInvalidEmail
	}
	if !validator.IsOTPCode(code) {
		return nil, ErrInvalidCode
	}

	unlock := s.locks.Lock(email)
	defer unlock()

	now := s.clock.Now()

	req, err := s.redeem(ctx, email, code, now, false)
	if err != nil {
		return nil, err
	}

	return &VerifyResult{
		State:     domain.StateAwaitingPassword,
		Remaining: req.Remaining(now),
	}, nil
}

// ResetPassword re-validates code against the current record, consumes it and
// replaces the account password.
func (s *passwordResetService) ResetPassword(ctx context.Context, email string, code string, newPassword string) error {
	email = validator.NormalizeEmail(email)
	if !validator.IsEmailValid(email) {
		return ErrInvalidEmail
	}
	if !validator.IsStrongPassword(newPassword) {
		return ErrWeakPassword
	}
	if !validator.IsOTPCode(code) {
		return ErrInvalidCode
	}

	unlock := s.locks.Lock(email)
	defer unlock()

	now := s.clock.Now()

	req, err := s.redeem(ctx, email, code, now, true)
	if err != nil {
		return err
	}

	if err := s.replacePassword(ctx, email, newPassword); err != nil {
		s.revertConsume(ctx, email, req.ID)
		return err
	}

	if err := s.notifier.EnqueuePasswordChanged(ctx, email); err != nil {
		logger.Warn("enqueue password changed notice failed", zap.String("email", email), zap.Error(err))
	}

	logger.Info("password reset completed",
		zap.String("email", email),
		zap.String("request_id", req.ID.String()),
	)

	return nil
}

// redeem checks code against the stored record in one atomic update. Wrong
// digits are counted; with consume set a matching code is marked used.
func (s *passwordResetService) redeem(ctx context.Context, email string, code string, now time.Time, consume bool) (*domain.ResetRequest, error) {
	var checkErr error

	req, err := s.resetRequestRepository.Update(ctx, email, func(req *domain.ResetRequest) error {
		checkErr = s.check(req, now, code)
		switch {
		case errors.Is(checkErr, domain.ErrInvalidCode):
			req.AttemptCount++
			return nil
		case checkErr != nil:
			return checkErr
		}

		if consume {
			req.Consume(now)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return nil, ErrInvalidCode
		case errors.Is(err, domain.ErrCodeAlreadyUsed),
			errors.Is(err, domain.ErrCodeExpired),
			errors.Is(err, ErrTooManyAttempts):
			return nil, err
		}
		return nil, fmt.Errorf("update reset request failed: %w", err)
	}

	if checkErr != nil {
		logger.Info("wrong password reset code",
			zap.String("email", email),
			zap.Int("attempts", req.AttemptCount),
		)
		return nil, checkErr
	}

	return req, nil
}

func (s *passwordResetService) check(req *domain.ResetRequest, now time.Time, code string) error {
	err := req.Check(now, code)
	if err != nil && !errors.Is(err, domain.ErrInvalidCode) {
		return err
	}

	if s.config.MaxAttempts > 0 && req.AttemptCount >= s.config.MaxAttempts {
		return ErrTooManyAttempts
	}

	return err
}

func (s *passwordResetService) replacePassword(ctx context.Context, email string, newPassword string) error {
	user, err := s.userRepository.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("get user by email failed: %w", err)
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password failed: %w", err)
	}

	if err := s.userRepository.UpdatePasswordHash(ctx, user.ID, passwordHash); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update password hash failed: %w", err)
	}

	return nil
}

// revertConsume makes the code usable again after the password could not be stored.
func (s *passwordResetService) revertConsume(ctx context.Context, email string, id uuid.UUID) {
	ctx, cancel := rollbackContext(ctx)
	defer cancel()

	_, err := s.resetRequestRepository.Update(ctx, email, func(req *domain.ResetRequest) error {
		if req.ID != id {
			return errSuperseded
		}
		req.Consumed = false
		req.ConsumedAt = nil
		return nil
	})
	if err != nil && !errors.Is(err, errSuperseded) && !errors.Is(err, domain.ErrNotFound) {
		logger.Error("revert consumed reset request failed", zap.String("email", email), zap.Error(err))
	}
}

func (s *passwordResetService) releaseIssueSlot(ctx context.Context, email string) {
	if s.config.ResendCooldown <= 0 {
		return
	}

	ctx, cancel := rollbackContext(ctx)
	defer cancel()

	if err := s.resetRequestRepository.ReleaseIssueSlot(ctx, email); err != nil {
		logger.Error("release issue slot failed", zap.String("email", email), zap.Error(err))
	}
}

// discard removes a record whose code never reached its owner.
func (s *passwordResetService) discard(ctx context.Context, email string, id uuid.UUID) {
	ctx, cancel := rollbackContext(ctx)
	defer cancel()

	if err := s.resetRequestRepository.Discard(ctx, email, id); err != nil {
		logger.Error("discard undelivered reset request failed", zap.String("email", email), zap.Error(err))
	}
}

// rollbackContext keeps the values of ctx but not its cancellation, so undo
// steps still run when the request was cancelled midway.
func rollbackContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
}

type noopNotifier struct{}

func (noopNotifier) EnqueuePasswordChanged(context.Context, string) error {
	return nil
}
