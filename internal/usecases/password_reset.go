package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"investor-onboarding.backend/internal/domain/entities"
	domainerrors "investor-onboarding.backend/internal/domain/errors"
	"investor-onboarding.backend/internal/domain/repositories"
	"investor-onboarding.backend/pkg/crypto"
	"investor-onboarding.backend/pkg/envelope"
	"investor-onboarding.backend/pkg/logger"
)

// PasswordResetFlow issues single-use reset secrets wrapped in signed
// envelopes and consumes them
type PasswordResetFlow struct {
	userRepo repositories.UserRepository
	sealer   EnvelopeSealer
	notifier *Notifier
	settings Settings
}

// NewPasswordResetFlow creates a new password reset flow
func NewPasswordResetFlow(
	userRepo repositories.UserRepository,
	sealer EnvelopeSealer,
	notifier *Notifier,
	settings Settings,
) *PasswordResetFlow {
	return &PasswordResetFlow{
		userRepo: userRepo,
		sealer:   sealer,
		notifier: notifier,
		settings: settings.withDefaults(),
	}
}

// RequestReset always succeeds. For a known email it stores the hash of a
// new secret and mails the envelope.
func (f *PasswordResetFlow) RequestReset(ctx context.Context, email string) {
	if err := f.requestReset(ctx, email); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			logger.Info(ctx, "Password reset requested for unknown email")
			return
		}
		logger.Error(ctx, "Password reset request failed", zap.Error(err))
	}
}

func (f *PasswordResetFlow) requestReset(ctx context.Context, email string) error {
	user, err := f.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	secret, err := crypto.GenerateOpaqueToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset secret: %w", err)
	}
	now := f.settings.now()
	expiresAt := now.Add(f.settings.PasswordResetTTL)

	token, err := f.sealer.Seal(envelope.Payload{Email: user.Email, Secret: secret}, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to seal reset token: %w", err)
	}

	user.PasswordResetTokenHash = null.StringFrom(crypto.HashToken(secret))
	user.PasswordResetTokenExpiry = null.TimeFrom(expiresAt)
	user.Touch(now, user.ID.String())
	if err := f.userRepo.Update(ctx, user); err != nil {
		return err
	}

	f.notifier.SendPasswordReset(ctx, user, token)
	logger.Info(ctx, "Password reset requested", zap.String("user_id", user.ID.String()))
	return nil
}

// Consume sets a new password when the envelope is authentic, unexpired and
// matches the pending reset. The pending reset is cleared on success.
func (f *PasswordResetFlow) Consume(ctx context.Context, token, newPassword string) (*entities.User, error) {
	payload, err := f.sealer.Open(token)
	if err != nil {
		if errors.Is(err, envelope.ErrExpiredEnvelope) {
			return nil, domainerrors.BadRequest("reset token has expired")
		}
		return nil, domainerrors.BadRequest("invalid reset token")
	}

	user, err := f.userRepo.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.BadRequest("invalid reset token")
		}
		return nil, err
	}

	now := f.settings.now()
	if !user.PasswordResetTokenHash.Valid || !user.PasswordResetTokenExpiry.Valid {
		return nil, domainerrors.BadRequest("no password reset is pending")
	}
	if !now.Before(user.PasswordResetTokenExpiry.Time) {
		return nil, domainerrors.BadRequest("reset token has expired")
	}
	if !crypto.TokenMatchesHash(payload.Secret, user.PasswordResetTokenHash.String) {
		return nil, domainerrors.BadRequest("invalid reset token")
	}

	hash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	user.ClearPasswordReset()
	user.Touch(now, user.ID.String())
	if err := f.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Password reset completed", zap.String("user_id", user.ID.String()))
	return user, nil
}
