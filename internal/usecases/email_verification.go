package usecases

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"investor-onboarding.backend/internal/domain/entities"
	domainerrors "investor-onboarding.backend/internal/domain/errors"
	"investor-onboarding.backend/internal/domain/repositories"
	"investor-onboarding.backend/pkg/crypto"
	"investor-onboarding.backend/pkg/logger"
)

// EmailVerificationFlow proves mailbox ownership with a plaintext token
type EmailVerificationFlow struct {
	userRepo repositories.UserRepository
	notifier *Notifier
	settings Settings
}

// NewEmailVerificationFlow creates a new email verification flow
func NewEmailVerificationFlow(userRepo repositories.UserRepository, notifier *Notifier, settings Settings) *EmailVerificationFlow {
	return &EmailVerificationFlow{
		userRepo: userRepo,
		notifier: notifier,
		settings: settings.withDefaults(),
	}
}

// Issue stamps a new verification token and expiry on user without
// persisting it.
func (f *EmailVerificationFlow) Issue(user *entities.User) (string, error) {
	token, err := crypto.GenerateVerificationToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate verification token: %w", err)
	}
	user.EmailVerificationToken = null.StringFrom(token)
	user.EmailVerificationTokenExpiry = null.TimeFrom(f.settings.now().Add(f.settings.EmailVerificationTTL))
	return token, nil
}

// Resend overwrites the verification token of an unverified user and mails it.
func (f *EmailVerificationFlow) Resend(ctx context.Context, email string) error {
	user, err := f.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.IsEmailVerified {
		return domainerrors.BadRequest("email is already verified")
	}

	token, err := f.Issue(user)
	if err != nil {
		return err
	}
	user.Touch(f.settings.now(), user.ID.String())
	if err := f.userRepo.Update(ctx, user); err != nil {
		return err
	}

	f.notifier.SendVerification(ctx, user, token)
	logger.Info(ctx, "Verification email reissued", zap.String("user_id", user.ID.String()))
	return nil
}

// Verify marks the user verified when token matches and has not expired.
func (f *EmailVerificationFlow) Verify(ctx context.Context, email, token string) (*entities.User, error) {
	user, err := f.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.IsEmailVerified {
		return nil, domainerrors.BadRequest("email is already verified")
	}
	if !user.EmailVerificationToken.Valid || subtle.ConstantTimeCompare([]byte(user.EmailVerificationToken.String), []byte(token)) != 1 {
		return nil, domainerrors.BadRequest("invalid verification token")
	}
	now := f.settings.now()
	if !user.EmailVerificationTokenExpiry.Valid || !now.Before(user.EmailVerificationTokenExpiry.Time) {
		return nil, domainerrors.BadRequest("verification token has expired")
	}

	user.IsEmailVerified = true
	user.ClearEmailVerification()
	user.Touch(now, user.ID.String())
	if err := f.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Email verified", zap.String("user_id", user.ID.String()))
	return user, nil
}
