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
	"investor-onboarding.backend/pkg/logger"
)

// RefreshTokenManager issues, rotates and revokes opaque refresh tokens.
// Only the SHA-256 of a token is stored; the raw value is returned once.
type RefreshTokenManager struct {
	userRepo repositories.UserRepository
	uow      repositories.UnitOfWork
	tokens   AccessTokenIssuer
	settings Settings
}

// NewRefreshTokenManager creates a new refresh token manager
func NewRefreshTokenManager(
	userRepo repositories.UserRepository,
	uow repositories.UnitOfWork,
	tokens AccessTokenIssuer,
	settings Settings,
) *RefreshTokenManager {
	return &RefreshTokenManager{
		userRepo: userRepo,
		uow:      uow,
		tokens:   tokens,
		settings: settings.withDefaults(),
	}
}

// Attach generates a refresh token and stamps its hash and expiry on user
// without persisting it.
func (m *RefreshTokenManager) Attach(user *entities.User) (string, error) {
	raw, err := crypto.GenerateOpaqueToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	user.RefreshTokenHash = null.StringFrom(crypto.HashToken(raw))
	user.RefreshTokenExpiry = null.TimeFrom(m.settings.now().Add(m.settings.RefreshTokenTTL))
	return raw, nil
}

// Issue replaces the stored refresh token of user and persists it.
func (m *RefreshTokenManager) Issue(ctx context.Context, user *entities.User) (string, error) {
	raw, err := m.Attach(user)
	if err != nil {
		return "", err
	}
	user.Touch(m.settings.now(), user.ID.String())
	if err := m.userRepo.Update(ctx, user); err != nil {
		return "", err
	}
	return raw, nil
}

// IssuePair mints an access token and a fresh refresh token for user.
func (m *RefreshTokenManager) IssuePair(ctx context.Context, user *entities.User) (*entities.TokenPair, error) {
	refresh, err := m.Issue(ctx, user)
	if err != nil {
		return nil, err
	}
	return m.pair(user, refresh)
}

// Rotate exchanges a valid refresh token for a new pair. The presented
// token stops working immediately.
func (m *RefreshTokenManager) Rotate(ctx context.Context, rawToken string) (*entities.TokenPair, error) {
	var pair *entities.TokenPair
	err := m.uow.Do(ctx, func(ctx context.Context) error {
		user, err := m.lookup(ctx, rawToken)
		if err != nil {
			return err
		}
		if !user.RefreshTokenExpiry.Valid || !m.settings.now().Before(user.RefreshTokenExpiry.Time) {
			return domainerrors.NewAppError(domainerrors.KindUnauthorized, domainerrors.CodeTokenExpired, "refresh token has expired", domainerrors.ErrTokenExpired)
		}

		refresh, err := m.Issue(ctx, user)
		if err != nil {
			return err
		}
		pair, err = m.pair(user, refresh)
		if err != nil {
			return err
		}
		logger.Info(ctx, "Refresh token rotated", zap.String("user_id", user.ID.String()))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Revoke clears the stored refresh token matching rawToken.
func (m *RefreshTokenManager) Revoke(ctx context.Context, rawToken string) error {
	user, err := m.lookup(ctx, rawToken)
	if err != nil {
		return err
	}
	user.ClearRefreshToken()
	user.Touch(m.settings.now(), user.ID.String())
	if err := m.userRepo.Update(ctx, user); err != nil {
		return err
	}
	logger.Info(ctx, "Refresh token revoked", zap.String("user_id", user.ID.String()))
	return nil
}

func (m *RefreshTokenManager) lookup(ctx context.Context, rawToken string) (*entities.User, error) {
	if rawToken == "" {
		return nil, domainerrors.Unauthorized("refresh token is required")
	}
	user, err := m.userRepo.GetByRefreshTokenHash(ctx, crypto.HashToken(rawToken))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NewAppError(domainerrors.KindUnauthorized, domainerrors.CodeUnauthorized, "invalid refresh token", domainerrors.ErrInvalidToken)
		}
		return nil, err
	}
	return user, nil
}

func (m *RefreshTokenManager) pair(user *entities.User, refresh string) (*entities.TokenPair, error) {
	access, err := m.tokens.GenerateAccessToken(subjectOf(user))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	return &entities.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(m.tokens.AccessExpiry().Seconds()),
	}, nil
}
