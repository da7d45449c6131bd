package usecases

import (
	"context"
	"time"

	"investor-onboarding.backend/internal/domain/entities"
	"investor-onboarding.backend/pkg/envelope"
	"investor-onboarding.backend/pkg/jwt"
	"investor-onboarding.backend/pkg/redis"
)

// AccessTokenIssuer mints and validates short-lived access tokens
type AccessTokenIssuer interface {
	GenerateAccessToken(subject jwt.Subject) (string, error)
	ValidateToken(token string) (*jwt.Claims, error)
	AccessExpiry() time.Duration
}

// EnvelopeSealer wraps reset secrets into signed, time-bounded envelopes
type EnvelopeSealer interface {
	Seal(p envelope.Payload, expiresAt time.Time) (string, error)
	Open(raw string) (*envelope.Payload, error)
}

// SessionStore keeps login sessions created with useSession
type SessionStore interface {
	CreateSession(ctx context.Context, sessionID string, data *redis.SessionData, expiration time.Duration) error
	GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// KycIntake processes identity documents, possibly through a third party
type KycIntake interface {
	Process(ctx context.Context, input entities.KycInput) (*entities.KycResult, error)
}

func subjectOf(user *entities.User) jwt.Subject {
	return jwt.Subject{
		UserID:          user.ID,
		Email:           user.Email,
		UserType:        string(user.UserType),
		IsEmailVerified: user.IsEmailVerified,
	}
}
