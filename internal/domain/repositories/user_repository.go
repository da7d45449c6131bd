package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"investor-onboarding.backend/internal/domain/entities"
)

// UserRepository defines user data operations. Lookups never return
// soft-deleted users.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByRefreshTokenHash(ctx context.Context, hash string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}
