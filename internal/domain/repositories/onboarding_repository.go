package repositories

import (
	"context"

	"github.com/google/uuid"
	"investor-onboarding.backend/internal/domain/entities"
)

// OnboardingRepository persists the per-user progress row
type OnboardingRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.UserOnboarding, error)
	Save(ctx context.Context, onboarding *entities.UserOnboarding) error
}

// InvestmentProfileRepository persists the investor category and answers
type InvestmentProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.UserInvestmentProfile, error)
	Save(ctx context.Context, profile *entities.UserInvestmentProfile) error
}

// KycRepository persists KYC document references and verification timestamps
type KycRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.UserKyc, error)
	Save(ctx context.Context, kyc *entities.UserKyc) error
}
