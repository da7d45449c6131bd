package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"investor-onboarding.backend/internal/domain/entities"
	domainerrors "investor-onboarding.backend/internal/domain/errors"
	"investor-onboarding.backend/internal/infrastructure/models"
)

// OnboardingRepository implements onboarding progress persistence
type OnboardingRepository struct {
	db *gorm.DB
}

// NewOnboardingRepository creates a new onboarding repository
func NewOnboardingRepository(db *gorm.DB) *OnboardingRepository {
	return &OnboardingRepository{db: db}
}

// GetByUserID returns the progress row of a user
func (r *OnboardingRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.UserOnboarding, error) {
	var m models.UserOnboarding
	if err := firstByUserID(ctx, r.db, userID, &m); err != nil {
		return nil, err
	}
	return &entities.UserOnboarding{
		ID:          m.ID,
		UserID:      m.UserID,
		CurrentStep: entities.OnboardingStep(m.CurrentStep),
		Status:      entities.OnboardingStatus(m.Status),
		SubmittedAt: null.TimeFromPtr(m.SubmittedAt),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   null.TimeFromPtr(m.UpdatedAt),
	}, nil
}

// Save inserts or updates the progress row
func (r *OnboardingRepository) Save(ctx context.Context, o *entities.UserOnboarding) error {
	m := &models.UserOnboarding{
		ID:          o.ID,
		UserID:      o.UserID,
		CurrentStep: int(o.CurrentStep),
		Status:      string(o.Status),
		SubmittedAt: o.SubmittedAt.Ptr(),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt.Ptr(),
	}
	return GetDB(ctx, r.db).Save(m).Error
}

// InvestmentProfileRepository implements investment profile persistence
type InvestmentProfileRepository struct {
	db *gorm.DB
}

// NewInvestmentProfileRepository creates a new investment profile repository
func NewInvestmentProfileRepository(db *gorm.DB) *InvestmentProfileRepository {
	return &InvestmentProfileRepository{db: db}
}

// GetByUserID returns the profile of a user
func (r *InvestmentProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.UserInvestmentProfile, error) {
	var m models.UserInvestmentProfile
	if err := firstByUserID(ctx, r.db, userID, &m); err != nil {
		return nil, err
	}
	return &entities.UserInvestmentProfile{
		ID:                                    m.ID,
		UserID:                                m.UserID,
		InvestorCategory:                      entities.InvestorCategory(m.InvestorCategory),
		InvestmentObjectives:                  []string(m.InvestmentObjectives),
		RiskAcknowledged:                      null.BoolFromPtr(m.RiskAcknowledged),
		RetailPastInvestmentPercentage:        null.Float64FromPtr(m.RetailPastInvestmentPercentage),
		RetailFutureInvestmentPercentage:      null.Float64FromPtr(m.RetailFutureInvestmentPercentage),
		SophisticatedAngelNetworkMember:       null.BoolFromPtr(m.SophisticatedAngelNetworkMember),
		SophisticatedMultipleUnlistedInvested: null.BoolFromPtr(m.SophisticatedMultipleUnlistedInvested),
		SophisticatedWorkedInPrivateEquity:    null.BoolFromPtr(m.SophisticatedWorkedInPrivateEquity),
		SophisticatedDirectorOfLargeCompany:   null.BoolFromPtr(m.SophisticatedDirectorOfLargeCompany),
		SophisticatedCompanyNames:             []string(m.SophisticatedCompanyNames),
		HighNetWorthIncomeOver100k:            null.BoolFromPtr(m.HighNetWorthIncomeOver100k),
		HighNetWorthNetAssetsOver250k:         null.BoolFromPtr(m.HighNetWorthNetAssetsOver250k),
		HighNetWorthAnnualIncome:              null.Float64FromPtr(m.HighNetWorthAnnualIncome),
		HighNetWorthNetAssets:                 null.Float64FromPtr(m.HighNetWorthNetAssets),
		CreatedAt:                             m.CreatedAt,
		UpdatedAt:                             null.TimeFromPtr(m.UpdatedAt),
	}, nil
}

// Save inserts or updates the profile
func (r *InvestmentProfileRepository) Save(ctx context.Context, p *entities.UserInvestmentProfile) error {
	m := &models.UserInvestmentProfile{
		ID:                                    p.ID,
		UserID:                                p.UserID,
		InvestorCategory:                      string(p.InvestorCategory),
		InvestmentObjectives:                  pq.StringArray(p.InvestmentObjectives),
		RiskAcknowledged:                      p.RiskAcknowledged.Ptr(),
		RetailPastInvestmentPercentage:        p.RetailPastInvestmentPercentage.Ptr(),
		RetailFutureInvestmentPercentage:      p.RetailFutureInvestmentPercentage.Ptr(),
		SophisticatedAngelNetworkMember:       p.SophisticatedAngelNetworkMember.Ptr(),
		SophisticatedMultipleUnlistedInvested: p.SophisticatedMultipleUnlistedInvested.Ptr(),
		SophisticatedWorkedInPrivateEquity:    p.SophisticatedWorkedInPrivateEquity.Ptr(),
		SophisticatedDirectorOfLargeCompany:   p.SophisticatedDirectorOfLargeCompany.Ptr(),
		SophisticatedCompanyNames:             pq.StringArray(p.SophisticatedCompanyNames),
		HighNetWorthIncomeOver100k:            p.HighNetWorthIncomeOver100k.Ptr(),
		HighNetWorthNetAssetsOver250k:         p.HighNetWorthNetAssetsOver250k.Ptr(),
		HighNetWorthAnnualIncome:              p.HighNetWorthAnnualIncome.Ptr(),
		HighNetWorthNetAssets:                 p.HighNetWorthNetAssets.Ptr(),
		CreatedAt:                             p.CreatedAt,
		UpdatedAt:                             p.UpdatedAt.Ptr(),
	}
	return GetDB(ctx, r.db).Save(m).Error
}

// KycRepository implements KYC persistence
type KycRepository struct {
	db *gorm.DB
}

// NewKycRepository creates a new KYC repository
func NewKycRepository(db *gorm.DB) *KycRepository {
	return &KycRepository{db: db}
}

// GetByUserID returns the KYC row of a user
func (r *KycRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.UserKyc, error) {
	var m models.UserKyc
	if err := firstByUserID(ctx, r.db, userID, &m); err != nil {
		return nil, err
	}
	return &entities.UserKyc{
		ID:                         m.ID,
		UserID:                     m.UserID,
		IDType:                     entities.IDType(m.IDType),
		NationalIDNumber:           null.StringFromPtr(m.NationalIDNumber),
		BankIDNumber:               null.StringFromPtr(m.BankIDNumber),
		GovernmentIDDocumentPath:   null.StringFromPtr(m.GovernmentIDDocumentPath),
		ProofOfAddressDocumentPath: null.StringFromPtr(m.ProofOfAddressDocumentPath),
		SelfieDocumentPath:         null.StringFromPtr(m.SelfieDocumentPath),
		IncomeProofDocumentPath:    null.StringFromPtr(m.IncomeProofDocumentPath),
		GovernmentIDVerifiedAt:     null.TimeFromPtr(m.GovernmentIDVerifiedAt),
		ProofOfAddressVerifiedAt:   null.TimeFromPtr(m.ProofOfAddressVerifiedAt),
		SelfieVerifiedAt:           null.TimeFromPtr(m.SelfieVerifiedAt),
		IncomeVerifiedAt:           null.TimeFromPtr(m.IncomeVerifiedAt),
		CreatedAt:                  m.CreatedAt,
		UpdatedAt:                  null.TimeFromPtr(m.UpdatedAt),
	}, nil
}

// Save inserts or updates the KYC row
func (r *KycRepository) Save(ctx context.Context, k *entities.UserKyc) error {
	m := &models.UserKyc{
		ID:                         k.ID,
		UserID:                     k.UserID,
		IDType:                     string(k.IDType),
		NationalIDNumber:           k.NationalIDNumber.Ptr(),
		BankIDNumber:               k.BankIDNumber.Ptr(),
		GovernmentIDDocumentPath:   k.GovernmentIDDocumentPath.Ptr(),
		ProofOfAddressDocumentPath: k.ProofOfAddressDocumentPath.Ptr(),
		SelfieDocumentPath:         k.SelfieDocumentPath.Ptr(),
		IncomeProofDocumentPath:    k.IncomeProofDocumentPath.Ptr(),
		GovernmentIDVerifiedAt:     k.GovernmentIDVerifiedAt.Ptr(),
		ProofOfAddressVerifiedAt:   k.ProofOfAddressVerifiedAt.Ptr(),
		SelfieVerifiedAt:           k.SelfieVerifiedAt.Ptr(),
		IncomeVerifiedAt:           k.IncomeVerifiedAt.Ptr(),
		CreatedAt:                  k.CreatedAt,
		UpdatedAt:                  k.UpdatedAt.Ptr(),
	}
	return GetDB(ctx, r.db).Save(m).Error
}

func firstByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID, dest interface{}) error {
	if err := GetDB(ctx, db).Where("user_id = ?", userID).First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainerrors.ErrNotFound
		}
		return err
	}
	return nil
}
