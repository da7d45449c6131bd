package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"investor-onboarding.backend/internal/domain/entities"
	domainerrors "investor-onboarding.backend/internal/domain/errors"
	"investor-onboarding.backend/internal/domain/repositories"
	"investor-onboarding.backend/pkg/logger"
	"investor-onboarding.backend/pkg/metrics"
	"investor-onboarding.backend/pkg/utils"
)

// OnboardingUsecase drives the investor questionnaire:
// InvestorCategory -> InvestmentProfile -> Kyc -> Review -> Submitted
type OnboardingUsecase struct {
	userRepo       repositories.UserRepository
	onboardingRepo repositories.OnboardingRepository
	profileRepo    repositories.InvestmentProfileRepository
	kycRepo        repositories.KycRepository
	uow            repositories.UnitOfWork
	kyc            KycIntake
	settings       Settings
}

// NewOnboardingUsecase creates a new onboarding usecase
func NewOnboardingUsecase(
	userRepo repositories.UserRepository,
	onboardingRepo repositories.OnboardingRepository,
	profileRepo repositories.InvestmentProfileRepository,
	kycRepo repositories.KycRepository,
	uow repositories.UnitOfWork,
	kyc KycIntake,
	settings Settings,
) *OnboardingUsecase {
	if kyc == nil {
		kyc = NewPassthroughKycIntake()
	}
	return &OnboardingUsecase{
		userRepo:       userRepo,
		onboardingRepo: onboardingRepo,
		profileRepo:    profileRepo,
		kycRepo:        kycRepo,
		uow:            uow,
		kyc:            kyc,
		settings:       settings.withDefaults(),
	}
}

// RequireVerifiedUser gates every onboarding operation.
func (u *OnboardingUsecase) RequireVerifiedUser(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	if userID == uuid.Nil {
		return nil, domainerrors.Unauthorized("authentication required")
	}
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, err
	}
	if !user.IsEmailVerified {
		return nil, domainerrors.NewAppError(domainerrors.KindForbidden, domainerrors.CodeEmailNotVerified, "email must be verified before onboarding", domainerrors.ErrEmailNotVerified)
	}
	return user, nil
}

// GetProgress returns the onboarding snapshot of the user. Personal and
// location data are read from the user record.
func (u *OnboardingUsecase) GetProgress(ctx context.Context, userID uuid.UUID) (*entities.OnboardingProgress, error) {
	user, err := u.RequireVerifiedUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.progress(ctx, user)
}

// SaveStep stores the payload of one step and advances currentStep to the
// step after it. Review and Submitted store nothing.
func (u *OnboardingUsecase) SaveStep(ctx context.Context, userID uuid.UUID, input *entities.SaveOnboardingInput) (*entities.OnboardingProgress, error) {
	user, err := u.RequireVerifiedUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if input == nil || input.Step == nil || !input.Step.Valid() {
		return nil, domainerrors.BadRequest("invalid onboarding step")
	}
	step := *input.Step
	if !step.AcceptsData() {
		return u.progress(ctx, user)
	}

	err = u.uow.Do(ctx, func(ctx context.Context) error {
		now := u.settings.now()
		onboarding, err := u.loadOrStart(ctx, user.ID, now)
		if err != nil {
			return err
		}

		switch step {
		case entities.StepInvestorCategory:
			err = u.saveInvestorCategory(ctx, user.ID, input.InvestorCategory, now)
		case entities.StepInvestmentProfile:
			err = u.saveInvestmentProfile(ctx, user.ID, input.InvestmentProfile, now)
		case entities.StepKyc:
			err = u.saveKyc(ctx, user.ID, input.Kyc, now)
		}
		if err != nil {
			return err
		}

		onboarding.CurrentStep = step.Next()
		onboarding.UpdatedAt = null.TimeFrom(now)
		return u.onboardingRepo.Save(ctx, onboarding)
	})
	if err != nil {
		return nil, err
	}

	metrics.OnboardingStepsSaved.WithLabelValues(step.String()).Inc()
	logger.Info(ctx, "Onboarding step saved", zap.String("user_id", user.ID.String()), zap.String("step", step.String()))
	return u.progress(ctx, user)
}

// Submit finalizes the questionnaire. Submitting twice is an error.
func (u *OnboardingUsecase) Submit(ctx context.Context, userID uuid.UUID) (*entities.OnboardingProgress, error) {
	user, err := u.RequireVerifiedUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = u.uow.Do(ctx, func(ctx context.Context) error {
		onboarding, err := u.onboardingRepo.GetByUserID(ctx, user.ID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.BadRequest("onboarding has not been started")
			}
			return err
		}
		if onboarding.Status == entities.OnboardingSubmitted {
			return domainerrors.BadRequest("onboarding has already been submitted")
		}
		if _, err := u.profileRepo.GetByUserID(ctx, user.ID); err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.BadRequest("investment profile is required before submission")
			}
			return err
		}

		now := u.settings.now()
		onboarding.Status = entities.OnboardingSubmitted
		onboarding.CurrentStep = entities.StepSubmitted
		onboarding.SubmittedAt = null.TimeFrom(now)
		onboarding.UpdatedAt = null.TimeFrom(now)
		return u.onboardingRepo.Save(ctx, onboarding)
	})
	if err != nil {
		return nil, err
	}

	metrics.OnboardingSubmissions.Inc()
	logger.Info(ctx, "Onboarding submitted", zap.String("user_id", user.ID.String()))
	return u.progress(ctx, user)
}

func (u *OnboardingUsecase) progress(ctx context.Context, user *entities.User) (*entities.OnboardingProgress, error) {
	progress := &entities.OnboardingProgress{
		CurrentStep:  entities.StepInvestorCategory,
		Status:       entities.OnboardingDraft,
		PersonalInfo: user.PersonalInfo(),
		LocationInfo: user.LocationInfo(),
	}

	onboarding, err := u.onboardingRepo.GetByUserID(ctx, user.ID)
	switch {
	case err == nil:
		progress.CurrentStep = onboarding.CurrentStep
		progress.Status = onboarding.Status
		progress.SubmittedAt = onboarding.SubmittedAt
	case !errors.Is(err, domainerrors.ErrNotFound):
		return nil, err
	}

	profile, err := u.profileRepo.GetByUserID(ctx, user.ID)
	switch {
	case err == nil:
		progress.InvestorProfile = profile
	case !errors.Is(err, domainerrors.ErrNotFound):
		return nil, err
	}

	kyc, err := u.kycRepo.GetByUserID(ctx, user.ID)
	switch {
	case err == nil:
		progress.Kyc = kyc
	case !errors.Is(err, domainerrors.ErrNotFound):
		return nil, err
	}

	return progress, nil
}

func (u *OnboardingUsecase) loadOrStart(ctx context.Context, userID uuid.UUID, now time.Time) (*entities.UserOnboarding, error) {
	onboarding, err := u.onboardingRepo.GetByUserID(ctx, userID)
	if err == nil {
		return onboarding, nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}
	return &entities.UserOnboarding{
		ID:          utils.GenerateUUIDv7(),
		UserID:      userID,
		CurrentStep: entities.StepInvestorCategory,
		Status:      entities.OnboardingDraft,
		CreatedAt:   now,
	}, nil
}

func (u *OnboardingUsecase) loadProfile(ctx context.Context, userID uuid.UUID, now time.Time) (*entities.UserInvestmentProfile, bool, error) {
	profile, err := u.profileRepo.GetByUserID(ctx, userID)
	if err == nil {
		return profile, true, nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, false, err
	}
	return &entities.UserInvestmentProfile{
		ID:        utils.GenerateUUIDv7(),
		UserID:    userID,
		CreatedAt: now,
	}, false, nil
}

func (u *OnboardingUsecase) saveInvestorCategory(ctx context.Context, userID uuid.UUID, payload *entities.InvestorCategoryPayload, now time.Time) error {
	if payload == nil || !payload.InvestorCategory.Valid() {
		return domainerrors.BadRequest("investorCategory payload is required for this step")
	}
	profile, exists, err := u.loadProfile(ctx, userID, now)
	if err != nil {
		return err
	}
	profile.InvestorCategory = payload.InvestorCategory
	profile.ScopeTo(payload.InvestorCategory)
	if exists {
		profile.UpdatedAt = null.TimeFrom(now)
	}
	return u.profileRepo.Save(ctx, profile)
}

func (u *OnboardingUsecase) saveInvestmentProfile(ctx context.Context, userID uuid.UUID, payload *entities.InvestmentProfilePayload, now time.Time) error {
	if payload == nil {
		return domainerrors.BadRequest("investmentProfile payload is required for this step")
	}
	profile, exists, err := u.loadProfile(ctx, userID, now)
	if err != nil {
		return err
	}

	category := profile.InvestorCategory
	if payload.InvestorCategory != nil {
		category = *payload.InvestorCategory
	}
	if !category.Valid() {
		return domainerrors.BadRequest("investor category must be selected before the investment profile")
	}

	profile.InvestorCategory = category
	profile.InvestmentObjectives = trimList(payload.InvestmentObjectives)
	profile.RiskAcknowledged = null.BoolFrom(payload.RiskAcknowledged)

	profile.RetailPastInvestmentPercentage = null.Float64FromPtr(payload.RetailPastInvestmentPercentage)
	profile.RetailFutureInvestmentPercentage = null.Float64FromPtr(payload.RetailFutureInvestmentPercentage)

	profile.SophisticatedAngelNetworkMember = null.BoolFromPtr(payload.SophisticatedAngelNetworkMember)
	profile.SophisticatedMultipleUnlistedInvested = null.BoolFromPtr(payload.SophisticatedMultipleUnlistedInvested)
	profile.SophisticatedWorkedInPrivateEquity = null.BoolFromPtr(payload.SophisticatedWorkedInPrivateEquity)
	profile.SophisticatedDirectorOfLargeCompany = null.BoolFromPtr(payload.SophisticatedDirectorOfLargeCompany)
	profile.SophisticatedCompanyNames = trimList(payload.SophisticatedCompanyNames)

	profile.HighNetWorthIncomeOver100k = null.BoolFromPtr(payload.HighNetWorthIncomeOver100k)
	profile.HighNetWorthNetAssetsOver250k = null.BoolFromPtr(payload.HighNetWorthNetAssetsOver250k)
	profile.HighNetWorthAnnualIncome = null.Float64FromPtr(payload.HighNetWorthAnnualIncome)
	profile.HighNetWorthNetAssets = null.Float64FromPtr(payload.HighNetWorthNetAssets)

	profile.ScopeTo(category)
	if exists {
		profile.UpdatedAt = null.TimeFrom(now)
	}
	return u.profileRepo.Save(ctx, profile)
}

func (u *OnboardingUsecase) saveKyc(ctx context.Context, userID uuid.UUID, payload *entities.KycPayload, now time.Time) error {
	if payload == nil || !payload.IDType.Valid() {
		return domainerrors.BadRequest("kyc payload is required for this step")
	}

	result, err := u.kyc.Process(ctx, entities.KycInput{
		UserID:                 userID,
		IDType:                 payload.IDType,
		NationalIDNumber:       optionalString(payload.NationalIDNumber),
		BankIDNumber:           optionalString(payload.BankIDNumber),
		GovernmentIDDocument:   optionalString(payload.GovernmentIDDocument),
		ProofOfAddressDocument: optionalString(payload.ProofOfAddressDocument),
		SelfieDocument:         optionalString(payload.SelfieDocument),
		IncomeProofDocument:    optionalString(payload.IncomeProofDocument),
	})
	if err != nil {
		return fmt.Errorf("kyc intake failed: %w", err)
	}
	if result == nil {
		result = &entities.KycResult{}
	}

	kyc, err := u.kycRepo.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		kyc.UpdatedAt = null.TimeFrom(now)
	case errors.Is(err, domainerrors.ErrNotFound):
		kyc = &entities.UserKyc{ID: utils.GenerateUUIDv7(), UserID: userID, CreatedAt: now}
	default:
		return err
	}

	kyc.IDType = payload.IDType
	kyc.NationalIDNumber = optionalString(payload.NationalIDNumber)
	kyc.BankIDNumber = optionalString(payload.BankIDNumber)
	kyc.GovernmentIDDocumentPath = result.GovernmentIDDocumentPath
	kyc.ProofOfAddressDocumentPath = result.ProofOfAddressDocumentPath
	kyc.SelfieDocumentPath = result.SelfieDocumentPath
	kyc.IncomeProofDocumentPath = result.IncomeProofDocumentPath
	kyc.GovernmentIDVerifiedAt = result.GovernmentIDVerifiedAt
	kyc.ProofOfAddressVerifiedAt = result.ProofOfAddressVerifiedAt
	kyc.SelfieVerifiedAt = result.SelfieVerifiedAt
	kyc.IncomeVerifiedAt = result.IncomeVerifiedAt

	return u.kycRepo.Save(ctx, kyc)
}

func trimList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
