package handlers

import (
	"github.com/volatiletech/null/v8"
	"investor-onboarding.backend/internal/domain/entities"
)

var stepLabels = map[entities.OnboardingStep]string{
	entities.StepInvestorCategory:  "Investor category",
	entities.StepInvestmentProfile: "Investment profile",
	entities.StepKyc:               "Identity verification",
	entities.StepReview:            "Review",
	entities.StepSubmitted:         "Submitted",
}

var statusLabels = map[entities.OnboardingStatus]string{
	entities.OnboardingDraft:       "Draft",
	entities.OnboardingSubmitted:   "Submitted",
	entities.OnboardingUnderReview: "Under review",
	entities.OnboardingActivated:   "Activated",
}

var categoryLabels = map[entities.InvestorCategory]string{
	entities.InvestorRetail:        "Retail investor",
	entities.InvestorSophisticated: "Sophisticated investor",
	entities.InvestorHighNetWorth:  "High net worth investor",
}

var idTypeLabels = map[entities.IDType]string{
	entities.IDTypePassport:       "Passport",
	entities.IDTypeDrivingLicence: "Driving licence",
	entities.IDTypeNationalID:     "National ID",
}

func label[K comparable](table map[K]string, key K) string {
	return table[key]
}

type progressResponse struct {
	CurrentStep      entities.OnboardingStep   `json:"currentStep"`
	CurrentStepLabel string                    `json:"currentStepLabel"`
	Status           entities.OnboardingStatus `json:"status"`
	StatusLabel      string                    `json:"statusLabel"`
	SubmittedAt      null.Time                 `json:"submittedAt"`
	InvestorProfile  *investorProfileResponse  `json:"investorProfile"`
	Kyc              *kycResponse              `json:"kyc"`
	PersonalInfo     entities.PersonalInfo     `json:"personalInfo"`
	LocationInfo     entities.LocationInfo     `json:"locationInfo"`
}

type investorProfileResponse struct {
	*entities.UserInvestmentProfile
	InvestorCategoryLabel string `json:"investorCategoryLabel"`
}

type kycResponse struct {
	*entities.UserKyc
	IDTypeLabel            string `json:"idTypeLabel"`
	GovernmentIDIsComplete bool   `json:"governmentIdComplete"`
	AddressIsComplete      bool   `json:"proofOfAddressComplete"`
	SelfieIsComplete       bool   `json:"selfieComplete"`
	IncomeIsComplete       bool   `json:"incomeComplete"`
}

func toProgressResponse(p *entities.OnboardingProgress) progressResponse {
	resp := progressResponse{
		CurrentStep:      p.CurrentStep,
		CurrentStepLabel: label(stepLabels, p.CurrentStep),
		Status:           p.Status,
		StatusLabel:      label(statusLabels, p.Status),
		SubmittedAt:      p.SubmittedAt,
		PersonalInfo:     p.PersonalInfo,
		LocationInfo:     p.LocationInfo,
	}
	if p.InvestorProfile != nil {
		resp.InvestorProfile = &investorProfileResponse{
			UserInvestmentProfile: p.InvestorProfile,
			InvestorCategoryLabel: label(categoryLabels, p.InvestorProfile.InvestorCategory),
		}
	}
	if p.Kyc != nil {
		resp.Kyc = &kycResponse{
			UserKyc:                p.Kyc,
			IDTypeLabel:            label(idTypeLabels, p.Kyc.IDType),
			GovernmentIDIsComplete: p.Kyc.GovernmentIDComplete(),
			AddressIsComplete:      p.Kyc.ProofOfAddressComplete(),
			SelfieIsComplete:       p.Kyc.SelfieComplete(),
			IncomeIsComplete:       p.Kyc.IncomeComplete(),
		}
	}
	return resp
}
