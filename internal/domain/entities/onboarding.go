package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// OnboardingStep is a stage of the investor questionnaire, in required order
type OnboardingStep int

const (
	StepInvestorCategory OnboardingStep = iota
	StepInvestmentProfile
	StepKyc
	StepReview
	StepSubmitted
)

// Valid reports whether s is a known step.
func (s OnboardingStep) Valid() bool {
	return s >= StepInvestorCategory && s <= StepSubmitted
}

// Next returns the step following s. Submitted is terminal.
func (s OnboardingStep) Next() OnboardingStep {
	if s >= StepSubmitted {
		return StepSubmitted
	}
	return s + 1
}

var stepNames = map[OnboardingStep]string{
	StepInvestorCategory:  "INVESTOR_CATEGORY",
	StepInvestmentProfile: "INVESTMENT_PROFILE",
	StepKyc:               "KYC",
	StepReview:            "REVIEW",
	StepSubmitted:         "SUBMITTED",
}

func (s OnboardingStep) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// AcceptsData reports whether saving s carries a payload.
func (s OnboardingStep) AcceptsData() bool {
	return s == StepInvestorCategory || s == StepInvestmentProfile || s == StepKyc
}

// OnboardingStatus tracks the lifecycle of the whole questionnaire
type OnboardingStatus string

const (
	OnboardingDraft       OnboardingStatus = "DRAFT"
	OnboardingSubmitted   OnboardingStatus = "SUBMITTED"
	OnboardingUnderReview OnboardingStatus = "UNDER_REVIEW"
	OnboardingActivated   OnboardingStatus = "ACTIVATED"
)

// UserOnboarding is the per-user progress row, created lazily on first save
type UserOnboarding struct {
	ID          uuid.UUID        `json:"id"`
	UserID      uuid.UUID        `json:"userId"`
	CurrentStep OnboardingStep   `json:"currentStep"`
	Status      OnboardingStatus `json:"status"`
	SubmittedAt null.Time        `json:"submittedAt"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   null.Time        `json:"updatedAt"`
}

// OnboardingProgress is the read model returned to the investor
type OnboardingProgress struct {
	CurrentStep     OnboardingStep         `json:"currentStep"`
	Status          OnboardingStatus       `json:"status"`
	SubmittedAt     null.Time              `json:"submittedAt"`
	InvestorProfile *UserInvestmentProfile `json:"investorProfile"`
	Kyc             *UserKyc               `json:"kyc"`
	PersonalInfo    PersonalInfo           `json:"personalInfo"`
	LocationInfo    LocationInfo           `json:"locationInfo"`
}

// SaveOnboardingInput saves one step. Exactly the payload matching Step
// must be present; Review and Submitted carry none.
type SaveOnboardingInput struct {
	Step              *OnboardingStep           `json:"step" validate:"required"`
	InvestorCategory  *InvestorCategoryPayload  `json:"investorCategory" validate:"omitempty"`
	InvestmentProfile *InvestmentProfilePayload `json:"investmentProfile" validate:"omitempty"`
	Kyc               *KycPayload               `json:"kyc" validate:"omitempty"`
}

// InvestorCategoryPayload selects the investor category
type InvestorCategoryPayload struct {
	InvestorCategory InvestorCategory `json:"investorCategory" validate:"required,investorcategory"`
}

// InvestmentProfilePayload is the superset of category-scoped answers
type InvestmentProfilePayload struct {
	InvestorCategory *InvestorCategory `json:"investorCategory" validate:"omitempty,investorcategory"`

	InvestmentObjectives []string `json:"investmentObjectives" validate:"omitempty,max=20,dive,min=1,max=200"`
	RiskAcknowledged     bool     `json:"riskAcknowledged"`

	RetailPastInvestmentPercentage   *float64 `json:"retailPastInvestmentPercentage" validate:"omitempty,gte=0,lte=100"`
	RetailFutureInvestmentPercentage *float64 `json:"retailFutureInvestmentPercentage" validate:"omitempty,gte=0,lte=100"`

	SophisticatedAngelNetworkMember       *bool    `json:"sophisticatedAngelNetworkMember"`
	SophisticatedMultipleUnlistedInvested *bool    `json:"sophisticatedMultipleUnlistedInvested"`
	SophisticatedWorkedInPrivateEquity    *bool    `json:"sophisticatedWorkedInPrivateEquity"`
	SophisticatedDirectorOfLargeCompany   *bool    `json:"sophisticatedDirectorOfLargeCompany"`
	SophisticatedCompanyNames             []string `json:"sophisticatedCompanyNames" validate:"omitempty,max=20,dive,min=1,max=200"`

	HighNetWorthIncomeOver100k    *bool    `json:"highNetWorthIncomeOver100k"`
	HighNetWorthNetAssetsOver250k *bool    `json:"highNetWorthNetAssetsOver250k"`
	HighNetWorthAnnualIncome      *float64 `json:"highNetWorthAnnualIncome" validate:"omitempty,gte=0"`
	HighNetWorthNetAssets         *float64 `json:"highNetWorthNetAssets" validate:"omitempty,gte=0"`
}

// KycPayload carries identity details and raw document references
type KycPayload struct {
	IDType                 IDType  `json:"idType" validate:"required,idtype"`
	NationalIDNumber       *string `json:"nationalIdNumber" validate:"omitempty,min=4,max=64"`
	BankIDNumber           *string `json:"bankIdNumber" validate:"omitempty,min=4,max=64"`
	GovernmentIDDocument   *string `json:"governmentIdDocument" validate:"omitempty,max=1024"`
	ProofOfAddressDocument *string `json:"proofOfAddressDocument" validate:"omitempty,max=1024"`
	SelfieDocument         *string `json:"selfieDocument" validate:"omitempty,max=1024"`
	IncomeProofDocument    *string `json:"incomeProofDocument" validate:"omitempty,max=1024"`
}
