package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"
)

func TestOnboardingStep_NextAndValid(t *testing.T) {
	assert.Equal(t, StepInvestmentProfile, StepInvestorCategory.Next())
	assert.Equal(t, StepKyc, StepInvestmentProfile.Next())
	assert.Equal(t, StepReview, StepKyc.Next())
	assert.Equal(t, StepSubmitted, StepReview.Next())
	assert.Equal(t, StepSubmitted, StepSubmitted.Next())

	assert.True(t, StepReview.Valid())
	assert.False(t, OnboardingStep(-1).Valid())
	assert.False(t, OnboardingStep(5).Valid())

	assert.True(t, StepKyc.AcceptsData())
	assert.False(t, StepReview.AcceptsData())
}

func TestInvestmentProfile_ScopeTo(t *testing.T) {
	p := &UserInvestmentProfile{
		InvestorCategory:                   InvestorRetail,
		RetailPastInvestmentPercentage:     null.Float64From(5),
		SophisticatedAngelNetworkMember:    null.BoolFrom(true),
		SophisticatedCompanyNames:          []string{"Acme"},
		HighNetWorthIncomeOver100k:         null.BoolFrom(true),
		HighNetWorthNetAssets:              null.Float64From(300000),
		RetailFutureInvestmentPercentage:   null.Float64From(8),
		SophisticatedWorkedInPrivateEquity: null.BoolFrom(false),
	}

	p.ScopeTo(InvestorRetail)
	assert.True(t, p.RetailPastInvestmentPercentage.Valid)
	assert.True(t, p.RetailFutureInvestmentPercentage.Valid)
	assert.False(t, p.SophisticatedAngelNetworkMember.Valid)
	assert.False(t, p.SophisticatedWorkedInPrivateEquity.Valid)
	assert.Nil(t, p.SophisticatedCompanyNames)
	assert.False(t, p.HighNetWorthIncomeOver100k.Valid)
	assert.False(t, p.HighNetWorthNetAssets.Valid)
}

func TestCategoryAndIDTypeValid(t *testing.T) {
	assert.True(t, InvestorHighNetWorth.Valid())
	assert.False(t, InvestorCategory("PRO").Valid())
	assert.True(t, IDTypePassport.Valid())
	assert.False(t, IDType("LIBRARY_CARD").Valid())
}

func TestKycCompletion(t *testing.T) {
	k := &UserKyc{}
	assert.False(t, k.GovernmentIDComplete())
	k.SelfieVerifiedAt = null.TimeFrom(k.CreatedAt)
	assert.True(t, k.SelfieComplete())
	assert.False(t, k.IncomeComplete())
	assert.False(t, k.ProofOfAddressComplete())
}

func TestOnboardingStep_String(t *testing.T) {
	assert.Equal(t, "KYC", StepKyc.String())
	assert.Equal(t, "UNKNOWN", OnboardingStep(9).String())
}
