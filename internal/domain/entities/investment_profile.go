package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// InvestorCategory drives which profile fields are relevant
type InvestorCategory string

const (
	InvestorRetail        InvestorCategory = "RETAIL"
	InvestorSophisticated InvestorCategory = "SOPHISTICATED"
	InvestorHighNetWorth  InvestorCategory = "HIGH_NET_WORTH"
)

// Valid reports whether c is a known category.
func (c InvestorCategory) Valid() bool {
	switch c {
	case InvestorRetail, InvestorSophisticated, InvestorHighNetWorth:
		return true
	}
	return false
}

// UserInvestmentProfile holds the category and the category-scoped answers.
// Only fields of the selected category are populated.
type UserInvestmentProfile struct {
	ID               uuid.UUID        `json:"id"`
	UserID           uuid.UUID        `json:"userId"`
	InvestorCategory InvestorCategory `json:"investorCategory"`

	InvestmentObjectives []string  `json:"investmentObjectives"`
	RiskAcknowledged     null.Bool `json:"riskAcknowledged"`

	RetailPastInvestmentPercentage   null.Float64 `json:"retailPastInvestmentPercentage"`
	RetailFutureInvestmentPercentage null.Float64 `json:"retailFutureInvestmentPercentage"`

	SophisticatedAngelNetworkMember       null.Bool `json:"sophisticatedAngelNetworkMember"`
	SophisticatedMultipleUnlistedInvested null.Bool `json:"sophisticatedMultipleUnlistedInvested"`
	SophisticatedWorkedInPrivateEquity    null.Bool `json:"sophisticatedWorkedInPrivateEquity"`
	SophisticatedDirectorOfLargeCompany   null.Bool `json:"sophisticatedDirectorOfLargeCompany"`
	SophisticatedCompanyNames             []string  `json:"sophisticatedCompanyNames"`

	HighNetWorthIncomeOver100k    null.Bool    `json:"highNetWorthIncomeOver100k"`
	HighNetWorthNetAssetsOver250k null.Bool    `json:"highNetWorthNetAssetsOver250k"`
	HighNetWorthAnnualIncome      null.Float64 `json:"highNetWorthAnnualIncome"`
	HighNetWorthNetAssets         null.Float64 `json:"highNetWorthNetAssets"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt null.Time `json:"updatedAt"`
}

// ClearRetail nulls the retail-only answers.
func (p *UserInvestmentProfile) ClearRetail() {
	p.RetailPastInvestmentPercentage = null.Float64{}
	p.RetailFutureInvestmentPercentage = null.Float64{}
}

// ClearSophisticated nulls the sophisticated-only answers.
func (p *UserInvestmentProfile) ClearSophisticated() {
	p.SophisticatedAngelNetworkMember = null.Bool{}
	p.SophisticatedMultipleUnlistedInvested = null.Bool{}
	p.SophisticatedWorkedInPrivateEquity = null.Bool{}
	p.SophisticatedDirectorOfLargeCompany = null.Bool{}
	p.SophisticatedCompanyNames = nil
}

// ClearHighNetWorth nulls the high-net-worth-only answers.
func (p *UserInvestmentProfile) ClearHighNetWorth() {
	p.HighNetWorthIncomeOver100k = null.Bool{}
	p.HighNetWorthNetAssetsOver250k = null.Bool{}
	p.HighNetWorthAnnualIncome = null.Float64{}
	p.HighNetWorthNetAssets = null.Float64{}
}

// ScopeTo nulls every field that does not belong to category.
func (p *UserInvestmentProfile) ScopeTo(category InvestorCategory) {
	if category != InvestorRetail {
		p.ClearRetail()
	}
	if category != InvestorSophisticated {
		p.ClearSophisticated()
	}
	if category != InvestorHighNetWorth {
		p.ClearHighNetWorth()
	}
}
