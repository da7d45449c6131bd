package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type UserOnboarding struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	User        *User      `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	CurrentStep int        `gorm:"not null;default:0"`
	Status      string     `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	SubmittedAt *time.Time `gorm:"type:timestamptz"`
	CreatedAt   time.Time
	UpdatedAt   *time.Time `gorm:"autoUpdateTime:false"`
}

func (UserOnboarding) TableName() string {
	return "user_onboardings"
}

type UserInvestmentProfile struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	User             *User     `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	InvestorCategory string    `gorm:"type:varchar(20);not null"`

	InvestmentObjectives pq.StringArray `gorm:"type:text[]"`
	RiskAcknowledged     *bool

	RetailPastInvestmentPercentage   *float64 `gorm:"type:numeric(5,2)"`
	RetailFutureInvestmentPercentage *float64 `gorm:"type:numeric(5,2)"`

	SophisticatedAngelNetworkMember       *bool
	SophisticatedMultipleUnlistedInvested *bool
	SophisticatedWorkedInPrivateEquity    *bool
	SophisticatedDirectorOfLargeCompany   *bool
	SophisticatedCompanyNames             pq.StringArray `gorm:"type:text[]"`

	HighNetWorthIncomeOver100k    *bool    `gorm:"column:high_net_worth_income_over_100k"`
	HighNetWorthNetAssetsOver250k *bool    `gorm:"column:high_net_worth_net_assets_over_250k"`
	HighNetWorthAnnualIncome      *float64 `gorm:"type:numeric(18,2)"`
	HighNetWorthNetAssets         *float64 `gorm:"type:numeric(18,2)"`

	CreatedAt time.Time
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false"`
}

func (UserInvestmentProfile) TableName() string {
	return "user_investment_profiles"
}

type UserKyc struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	User             *User     `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	IDType           string    `gorm:"column:id_type;type:varchar(30);not null"`
	NationalIDNumber *string   `gorm:"column:national_id_number;type:varchar(64)"`
	BankIDNumber     *string   `gorm:"column:bank_id_number;type:varchar(64)"`

	GovernmentIDDocumentPath   *string `gorm:"column:government_id_document_path;type:varchar(1024)"`
	ProofOfAddressDocumentPath *string `gorm:"type:varchar(1024)"`
	SelfieDocumentPath         *string `gorm:"type:varchar(1024)"`
	IncomeProofDocumentPath    *string `gorm:"type:varchar(1024)"`

	GovernmentIDVerifiedAt   *time.Time `gorm:"column:government_id_verified_at;type:timestamptz"`
	ProofOfAddressVerifiedAt *time.Time `gorm:"type:timestamptz"`
	SelfieVerifiedAt         *time.Time `gorm:"type:timestamptz"`
	IncomeVerifiedAt         *time.Time `gorm:"type:timestamptz"`

	CreatedAt time.Time
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false"`
}

func (UserKyc) TableName() string {
	return "user_kycs"
}

// All lists every model in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&UserOnboarding{},
		&UserInvestmentProfile{},
		&UserKyc{},
	}
}
