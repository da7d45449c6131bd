package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// IDType is the identity document presented for KYC
type IDType string

const (
	IDTypePassport       IDType = "PASSPORT"
	IDTypeDrivingLicence IDType = "DRIVING_LICENCE"
	IDTypeNationalID     IDType = "NATIONAL_ID"
)

// Valid reports whether t is a known document type.
func (t IDType) Valid() bool {
	switch t {
	case IDTypePassport, IDTypeDrivingLicence, IDTypeNationalID:
		return true
	}
	return false
}

// UserKyc stores document references and the four independent verification
// timestamps. A check is complete iff its timestamp is set.
type UserKyc struct {
	ID               uuid.UUID   `json:"id"`
	UserID           uuid.UUID   `json:"userId"`
	IDType           IDType      `json:"idType"`
	NationalIDNumber null.String `json:"nationalIdNumber"`
	BankIDNumber     null.String `json:"bankIdNumber"`

	GovernmentIDDocumentPath   null.String `json:"governmentIdDocumentPath"`
	ProofOfAddressDocumentPath null.String `json:"proofOfAddressDocumentPath"`
	SelfieDocumentPath         null.String `json:"selfieDocumentPath"`
	IncomeProofDocumentPath    null.String `json:"incomeProofDocumentPath"`

	GovernmentIDVerifiedAt   null.Time `json:"governmentIdVerifiedAt"`
	ProofOfAddressVerifiedAt null.Time `json:"proofOfAddressVerifiedAt"`
	SelfieVerifiedAt         null.Time `json:"selfieVerifiedAt"`
	IncomeVerifiedAt         null.Time `json:"incomeVerifiedAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt null.Time `json:"updatedAt"`
}

func (k *UserKyc) GovernmentIDComplete() bool   { return k.GovernmentIDVerifiedAt.Valid }
func (k *UserKyc) ProofOfAddressComplete() bool { return k.ProofOfAddressVerifiedAt.Valid }
func (k *UserKyc) SelfieComplete() bool         { return k.SelfieVerifiedAt.Valid }
func (k *UserKyc) IncomeComplete() bool         { return k.IncomeVerifiedAt.Valid }

// KycInput is what the intake boundary receives
type KycInput struct {
	UserID                 uuid.UUID
	IDType                 IDType
	NationalIDNumber       null.String
	BankIDNumber           null.String
	GovernmentIDDocument   null.String
	ProofOfAddressDocument null.String
	SelfieDocument         null.String
	IncomeProofDocument    null.String
}

// KycResult is what the intake boundary returns: possibly rewritten
// document references and nullable verification timestamps
type KycResult struct {
	GovernmentIDDocumentPath   null.String
	ProofOfAddressDocumentPath null.String
	SelfieDocumentPath         null.String
	IncomeProofDocumentPath    null.String

	GovernmentIDVerifiedAt   null.Time
	ProofOfAddressVerifiedAt null.Time
	SelfieVerifiedAt         null.Time
	IncomeVerifiedAt         null.Time
}
