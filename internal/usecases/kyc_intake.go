package usecases

import (
	"context"

	"investor-onboarding.backend/internal/domain/entities"
)

// PassthroughKycIntake echoes the document references and verifies nothing
type PassthroughKycIntake struct{}

// NewPassthroughKycIntake creates the default intake
func NewPassthroughKycIntake() *PassthroughKycIntake {
	return &PassthroughKycIntake{}
}

// Process returns the input references with every verification timestamp null.
func (PassthroughKycIntake) Process(_ context.Context, input entities.KycInput) (*entities.KycResult, error) {
	return &entities.KycResult{
		GovernmentIDDocumentPath:   input.GovernmentIDDocument,
		ProofOfAddressDocumentPath: input.ProofOfAddressDocument,
		SelfieDocumentPath:         input.SelfieDocument,
		IncomeProofDocumentPath:    input.IncomeProofDocument,
	}, nil
}
