package kyc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/volatiletech/null/v8"
	"investor-onboarding.backend/internal/domain/entities"
)

const apiKeyHeader = "X-Api-Key"

// HTTPProvider forwards KYC input to a third-party verification service
type HTTPProvider struct {
	url    string
	apiKey string
	client *http.Client
}

type processRequest struct {
	UserID                 string      `json:"userId"`
	IDType                 string      `json:"idType"`
	NationalIDNumber       null.String `json:"nationalIdNumber"`
	BankIDNumber           null.String `json:"bankIdNumber"`
	GovernmentIDDocument   null.String `json:"governmentIdDocument"`
	ProofOfAddressDocument null.String `json:"proofOfAddressDocument"`
	SelfieDocument         null.String `json:"selfieDocument"`
	IncomeProofDocument    null.String `json:"incomeProofDocument"`
}

type processResponse struct {
	GovernmentIDDocumentPath   null.String `json:"governmentIdDocumentPath"`
	ProofOfAddressDocumentPath null.String `json:"proofOfAddressDocumentPath"`
	SelfieDocumentPath         null.String `json:"selfieDocumentPath"`
	IncomeProofDocumentPath    null.String `json:"incomeProofDocumentPath"`
	GovernmentIDVerifiedAt     null.Time   `json:"governmentIdVerifiedAt"`
	ProofOfAddressVerifiedAt   null.Time   `json:"proofOfAddressVerifiedAt"`
	SelfieVerifiedAt           null.Time   `json:"selfieVerifiedAt"`
	IncomeVerifiedAt           null.Time   `json:"incomeVerifiedAt"`
}

// NewHTTPProvider creates a provider posting to url
func NewHTTPProvider(url, apiKey string, timeout time.Duration) (*HTTPProvider, error) {
	if url == "" {
		return nil, errors.New("kyc provider url is required")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPProvider{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// Process sends the documents for verification and maps the provider answer.
// References the provider leaves empty fall back to the submitted ones.
func (p *HTTPProvider) Process(ctx context.Context, input entities.KycInput) (*entities.KycResult, error) {
	body, err := json.Marshal(processRequest{
		UserID:                 input.UserID.String(),
		IDType:                 string(input.IDType),
		NationalIDNumber:       input.NationalIDNumber,
		BankIDNumber:           input.BankIDNumber,
		GovernmentIDDocument:   input.GovernmentIDDocument,
		ProofOfAddressDocument: input.ProofOfAddressDocument,
		SelfieDocument:         input.SelfieDocument,
		IncomeProofDocument:    input.IncomeProofDocument,
	})
	if err != nil {
		return nil, fmt.Errorf("kyc: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("kyc: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set(apiKeyHeader, p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kyc: call provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("kyc: provider returned %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var out processResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return nil, fmt.Errorf("kyc: decode response: %w", err)
	}

	return &entities.KycResult{
		GovernmentIDDocumentPath:   orString(out.GovernmentIDDocumentPath, input.GovernmentIDDocument),
		ProofOfAddressDocumentPath: orString(out.ProofOfAddressDocumentPath, input.ProofOfAddressDocument),
		SelfieDocumentPath:         orString(out.SelfieDocumentPath, input.SelfieDocument),
		IncomeProofDocumentPath:    orString(out.IncomeProofDocumentPath, input.IncomeProofDocument),
		GovernmentIDVerifiedAt:     out.GovernmentIDVerifiedAt,
		ProofOfAddressVerifiedAt:   out.ProofOfAddressVerifiedAt,
		SelfieVerifiedAt:           out.SelfieVerifiedAt,
		IncomeVerifiedAt:           out.IncomeVerifiedAt,
	}, nil
}

func orString(v, fallback null.String) null.String {
	if v.Valid && v.String != "" {
		return v
	}
	return fallback
}
