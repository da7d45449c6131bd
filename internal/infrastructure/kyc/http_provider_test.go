package kyc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"investor-onboarding.backend/internal/domain/entities"
)

func TestNewHTTPProvider_RequiresURL(t *testing.T) {
	_, err := NewHTTPProvider("", "", time.Second)
	assert.Error(t, err)

	p, err := NewHTTPProvider("http://kyc.local", "", 0)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, p.client.Timeout)
}

func TestHTTPProvider_Process(t *testing.T) {
	userID := uuid.New()
	var got processRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret-key", r.Header.Get(apiKeyHeader))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"governmentIdDocumentPath": "s3://kyc/gov.png",
			"selfieVerifiedAt": "2026-03-01T10:00:00Z",
			"incomeVerifiedAt": null
		}`))
	}))
	defer srv.Close()

	p, err := NewHTTPProvider(srv.URL, "secret-key", time.Second)
	require.NoError(t, err)

	res, err := p.Process(context.Background(), entities.KycInput{
		UserID:               userID,
		IDType:               entities.IDTypePassport,
		GovernmentIDDocument: null.StringFrom("gov-upload-1"),
		SelfieDocument:       null.StringFrom("selfie-upload-1"),
	})
	require.NoError(t, err)

	assert.Equal(t, userID.String(), got.UserID)
	assert.Equal(t, "PASSPORT", got.IDType)
	assert.Equal(t, "gov-upload-1", got.GovernmentIDDocument.String)

	assert.Equal(t, "s3://kyc/gov.png", res.GovernmentIDDocumentPath.String)
	assert.Equal(t, "selfie-upload-1", res.SelfieDocumentPath.String)
	assert.False(t, res.ProofOfAddressDocumentPath.Valid)
	assert.True(t, res.SelfieVerifiedAt.Valid)
	assert.True(t, res.SelfieVerifiedAt.Time.Equal(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)))
	assert.False(t, res.IncomeVerifiedAt.Valid)
	assert.False(t, res.GovernmentIDVerifiedAt.Valid)
}

func TestHTTPProvider_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad-json" {
			_, _ = w.Write([]byte("not json"))
			return
		}
		http.Error(w, "provider down", http.StatusBadGateway)
	}))
	defer srv.Close()

	p, err := NewHTTPProvider(srv.URL+"/fail", "", time.Second)
	require.NoError(t, err)
	_, err = p.Process(context.Background(), entities.KycInput{IDType: entities.IDTypeNationalID})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")

	p, err = NewHTTPProvider(srv.URL+"/bad-json", "", time.Second)
	require.NoError(t, err)
	_, err = p.Process(context.Background(), entities.KycInput{IDType: entities.IDTypeNationalID})
	assert.Error(t, err)

	p, err = NewHTTPProvider("http://127.0.0.1:0", "", 100*time.Millisecond)
	require.NoError(t, err)
	_, err = p.Process(context.Background(), entities.KycInput{})
	assert.Error(t, err)
}
