package jwt

import (
	"errors"
	"testing"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(expiry time.Duration) *JWTService {
	return NewJWTService("secret", "investor-onboarding", "investor-app", expiry)
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestService(15 * time.Minute)
	userID := uuid.New()

	token, err := svc.GenerateAccessToken(Subject{
		UserID:          userID,
		Email:           "test@mail.com",
		UserType:        "INVESTOR",
		IsEmailVerified: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "test@mail.com", claims.Email)
	assert.Equal(t, "INVESTOR", claims.UserType)
	assert.True(t, claims.IsEmailVerified)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, "investor-onboarding", claims.Issuer)
	assert.Equal(t, gjwt.ClaimStrings{"investor-app"}, claims.Audience)
	assert.Equal(t, 15*time.Minute, svc.AccessExpiry())
}

func TestJWTService_UniqueTokenIDs(t *testing.T) {
	svc := newTestService(time.Minute)
	sub := Subject{UserID: uuid.New(), Email: "a@b.c"}

	first, err := svc.GenerateAccessToken(sub)
	require.NoError(t, err)
	second, err := svc.GenerateAccessToken(sub)
	require.NoError(t, err)

	c1, err := svc.ValidateToken(first)
	require.NoError(t, err)
	c2, err := svc.ValidateToken(second)
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID, c2.ID)
}

func TestJWTService_ValidateInvalidToken(t *testing.T) {
	svc := newTestService(time.Minute)

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ValidateExpiredToken(t *testing.T) {
	svc := newTestService(-time.Second)

	token, err := svc.GenerateAccessToken(Subject{UserID: uuid.New(), Email: "expired@mail.com"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_RejectsWrongIssuerAudienceOrSecret(t *testing.T) {
	sub := Subject{UserID: uuid.New(), Email: "x@y.z"}
	token, err := newTestService(time.Minute).GenerateAccessToken(sub)
	require.NoError(t, err)

	_, err = NewJWTService("secret", "someone-else", "investor-app", time.Minute).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewJWTService("secret", "investor-onboarding", "other-app", time.Minute).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewJWTService("other-secret", "investor-onboarding", "investor-app", time.Minute).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ValidateWrongSigningMethod(t *testing.T) {
	svc := newTestService(time.Minute)

	claims := gjwt.MapClaims{
		"userId": uuid.NewString(),
		"email":  "x@y.z",
		"iss":    "investor-onboarding",
		"aud":    "investor-app",
		"exp":    time.Now().Add(time.Minute).Unix(),
		"iat":    time.Now().Unix(),
		"nbf":    time.Now().Unix(),
	}
	unsigned := gjwt.NewWithClaims(gjwt.SigningMethodNone, claims)
	tokenStr, err := unsigned.SignedString(gjwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateToken(tokenStr)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_SignError(t *testing.T) {
	orig := signJWTToken
	t.Cleanup(func() { signJWTToken = orig })
	signJWTToken = func(*gjwt.Token, []byte) (string, error) {
		return "", errors.New("sign failed")
	}

	_, err := newTestService(time.Minute).GenerateAccessToken(Subject{UserID: uuid.New()})
	assert.Error(t, err)
}
