package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Subject is the identity embedded in an access token
type Subject struct {
	UserID          uuid.UUID
	Email           string
	UserType        string
	IsEmailVerified bool
}

// Claims represents JWT claims
type Claims struct {
	UserID          uuid.UUID `json:"userId"`
	Email           string    `json:"email"`
	UserType        string    `json:"userType"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	jwt.RegisteredClaims
}

// JWTService issues and validates short-lived HS256 access tokens
type JWTService struct {
	secret       []byte
	issuer       string
	audience     string
	accessExpiry time.Duration
	now          func() time.Time
}

var signJWTToken = func(token *jwt.Token, secret []byte) (string, error) {
	return token.SignedString(secret)
}

// NewJWTService creates a new JWT service
func NewJWTService(secret, issuer, audience string, accessExpiry time.Duration) *JWTService {
	return &JWTService{
		secret:       []byte(secret),
		issuer:       issuer,
		audience:     audience,
		accessExpiry: accessExpiry,
		now:          time.Now,
	}
}

// AccessExpiry returns the configured access token lifetime
func (s *JWTService) AccessExpiry() time.Duration {
	return s.accessExpiry
}

// GenerateAccessToken signs a new access token for subject
func (s *JWTService) GenerateAccessToken(subject Subject) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID:          subject.UserID,
		Email:           subject.Email,
		UserType:        subject.UserType,
		IsEmailVerified: subject.IsEmailVerified,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.UserID.String(),
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return signJWTToken(token, s.secret)
}

// ValidateToken validates a JWT token and returns the claims
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
