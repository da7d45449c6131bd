// Package envelope seals a password reset secret together with the account
// email into a signed, time-bounded compact JWS.
package envelope

import (
	"errors"
	"strings"
	"time"

	"github.com/go-jose/go-jose/v3"
	josejwt "github.com/go-jose/go-jose/v3/jwt"
)

var (
	ErrInvalidEnvelope = errors.New("invalid reset token")
	ErrExpiredEnvelope = errors.New("reset token has expired")
)

// Payload is the content carried by a reset envelope
type Payload struct {
	Email  string `json:"email"`
	Secret string `json:"secret"`
}

// Sealer signs and opens reset envelopes with a shared HMAC key
type Sealer struct {
	key    []byte
	issuer string
	now    func() time.Time
}

var newSigner = jose.NewSigner

// NewSealer creates a sealer. The key must be at least 32 bytes for HS256.
func NewSealer(key, issuer string) (*Sealer, error) {
	if len(key) < 32 {
		return nil, errors.New("envelope key must be at least 32 bytes")
	}
	return &Sealer{key: []byte(key), issuer: issuer, now: time.Now}, nil
}

// Seal produces an envelope valid until expiresAt.
func (s *Sealer) Seal(p Payload, expiresAt time.Time) (string, error) {
	signer, err := newSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: s.key},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", err
	}

	now := s.now()
	claims := josejwt.Claims{
		Issuer:   s.issuer,
		IssuedAt: josejwt.NewNumericDate(now),
		Expiry:   josejwt.NewNumericDate(expiresAt),
	}
	return josejwt.Signed(signer).Claims(claims).Claims(p).CompactSerialize()
}

// Open verifies the signature and expiry of raw and returns its payload.
func (s *Sealer) Open(raw string) (*Payload, error) {
	tok, err := josejwt.ParseSigned(strings.TrimSpace(raw))
	if err != nil {
		return nil, ErrInvalidEnvelope
	}
	if len(tok.Headers) != 1 || tok.Headers[0].Algorithm != string(jose.HS256) {
		return nil, ErrInvalidEnvelope
	}

	var claims josejwt.Claims
	var p Payload
	if err := tok.Claims(s.key, &claims, &p); err != nil {
		return nil, ErrInvalidEnvelope
	}
	if claims.Expiry == nil {
		return nil, ErrInvalidEnvelope
	}
	err = claims.ValidateWithLeeway(josejwt.Expected{Issuer: s.issuer, Time: s.now()}, 0)
	if errors.Is(err, josejwt.ErrExpired) {
		return nil, ErrExpiredEnvelope
	}
	if err != nil {
		return nil, ErrInvalidEnvelope
	}
	if p.Email == "" || p.Secret == "" {
		return nil, ErrInvalidEnvelope
	}
	return &p, nil
}
