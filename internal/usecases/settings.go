package usecases

import (
	"time"
)

// Default token lifetimes
const (
	DefaultRefreshTokenTTL      = 30 * 24 * time.Hour
	DefaultEmailVerificationTTL = 24 * time.Hour
	DefaultPasswordResetTTL     = time.Hour
)

// Settings is the immutable configuration shared by the auth and onboarding
// usecases. It is passed by value; nothing reads it from global state.
type Settings struct {
	AppName              string
	FrontendURL          string
	RefreshTokenTTL      time.Duration
	EmailVerificationTTL time.Duration
	PasswordResetTTL     time.Duration

	// Now overrides the clock, mainly for tests.
	Now func() time.Time
}

func (s Settings) withDefaults() Settings {
	if s.RefreshTokenTTL <= 0 {
		s.RefreshTokenTTL = DefaultRefreshTokenTTL
	}
	if s.EmailVerificationTTL <= 0 {
		s.EmailVerificationTTL = DefaultEmailVerificationTTL
	}
	if s.PasswordResetTTL <= 0 {
		s.PasswordResetTTL = DefaultPasswordResetTTL
	}
	if s.AppName == "" {
		s.AppName = "Investor Onboarding"
	}
	if s.Now == nil {
		s.Now = time.Now
	}
	return s
}

func (s Settings) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}
