package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// UserType represents the kind of account
type UserType string

const (
	UserTypeInvestor UserType = "INVESTOR"
	UserTypeAdmin    UserType = "ADMIN"
)

// User represents a user entity together with its credential material.
// Token hashes are lowercase hex SHA-256; raw secrets are never stored
// except the email verification token.
type User struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	UserType        UserType  `json:"userType"`
	IsEmailVerified bool      `json:"isEmailVerified"`

	EmailVerificationToken       null.String `json:"-"`
	EmailVerificationTokenExpiry null.Time   `json:"-"`
	PasswordResetTokenHash       null.String `json:"-"`
	PasswordResetTokenExpiry     null.Time   `json:"-"`
	RefreshTokenHash             null.String `json:"-"`
	RefreshTokenExpiry           null.Time   `json:"-"`

	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	DateOfBirth null.Time   `json:"dateOfBirth"`
	Nationality null.String `json:"nationality"`

	AddressLine1 null.String `json:"addressLine1"`
	AddressLine2 null.String `json:"addressLine2"`
	City         null.String `json:"city"`
	State        null.String `json:"state"`
	PostalCode   null.String `json:"postalCode"`
	Country      null.String `json:"country"`

	HasAgreedToTerms bool `json:"hasAgreedToTerms"`

	CreatedAt time.Time   `json:"createdAt"`
	CreatedBy null.String `json:"-"`
	UpdatedAt null.Time   `json:"updatedAt"`
	UpdatedBy null.String `json:"-"`
	IsDeleted bool        `json:"-"`
}

// Touch stamps the audit fields for a mutation made by actor.
func (u *User) Touch(now time.Time, actor string) {
	u.UpdatedAt = null.TimeFrom(now)
	if actor != "" {
		u.UpdatedBy = null.StringFrom(actor)
	}
}

// ClearRefreshToken drops the stored refresh token material.
func (u *User) ClearRefreshToken() {
	u.RefreshTokenHash = null.String{}
	u.RefreshTokenExpiry = null.Time{}
}

// ClearPasswordReset drops the stored reset token material.
func (u *User) ClearPasswordReset() {
	u.PasswordResetTokenHash = null.String{}
	u.PasswordResetTokenExpiry = null.Time{}
}

// ClearEmailVerification drops the stored verification token.
func (u *User) ClearEmailVerification() {
	u.EmailVerificationToken = null.String{}
	u.EmailVerificationTokenExpiry = null.Time{}
}

// PersonalInfo is the identity part of the user shown during onboarding
type PersonalInfo struct {
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	Email       string      `json:"email"`
	DateOfBirth null.Time   `json:"dateOfBirth"`
	Nationality null.String `json:"nationality"`
}

// LocationInfo is the postal address of the user
type LocationInfo struct {
	AddressLine1 null.String `json:"addressLine1"`
	AddressLine2 null.String `json:"addressLine2"`
	City         null.String `json:"city"`
	State        null.String `json:"state"`
	PostalCode   null.String `json:"postalCode"`
	Country      null.String `json:"country"`
}

// PersonalInfo projects the personal fields of the user.
func (u *User) PersonalInfo() PersonalInfo {
	return PersonalInfo{
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		DateOfBirth: u.DateOfBirth,
		Nationality: u.Nationality,
	}
}

// LocationInfo projects the address fields of the user.
func (u *User) LocationInfo() LocationInfo {
	return LocationInfo{
		AddressLine1: u.AddressLine1,
		AddressLine2: u.AddressLine2,
		City:         u.City,
		State:        u.State,
		PostalCode:   u.PostalCode,
		Country:      u.Country,
	}
}

// SignupInput represents input for creating an account
type SignupInput struct {
	Email            string  `json:"email" validate:"required,email,max=255"`
	Password         string  `json:"password" validate:"required,strongpassword"`
	FirstName        string  `json:"firstName" validate:"required,min=1,max=100"`
	LastName         string  `json:"lastName" validate:"required,min=1,max=100"`
	DateOfBirth      *string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Nationality      *string `json:"nationality" validate:"omitempty,max=100"`
	HasAgreedToTerms bool    `json:"hasAgreedToTerms" validate:"eq=true"`
}

// LoginInput represents input for user login
type LoginInput struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	UseSession bool   `json:"useSession"` // If true, store tokens in Redis and return SessionID
}

// VerifyEmailInput carries the mailbox ownership proof
type VerifyEmailInput struct {
	Email string `json:"email" validate:"required,email"`
	Token string `json:"token" validate:"required"`
}

// EmailInput is used by resend-verification and forgot-password
type EmailInput struct {
	Email string `json:"email" validate:"required,email"`
}

// RefreshTokenInput carries a raw refresh token
type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken" validate:"required_without=SessionID"`
	SessionID    string `json:"sessionId" validate:"omitempty,hexadecimal,len=32"`
}

// ResetPasswordInput carries the reset envelope and the new password
type ResetPasswordInput struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,strongpassword"`
}

// ChangePasswordInput represents input for changing user password.
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,strongpassword"`
}

// DeleteAccountInput confirms account closure with the current password
type DeleteAccountInput struct {
	Password string `json:"password" validate:"required"`
}

// UpdateProfileInput updates the personal and location fields of the user.
// Nil fields are left untouched.
type UpdateProfileInput struct {
	FirstName    *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName     *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	DateOfBirth  *string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Nationality  *string `json:"nationality" validate:"omitempty,max=100"`
	AddressLine1 *string `json:"addressLine1" validate:"omitempty,max=255"`
	AddressLine2 *string `json:"addressLine2" validate:"omitempty,max=255"`
	City         *string `json:"city" validate:"omitempty,max=100"`
	State        *string `json:"state" validate:"omitempty,max=100"`
	PostalCode   *string `json:"postalCode" validate:"omitempty,max=20"`
	Country      *string `json:"country" validate:"omitempty,max=100"`
}

// TokenPair represents an access token and its opaque refresh token
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int64  `json:"expiresIn,omitempty"`
	SessionID    string `json:"sessionId,omitempty"`
	User         *User  `json:"user,omitempty"`
}
