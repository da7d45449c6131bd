package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email           string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email_active,where:deleted_at IS NULL"`
	PasswordHash    string    `gorm:"type:varchar(255);not null"`
	UserType        string    `gorm:"type:varchar(20);not null;default:'INVESTOR'"`
	IsEmailVerified bool      `gorm:"not null;default:false"`

	EmailVerificationToken       *string    `gorm:"type:varchar(128)"`
	EmailVerificationTokenExpiry *time.Time `gorm:"type:timestamptz"`
	PasswordResetTokenHash       *string    `gorm:"type:char(64)"`
	PasswordResetTokenExpiry     *time.Time `gorm:"type:timestamptz"`
	RefreshTokenHash             *string    `gorm:"type:char(64);index"`
	RefreshTokenExpiry           *time.Time `gorm:"type:timestamptz"`

	FirstName   string     `gorm:"type:varchar(100);not null"`
	LastName    string     `gorm:"type:varchar(100);not null"`
	DateOfBirth *time.Time `gorm:"type:date"`
	Nationality *string    `gorm:"type:varchar(100)"`

	AddressLine1 *string `gorm:"type:varchar(255)"`
	AddressLine2 *string `gorm:"type:varchar(255)"`
	City         *string `gorm:"type:varchar(100)"`
	State        *string `gorm:"type:varchar(100)"`
	PostalCode   *string `gorm:"type:varchar(20)"`
	Country      *string `gorm:"type:varchar(100)"`

	HasAgreedToTerms bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	CreatedBy *string        `gorm:"type:varchar(255)"`
	UpdatedAt *time.Time     `gorm:"autoUpdateTime:false"`
	UpdatedBy *string        `gorm:"type:varchar(255)"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
