package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"investor-onboarding.backend/internal/domain/entities"
	domainerrors "investor-onboarding.backend/internal/domain/errors"
	"investor-onboarding.backend/internal/infrastructure/models"
)

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	m := toUserModel(user)
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByEmail gets a user by exact email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.first(ctx, "email = ?", email)
}

// GetByRefreshTokenHash finds the user holding the given refresh token hash
func (r *UserRepository) GetByRefreshTokenHash(ctx context.Context, hash string) (*entities.User, error) {
	if hash == "" {
		return nil, domainerrors.ErrNotFound
	}
	return r.first(ctx, "refresh_token_hash = ?", strings.ToLower(hash))
}

// Update writes every mutable column of user
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	m := toUserModel(user)
	result := GetDB(ctx, r.db).
		Model(&models.User{}).
		Where("id = ?", user.ID).
		Select("*").
		Omit("id", "created_at", "created_by", "deleted_at").
		Updates(m)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domainerrors.ErrAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// SoftDelete soft deletes a user
func (r *UserRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ClearExpiredTokens nulls token material whose expiry is before now and
// returns the number of column groups cleared.
func (r *UserRepository) ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	groups := []struct {
		value, expiry string
	}{
		{"email_verification_token", "email_verification_token_expiry"},
		{"password_reset_token_hash", "password_reset_token_expiry"},
		{"refresh_token_hash", "refresh_token_expiry"},
	}

	var total int64
	for _, g := range groups {
		result := GetDB(ctx, r.db).
			Model(&models.User{}).
			Where(g.expiry+" IS NOT NULL AND "+g.expiry+" < ?", now).
			Updates(map[string]interface{}{g.value: nil, g.expiry: nil})
		if result.Error != nil {
			return total, result.Error
		}
		total += result.RowsAffected
	}
	return total, nil
}

func (r *UserRepository) first(ctx context.Context, query string, args ...interface{}) (*entities.User, error) {
	var m models.User
	if err := GetDB(ctx, r.db).Where(query, args...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toUserEntity(&m), nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

func toUserModel(u *entities.User) *models.User {
	m := &models.User{
		ID:                           u.ID,
		Email:                        u.Email,
		PasswordHash:                 u.PasswordHash,
		UserType:                     string(u.UserType),
		IsEmailVerified:              u.IsEmailVerified,
		EmailVerificationToken:       u.EmailVerificationToken.Ptr(),
		EmailVerificationTokenExpiry: u.EmailVerificationTokenExpiry.Ptr(),
		PasswordResetTokenHash:       u.PasswordResetTokenHash.Ptr(),
		PasswordResetTokenExpiry:     u.PasswordResetTokenExpiry.Ptr(),
		RefreshTokenHash:             u.RefreshTokenHash.Ptr(),
		RefreshTokenExpiry:           u.RefreshTokenExpiry.Ptr(),
		FirstName:                    u.FirstName,
		LastName:                     u.LastName,
		DateOfBirth:                  u.DateOfBirth.Ptr(),
		Nationality:                  u.Nationality.Ptr(),
		AddressLine1:                 u.AddressLine1.Ptr(),
		AddressLine2:                 u.AddressLine2.Ptr(),
		City:                         u.City.Ptr(),
		State:                        u.State.Ptr(),
		PostalCode:                   u.PostalCode.Ptr(),
		Country:                      u.Country.Ptr(),
		HasAgreedToTerms:             u.HasAgreedToTerms,
		CreatedAt:                    u.CreatedAt,
		CreatedBy:                    u.CreatedBy.Ptr(),
		UpdatedAt:                    u.UpdatedAt.Ptr(),
		UpdatedBy:                    u.UpdatedBy.Ptr(),
	}
	if m.UserType == "" {
		m.UserType = string(entities.UserTypeInvestor)
	}
	return m
}

func toUserEntity(m *models.User) *entities.User {
	return &entities.User{
		ID:                           m.ID,
		Email:                        m.Email,
		PasswordHash:                 m.PasswordHash,
		UserType:                     entities.UserType(m.UserType),
		IsEmailVerified:              m.IsEmailVerified,
		EmailVerificationToken:       null.StringFromPtr(m.EmailVerificationToken),
		EmailVerificationTokenExpiry: null.TimeFromPtr(m.EmailVerificationTokenExpiry),
		PasswordResetTokenHash:       null.StringFromPtr(m.PasswordResetTokenHash),
		PasswordResetTokenExpiry:     null.TimeFromPtr(m.PasswordResetTokenExpiry),
		RefreshTokenHash:             null.StringFromPtr(m.RefreshTokenHash),
		RefreshTokenExpiry:           null.TimeFromPtr(m.RefreshTokenExpiry),
		FirstName:                    m.FirstName,
		LastName:                     m.LastName,
		DateOfBirth:                  null.TimeFromPtr(m.DateOfBirth),
		Nationality:                  null.StringFromPtr(m.Nationality),
		AddressLine1:                 null.StringFromPtr(m.AddressLine1),
		AddressLine2:                 null.StringFromPtr(m.AddressLine2),
		City:                         null.StringFromPtr(m.City),
		State:                        null.StringFromPtr(m.State),
		PostalCode:                   null.StringFromPtr(m.PostalCode),
		Country:                      null.StringFromPtr(m.Country),
		HasAgreedToTerms:             m.HasAgreedToTerms,
		CreatedAt:                    m.CreatedAt,
		CreatedBy:                    null.StringFromPtr(m.CreatedBy),
		UpdatedAt:                    null.TimeFromPtr(m.UpdatedAt),
		UpdatedBy:                    null.StringFromPtr(m.UpdatedBy),
		IsDeleted:                    m.DeletedAt.Valid,
	}
}
