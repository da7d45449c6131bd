package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"investor-onboarding.backend/internal/domain/entities"
	domainerrors "investor-onboarding.backend/internal/domain/errors"
)

func newUserEntity(email string) *entities.User {
	return &entities.User{
		ID:               uuid.New(),
		Email:            email,
		PasswordHash:     "hash",
		UserType:         entities.UserTypeInvestor,
		FirstName:        "Alice",
		LastName:         "Ng",
		HasAgreedToTerms: true,
		CreatedAt:        time.Now().UTC().Truncate(time.Second),
	}
}

func TestUserRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := newUserEntity("a@b.com")
	u.Nationality = null.StringFrom("SG")
	require.NoError(t, repo.Create(ctx, u))

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, byID.Email)
	assert.Equal(t, "SG", byID.Nationality.String)
	assert.False(t, byID.IsEmailVerified)
	assert.False(t, byID.RefreshTokenHash.Valid)

	byEmail, err := repo.GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = repo.GetByEmail(ctx, "A@B.COM")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound, "email match is case-sensitive")

	expiry := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	u.IsEmailVerified = true
	u.City = null.StringFrom("Singapore")
	u.RefreshTokenHash = null.StringFrom("abc123")
	u.RefreshTokenExpiry = null.TimeFrom(expiry)
	u.Touch(time.Now().UTC(), u.ID.String())
	require.NoError(t, repo.Update(ctx, u))

	updated, err := repo.GetByRefreshTokenHash(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, updated.ID)
	assert.True(t, updated.IsEmailVerified)
	assert.Equal(t, "Singapore", updated.City.String)
	assert.True(t, updated.RefreshTokenExpiry.Time.Equal(expiry))
	assert.True(t, updated.UpdatedAt.Valid)

	u.ClearRefreshToken()
	require.NoError(t, repo.Update(ctx, u))
	_, err = repo.GetByRefreshTokenHash(ctx, "abc123")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	require.NoError(t, repo.SoftDelete(ctx, u.ID))
	_, err = repo.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestUserRepository_EmailUniqueAmongActiveUsers(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first := newUserEntity("dup@b.com")
	require.NoError(t, repo.Create(ctx, first))

	err := repo.Create(ctx, newUserEntity("dup@b.com"))
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)

	require.NoError(t, repo.SoftDelete(ctx, first.ID))
	assert.NoError(t, repo.Create(ctx, newUserEntity("dup@b.com")))
}

func TestUserRepository_NotFoundBranches(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	repo := NewUserRepository(db)
	ctx := context.Background()
	id := uuid.New()

	_, err := repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = repo.GetByEmail(ctx, "missing@b.com")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = repo.GetByRefreshTokenHash(ctx, "")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	err = repo.Update(ctx, newUserEntity("x@b.com"))
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	err = repo.SoftDelete(ctx, id)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestUserRepository_ClearExpiredTokens(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	repo := NewUserRepository(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	expired := newUserEntity("expired@b.com")
	expired.EmailVerificationToken = null.StringFrom("tok")
	expired.EmailVerificationTokenExpiry = null.TimeFrom(now.Add(-time.Hour))
	expired.RefreshTokenHash = null.StringFrom("hash")
	expired.RefreshTokenExpiry = null.TimeFrom(now.Add(-time.Hour))
	require.NoError(t, repo.Create(ctx, expired))

	live := newUserEntity("live@b.com")
	live.PasswordResetTokenHash = null.StringFrom("reset")
	live.PasswordResetTokenExpiry = null.TimeFrom(now.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, live))

	n, err := repo.ClearExpiredTokens(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := repo.GetByID(ctx, expired.ID)
	require.NoError(t, err)
	assert.False(t, got.EmailVerificationToken.Valid)
	assert.False(t, got.RefreshTokenHash.Valid)
	assert.False(t, got.RefreshTokenExpiry.Valid)

	stillLive, err := repo.GetByID(ctx, live.ID)
	require.NoError(t, err)
	assert.Equal(t, "reset", stillLive.PasswordResetTokenHash.String)
}

func TestUserRepository_DBErrors(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	// no table
	assert.Error(t, repo.Create(ctx, newUserEntity("a@b.com")))
	_, err := repo.GetByID(ctx, uuid.New())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domainerrors.ErrNotFound)
	assert.Error(t, repo.Update(ctx, newUserEntity("a@b.com")))
	assert.Error(t, repo.SoftDelete(ctx, uuid.New()))
	_, err = repo.ClearExpiredTokens(ctx, time.Now())
	assert.Error(t, err)
}
