package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"investor-onboarding.backend/internal/domain/entities"
	domainerrors "investor-onboarding.backend/internal/domain/errors"
	"investor-onboarding.backend/internal/usecases"
)

func TestEmailVerificationFlow_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email", func(t *testing.T) {
		f := newAuthFixture(t, nil)
		_, err := f.verification.Verify(ctx, "nobody@b.com", "x")
		assert.Equal(t, domainerrors.KindNotFound, domainerrors.KindOf(err))
	})

	t.Run("token mismatch", func(t *testing.T) {
		f := newAuthFixture(t, nil)
		_, err := f.auth.Signup(ctx, signupInput("a@b.com"))
		require.NoError(t, err)

		_, err = f.verification.Verify(ctx, "a@b.com", "not-the-token")
		assert.Equal(t, domainerrors.KindBadRequest, domainerrors.KindOf(err))

		token := queryParam(f.mailer.last().Body, "token")
		for _, near := range []string{token[:len(token)-1], token + "0", ""} {
			_, err = f.verification.Verify(ctx, "a@b.com", near)
			assert.Equal(t, domainerrors.KindBadRequest, domainerrors.KindOf(err), near)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		f := newAuthFixture(t, nil)
		_, err := f.auth.Signup(ctx, signupInput("a@b.com"))
		require.NoError(t, err)
		token := queryParam(f.mailer.last().Body, "token")

		f.clock.Advance(usecases.DefaultEmailVerificationTTL)
		_, err = f.verification.Verify(ctx, "a@b.com", token)
		assert.Equal(t, domainerrors.KindBadRequest, domainerrors.KindOf(err))

		stored, err := f.users.GetByEmail(ctx, "a@b.com")
		require.NoError(t, err)
		assert.False(t, stored.IsEmailVerified)
	})

	t.Run("already verified", func(t *testing.T) {
		f := newAuthFixture(t, nil)
		signupVerified(t, f, "a@b.com")

		_, err := f.verification.Verify(ctx, "a@b.com", "anything")
		assert.Equal(t, domainerrors.KindBadRequest, domainerrors.KindOf(err))
	})
}

func TestEmailVerificationFlow_Resend(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, nil)

	err := f.auth.ResendVerification(ctx, &entities.EmailInput{Email: "nobody@b.com"})
	assert.Equal(t, domainerrors.KindNotFound, domainerrors.KindOf(err))

	_, err = f.auth.Signup(ctx, signupInput("a@b.com"))
	require.NoError(t, err)
	first := queryParam(f.mailer.last().Body, "token")

	f.clock.Advance(time.Hour)
	require.NoError(t, f.auth.ResendVerification(ctx, &entities.EmailInput{Email: " a@b.com "}))
	second := queryParam(f.mailer.last().Body, "token")
	assert.NotEqual(t, first, second)
	assert.Len(t, f.mailer.sent, 2)

	stored, err := f.users.GetByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, second, stored.EmailVerificationToken.String)
	assert.Equal(t, f.clock.now.Add(usecases.DefaultEmailVerificationTTL), stored.EmailVerificationTokenExpiry.Time)

	// the overwritten token no longer verifies
	_, err = f.verification.Verify(ctx, "a@b.com", first)
	assert.Equal(t, domainerrors.KindBadRequest, domainerrors.KindOf(err))

	_, err = f.verification.Verify(ctx, "a@b.com", second)
	require.NoError(t, err)

	err = f.auth.ResendVerification(ctx, &entities.EmailInput{Email: "a@b.com"})
	assert.Equal(t, domainerrors.KindBadRequest, domainerrors.KindOf(err))
}
