package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"investor-onboarding.backend/internal/domain/entities"
	domainerrors "investor-onboarding.backend/internal/domain/errors"
	"investor-onboarding.backend/internal/domain/repositories"
	"investor-onboarding.backend/pkg/crypto"
	"investor-onboarding.backend/pkg/logger"
	"investor-onboarding.backend/pkg/metrics"
	"investor-onboarding.backend/pkg/redis"
	"investor-onboarding.backend/pkg/utils"
)

const dateLayout = "2006-01-02"

// AuthUsecase handles authentication business logic
type AuthUsecase struct {
	userRepo     repositories.UserRepository
	refresh      *RefreshTokenManager
	verification *EmailVerificationFlow
	reset        *PasswordResetFlow
	sessions     SessionStore
	notifier     *Notifier
	settings     Settings
}

// NewAuthUsecase creates a new auth usecase. sessions may be nil, in which
// case login sessions are rejected.
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	refresh *RefreshTokenManager,
	verification *EmailVerificationFlow,
	reset *PasswordResetFlow,
	sessions SessionStore,
	notifier *Notifier,
	settings Settings,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:     userRepo,
		refresh:      refresh,
		verification: verification,
		reset:        reset,
		sessions:     sessions,
		notifier:     notifier,
		settings:     settings.withDefaults(),
	}
}

// Signup creates an unverified investor account and returns its first token pair
func (u *AuthUsecase) Signup(ctx context.Context, input *entities.SignupInput) (resp *entities.AuthResponse, err error) {
	defer func() { metrics.AuthAttempts.WithLabelValues("signup", metrics.Result(err)).Inc() }()

	email := normalizeEmail(input.Email)

	// Check if email already exists
	_, err = u.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, domainerrors.Conflict("email is already registered")
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	// Hash password
	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := u.settings.now()
	user := &entities.User{
		ID:               utils.GenerateUUIDv7(),
		Email:            email,
		PasswordHash:     passwordHash,
		UserType:         entities.UserTypeInvestor,
		FirstName:        strings.TrimSpace(input.FirstName),
		LastName:         strings.TrimSpace(input.LastName),
		Nationality:      optionalString(input.Nationality),
		HasAgreedToTerms: input.HasAgreedToTerms,
		CreatedAt:        now,
	}
	user.CreatedBy = null.StringFrom(user.ID.String())
	if input.DateOfBirth != nil {
		dob, err := parseDate(*input.DateOfBirth)
		if err != nil {
			return nil, err
		}
		user.DateOfBirth = dob
	}

	verificationToken, err := u.verification.Issue(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := u.refresh.Attach(user)
	if err != nil {
		return nil, err
	}

	if err = u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("email is already registered")
		}
		return nil, err
	}

	pair, err := u.refresh.pair(user, refreshToken)
	if err != nil {
		return nil, err
	}

	u.notifier.SendVerification(ctx, user, verificationToken)
	logger.Info(ctx, "User signed up", zap.String("user_id", user.ID.String()))

	return &entities.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		User:         user,
	}, nil
}

// Login authenticates a user and returns tokens, or a session id when
// input.UseSession is set
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (resp *entities.AuthResponse, err error) {
	defer func() { metrics.AuthAttempts.WithLabelValues("login", metrics.Result(err)).Inc() }()

	if input.UseSession && u.sessions == nil {
		return nil, domainerrors.BadRequest("login sessions are not enabled")
	}

	// Get user by email
	user, err := u.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, err
	}

	// Check password
	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		logger.Info(ctx, "Login rejected", zap.String("user_id", user.ID.String()), zap.String("reason", "invalid_password"))
		return nil, domainerrors.NewAppError(domainerrors.KindUnauthorized, domainerrors.CodeInvalidCredentials, "invalid email or password", domainerrors.ErrInvalidCredentials)
	}
	if !user.IsEmailVerified {
		logger.Info(ctx, "Login rejected", zap.String("user_id", user.ID.String()), zap.String("reason", "email_not_verified"))
		return nil, domainerrors.NewAppError(domainerrors.KindUnauthorized, domainerrors.CodeEmailNotVerified, "email is not verified", domainerrors.ErrEmailNotVerified)
	}

	pair, err := u.refresh.IssuePair(ctx, user)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "User logged in", zap.String("user_id", user.ID.String()), zap.Bool("session", input.UseSession))

	if input.UseSession {
		sessionID, err := u.storeSession(ctx, "", user.ID, pair)
		if err != nil {
			return nil, err
		}
		return &entities.AuthResponse{SessionID: sessionID, ExpiresIn: pair.ExpiresIn, User: user}, nil
	}

	return &entities.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		User:         user,
	}, nil
}

// VerifyEmail confirms mailbox ownership
func (u *AuthUsecase) VerifyEmail(ctx context.Context, input *entities.VerifyEmailInput) (user *entities.User, err error) {
	defer func() { metrics.AuthAttempts.WithLabelValues("verify_email", metrics.Result(err)).Inc() }()
	return u.verification.Verify(ctx, normalizeEmail(input.Email), strings.TrimSpace(input.Token))
}

// ResendVerification issues a new verification token
func (u *AuthUsecase) ResendVerification(ctx context.Context, input *entities.EmailInput) error {
	return u.verification.Resend(ctx, normalizeEmail(input.Email))
}

// RefreshToken rotates the refresh token presented directly or held by a session
func (u *AuthUsecase) RefreshToken(ctx context.Context, input *entities.RefreshTokenInput) (resp *entities.AuthResponse, err error) {
	defer func() { metrics.AuthAttempts.WithLabelValues("refresh", metrics.Result(err)).Inc() }()

	if input.SessionID != "" {
		session, err := u.loadSession(ctx, input.SessionID)
		if err != nil {
			return nil, err
		}
		userID, ok := utils.ParseUserID(session.UserID)
		if !ok {
			return nil, domainerrors.Unauthorized("session is invalid")
		}
		pair, err := u.refresh.Rotate(ctx, session.RefreshToken)
		if err != nil {
			return nil, err
		}
		if _, err := u.storeSession(ctx, input.SessionID, userID, pair); err != nil {
			return nil, err
		}
		return &entities.AuthResponse{SessionID: input.SessionID, ExpiresIn: pair.ExpiresIn}, nil
	}

	pair, err := u.refresh.Rotate(ctx, input.RefreshToken)
	if err != nil {
		return nil, err
	}
	return &entities.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

// Logout revokes the refresh token and drops the session if one is given
func (u *AuthUsecase) Logout(ctx context.Context, input *entities.RefreshTokenInput) error {
	if input.SessionID != "" {
		session, err := u.loadSession(ctx, input.SessionID)
		if err != nil {
			return err
		}
		if err := u.sessions.DeleteSession(ctx, input.SessionID); err != nil {
			return err
		}
		// The session is gone; a token already rotated away is not an error here.
		if err := u.refresh.Revoke(ctx, session.RefreshToken); err != nil && domainerrors.KindOf(err) != domainerrors.KindUnauthorized {
			return err
		}
		return nil
	}
	return u.refresh.Revoke(ctx, input.RefreshToken)
}

// ForgotPassword starts a password reset. It never reports whether the
// email is registered.
func (u *AuthUsecase) ForgotPassword(ctx context.Context, input *entities.EmailInput) {
	metrics.AuthAttempts.WithLabelValues("forgot_password", "success").Inc()
	u.reset.RequestReset(ctx, normalizeEmail(input.Email))
}

// ResetPassword consumes a reset envelope
func (u *AuthUsecase) ResetPassword(ctx context.Context, input *entities.ResetPasswordInput) (err error) {
	defer func() { metrics.AuthAttempts.WithLabelValues("reset_password", metrics.Result(err)).Inc() }()
	_, err = u.reset.Consume(ctx, strings.TrimSpace(input.Token), input.NewPassword)
	return err
}

// GetUserByID gets a user by ID
func (u *AuthUsecase) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, id)
}

// UpdateProfile updates the personal and location fields of the user
func (u *AuthUsecase) UpdateProfile(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.DateOfBirth != nil {
		dob, err := parseDate(*input.DateOfBirth)
		if err != nil {
			return nil, err
		}
		user.DateOfBirth = dob
	}
	applyOptional(&user.Nationality, input.Nationality)
	applyOptional(&user.AddressLine1, input.AddressLine1)
	applyOptional(&user.AddressLine2, input.AddressLine2)
	applyOptional(&user.City, input.City)
	applyOptional(&user.State, input.State)
	applyOptional(&user.PostalCode, input.PostalCode)
	applyOptional(&user.Country, input.Country)

	user.Touch(u.settings.now(), user.ID.String())
	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword changes user password and signs out other devices
func (u *AuthUsecase) ChangePassword(ctx context.Context, userID uuid.UUID, input *entities.ChangePasswordInput) (err error) {
	defer func() { metrics.AuthAttempts.WithLabelValues("change_password", metrics.Result(err)).Inc() }()

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !crypto.CheckPassword(input.CurrentPassword, user.PasswordHash) {
		return domainerrors.NewAppError(domainerrors.KindUnauthorized, domainerrors.CodeInvalidCredentials, "current password is incorrect", domainerrors.ErrInvalidCredentials)
	}

	hash, err := crypto.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.ClearRefreshToken()
	user.Touch(u.settings.now(), user.ID.String())

	if err = u.userRepo.Update(ctx, user); err != nil {
		return err
	}
	logger.Info(ctx, "Password changed", zap.String("user_id", user.ID.String()))
	return nil
}

// DeleteAccount soft deletes the account after re-checking the password.
// The email becomes available for a new signup.
func (u *AuthUsecase) DeleteAccount(ctx context.Context, userID uuid.UUID, input *entities.DeleteAccountInput) (err error) {
	defer func() { metrics.AuthAttempts.WithLabelValues("delete_account", metrics.Result(err)).Inc() }()

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return domainerrors.NewAppError(domainerrors.KindUnauthorized, domainerrors.CodeInvalidCredentials, "password is incorrect", domainerrors.ErrInvalidCredentials)
	}

	if err = u.userRepo.SoftDelete(ctx, user.ID); err != nil {
		return err
	}
	logger.Info(ctx, "Account deleted", zap.String("user_id", user.ID.String()))
	return nil
}

func (u *AuthUsecase) loadSession(ctx context.Context, sessionID string) (*redis.SessionData, error) {
	if u.sessions == nil {
		return nil, domainerrors.BadRequest("login sessions are not enabled")
	}
	session, err := u.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, redis.ErrSessionNotFound) {
			return nil, domainerrors.Unauthorized("session not found or expired")
		}
		return nil, err
	}
	return session, nil
}

func (u *AuthUsecase) storeSession(ctx context.Context, sessionID string, userID uuid.UUID, pair *entities.TokenPair) (string, error) {
	if sessionID == "" {
		id, err := redis.NewSessionID()
		if err != nil {
			return "", err
		}
		sessionID = id
	}
	data := &redis.SessionData{
		UserID:       userID.String(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
	if err := u.sessions.CreateSession(ctx, sessionID, data, u.settings.RefreshTokenTTL); err != nil {
		return "", err
	}
	return sessionID, nil
}

// normalizeEmail only trims; email identity is case-sensitive.
func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

func optionalString(v *string) null.String {
	if v == nil {
		return null.String{}
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return null.String{}
	}
	return null.StringFrom(trimmed)
}

// applyOptional sets dst when v is present; an empty string clears it.
func applyOptional(dst *null.String, v *string) {
	if v == nil {
		return
	}
	*dst = optionalString(v)
}

func parseDate(raw string) (null.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return null.Time{}, domainerrors.BadRequest("dateOfBirth must be formatted as YYYY-MM-DD")
	}
	return null.TimeFrom(t), nil
}
