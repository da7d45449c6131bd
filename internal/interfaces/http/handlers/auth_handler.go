package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"investor-onboarding.backend/internal/domain/entities"
	domainerrors "investor-onboarding.backend/internal/domain/errors"
	"investor-onboarding.backend/internal/interfaces/http/middleware"
	"investor-onboarding.backend/internal/interfaces/http/response"
)

// AuthService is the subset of the auth usecase used by the handler
type AuthService interface {
	Signup(ctx context.Context, input *entities.SignupInput) (*entities.AuthResponse, error)
	Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error)
	VerifyEmail(ctx context.Context, input *entities.VerifyEmailInput) (*entities.User, error)
	ResendVerification(ctx context.Context, input *entities.EmailInput) error
	RefreshToken(ctx context.Context, input *entities.RefreshTokenInput) (*entities.AuthResponse, error)
	Logout(ctx context.Context, input *entities.RefreshTokenInput) error
	ForgotPassword(ctx context.Context, input *entities.EmailInput)
	ResetPassword(ctx context.Context, input *entities.ResetPasswordInput) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, input *entities.ChangePasswordInput) error
	DeleteAccount(ctx context.Context, userID uuid.UUID, input *entities.DeleteAccountInput) error
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authUsecase AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUsecase AuthService) *AuthHandler {
	RegisterValidationRules()
	return &AuthHandler{
		authUsecase: authUsecase,
	}
}

// Signup handles account creation
// POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var input entities.SignupInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}

	authResponse, err := h.authUsecase.Signup(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, authResponse)
}

// Login handles user login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}

	authResponse, err := h.authUsecase.Login(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, authResponse)
}

// VerifyEmail handles email verification
// POST /api/v1/auth/verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var input entities.VerifyEmailInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.authUsecase.VerifyEmail(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Email verified successfully",
		"user":    user,
	})
}

// ResendVerification issues a new verification email
// POST /api/v1/auth/resend-verification
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var input entities.EmailInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.authUsecase.ResendVerification(c.Request.Context(), &input); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Verification email sent")
}

// RefreshToken handles token refresh
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var input entities.RefreshTokenInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}

	authResponse, err := h.authUsecase.RefreshToken(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, authResponse)
}

// Logout revokes the refresh token
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var input entities.RefreshTokenInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.authUsecase.Logout(c.Request.Context(), &input); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Logged out successfully")
}

// ForgotPassword starts a password reset. The response never reveals
// whether the email is registered.
// POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var input entities.EmailInput
	if err := bindJSON(c, &input); err == nil {
		h.authUsecase.ForgotPassword(c.Request.Context(), &input)
	}

	response.Message(c, http.StatusOK, "If the email is registered, a password reset link has been sent")
}

// ResetPassword consumes a reset token
// POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var input entities.ResetPasswordInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.authUsecase.ResetPassword(c.Request.Context(), &input); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Password has been reset")
}

// GetMe returns current user info
// GET /api/v1/auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return
	}

	user, err := h.authUsecase.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}

// UpdateProfile updates personal and location fields
// PUT /api/v1/users/me
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return
	}

	var input entities.UpdateProfileInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.authUsecase.UpdateProfile(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}

// ChangePassword handles password change
// POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return
	}

	var input entities.ChangePasswordInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.authUsecase.ChangePassword(c.Request.Context(), userID, &input); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Password changed successfully")
}

// DeleteAccount closes the account of the caller
// DELETE /api/v1/users/me
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return
	}

	var input entities.DeleteAccountInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.authUsecase.DeleteAccount(c.Request.Context(), userID, &input); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Account deleted")
}
