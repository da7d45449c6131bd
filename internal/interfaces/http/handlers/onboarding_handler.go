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

// OnboardingService is the subset of the onboarding usecase used by the handler
type OnboardingService interface {
	GetProgress(ctx context.Context, userID uuid.UUID) (*entities.OnboardingProgress, error)
	SaveStep(ctx context.Context, userID uuid.UUID, input *entities.SaveOnboardingInput) (*entities.OnboardingProgress, error)
	Submit(ctx context.Context, userID uuid.UUID) (*entities.OnboardingProgress, error)
}

// OnboardingHandler handles the investor questionnaire endpoints
type OnboardingHandler struct {
	onboardingUsecase OnboardingService
}

// NewOnboardingHandler creates a new onboarding handler
func NewOnboardingHandler(onboardingUsecase OnboardingService) *OnboardingHandler {
	RegisterValidationRules()
	return &OnboardingHandler{onboardingUsecase: onboardingUsecase}
}

// GetProgress returns the onboarding snapshot of the caller
// GET /api/v1/onboarding
func (h *OnboardingHandler) GetProgress(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return
	}

	progress, err := h.onboardingUsecase.GetProgress(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, toProgressResponse(progress))
}

// SaveStep stores one step of the questionnaire
// PUT /api/v1/onboarding
func (h *OnboardingHandler) SaveStep(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return
	}

	var input entities.SaveOnboardingInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}

	progress, err := h.onboardingUsecase.SaveStep(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, toProgressResponse(progress))
}

// Submit finalizes the questionnaire
// POST /api/v1/onboarding/submit
func (h *OnboardingHandler) Submit(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return
	}

	progress, err := h.onboardingUsecase.Submit(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, toProgressResponse(progress))
}
