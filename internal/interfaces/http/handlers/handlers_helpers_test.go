package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"investor-onboarding.backend/internal/domain/entities"
	"investor-onboarding.backend/internal/interfaces/http/middleware"
)

type authServiceStub struct {
	signup         func(*entities.SignupInput) (*entities.AuthResponse, error)
	login          func(*entities.LoginInput) (*entities.AuthResponse, error)
	verifyEmail    func(*entities.VerifyEmailInput) (*entities.User, error)
	resend         func(*entities.EmailInput) error
	refresh        func(*entities.RefreshTokenInput) (*entities.AuthResponse, error)
	logout         func(*entities.RefreshTokenInput) error
	forgotCalls    int
	resetPassword  func(*entities.ResetPasswordInput) error
	getUser        func(uuid.UUID) (*entities.User, error)
	updateProfile  func(uuid.UUID, *entities.UpdateProfileInput) (*entities.User, error)
	changePassword func(uuid.UUID, *entities.ChangePasswordInput) error
	deleteAccount  func(uuid.UUID, *entities.DeleteAccountInput) error
}

func (s *authServiceStub) Signup(_ context.Context, in *entities.SignupInput) (*entities.AuthResponse, error) {
	return s.signup(in)
}

func (s *authServiceStub) Login(_ context.Context, in *entities.LoginInput) (*entities.AuthResponse, error) {
	return s.login(in)
}

func (s *authServiceStub) VerifyEmail(_ context.Context, in *entities.VerifyEmailInput) (*entities.User, error) {
	return s.verifyEmail(in)
}

func (s *authServiceStub) ResendVerification(_ context.Context, in *entities.EmailInput) error {
	return s.resend(in)
}

func (s *authServiceStub) RefreshToken(_ context.Context, in *entities.RefreshTokenInput) (*entities.AuthResponse, error) {
	return s.refresh(in)
}

func (s *authServiceStub) Logout(_ context.Context, in *entities.RefreshTokenInput) error {
	return s.logout(in)
}

func (s *authServiceStub) ForgotPassword(context.Context, *entities.EmailInput) {
	s.forgotCalls++
}

func (s *authServiceStub) ResetPassword(_ context.Context, in *entities.ResetPasswordInput) error {
	return s.resetPassword(in)
}

func (s *authServiceStub) GetUserByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	return s.getUser(id)
}

func (s *authServiceStub) UpdateProfile(_ context.Context, id uuid.UUID, in *entities.UpdateProfileInput) (*entities.User, error) {
	return s.updateProfile(id, in)
}

func (s *authServiceStub) ChangePassword(_ context.Context, id uuid.UUID, in *entities.ChangePasswordInput) error {
	return s.changePassword(id, in)
}

func (s *authServiceStub) DeleteAccount(_ context.Context, id uuid.UUID, in *entities.DeleteAccountInput) error {
	return s.deleteAccount(id, in)
}

type onboardingServiceStub struct {
	getProgress func(uuid.UUID) (*entities.OnboardingProgress, error)
	saveStep    func(uuid.UUID, *entities.SaveOnboardingInput) (*entities.OnboardingProgress, error)
	submit      func(uuid.UUID) (*entities.OnboardingProgress, error)
}

func (s *onboardingServiceStub) GetProgress(_ context.Context, id uuid.UUID) (*entities.OnboardingProgress, error) {
	return s.getProgress(id)
}

func (s *onboardingServiceStub) SaveStep(_ context.Context, id uuid.UUID, in *entities.SaveOnboardingInput) (*entities.OnboardingProgress, error) {
	return s.saveStep(id, in)
}

func (s *onboardingServiceStub) Submit(_ context.Context, id uuid.UUID) (*entities.OnboardingProgress, error) {
	return s.submit(id)
}

// withUser stands in for AuthMiddleware.
func withUser(id uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, id)
		c.Next()
	}
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
