package main

import (
	"github.com/gin-gonic/gin"
	"investor-onboarding.backend/internal/domain/entities"
	"investor-onboarding.backend/internal/interfaces/http/handlers"
	"investor-onboarding.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler       *handlers.AuthHandler
	onboardingHandler *handlers.OnboardingHandler
	authMiddleware    gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, prefix string, d routeDeps) {
	if prefix == "" {
		prefix = "/api/v1"
	}
	v1 := r.Group(prefix)
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", d.authHandler.Signup)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/verify-email", d.authHandler.VerifyEmail)
			auth.POST("/resend-verification", d.authHandler.ResendVerification)
			auth.POST("/refresh", d.authHandler.RefreshToken)
			auth.POST("/logout", d.authHandler.Logout)
			auth.POST("/forgot-password", d.authHandler.ForgotPassword)
			auth.POST("/reset-password", d.authHandler.ResetPassword)
			auth.GET("/me", d.authMiddleware, d.authHandler.GetMe)
			auth.POST("/change-password", d.authMiddleware, d.authHandler.ChangePassword)
		}

		// User routes (protected)
		users := v1.Group("/users")
		users.Use(d.authMiddleware)
		{
			users.GET("/me", d.authHandler.GetMe)
			users.PUT("/me", d.authHandler.UpdateProfile)
			users.DELETE("/me", d.authHandler.DeleteAccount)
		}

		// Onboarding routes (protected)
		onboarding := v1.Group("/onboarding")
		onboarding.Use(d.authMiddleware, middleware.RequireUserType(string(entities.UserTypeInvestor)))
		{
			onboarding.GET("", d.onboardingHandler.GetProgress)
			onboarding.PUT("", d.onboardingHandler.SaveStep)
			// A repeated Idempotency-Key replays the first response; without the key a second submit is a 400.
			onboarding.POST("/submit", middleware.IdempotencyMiddleware(), d.onboardingHandler.Submit)
		}
	}
}
