package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	domainerrors "investor-onboarding.backend/internal/domain/errors"
	"investor-onboarding.backend/internal/interfaces/http/response"
	"investor-onboarding.backend/pkg/jwt"
	"investor-onboarding.backend/pkg/logger"
	"investor-onboarding.backend/pkg/redis"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// SessionHeader carries a login session id instead of a bearer token
	SessionHeader = "X-Session-Id"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// UserIDKey is the context key for user ID
	UserIDKey = "userId"
	// UserEmailKey is the context key for user email
	UserEmailKey = "userEmail"
	// UserTypeKey is the context key for user type
	UserTypeKey = "userType"
)

// TokenValidator validates access tokens
type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// SessionReader resolves login sessions
type SessionReader interface {
	GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error)
}

// AuthMiddleware authenticates with a bearer access token, or with the
// access token held by a login session. sessions may be nil.
func AuthMiddleware(tokens TokenValidator, sessions SessionReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := extractToken(c, sessions)
		if err != nil {
			logger.Info(c.Request.Context(), "Authentication failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
			response.Error(c, err)
			return
		}

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			logger.Info(c.Request.Context(), "Authentication failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
			if errors.Is(err, jwt.ErrExpiredToken) {
				response.Error(c, domainerrors.NewAppError(domainerrors.KindUnauthorized, domainerrors.CodeTokenExpired, "token has expired", domainerrors.ErrTokenExpired))
				return
			}
			response.Error(c, domainerrors.NewAppError(domainerrors.KindUnauthorized, domainerrors.CodeUnauthorized, "invalid token", domainerrors.ErrInvalidToken))
			return
		}

		// Set user info in context
		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)
		c.Set(UserTypeKey, claims.UserType)
		ctx := context.WithValue(c.Request.Context(), logger.UserIDKey, claims.UserID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func extractToken(c *gin.Context, sessions SessionReader) (string, error) {
	if sessionID := strings.TrimSpace(c.GetHeader(SessionHeader)); sessionID != "" {
		if sessions == nil {
			return "", domainerrors.Unauthorized("login sessions are not enabled")
		}
		session, err := sessions.GetSession(c.Request.Context(), sessionID)
		if err != nil {
			if errors.Is(err, redis.ErrSessionNotFound) {
				return "", domainerrors.Unauthorized("session not found or expired")
			}
			return "", err
		}
		return session.AccessToken, nil
	}

	authHeader := c.GetHeader(AuthorizationHeader)
	if authHeader == "" {
		return "", domainerrors.Unauthorized("authorization header is required")
	}
	if !strings.HasPrefix(authHeader, BearerPrefix) {
		return "", domainerrors.Unauthorized("invalid authorization format, use: Bearer <token>")
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, BearerPrefix)), nil
}

// GetUserID gets the user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// RequireUserType rejects authenticated users of any other type
func RequireUserType(types ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userType := c.GetString(UserTypeKey)
		for _, t := range types {
			if userType == t {
				c.Next()
				return
			}
		}
		response.Error(c, domainerrors.Forbidden("insufficient permissions"))
	}
}
