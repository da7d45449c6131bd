package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"investor-onboarding.backend/pkg/jwt"
	"investor-onboarding.backend/pkg/logger"
	"investor-onboarding.backend/pkg/redis"
)

type stubSessions struct {
	sessions map[string]*redis.SessionData
}

func (s stubSessions) GetSession(_ context.Context, id string) (*redis.SessionData, error) {
	if data, ok := s.sessions[id]; ok {
		return data, nil
	}
	return nil, redis.ErrSessionNotFound
}

func newAuthRouter(tokens TokenValidator, sessions SessionReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(tokens, sessions), func(c *gin.Context) {
		id, ok := GetUserID(c)
		email := c.GetString(UserEmailKey)
		loggedID, _ := c.Request.Context().Value(logger.UserIDKey).(string)
		c.JSON(http.StatusOK, gin.H{"id": id.String(), "ok": ok, "email": email, "logged": loggedID})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	svc := jwt.NewJWTService("middleware-test-secret", "iss", "aud", time.Minute)
	userID := uuid.New()
	token, err := svc.GenerateAccessToken(jwt.Subject{UserID: userID, Email: "a@b.com", UserType: "INVESTOR", IsEmailVerified: true})
	require.NoError(t, err)

	other := jwt.NewJWTService("some-other-secret", "iss", "aud", time.Minute)
	foreign, err := other.GenerateAccessToken(jwt.Subject{UserID: userID})
	require.NoError(t, err)

	sessions := stubSessions{sessions: map[string]*redis.SessionData{
		"good":  {UserID: userID.String(), AccessToken: token},
		"stale": {UserID: userID.String(), AccessToken: "garbage"},
	}}
	r := newAuthRouter(svc, sessions)

	cases := []struct {
		name    string
		headers map[string]string
		status  int
		body    string
	}{
		{"missing header", nil, http.StatusUnauthorized, "authorization header is required"},
		{"wrong scheme", map[string]string{AuthorizationHeader: "Token abc"}, http.StatusUnauthorized, "invalid authorization format"},
		{"invalid token", map[string]string{AuthorizationHeader: BearerPrefix + "abc"}, http.StatusUnauthorized, "invalid token"},
		{"foreign signature", map[string]string{AuthorizationHeader: BearerPrefix + foreign}, http.StatusUnauthorized, "invalid token"},
		{"valid bearer", map[string]string{AuthorizationHeader: BearerPrefix + token}, http.StatusOK, userID.String()},
		{"valid session", map[string]string{SessionHeader: "good"}, http.StatusOK, userID.String()},
		{"unknown session", map[string]string{SessionHeader: "nope"}, http.StatusUnauthorized, "session not found"},
		{"stale session token", map[string]string{SessionHeader: "stale"}, http.StatusUnauthorized, "invalid token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
			assert.Contains(t, w.Body.String(), tc.body)
		})
	}
}

func TestAuthMiddleware_SetsContext(t *testing.T) {
	svc := jwt.NewJWTService("middleware-test-secret", "iss", "aud", time.Minute)
	userID := uuid.New()
	token, err := svc.GenerateAccessToken(jwt.Subject{UserID: userID, Email: "a@b.com"})
	require.NoError(t, err)

	r := newAuthRouter(svc, nil)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"`+userID.String()+`","ok":true,"email":"a@b.com","logged":"`+userID.String()+`"}`, w.Body.String())
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	svc := jwt.NewJWTService("middleware-test-secret", "iss", "aud", -time.Minute)
	token, err := svc.GenerateAccessToken(jwt.Subject{UserID: uuid.New()})
	require.NoError(t, err)

	r := newAuthRouter(svc, nil)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_TOKEN_EXPIRED")
}

func TestAuthMiddleware_SessionsDisabled(t *testing.T) {
	svc := jwt.NewJWTService("middleware-test-secret", "iss", "aud", time.Minute)
	r := newAuthRouter(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(SessionHeader, "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetUserID_Missing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := GetUserID(c)
	assert.False(t, ok)

	c.Set(UserIDKey, "not-a-uuid")
	_, ok = GetUserID(c)
	assert.False(t, ok)
}

func TestRequireUserType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", func(c *gin.Context) {
		c.Set(UserTypeKey, c.Query("type"))
		c.Next()
	}, RequireUserType("ADMIN"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin?type=ADMIN", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin?type=INVESTOR", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
