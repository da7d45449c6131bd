package main

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"investor-onboarding.backend/internal/interfaces/http/middleware"
)

const (
	serviceName    = "investor-onboarding-backend"
	serviceVersion = "0.1.0"
)

var corsAllowedHeaders = strings.Join([]string{
	"Accept",
	"Authorization",
	"Content-Type",
	middleware.RequestIDHeader,
	middleware.SessionHeader,
	middleware.IdempotencyHeader,
}, ", ")

func applyCORSMiddleware(r *gin.Engine, allowedOrigins []string) {
	allowAny := len(allowedOrigins) == 0
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAny = true
		}
		allowed[origin] = struct{}{}
	}

	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := allowed[origin]; ok || allowAny {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
			}
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", corsAllowedHeaders)
		c.Header("Access-Control-Expose-Headers", middleware.RequestIDHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

// registerHealthRoute reports liveness, and database readiness when ping is set.
func registerHealthRoute(r *gin.Engine, ping func(ctx context.Context) error) {
	r.GET("/health", func(c *gin.Context) {
		body := gin.H{
			"status":  "ok",
			"service": serviceName,
			"version": serviceVersion,
		}
		if ping != nil {
			if err := ping(c.Request.Context()); err != nil {
				body["status"] = "degraded"
				body["database"] = "unavailable"
				c.JSON(http.StatusServiceUnavailable, body)
				return
			}
			body["database"] = "ok"
		}
		c.JSON(http.StatusOK, body)
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
