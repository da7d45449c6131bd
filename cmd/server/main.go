package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"investor-onboarding.backend/internal/config"
	"investor-onboarding.backend/internal/infrastructure/datasources/postgres"
	"investor-onboarding.backend/internal/infrastructure/jobs"
	"investor-onboarding.backend/internal/infrastructure/kyc"
	"investor-onboarding.backend/internal/infrastructure/repositories"
	"investor-onboarding.backend/internal/interfaces/http/handlers"
	"investor-onboarding.backend/internal/interfaces/http/middleware"
	"investor-onboarding.backend/internal/usecases"
	"investor-onboarding.backend/pkg/crypto"
	"investor-onboarding.backend/pkg/envelope"
	"investor-onboarding.backend/pkg/jwt"
	"investor-onboarding.backend/pkg/logger"
	"investor-onboarding.backend/pkg/mail"
	"investor-onboarding.backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(cfg config.DatabaseConfig, env string) (*gorm.DB, error) {
		sqlDB, err := postgres.NewConnection(cfg)
		if err != nil {
			return nil, err
		}
		return postgres.NewGormDB(sqlDB, env)
	}
	migrateDB       = postgres.Migrate
	newSessionStore = redis.NewSessionStore
	newMailer       = buildMailer
	runServer       = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownSignal  = func() <-chan os.Signal {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		return quit
	}
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Initialize Logger
	initLog(cfg.Server.Env)
	defer logger.Sync()
	if cfg.Server.LogLevel != "" {
		level, _ := zapcore.ParseLevel(cfg.Server.LogLevel)
		logger.SetLevel(level)
	}
	ctx := context.Background()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer func() { _ = redis.Close() }()
	logger.Info(ctx, "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	db, err := openDB(cfg.Database, cfg.Server.Env)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if cfg.Database.AutoMigrate {
		if err := migrateDB(db); err != nil {
			return err
		}
		logger.Info(ctx, "Database schema migrated")
	}

	crypto.SetHashCost(cfg.Security.BcryptCost)

	// Initialize token services
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.AccessExpiry)
	sealer, err := envelope.NewSealer(cfg.Tokens.ResetEnvelopeSecret, cfg.JWT.Issuer)
	if err != nil {
		return fmt.Errorf("failed to initialize reset envelope sealer: %w", err)
	}

	// Initialize Session Store
	sessionStore, err := newSessionStore(cfg.Security.SessionEncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}

	mailer, err := newMailer(cfg.SMTP)
	if err != nil {
		return fmt.Errorf("failed to initialize mailer: %w", err)
	}

	kycIntake, err := buildKycIntake(cfg.KYC)
	if err != nil {
		return fmt.Errorf("failed to initialize kyc provider: %w", err)
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	onboardingRepo := repositories.NewOnboardingRepository(db)
	profileRepo := repositories.NewInvestmentProfileRepository(db)
	kycRepo := repositories.NewKycRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Initialize usecases
	settings := usecases.Settings{
		AppName:              cfg.App.Name,
		FrontendURL:          cfg.App.FrontendURL,
		RefreshTokenTTL:      cfg.JWT.RefreshExpiry,
		EmailVerificationTTL: cfg.Tokens.EmailVerificationExpiry,
		PasswordResetTTL:     cfg.Tokens.PasswordResetExpiry,
	}
	notifier := usecases.NewNotifier(mailer, settings)
	refreshManager := usecases.NewRefreshTokenManager(userRepo, uow, jwtService, settings)
	verificationFlow := usecases.NewEmailVerificationFlow(userRepo, notifier, settings)
	resetFlow := usecases.NewPasswordResetFlow(userRepo, sealer, notifier, settings)
	authUsecase := usecases.NewAuthUsecase(userRepo, refreshManager, verificationFlow, resetFlow, sessionStore, notifier, settings)
	onboardingUsecase := usecases.NewOnboardingUsecase(userRepo, onboardingRepo, profileRepo, kycRepo, uow, kycIntake, settings)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	onboardingHandler := handlers.NewOnboardingHandler(onboardingUsecase)

	// Start background jobs
	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	cleanupJob := jobs.NewTokenCleanupJob(userRepo, cfg.Jobs.TokenCleanupInterval)
	go cleanupJob.Start(jobCtx)
	defer cleanupJob.Stop()

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r, cfg.Server.AllowedOrigins)
	registerHealthRoute(r, func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
	registerMetricsRoute(r)
	registerAPIV1Routes(r, cfg.Server.APIPrefix, routeDeps{
		authHandler:       authHandler,
		onboardingHandler: onboardingHandler,
		authMiddleware:    middleware.AuthMiddleware(jwtService, sessionStore),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		<-shutdownSignal()
		logger.Info(ctx, "Shutting down server")
		cleanupJob.Stop()
		cancel()
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "Server shutdown failed", zap.Error(err))
		}
	}()

	// Start server
	logger.Info(ctx, "Investor onboarding backend starting",
		zap.String("port", cfg.Server.Port),
		zap.String("api", cfg.Server.APIPrefix),
	)

	if err := runServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// buildMailer returns an SMTP mailer when enabled and a logging mailer otherwise.
func buildMailer(cfg config.SMTPConfig) (mail.Mailer, error) {
	if !cfg.Enabled {
		return mail.NewLogMailer(logger.GetLogger()), nil
	}
	return mail.NewSMTPMailer(mail.SMTPSettings{
		Enabled:  cfg.Enabled,
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.From,
		UseTLS:   cfg.UseTLS,
		Timeout:  cfg.Timeout,
	})
}

func buildKycIntake(cfg config.KYCConfig) (usecases.KycIntake, error) {
	switch cfg.Provider {
	case config.KYCProviderHTTP:
		provider, err := kyc.NewHTTPProvider(cfg.URL, cfg.APIKey, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return provider, nil
	case config.KYCProviderPassthrough, "":
		return usecases.NewPassthroughKycIntake(), nil
	default:
		return nil, fmt.Errorf("unknown kyc provider %q", cfg.Provider)
	}
}
