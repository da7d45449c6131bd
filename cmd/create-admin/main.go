package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"investor-onboarding.backend/internal/config"
	"investor-onboarding.backend/internal/domain/entities"
	domainerrors "investor-onboarding.backend/internal/domain/errors"
	domainrepo "investor-onboarding.backend/internal/domain/repositories"
	"investor-onboarding.backend/internal/infrastructure/datasources/postgres"
	"investor-onboarding.backend/internal/infrastructure/repositories"
	"investor-onboarding.backend/pkg/crypto"
	"investor-onboarding.backend/pkg/utils"
	"investor-onboarding.backend/pkg/validator"
)

const actor = "create-admin"

var openAdminDB = func(cfg config.DatabaseConfig) (*gorm.DB, io.Closer, error) {
	sqlDB, err := postgres.NewConnection(cfg)
	if err != nil {
		return nil, nil, err
	}
	db, err := postgres.NewGormDB(sqlDB, "production")
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}
	return db, sqlDB, nil
}

type createAdminDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	prepare func(cfg *config.Config) (domainrepo.UserRepository, io.Closer, error)
	now     func() time.Time
	out     io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func defaultCreateAdminDeps() createAdminDeps {
	return createAdminDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: func(cfg *config.Config) (domainrepo.UserRepository, io.Closer, error) {
			db, closer, err := openAdminDB(cfg.Database)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to connect db: %w", err)
			}
			crypto.SetHashCost(cfg.Security.BcryptCost)
			return repositories.NewUserRepository(db), closer, nil
		},
		now: time.Now,
		out: os.Stdout,
	}
}

type adminInput struct {
	email     string
	password  string
	firstName string
	lastName  string
}

func parseAdminInput(args []string) (adminInput, error) {
	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	email := fs.String("email", "", "admin email (required)")
	password := fs.String("password", "", "admin password, required unless the user exists")
	firstName := fs.String("first-name", "Admin", "first name for a new account")
	lastName := fs.String("last-name", "User", "last name for a new account")
	if err := fs.Parse(args); err != nil {
		return adminInput{}, err
	}

	in := adminInput{
		email:     strings.TrimSpace(*email),
		password:  *password,
		firstName: strings.TrimSpace(*firstName),
		lastName:  strings.TrimSpace(*lastName),
	}
	if in.email == "" {
		return adminInput{}, errors.New("--email is required")
	}
	if in.password != "" && !validator.IsStrongPassword(in.password) {
		return adminInput{}, errors.New("--password does not satisfy the password policy")
	}
	return in, nil
}

// runCreateAdmin creates a verified ADMIN account, or promotes an existing
// account with the same email.
func runCreateAdmin(args []string, deps createAdminDeps) error {
	def := defaultCreateAdminDeps()
	if deps.loadEnv == nil {
		deps.loadEnv = def.loadEnv
	}
	if deps.loadCfg == nil {
		deps.loadCfg = def.loadCfg
	}
	if deps.prepare == nil {
		deps.prepare = def.prepare
	}
	if deps.now == nil {
		deps.now = def.now
	}
	if deps.out == nil {
		deps.out = def.out
	}

	in, err := parseAdminInput(args)
	if err != nil {
		return err
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := deps.loadCfg()
	users, closer, err := deps.prepare(cfg)
	if err != nil {
		return err
	}
	if closer == nil {
		closer = nopCloser{}
	}
	defer closer.Close()

	ctx := context.Background()
	now := deps.now().UTC()

	existing, err := users.GetByEmail(ctx, in.email)
	switch {
	case err == nil:
		existing.UserType = entities.UserTypeAdmin
		existing.IsEmailVerified = true
		existing.ClearEmailVerification()
		existing.Touch(now, actor)
		if err := users.Update(ctx, existing); err != nil {
			return fmt.Errorf("failed to promote user: %w", err)
		}
		_, _ = fmt.Fprintf(deps.out, "Promoted %s to ADMIN\nuser_id=%s\n", existing.Email, existing.ID)
		return nil
	case !errors.Is(err, domainerrors.ErrNotFound):
		return fmt.Errorf("failed to load user %s: %w", in.email, err)
	}

	if in.password == "" {
		return errors.New("--password is required to create a new admin")
	}

	// Hash password
	hash, err := crypto.HashPassword(in.password)
	if err != nil {
		return err
	}

	admin := &entities.User{
		ID:               utils.GenerateUUIDv7(),
		Email:            in.email,
		PasswordHash:     hash,
		UserType:         entities.UserTypeAdmin,
		IsEmailVerified:  true,
		FirstName:        in.firstName,
		LastName:         in.lastName,
		HasAgreedToTerms: true,
		CreatedAt:        now,
		CreatedBy:        null.StringFrom(actor),
	}
	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	_, _ = fmt.Fprintf(deps.out, "Created ADMIN %s\nuser_id=%s\n", admin.Email, admin.ID)
	return nil
}

func main() {
	if err := runCreateAdmin(os.Args[1:], defaultCreateAdminDeps()); err != nil {
		log.Fatal(err)
	}
}
