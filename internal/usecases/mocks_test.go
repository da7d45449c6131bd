package usecases_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"investor-onboarding.backend/internal/domain/entities"
	domainerrors "investor-onboarding.backend/internal/domain/errors"
	"investor-onboarding.backend/pkg/mail"
	"investor-onboarding.backend/pkg/redis"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByRefreshTokenHash(ctx context.Context, hash string) (*entities.User, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// Mock OnboardingRepository
type MockOnboardingRepository struct {
	mock.Mock
}

func (m *MockOnboardingRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.UserOnboarding, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserOnboarding), args.Error(1)
}

func (m *MockOnboardingRepository) Save(ctx context.Context, onboarding *entities.UserOnboarding) error {
	return m.Called(ctx, onboarding).Error(0)
}

// Mock InvestmentProfileRepository
type MockInvestmentProfileRepository struct {
	mock.Mock
}

func (m *MockInvestmentProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.UserInvestmentProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserInvestmentProfile), args.Error(1)
}

func (m *MockInvestmentProfileRepository) Save(ctx context.Context, profile *entities.UserInvestmentProfile) error {
	return m.Called(ctx, profile).Error(0)
}

// Mock KycRepository
type MockKycRepository struct {
	mock.Mock
}

func (m *MockKycRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.UserKyc, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserKyc), args.Error(1)
}

func (m *MockKycRepository) Save(ctx context.Context, kyc *entities.UserKyc) error {
	return m.Called(ctx, kyc).Error(0)
}

// Mock KycIntake
type MockKycIntake struct {
	mock.Mock
}

func (m *MockKycIntake) Process(ctx context.Context, input entities.KycInput) (*entities.KycResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.KycResult), args.Error(1)
}

// Mock SessionStore
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) CreateSession(ctx context.Context, sessionID string, data *redis.SessionData, expiration time.Duration) error {
	return m.Called(ctx, sessionID, data, expiration).Error(0)
}

func (m *MockSessionStore) GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*redis.SessionData), args.Error(1)
}

func (m *MockSessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

// captureMailer records every message it is asked to send
type captureMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (c *captureMailer) Send(_ context.Context, msg mail.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
	return c.err
}

func (c *captureMailer) last() mail.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.sent) == 0 {
		return mail.Message{}
	}
	return c.sent[len(c.sent)-1]
}

// memUserRepo is an in-memory UserRepository indexed like the real one
type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]entities.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[uuid.UUID]entities.User{}}
}

func (r *memUserRepo) Create(_ context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return domainerrors.ErrAlreadyExists
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return &u, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	return r.find(func(u entities.User) bool { return u.Email == email })
}

func (r *memUserRepo) GetByRefreshTokenHash(_ context.Context, hash string) (*entities.User, error) {
	hash = strings.ToLower(hash)
	if hash == "" {
		return nil, domainerrors.ErrNotFound
	}
	return r.find(func(u entities.User) bool { return u.RefreshTokenHash.Valid && u.RefreshTokenHash.String == hash })
}

func (r *memUserRepo) Update(_ context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return domainerrors.ErrNotFound
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) ClearExpiredTokens(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (r *memUserRepo) find(match func(entities.User) bool) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

// directUnitOfWork runs fn inline
type directUnitOfWork struct{}

func (directUnitOfWork) Do(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}
