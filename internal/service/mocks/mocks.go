package mocks

import (
	"context"

	"innovation_hunt/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByPhone(ctx context.Context, phone string) (*model.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByUserID(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) SetUserName(ctx context.Context, phone, name string) error {
	args := m.Called(ctx, phone, name)
	return args.Error(0)
}

func (m *MockUserRepository) SetUserEmail(ctx context.Context, phone, email string) error {
	args := m.Called(ctx, phone, email)
	return args.Error(0)
}

func (m *MockUserRepository) SetUserLinkedIn(ctx context.Context, phone, url string) error {
	args := m.Called(ctx, phone, url)
	return args.Error(0)
}

func (m *MockUserRepository) SetUserAbout(ctx context.Context, phone, text string) error {
	args := m.Called(ctx, phone, text)
	return args.Error(0)
}

func (m *MockUserRepository) SetUserCategory(ctx context.Context, phone string, category model.Category) error {
	args := m.Called(ctx, phone, category)
	return args.Error(0)
}

func (m *MockUserRepository) AddUserPoints(ctx context.Context, phone string, delta int) (int, error) {
	args := m.Called(ctx, phone, delta)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) GetTopUsers(ctx context.Context, limit int) ([]*model.User, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

type MockConnectionRepository struct {
	mock.Mock
}

func (m *MockConnectionRepository) CreateConnection(ctx context.Context, connectorPhone, connecteePhone string) error {
	args := m.Called(ctx, connectorPhone, connecteePhone)
	return args.Error(0)
}

type MockOnboardingStateRepository struct {
	mock.Mock
}

func (m *MockOnboardingStateRepository) GetStep(ctx context.Context, phone string) (model.OnboardingStep, error) {
	args := m.Called(ctx, phone)
	if s, ok := args.Get(0).(string); ok {
		return model.OnboardingStep(s), args.Error(1)
	}
	return args.Get(0).(model.OnboardingStep), args.Error(1)
}

func (m *MockOnboardingStateRepository) SetStep(ctx context.Context, phone string, step model.OnboardingStep) error {
	args := m.Called(ctx, phone, step)
	return args.Error(0)
}

func (m *MockOnboardingStateRepository) ClearStep(ctx context.Context, phone string) error {
	args := m.Called(ctx, phone)
	return args.Error(0)
}

type MockLeaderboardRepository struct {
	mock.Mock
}

func (m *MockLeaderboardRepository) IncrBy(ctx context.Context, phone string, delta int) error {
	args := m.Called(ctx, phone, delta)
	return args.Error(0)
}

func (m *MockLeaderboardRepository) Top(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LeaderboardEntry), args.Error(1)
}

type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) EnsureUser(ctx context.Context, phone string) (*model.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserDirectory) GetByUserID(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
