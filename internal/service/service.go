package service

import (
	"context"
	"errors"

	"innovation_hunt/internal/model"
)

var (
	// ErrIDAllocation means user_id generation collided on every attempt.
	// With a 36^8 keyspace this is effectively unreachable, but it is the
	// one error in this core treated as fatal.
	ErrIDAllocation = errors.New("failed to allocate a unique user id")

	ErrUserNotFound = errors.New("user not found")
)

type Service struct {
	*UserService
	*OnboardingService
	*GameService
}

func NewService(users *UserService, onboarding *OnboardingService, game *GameService) *Service {
	return &Service{
		UserService:       users,
		OnboardingService: onboarding,
		GameService:       game,
	}
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByPhone(ctx context.Context, phone string) (*model.User, error)
	GetUserByUserID(ctx context.Context, userID string) (*model.User, error)
	SetUserName(ctx context.Context, phone, name string) error
	SetUserEmail(ctx context.Context, phone, email string) error
	SetUserLinkedIn(ctx context.Context, phone, url string) error
	SetUserAbout(ctx context.Context, phone, text string) error
	SetUserCategory(ctx context.Context, phone string, category model.Category) error
	AddUserPoints(ctx context.Context, phone string, delta int) (int, error)
	GetTopUsers(ctx context.Context, limit int) ([]*model.User, error)
}

type ConnectionRepository interface {
	CreateConnection(ctx context.Context, connectorPhone, connecteePhone string) error
}

type OnboardingStateRepository interface {
	GetStep(ctx context.Context, phone string) (model.OnboardingStep, error)
	SetStep(ctx context.Context, phone string, step model.OnboardingStep) error
	ClearStep(ctx context.Context, phone string) error
}

type LeaderboardRepository interface {
	IncrBy(ctx context.Context, phone string, delta int) error
	Top(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
}

// UserDirectory is the lookup-or-create surface the game service depends on.
// *UserService implements it.
type UserDirectory interface {
	EnsureUser(ctx context.Context, phone string) (*model.User, error)
	GetByUserID(ctx context.Context, userID string) (*model.User, error)
}
