package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"innovation_hunt/internal/model"
	"innovation_hunt/internal/repository"
)

const (
	userIDLength   = 8
	userIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// idAllocationAttempts bounds user_id collision retries.
	idAllocationAttempts = 5
)

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func generateUserID() (string, error) {
	max := big.NewInt(int64(len(userIDAlphabet)))
	id := make([]byte, userIDLength)
	for i := range id {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		id[i] = userIDAlphabet[n.Int64()]
	}
	return string(id), nil
}

// EnsureUser returns the user for phone, creating one on first contact.
// Idempotent: repeated calls with the same phone return the same user_id.
func (s *UserService) EnsureUser(ctx context.Context, phone string) (*model.User, error) {
	user, err := s.repo.GetUserByPhone(ctx, phone)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	for attempt := 0; attempt < idAllocationAttempts; attempt++ {
		userID, err := generateUserID()
		if err != nil {
			return nil, err
		}

		u := &model.User{
			PhoneNumber: phone,
			UserID:      userID,
			CreatedAt:   time.Now().UTC(),
		}
		err = s.repo.CreateUser(ctx, u)
		if err == nil {
			return u, nil
		}
		if errors.Is(err, repository.ErrUserIDTaken) {
			continue
		}
		if errors.Is(err, repository.ErrUserExists) {
			// Lost a first-contact race; the winner's row is authoritative.
			return s.repo.GetUserByPhone(ctx, phone)
		}
		return nil, err
	}

	return nil, ErrIDAllocation
}

func (s *UserService) GetByPhone(ctx context.Context, phone string) (*model.User, error) {
	user, err := s.repo.GetUserByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by phone: %w", err)
	}
	return user, nil
}

func (s *UserService) GetByUserID(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.GetUserByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by user id: %w", err)
	}
	return user, nil
}

func (s *UserService) SetCategory(ctx context.Context, phone string, category model.Category) error {
	err := s.repo.SetUserCategory(ctx, phone, category)
	if err != nil {
		return fmt.Errorf("failed to set user category: %w", err)
	}
	return nil
}
