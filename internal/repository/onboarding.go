package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"innovation_hunt/internal/model"

	"github.com/redis/go-redis/v9"
)

// stateTTL bounds abandoned onboarding flows; the record simply expires.
const stateTTL = 24 * time.Hour

// OnboardingStates keeps each phone's registration step in a redis hash
// with a sliding 24h expiry. Absence of a key means "not onboarding".
type OnboardingStates struct {
	client *redis.Client
	prefix string
}

func NewOnboardingStates(client *redis.Client, keyPrefix string) *OnboardingStates {
	return &OnboardingStates{
		client: client,
		prefix: keyPrefix,
	}
}

func (s *OnboardingStates) key(phone string) string {
	return fmt.Sprintf("%s:onboard:%s", s.prefix, phone)
}

func (s *OnboardingStates) GetStep(ctx context.Context, phone string) (model.OnboardingStep, error) {
	step, err := s.client.HGet(ctx, s.key(phone), "step").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get onboarding step: %w", err)
	}
	return model.OnboardingStep(step), nil
}

func (s *OnboardingStates) SetStep(ctx context.Context, phone string, step model.OnboardingStep) error {
	key := s.key(phone)
	if err := s.client.HSet(ctx, key, "step", string(step)).Err(); err != nil {
		return fmt.Errorf("failed to set onboarding step: %w", err)
	}
	if err := s.client.Expire(ctx, key, stateTTL).Err(); err != nil {
		return fmt.Errorf("failed to set onboarding expiry: %w", err)
	}
	return nil
}

func (s *OnboardingStates) ClearStep(ctx context.Context, phone string) error {
	if err := s.client.Del(ctx, s.key(phone)).Err(); err != nil {
		return fmt.Errorf("failed to clear onboarding state: %w", err)
	}
	return nil
}
