package repository

import (
	"context"
	"fmt"

	"innovation_hunt/internal/model"

	"github.com/redis/go-redis/v9"
)

// Leaderboard is the ranked phone->points view kept in a redis sorted set.
// It is written in lockstep with the durable users.points column but the two
// writes are not transactionally coupled.
type Leaderboard struct {
	client *redis.Client
	key    string
}

func NewLeaderboard(client *redis.Client, keyPrefix string) *Leaderboard {
	return &Leaderboard{
		client: client,
		key:    fmt.Sprintf("%s:leaderboard", keyPrefix),
	}
}

func (l *Leaderboard) IncrBy(ctx context.Context, phone string, delta int) error {
	if err := l.client.ZIncrBy(ctx, l.key, float64(delta), phone).Err(); err != nil {
		return fmt.Errorf("failed to increment leaderboard: %w", err)
	}
	return nil
}

func (l *Leaderboard) Top(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit < 1 {
		limit = 1
	}
	members, err := l.client.ZRevRangeWithScores(ctx, l.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	entries := make([]model.LeaderboardEntry, 0, len(members))
	for _, m := range members {
		phone, ok := m.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, model.LeaderboardEntry{
			Phone:  phone,
			Points: int(m.Score),
		})
	}
	return entries, nil
}
