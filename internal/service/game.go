package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"innovation_hunt/internal/model"
	"innovation_hunt/internal/repository"

	"go.uber.org/zap"
)

// DefaultConnectPoints is awarded to both sides of a new connection.
const DefaultConnectPoints = 10

var connectCodeRe = regexp.MustCompile(`^(?i:CONNECT)_([A-Za-z0-9_-]{4,32})$`)

// ParseConnectCode extracts the user_id from a CONNECT_<ID> directive,
// normalized to uppercase. The match is case-insensitive.
func ParseConnectCode(text string) (string, bool) {
	m := connectCodeRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", false
	}
	return strings.ToUpper(m[1]), true
}

type GameService struct {
	directory     UserDirectory
	users         UserRepository
	connections   ConnectionRepository
	board         LeaderboardRepository
	connectPoints int
	log           *zap.Logger
}

func NewGameService(
	directory UserDirectory,
	users UserRepository,
	connections ConnectionRepository,
	board LeaderboardRepository,
	connectPoints int,
	log *zap.Logger,
) *GameService {
	if connectPoints <= 0 {
		connectPoints = DefaultConnectPoints
	}
	return &GameService{
		directory:     directory,
		users:         users,
		connections:   connections,
		board:         board,
		connectPoints: connectPoints,
		log:           log,
	}
}

// ConnectUsers records a connector->connectee pair and awards points to both
// sides exactly once. Duplicate pairs and self-connections come back as
// non-fatal user-facing failures.
func (s *GameService) ConnectUsers(ctx context.Context, connectorPhone, connecteeUserID string) (*model.ConnectionResult, error) {
	connectorPhone = strings.TrimSpace(connectorPhone)
	if connectorPhone == "" {
		return failure("Missing WhatsApp sender."), nil
	}

	connector, err := s.directory.EnsureUser(ctx, connectorPhone)
	if err != nil {
		return nil, err
	}

	if !connector.ProfileComplete() {
		return failure("Please register first: send 'join' and complete your profile."), nil
	}

	connectee, err := s.directory.GetByUserID(ctx, connecteeUserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return failure("Invalid QR code (unknown user)."), nil
		}
		return nil, err
	}

	if connectee.PhoneNumber == connector.PhoneNumber {
		return failure("You can't connect with yourself."), nil
	}

	err = s.connections.CreateConnection(ctx, connector.PhoneNumber, connectee.PhoneNumber)
	if err != nil {
		if errors.Is(err, repository.ErrConnectionExists) {
			return failure("Connection already recorded (no extra points)."), nil
		}
		return nil, err
	}

	if _, err := s.AwardPoints(ctx, connector.PhoneNumber, s.connectPoints); err != nil {
		return nil, err
	}
	if _, err := s.AwardPoints(ctx, connectee.PhoneNumber, s.connectPoints); err != nil {
		return nil, err
	}

	connecteeName := connectee.Name
	if connecteeName == "" {
		connecteeName = "Someone"
	}
	connectorName := connector.Name
	if connectorName == "" {
		connectorName = "Someone"
	}
	linkedin := connectee.LinkedInURL
	if linkedin == "" {
		linkedin = "(No LinkedIn yet)"
	}

	return &model.ConnectionResult{
		OK: true,
		MessageToConnector: fmt.Sprintf("Connected with %s! +%d points.\nTheir LinkedIn: %s",
			connecteeName, s.connectPoints, linkedin),
		MessageToConnectee: fmt.Sprintf("You just connected with %s! +%d points.",
			connectorName, s.connectPoints),
		ConnecteePhone: connectee.PhoneNumber,
	}, nil
}

func failure(message string) *model.ConnectionResult {
	return &model.ConnectionResult{
		OK:                 false,
		MessageToConnector: message,
	}
}

// AwardPoints bumps the leaderboard entry and then the durable counter.
// The two writes are not transactionally coupled: a failed leaderboard
// write is logged and the durable counter still advances, leaving a
// divergence that the leaderboard absorbs on the next award. Returns the
// new durable value, or 0 if the user row is missing.
func (s *GameService) AwardPoints(ctx context.Context, phone string, delta int) (int, error) {
	if err := s.board.IncrBy(ctx, phone, delta); err != nil {
		s.log.Warn("leaderboard increment failed",
			zap.String("phone", phone),
			zap.Int("delta", delta),
			zap.Error(err))
	}

	points, err := s.users.AddUserPoints(ctx, phone, delta)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return points, nil
}

// Leaderboard returns the top-N ranking. The redis sorted set is
// authoritative; if it is unreachable the durable counters serve as a
// degraded fallback.
func (s *GameService) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit < 1 {
		limit = 10
	}

	entries, err := s.board.Top(ctx, limit)
	if err == nil {
		return entries, nil
	}
	s.log.Warn("leaderboard read failed, falling back to durable counters", zap.Error(err))

	users, dbErr := s.users.GetTopUsers(ctx, limit)
	if dbErr != nil {
		return nil, err
	}
	entries = make([]model.LeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = model.LeaderboardEntry{Phone: u.PhoneNumber, Points: u.Points}
	}
	return entries, nil
}
