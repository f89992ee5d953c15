package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"innovation_hunt/internal/model"
	"innovation_hunt/internal/repository"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Reply texts for the scripted registration conversation.
const (
	ReplyWelcome           = "Welcome to Innovation Hunt! What's your *name*?"
	ReplyAlreadyRegistered = "You're already registered. Send CONNECT_<ID> from someone else's QR to play."
	ReplyJoinFirst         = "Please send 'join' to start."
	ReplyRequireJoin       = "Send 'join' to start registration."
	ReplyBadName           = "Please send a valid name."
	ReplyAskEmail          = "Thanks! Now your *email*?"
	ReplyBadEmail          = "That doesn't look like an email. Try again."
	ReplyAskLinkedIn       = "Great. Send your *LinkedIn URL*."
	ReplyBadLinkedIn       = "Please send a valid LinkedIn URL (must contain linkedin.com)."
	ReplyAskAbout          = "Almost done! Paste your LinkedIn *About* section (or a short bio).\n" +
		"This is used only for AI categorization."
	ReplyBadAbout   = "Please paste a bit more (at least ~30 characters)."
	ReplyRegistered = "Registered! I'll categorize your profile shortly and send you your QR."
	ReplyFallback   = "Send 'join' to register or CONNECT_<ID> to connect."
)

// OnboardingService walks a phone through the registration steps
// NAME -> EMAIL -> LINKEDIN -> ABOUT -> DONE. Each field is committed
// durably before the step pointer advances, so a failed commit never
// leaves a half-finished transition.
type OnboardingService struct {
	users  UserRepository
	states OnboardingStateRepository
}

func NewOnboardingService(users UserRepository, states OnboardingStateRepository) *OnboardingService {
	return &OnboardingService{
		users:  users,
		states: states,
	}
}

// Start begins (or short-circuits) onboarding for a phone. It never creates
// the user; EnsureUser runs upstream of every inbound message.
func (s *OnboardingService) Start(ctx context.Context, phone string) (string, error) {
	user, err := s.users.GetUserByPhone(ctx, phone)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	if user.ProfileComplete() {
		if err := s.states.SetStep(ctx, phone, model.StepDone); err != nil {
			return "", err
		}
		return ReplyAlreadyRegistered, nil
	}

	if err := s.states.SetStep(ctx, phone, model.StepName); err != nil {
		return "", err
	}
	return ReplyWelcome, nil
}

// HandleMessage advances the state machine with one inbound text. The
// returned bool signals that the ABOUT step just completed and the caller
// should trigger categorization and QR delivery.
func (s *OnboardingService) HandleMessage(ctx context.Context, phone, text string) (string, bool, error) {
	user, err := s.users.GetUserByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ReplyJoinFirst, false, nil
		}
		return "", false, fmt.Errorf("failed to look up user: %w", err)
	}

	step, err := s.states.GetStep(ctx, phone)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return "", false, err
		}
		// No state record: a completed profile means "already registered",
		// anything else requires an explicit join so stray messages don't
		// resume a flow.
		if user.ProfileComplete() {
			return ReplyAlreadyRegistered, false, nil
		}
		return ReplyRequireJoin, false, nil
	}

	text = strings.TrimSpace(text)

	switch step {
	case model.StepName:
		if len(text) < 2 {
			return ReplyBadName, false, nil
		}
		if err := s.users.SetUserName(ctx, phone, text); err != nil {
			return "", false, err
		}
		if err := s.states.SetStep(ctx, phone, model.StepEmail); err != nil {
			return "", false, err
		}
		return ReplyAskEmail, false, nil

	case model.StepEmail:
		if !emailRe.MatchString(text) {
			return ReplyBadEmail, false, nil
		}
		if err := s.users.SetUserEmail(ctx, phone, text); err != nil {
			return "", false, err
		}
		if err := s.states.SetStep(ctx, phone, model.StepLinkedIn); err != nil {
			return "", false, err
		}
		return ReplyAskLinkedIn, false, nil

	case model.StepLinkedIn:
		if !strings.Contains(strings.ToLower(text), "linkedin.com") {
			return ReplyBadLinkedIn, false, nil
		}
		if err := s.users.SetUserLinkedIn(ctx, phone, text); err != nil {
			return "", false, err
		}
		if err := s.states.SetStep(ctx, phone, model.StepAbout); err != nil {
			return "", false, err
		}
		return ReplyAskAbout, false, nil

	case model.StepAbout:
		if len(text) < 30 {
			return ReplyBadAbout, false, nil
		}
		if err := s.users.SetUserAbout(ctx, phone, text); err != nil {
			return "", false, err
		}
		// Terminal: completion clears the record; state absence plus a
		// complete profile is equivalent to DONE.
		if err := s.states.ClearStep(ctx, phone); err != nil {
			return "", false, err
		}
		return ReplyRegistered, true, nil

	default:
		return ReplyFallback, false, nil
	}
}
