package service

import (
	"context"
	"testing"

	"innovation_hunt/internal/model"
	"innovation_hunt/internal/repository"
	"innovation_hunt/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const phone = "whatsapp:+550001"

func TestOnboardingService_Start(t *testing.T) {
	tests := []struct {
		name          string
		mockSetup     func(users *mocks.MockUserRepository, states *mocks.MockOnboardingStateRepository)
		expectedReply string
	}{
		{
			name: "new user is prompted for name",
			mockSetup: func(users *mocks.MockUserRepository, states *mocks.MockOnboardingStateRepository) {
				users.On("GetUserByPhone", mock.Anything, phone).
					Return(&model.User{PhoneNumber: phone, UserID: "ABC12345"}, nil)
				states.On("SetStep", mock.Anything, phone, model.StepName).Return(nil)
			},
			expectedReply: ReplyWelcome,
		},
		{
			name: "complete profile short-circuits to done",
			mockSetup: func(users *mocks.MockUserRepository, states *mocks.MockOnboardingStateRepository) {
				users.On("GetUserByPhone", mock.Anything, phone).
					Return(completeUser(), nil)
				states.On("SetStep", mock.Anything, phone, model.StepDone).Return(nil)
			},
			expectedReply: ReplyAlreadyRegistered,
		},
		{
			name: "missing user still starts the flow",
			mockSetup: func(users *mocks.MockUserRepository, states *mocks.MockOnboardingStateRepository) {
				users.On("GetUserByPhone", mock.Anything, phone).
					Return(nil, repository.ErrNotFound)
				states.On("SetStep", mock.Anything, phone, model.StepName).Return(nil)
			},
			expectedReply: ReplyWelcome,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mocks.MockUserRepository{}
			states := &mocks.MockOnboardingStateRepository{}
			tt.mockSetup(users, states)
			service := NewOnboardingService(users, states)

			reply, err := service.Start(context.Background(), phone)

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedReply, reply)
			users.AssertExpectations(t)
			states.AssertExpectations(t)
		})
	}
}

func completeUser() *model.User {
	return &model.User{
		PhoneNumber:    phone,
		UserID:         "ABC12345",
		Name:           "Ana",
		Email:          "ana@x.com",
		LinkedInURL:    "https://linkedin.com/in/ana",
		RawProfileText: "Engineer building event networking products.",
	}
}

func TestOnboardingService_HandleMessage(t *testing.T) {
	longBio := "I build backend systems for live events and meetups."

	tests := []struct {
		name          string
		text          string
		mockSetup     func(users *mocks.MockUserRepository, states *mocks.MockOnboardingStateRepository)
		expectedReply string
		expectedDone  bool
	}{
		{
			name: "unknown phone is told to join",
			text: "hello",
			mockSetup: func(users *mocks.MockUserRepository, states *mocks.MockOnboardingStateRepository) {
				users.On("GetUserByPhone", mock.Anything, phone).
					Return(nil, repository.ErrNotFound)
			},
			expectedReply: ReplyJoinFirst,
		},
		{
			name: "no state and complete profile means already registered",
			text: "hello",
			mockSetup: func(users *mocks.MockUserRepository, states *mocks.MockOnboardingStateRepository) {
				users.On("GetUserByPhone", mock.Anything, phone).
					Return(completeUser(), nil)
				states.On("GetStep", mock.Anything, phone).
					Return("", repository.ErrNotFound)
			},
			expectedReply: ReplyAlreadyRegistered,
		},
		{
			name: "no state and incomplete profile requires explicit join",
			text: "hello",
			mockSetup: func(users *mocks.MockUserRepository, states *mocks.MockOnboardingStateRepository) {
				users.On("GetUserByPhone", mock.Anything, phone).
					Return(&model.User{PhoneNumber: phone, UserID: "ABC12345"}, nil)
				states.On("GetStep", mock.Anything, phone).
					Return("", repository.ErrNotFound)
			},
			expectedReply: ReplyRequireJoin,
		},
		{
			name: "valid name advances to email",
			text: "Ana",
			mockSetup: func(users *mocks.MockUserRepository, states *mocks.MockOnboardingStateRepository) {
				users.On("GetUserByPhone", mock.Anything, phone).
					Return(&model.User{PhoneNumber: phone, UserID: "ABC12345"}, nil)
				states.On("GetStep", mock.Anything, phone).Return(model.StepName, nil)
				users.On("SetUserName", mock.Anything, phone, "Ana").Return(nil)
				states.On("SetStep", mock.Anything, phone, model.StepEmail).Return(nil)
			},
			expectedReply: ReplyAskEmail,
		},
		{
			name: "single character name is rejected without a transition",
			text: "A",
			mockSetup: func(users *mocks.MockUserRepository, states *mocks.MockOnboardingStateRepository) {
				users.On("GetUserByPhone", mock.Anything, phone).
					Return(&model.User{PhoneNumber: phone, UserID: "ABC12345"}, nil)
				states.On("GetStep", mock.Anything, phone).Return(model.StepName, nil)
			},
			expectedReply: ReplyBadName,
		},
		{
			name: "invalid email is rejected without a transition",
			text: "not-an-email",
			mockSetup: func(users *mocks.MockUserRepository, states *mocks.MockOnboardingStateRepository) {
				users.On("GetUserByPhone", mock.Anything, phone).
					Return(&model.User{PhoneNumber: phone, UserID: "ABC12345", Name: "Ana"}, nil)
				states.On("GetStep", mock.Anything, phone).Return(model.StepEmail, nil)
			},
			expectedReply: ReplyBadEmail,
		},
		{
			name: "valid email advances to linkedin",
			text: "ana@x.com",
			mockSetup: func(users *mocks.MockUserRepository, states *mocks.MockOnboardingStateRepository) {
				users.On("GetUserByPhone", mock.Anything, phone).
					Return(&model.User{PhoneNumber: phone, UserID: "ABC12345", Name: "Ana"}, nil)
				states.On("GetStep", mock.Anything, phone).Return(model.StepEmail, nil)
				users.On("SetUserEmail", mock.Anything, phone, "ana@x.com").Return(nil)
				states.On("SetStep", mock.Anything, phone, model.StepLinkedIn).Return(nil)
			},
			expectedReply: ReplyAskLinkedIn,
		},
		{
			name: "linkedin url must contain linkedin.com",
			text: "https://example.com/in/ana",
			mockSetup: func(users *mocks.MockUserRepository, states *mocks.MockOnboardingStateRepository) {
				users.On("GetUserByPhone", mock.Anything, phone).
					Return(&model.User{PhoneNumber: phone, UserID: "ABC12345", Name: "Ana", Email: "ana@x.com"}, nil)
				states.On("GetStep", mock.Anything, phone).Return(model.StepLinkedIn, nil)
			},
			expectedReply: ReplyBadLinkedIn,
		},
		{
			name: "linkedin match is case-insensitive",
			text: "https://LinkedIn.com/in/ana",
			mockSetup: func(users *mocks.MockUserRepository, states *mocks.MockOnboardingStateRepository) {
				users.On("GetUserByPhone", mock.Anything, phone).
					Return(&model.User{PhoneNumber: phone, UserID: "ABC12345", Name: "Ana", Email: "ana@x.com"}, nil)
				states.On("GetStep", mock.Anything, phone).Return(model.StepLinkedIn, nil)
				users.On("SetUserLinkedIn", mock.Anything, phone, "https://LinkedIn.com/in/ana").Return(nil)
				states.On("SetStep", mock.Anything, phone, model.StepAbout).Return(nil)
			},
			expectedReply: ReplyAskAbout,
		},
		{
			name: "short about is rejected without a transition",
			text: "too short",
			mockSetup: func(users *mocks.MockUserRepository, states *mocks.MockOnboardingStateRepository) {
				users.On("GetUserByPhone", mock.Anything, phone).
					Return(&model.User{PhoneNumber: phone, UserID: "ABC12345", Name: "Ana"}, nil)
				states.On("GetStep", mock.Anything, phone).Return(model.StepAbout, nil)
			},
			expectedReply: ReplyBadAbout,
		},
		{
			name: "about completion clears state and signals the caller",
			text: longBio,
			mockSetup: func(users *mocks.MockUserRepository, states *mocks.MockOnboardingStateRepository) {
				users.On("GetUserByPhone", mock.Anything, phone).
					Return(&model.User{PhoneNumber: phone, UserID: "ABC12345", Name: "Ana"}, nil)
				states.On("GetStep", mock.Anything, phone).Return(model.StepAbout, nil)
				users.On("SetUserAbout", mock.Anything, phone, longBio).Return(nil)
				states.On("ClearStep", mock.Anything, phone).Return(nil)
			},
			expectedReply: ReplyRegistered,
			expectedDone:  true,
		},
		{
			name: "about-shaped answer in NAME state is treated as a name",
			text: longBio,
			mockSetup: func(users *mocks.MockUserRepository, states *mocks.MockOnboardingStateRepository) {
				users.On("GetUserByPhone", mock.Anything, phone).
					Return(&model.User{PhoneNumber: phone, UserID: "ABC12345"}, nil)
				states.On("GetStep", mock.Anything, phone).Return(model.StepName, nil)
				users.On("SetUserName", mock.Anything, phone, longBio).Return(nil)
				states.On("SetStep", mock.Anything, phone, model.StepEmail).Return(nil)
			},
			// The machine never skips: the text is consumed by the current
			// step and the flow still has to pass EMAIL and LINKEDIN.
			expectedReply: ReplyAskEmail,
		},
		{
			name: "done state falls back to the usage hint",
			text: "hello",
			mockSetup: func(users *mocks.MockUserRepository, states *mocks.MockOnboardingStateRepository) {
				users.On("GetUserByPhone", mock.Anything, phone).
					Return(completeUser(), nil)
				states.On("GetStep", mock.Anything, phone).Return(model.StepDone, nil)
			},
			expectedReply: ReplyFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mocks.MockUserRepository{}
			states := &mocks.MockOnboardingStateRepository{}
			tt.mockSetup(users, states)
			service := NewOnboardingService(users, states)

			reply, done, err := service.HandleMessage(context.Background(), phone, tt.text)

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedReply, reply)
			assert.Equal(t, tt.expectedDone, done)
			users.AssertExpectations(t)
			states.AssertExpectations(t)
		})
	}
}

// memStates is an in-memory stand-in for the redis-backed step store, used
// to drive a whole conversation end to end.
type memStates struct {
	steps map[string]model.OnboardingStep
}

func newMemStates() *memStates {
	return &memStates{steps: make(map[string]model.OnboardingStep)}
}

func (m *memStates) GetStep(_ context.Context, phone string) (model.OnboardingStep, error) {
	step, ok := m.steps[phone]
	if !ok {
		return "", repository.ErrNotFound
	}
	return step, nil
}

func (m *memStates) SetStep(_ context.Context, phone string, step model.OnboardingStep) error {
	m.steps[phone] = step
	return nil
}

func (m *memStates) ClearStep(_ context.Context, phone string) error {
	delete(m.steps, phone)
	return nil
}

// Walks the whole scripted conversation for one phone, the way the webhook
// would drive it.
func TestOnboardingService_FullFlow(t *testing.T) {
	users := &mocks.MockUserRepository{}
	states := newMemStates()
	service := NewOnboardingService(users, states)
	ctx := context.Background()

	u := &model.User{PhoneNumber: phone, UserID: "ABC12345"}
	users.On("GetUserByPhone", mock.Anything, phone).Return(u, nil)

	users.On("SetUserName", mock.Anything, phone, "Ana").
		Run(func(mock.Arguments) { u.Name = "Ana" }).Return(nil)
	users.On("SetUserEmail", mock.Anything, phone, "ana@x.com").
		Run(func(mock.Arguments) { u.Email = "ana@x.com" }).Return(nil)
	users.On("SetUserLinkedIn", mock.Anything, phone, "https://linkedin.com/in/ana").
		Run(func(mock.Arguments) { u.LinkedInURL = "https://linkedin.com/in/ana" }).Return(nil)
	bio := "Ana builds products for communities and events."
	users.On("SetUserAbout", mock.Anything, phone, bio).
		Run(func(mock.Arguments) { u.RawProfileText = bio }).Return(nil)

	reply, err := service.Start(ctx, phone)
	assert.NoError(t, err)
	assert.Equal(t, ReplyWelcome, reply)

	reply, done, err := service.HandleMessage(ctx, phone, "Ana")
	assert.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, ReplyAskEmail, reply)

	reply, done, err = service.HandleMessage(ctx, phone, "not-an-email")
	assert.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, ReplyBadEmail, reply)

	reply, done, err = service.HandleMessage(ctx, phone, "ana@x.com")
	assert.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, ReplyAskLinkedIn, reply)

	reply, done, err = service.HandleMessage(ctx, phone, "https://linkedin.com/in/ana")
	assert.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, ReplyAskAbout, reply)

	reply, done, err = service.HandleMessage(ctx, phone, bio)
	assert.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, ReplyRegistered, reply)

	// After completion the state record is gone and the profile is full,
	// so stray text reads as already-registered.
	reply, done, err = service.HandleMessage(ctx, phone, "hello again")
	assert.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, ReplyAlreadyRegistered, reply)
}
