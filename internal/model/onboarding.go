package model

// OnboardingStep is the registration state machine position for a phone.
// Steps advance strictly in order; there is no skipping and no going back.
type OnboardingStep string

const (
	StepName     OnboardingStep = "name"
	StepEmail    OnboardingStep = "email"
	StepLinkedIn OnboardingStep = "linkedin"
	StepAbout    OnboardingStep = "about"
	StepDone     OnboardingStep = "done"
)
