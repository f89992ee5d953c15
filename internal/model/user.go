package model

import "time"

// Category is the attendee classification derived from the profile bio.
type Category string

const (
	CategoryLead    Category = "LEAD"
	CategoryTalent  Category = "TALENT"
	CategoryPartner Category = "PARTNER"
)

// ParseCategory maps free-form model output onto a known category.
// Anything unrecognized falls back to PARTNER.
func ParseCategory(s string) Category {
	switch Category(s) {
	case CategoryLead, CategoryTalent, CategoryPartner:
		return Category(s)
	default:
		return CategoryPartner
	}
}

type User struct {
	PhoneNumber    string
	UserID         string
	Name           string
	Email          string
	LinkedInURL    string
	RawProfileText string
	Category       Category
	Points         int
	CreatedAt      time.Time
}

// ProfileComplete reports whether every onboarding field has been captured.
func (u *User) ProfileComplete() bool {
	return u != nil &&
		u.Name != "" &&
		u.Email != "" &&
		u.LinkedInURL != "" &&
		u.RawProfileText != ""
}

type Connection struct {
	ID             int64
	ConnectorPhone string
	ConnecteePhone string
	CreatedAt      time.Time
}

// ConnectionResult carries the user-facing outcome of a connect attempt.
// MessageToConnectee is only set on success and is delivered best-effort.
type ConnectionResult struct {
	OK                 bool
	MessageToConnector string
	MessageToConnectee string
	ConnecteePhone     string
}

type LeaderboardEntry struct {
	Phone  string `json:"phone"`
	Points int    `json:"points"`
}
