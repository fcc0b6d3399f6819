package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// HashedPassword is nil for social-only accounts; the bcrypt hash never leaves
// the authentication layer.
type User struct {
	ID             string
	Username       string
	Email          string
	HashedPassword *string
	Name           string
	Surname        string
	Image          string

	// Onboarding profile
	Company             string
	Role                string
	Interests           []string
	Experience          string
	EmailNotifications  bool
	PushNotifications   bool
	WeeklyDigest        bool
	Bio                 string
	Timezone            string
	CompletedOnboarding bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPassword reports whether the account can sign in with credentials.
func (u *User) HasPassword() bool {
	return u.HashedPassword != nil && *u.HashedPassword != ""
}
