package models

import "time"

// Default preference values assigned at registration.
const (
	DefaultCurrency = "USD"
	DefaultTimezone = "UTC"
	DefaultTheme    = "light"
	DefaultLanguage = "en"
)

// Preferences holds per-user display settings. There is exactly one row
// per user.
type Preferences struct {
	ID                   string    `db:"id" json:"id"`
	UserID               string    `db:"user_id" json:"user_id"`
	DefaultCurrency      string    `db:"default_currency" json:"default_currency"`
	Timezone             string    `db:"timezone" json:"timezone"`
	NotificationsEnabled bool      `db:"notifications_enabled" json:"notification_enabled"`
	Theme                string    `db:"theme" json:"theme"`
	Language             string    `db:"language" json:"language"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}

// NewDefaultPreferences returns the settings a fresh account starts with.
func NewDefaultPreferences(userID string) *Preferences {
	return &Preferences{
		UserID:               userID,
		DefaultCurrency:      DefaultCurrency,
		Timezone:             DefaultTimezone,
		NotificationsEnabled: true,
		Theme:                DefaultTheme,
		Language:             DefaultLanguage,
	}
}
