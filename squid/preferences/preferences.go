package preferences

import "fmt"

// allowed values for the theme and notifications fields
const (
	ThemeDark  = "dark"
	ThemeLight = "light"

	NotificationsEnabled  = "enabled"
	NotificationsDisabled = "disabled"
)

// Preferences is a user's preference set. The durable copy lives on the
// user record; a working copy may be embedded in the live session.
type Preferences struct {
	Theme         string `json:"theme" bson:"theme"`
	Notifications string `json:"notifications" bson:"notifications"`
	Language      string `json:"language" bson:"language"`
}

// returns the default preference set for new users
func Defaults() Preferences {
	return Preferences{
		Theme:         ThemeLight,
		Notifications: NotificationsEnabled,
		Language:      "English",
	}
}

// Validate checks field values and reports the first violated field.
// It never mutates the receiver.
func (p Preferences) Validate() error {
	if p.Theme != ThemeDark && p.Theme != ThemeLight {
		return fmt.Errorf("theme must be %q or %q, got %q", ThemeDark, ThemeLight, p.Theme)
	}

	if p.Notifications != NotificationsEnabled && p.Notifications != NotificationsDisabled {
		return fmt.Errorf("notifications must be %q or %q, got %q",
			NotificationsEnabled, NotificationsDisabled, p.Notifications)
	}

	if p.Language == "" {
		return fmt.Errorf("language is required")
	}

	return nil
}
