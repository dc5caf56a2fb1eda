package preferences

import (
	"codeberg.org/squidlabs/server/squid/preferences"
)

type SetRequest struct {
	Theme         string `json:"theme"`
	Notifications string `json:"notifications"`
	Language      string `json:"language"`
}

// SetResponse echoes the saved preference set
type SetResponse struct {
	Message     string                  `json:"message"`
	Preferences preferences.Preferences `json:"preferences"`
}

// GetResponse carries the current preference set, possibly empty
type GetResponse struct {
	Preferences any `json:"preferences"`
}
