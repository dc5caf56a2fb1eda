package notify

// name of the pub/sub channel carrying page-visit events
const Channel = "session_updates"

// PageVisit is the event published for every logged page visit
type PageVisit struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id,omitempty"`
	Page      string `json:"page"`
}
