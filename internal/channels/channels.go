// Package channels resolves extracted @usernames to YouTube channel IDs by
// scraping the public channel pages. Results are tracked per username so
// interrupted runs can resume from saved progress.
package channels

// Status tracks the resolution state of one username.
type Status string

const (
	StatusPending  Status = "pending"
	StatusFound    Status = "found"
	StatusNotFound Status = "not_found"
	StatusError    Status = "error"
)

// Result is the resolution outcome for a single username.
type Result struct {
	Username  string `json:"username"`
	ChannelID string `json:"channel_id"`
	URL       string `json:"url"`
	Status    Status `json:"status"`
	ErrorMsg  string `json:"error_msg,omitempty"`
}
