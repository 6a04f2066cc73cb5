package models

import "time"

// Status is how a dialog ended
type Status string

const (
	StatusSubmitted     Status = "submitted"
	StatusAutoSubmitted Status = "auto-submitted"
	StatusCancelled     Status = "cancelled"
)

// HistoryEntry records one finished dialog
type HistoryEntry struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	Status    Status    `json:"status"`
	Content   string    `json:"content"`
	Countdown int       `json:"countdown"`
	Piped     bool      `json:"piped"`
	Directory string    `json:"directory"`
	CreatedAt time.Time `json:"created_at"`
}
