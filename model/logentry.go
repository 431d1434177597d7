package model

import "time"

const (
	StatusVerified = "verified"
	StatusRemoved  = "removed"
)

const (
	ReasonVerified = "nft_verified"
	ReasonNoNFT    = "no_nft"
	ReasonTimeout  = "timeout"
)

// LogEntry is one line of the analytics log. Entries are immutable once
// written; the file is the only durable state of the process.
type LogEntry struct {
	Timestamp float64 `json:"timestamp"`
	UserID    int64   `json:"user_id"`
	Username  string  `json:"username"`
	Status    string  `json:"status"`
	Reason    string  `json:"reason"`
}

func NewLogEntry(userID int64, username, status, reason string) LogEntry {
	return LogEntry{
		Timestamp: float64(time.Now().UnixNano()) / float64(time.Second),
		UserID:    userID,
		Username:  username,
		Status:    status,
		Reason:    reason,
	}
}
