package domain

import "time"

// Message represents one language copy of a logical send.
// Immutable once created: all copies of the same send share SenderID
// and Timestamp, only Text differs between original and translation.
type Message struct {
	Text      string
	Sender    string
	SenderID  string
	Timestamp time.Time
}
