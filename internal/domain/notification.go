package domain

// Delivery statuses recorded in the notification log.
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// Notification is one entry in the append-only dispatch log. A record is
// written for every dispatch attempt, success or failure, and is unread
// until ReadAt is set by its recipient.
type Notification struct {
	NotificationID string                 `json:"id" dynamodbav:"notification_id"`
	RecipientID    string                 `json:"recipient_id" dynamodbav:"recipient_id"`
	Title          string                 `json:"title" dynamodbav:"title"`
	Body           string                 `json:"body" dynamodbav:"body"`
	Data           map[string]interface{} `json:"data,omitempty" dynamodbav:"data,omitempty"`
	Status         string                 `json:"status" dynamodbav:"status"`
	SentAt         int64                  `json:"sent_at" dynamodbav:"sent_at"`                     // unix ms
	ReadAt         *int64                 `json:"read_at,omitempty" dynamodbav:"read_at,omitempty"` // unix ms
}

// Unread reports whether the notification has not yet been marked read.
func (n *Notification) Unread() bool { return n.ReadAt == nil }
