package domain

// PushMessage is the envelope handed to the external push transport.
// Field names follow the Expo push API.
type PushMessage struct {
	To        string                 `json:"to"`
	Title     string                 `json:"title"`
	Body      string                 `json:"body"`
	Data      map[string]interface{} `json:"data"`
	Sound     string                 `json:"sound"`
	Priority  string                 `json:"priority"`
	ChannelID string                 `json:"channelId"`
}

// PushReceipt is the transport's structured reply. The transport is
// considered to have accepted the message iff Data.Status == "ok".
type PushReceipt struct {
	Data PushReceiptData `json:"data"`
}

type PushReceiptData struct {
	Status  string `json:"status"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

// OK reports whether the transport accepted the message.
func (r *PushReceipt) OK() bool { return r != nil && r.Data.Status == "ok" }

// Outcome is the per-recipient result of a bulk or broadcast dispatch.
type Outcome struct {
	RecipientID string       `json:"recipient_id"`
	Success     bool         `json:"success"`
	Result      *PushReceipt `json:"result,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// BroadcastSummary aggregates a sendToAll run. Total == Successful + Failed.
type BroadcastSummary struct {
	Total      int       `json:"total"`
	Successful int       `json:"successful"`
	Failed     int       `json:"failed"`
	Results    []Outcome `json:"results"`
}

type SendRequest struct {
	RecipientID string                 `json:"recipient_id" validate:"required"`
	Title       string                 `json:"title" validate:"required"`
	Body        string                 `json:"body" validate:"required"`
	Data        map[string]interface{} `json:"data"`
}

type SendBulkRequest struct {
	RecipientIDs []string               `json:"recipient_ids" validate:"required,min=1"`
	Title        string                 `json:"title" validate:"required"`
	Body         string                 `json:"body" validate:"required"`
	Data         map[string]interface{} `json:"data"`
}

type BroadcastRequest struct {
	Title string                 `json:"title" validate:"required"`
	Body  string                 `json:"body" validate:"required"`
	Data  map[string]interface{} `json:"data"`
}
