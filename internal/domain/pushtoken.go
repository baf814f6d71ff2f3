package domain

// PushToken maps a user to their current device push address. At most one
// record exists per user — the table is keyed by user_id, so every write is
// an upsert. RegistrationID is minted on first registration and survives
// subsequent token refreshes.
type PushToken struct {
	UserID         string `json:"user_id" dynamodbav:"user_id"`
	RegistrationID string `json:"registration_id" dynamodbav:"registration_id"`
	Token          string `json:"push_token" dynamodbav:"push_token"`
	DeviceType     string `json:"device_type" dynamodbav:"device_type"`
	LastUpdated    int64  `json:"last_updated" dynamodbav:"last_updated"` // unix ms
}

type RegisterTokenRequest struct {
	PushToken  string `json:"push_token" validate:"required"`
	DeviceType string `json:"device_type" validate:"required"` // "ios" or "android"
}
