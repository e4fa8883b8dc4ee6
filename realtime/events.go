package realtime

//go:generate mockgen -source=events.go -destination=mocks/mock_broadcaster.go -package=mocks

import "context"

// Имена событий, которые получают клиенты комнаты матча.
const (
	EventPlayerJoined     = "playerJoined"
	EventPlayerLeft       = "playerLeft"
	EventMatchStarted     = "matchStarted"
	EventMatchCompleted   = "matchCompleted"
	EventMatchCancelled   = "matchCancelled"
	EventMatchUpdated     = "matchUpdated"
	EventPaymentRequested = "paymentRequested"
	EventPaymentCompleted = "paymentCompleted"
	EventPaymentFailed    = "paymentFailed"
	EventRefundUpdated    = "refundUpdated"
	EventPaymentReminder  = "paymentReminder"
	// EventMatchState: снимок матча сразу после подписки.
	EventMatchState       = "matchState"
)

type WebSocketMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

// Broadcaster delivers an event to every subscriber of topic. Delivery is
// best effort and never reports failure to the caller.
type Broadcaster interface {
	Broadcast(ctx context.Context, topic, event string, payload interface{})
}
