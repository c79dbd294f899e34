package events

import (
	"encoding/json"
	"time"
)

const (
	EventOrderPlaced = "OrderPlaced"

	TopicOrderPlaced = "orders.placed"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type OrderPlacedItem struct {
	ItemID    string `json:"item_id"`
	Name      string `json:"name"`
	Variant   string `json:"variant,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

type OrderPlacedPayload struct {
	OrderID    string            `json:"order_id"`
	OwnerID    string            `json:"owner_id"`
	Restaurant string            `json:"restaurant,omitempty"`
	Currency   string            `json:"currency"`
	Total      string            `json:"total"`
	Items      []OrderPlacedItem `json:"items"`
	PlacedAt   time.Time         `json:"placed_at"`
}
