package pos

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID      string      `json:"order_id"`
	OrderNumber  int64       `json:"order_number"`
	Type         OrderType   `json:"type"`
	TableID      string      `json:"table_id,omitempty"`
	CustomerName string      `json:"customer_name,omitempty"`
	Items        []OrderItem `json:"items"`
	TotalCents   int64       `json:"total_cents"`
}

func mustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

type OrderStatusChangedPayload struct {
	OrderID     string    `json:"order_id"`
	OrderNumber int64     `json:"order_number"`
	From        Status    `json:"from"`
	To          Status    `json:"to"`
	ChangedAt   time.Time `json:"changed_at"`
}
