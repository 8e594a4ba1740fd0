package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventCreated       = "reservation.created"
	EventExtended      = "reservation.extended"
	EventCancelled     = "reservation.cancelled"
	EventStatusChanged = "reservation.status_changed"
)

// Event is published on the reservation topic after every committed write.
type Event struct {
	Type            string          `json:"type"`
	ReservationID   string          `json:"reservation_id"`
	ContainerTypeID string          `json:"container_type_id"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email"`
	StartDate       string          `json:"start_date"`
	EndDate         string          `json:"end_date"`
	Status          string          `json:"status"`
	PreviousStatus  string          `json:"previous_status,omitempty"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	AdditionalCost  decimal.Decimal `json:"additional_cost"`
	OccurredAt      time.Time       `json:"occurred_at"`
}
