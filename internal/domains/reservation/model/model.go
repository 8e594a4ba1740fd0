package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rolloff/internal/domains/reservation/pricing"
	"rolloff/shared/daterange"
	"rolloff/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID                    = "id"
	FieldContainerTypeID       = "container_type_id"
	FieldCustomerName          = "customer_name"
	FieldCustomerEmail         = "customer_email"
	FieldCustomerPhone         = "customer_phone"
	FieldDeliveryAddress       = "delivery_address"
	FieldDeliveryZip           = "delivery_zip"
	FieldStartDate             = "start_date"
	FieldEndDate               = "end_date"
	FieldPreferredTime         = "preferred_time"
	FieldServiceType           = "service_type"
	FieldChannel               = "channel"
	FieldPricingPolicy         = "pricing_policy"
	FieldStatus                = "status"
	FieldPaymentStatus         = "payment_status"
	FieldExtraTonnage          = "extra_tonnage"
	FieldApplianceCount        = "appliance_count"
	FieldAdjustmentAmount      = "adjustment_amount"
	FieldAdjustmentReason      = "adjustment_reason"
	FieldBasePrice             = "base_price"
	FieldTotalAmount           = "total_amount"
	FieldPricingBreakdown      = "pricing_breakdown"
	FieldStripeCustomerID      = "stripe_customer_id"
	FieldStripePaymentMethodID = "stripe_payment_method_id"
	FieldStripePaymentIntentID = "stripe_payment_intent_id"
	FieldSignatureURL          = "signature_url"
	FieldNotes                 = "notes"
)

const (
	StatusPending      = "pending"
	StatusAwaitingCard = "awaiting_card"
	StatusConfirmed    = "confirmed"
	StatusCompleted    = "completed"
	StatusCancelled    = "cancelled"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

var transitions = map[string][]string{
	StatusPending:      {StatusConfirmed, StatusAwaitingCard, StatusCancelled},
	StatusAwaitingCard: {StatusConfirmed, StatusCancelled},
	StatusConfirmed:    {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether a reservation may move from one status to another.
// Completed and cancelled are terminal.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}

	return false
}

func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

type Reservation struct {
	ID                    string           `db:"id"`
	ContainerTypeID       string           `db:"container_type_id"`
	CustomerName          string           `db:"customer_name"`
	CustomerEmail         string           `db:"customer_email"`
	CustomerPhone         string           `db:"customer_phone"`
	DeliveryAddress       string           `db:"delivery_address"`
	DeliveryZip           string           `db:"delivery_zip"`
	StartDate             time.Time        `db:"start_date"`
	EndDate               time.Time        `db:"end_date"`
	PreferredTime         string           `db:"preferred_time"`
	ServiceType           string           `db:"service_type"`
	Channel               string           `db:"channel"`
	PricingPolicy         string           `db:"pricing_policy"`
	Status                string           `db:"status"`
	PaymentStatus         string           `db:"payment_status"`
	ExtraTonnage          int              `db:"extra_tonnage"`
	ApplianceCount        int              `db:"appliance_count"`
	AdjustmentAmount      decimal.Decimal  `db:"adjustment_amount"`
	AdjustmentReason      string           `db:"adjustment_reason"`
	BasePrice             decimal.Decimal  `db:"base_price"`
	TotalAmount           decimal.Decimal  `db:"total_amount"`
	PricingBreakdown      PricingBreakdown `db:"pricing_breakdown"`
	StripeCustomerID      string           `db:"stripe_customer_id"`
	StripePaymentMethodID string           `db:"stripe_payment_method_id"`
	StripePaymentIntentID string           `db:"stripe_payment_intent_id"`
	SignatureURL          string           `db:"signature_url"`
	Notes                 string           `db:"notes"`
	model.Metadata
}

func (r Reservation) Dates() daterange.Range {
	return daterange.Range{Start: daterange.Day(r.StartDate), End: daterange.Day(r.EndDate)}
}

// PricingBreakdown stores the breakdown snapshot in a JSONB column.
type PricingBreakdown struct {
	pricing.Breakdown
}

func (p PricingBreakdown) Value() (driver.Value, error) {
	data, err := json.Marshal(p.Breakdown)
	if err != nil {
		return nil, fmt.Errorf("failed to encode pricing breakdown: %w", err)
	}

	return data, nil
}

func (p *PricingBreakdown) Scan(src any) error {
	var data []byte

	switch v := src.(type) {
	case nil:
		p.Breakdown = pricing.Breakdown{}

		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for pricing breakdown")
	}

	if err := json.Unmarshal(data, &p.Breakdown); err != nil {
		return fmt.Errorf("failed to decode pricing breakdown: %w", err)
	}

	return nil
}
