package pricing

import (
	"errors"
	"fmt"
	"time"

	"rolloff/shared/daterange"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	ServiceDelivery = "delivery"
	ServicePickup   = "pickup"
)

var (
	ErrExtensionNotForward = errors.New("new end date must be after the current end date")
	ErrInvalidAddOns       = errors.New("add-on quantities must not be negative")
)

type AddOns struct {
	ExtraTonnage   int `json:"extra_tonnage"`
	ApplianceCount int `json:"appliance_count"`
}

// Adjustment is a signed manual correction applied last and stored exactly as entered.
type Adjustment struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason"`
}

// Distance is the resolved surcharge for the delivery address. A failed lookup arrives here as zero.
type Distance struct {
	Miles decimal.Decimal `json:"miles"`
	Fee   decimal.Decimal `json:"fee"`
}

type Input struct {
	BasePrice   decimal.Decimal
	Dates       daterange.Range
	ServiceType string
	AddOns      AddOns
	Distance    Distance
	Adjustment  Adjustment
}

// Extension is one post-hoc lengthening recorded on the breakdown.
type Extension struct {
	PreviousEndDate time.Time       `json:"previous_end_date"`
	NewEndDate      time.Time       `json:"new_end_date"`
	AdditionalDays  int             `json:"additional_days"`
	AdditionalCost  decimal.Decimal `json:"additional_cost"`
}

// Breakdown is the itemized price snapshot stored on a reservation.
type Breakdown struct {
	Policy             string          `json:"policy"`
	BasePrice          decimal.Decimal `json:"base_price"`
	IncludedDays       int             `json:"included_days"`
	TotalDays          int             `json:"total_days"`
	ExtraDays          int             `json:"extra_days"`
	ExtraDayRate       decimal.Decimal `json:"extra_day_rate"`
	ExtraDaysAmount    decimal.Decimal `json:"extra_days_amount"`
	IncludedTonnage    int             `json:"included_tonnage"`
	ExtraTonnage       int             `json:"extra_tonnage"`
	ExtraTonnageAmount decimal.Decimal `json:"extra_tonnage_amount"`
	ApplianceCount     int             `json:"appliance_count"`
	ApplianceAmount    decimal.Decimal `json:"appliance_amount"`
	ServiceType        string          `json:"service_type"`
	Miles              decimal.Decimal `json:"miles"`
	DistanceFee        decimal.Decimal `json:"distance_fee"`
	TravelFee          decimal.Decimal `json:"travel_fee"`
	AdjustmentAmount   decimal.Decimal `json:"adjustment_amount"`
	AdjustmentReason   string          `json:"adjustment_reason,omitempty"`
	Total              decimal.Decimal `json:"total"`
	Extensions         []Extension     `json:"extensions,omitempty"`
}

// Price computes the full breakdown for a booking under the policy.
func (p Policy) Price(in Input) (Breakdown, error) {
	if in.AddOns.ExtraTonnage < 0 || in.AddOns.ApplianceCount < 0 {
		return Breakdown{}, ErrInvalidAddOns
	}

	totalDays := max(1, in.Dates.Len())
	extraDays := max(0, totalDays-p.IncludedDays)

	breakdown := Breakdown{
		Policy:             p.Name,
		BasePrice:          in.BasePrice,
		IncludedDays:       p.IncludedDays,
		TotalDays:          totalDays,
		ExtraDays:          extraDays,
		ExtraDayRate:       p.ExtraDayRate,
		ExtraDaysAmount:    p.ExtraDayRate.Mul(decimal.NewFromInt(int64(extraDays))),
		IncludedTonnage:    p.IncludedTonnage,
		ExtraTonnage:       in.AddOns.ExtraTonnage,
		ExtraTonnageAmount: p.TonnageRate.Mul(decimal.NewFromInt(int64(in.AddOns.ExtraTonnage))),
		ApplianceCount:     in.AddOns.ApplianceCount,
		ApplianceAmount:    p.ApplianceRate.Mul(decimal.NewFromInt(int64(in.AddOns.ApplianceCount))),
		ServiceType:        in.ServiceType,
		Miles:              decimal.Zero,
		DistanceFee:        decimal.Zero,
		TravelFee:          decimal.Zero,
		AdjustmentAmount:   in.Adjustment.Amount,
		AdjustmentReason:   in.Adjustment.Reason,
	}

	if in.ServiceType == ServiceDelivery {
		breakdown.Miles = in.Distance.Miles
		breakdown.DistanceFee = in.Distance.Fee
		breakdown.TravelFee = p.TravelFee
	}

	breakdown.Total = breakdown.subtotal().Add(breakdown.AdjustmentAmount)

	warnIfNotPositive(breakdown.Total, p.Name, "price")

	return breakdown, nil
}

func (b Breakdown) subtotal() decimal.Decimal {
	return decimal.Sum(
		b.BasePrice,
		b.ExtraDaysAmount,
		b.ExtraTonnageAmount,
		b.ApplianceAmount,
		b.DistanceFee,
		b.TravelFee,
	)
}

type ExtensionResult struct {
	AdditionalDays int             `json:"additional_days"`
	AdditionalCost decimal.Decimal `json:"additional_cost"`
	Breakdown      Breakdown       `json:"breakdown"`
}

// Extend prices lengthening a reservation from currentEnd to newEnd. The original base and add-on
// lines are kept, only the day counters and the total move.
func (p Policy) Extend(current Breakdown, currentEnd, newEnd time.Time) (ExtensionResult, error) {
	additionalDays := daterange.DaysBetween(currentEnd, newEnd)
	if additionalDays <= 0 {
		return ExtensionResult{}, fmt.Errorf("%w: %d additional days", ErrExtensionNotForward, additionalDays)
	}

	additionalCost := p.ExtraDayRate.Mul(decimal.NewFromInt(int64(additionalDays)))

	next := current
	next.TotalDays += additionalDays
	next.ExtraDays += additionalDays
	next.ExtraDaysAmount = current.ExtraDaysAmount.Add(additionalCost)
	next.Total = current.Total.Add(additionalCost)
	next.Extensions = append(append([]Extension(nil), current.Extensions...), Extension{
		PreviousEndDate: daterange.Day(currentEnd),
		NewEndDate:      daterange.Day(newEnd),
		AdditionalDays:  additionalDays,
		AdditionalCost:  additionalCost,
	})

	warnIfNotPositive(next.Total, p.Name, "extend")

	return ExtensionResult{
		AdditionalDays: additionalDays,
		AdditionalCost: additionalCost,
		Breakdown:      next,
	}, nil
}

func warnIfNotPositive(total decimal.Decimal, policy, operation string) {
	if total.IsPositive() {
		return
	}

	log.Warn().
		Str("policy", policy).
		Str("operation", operation).
		Str("total", total.String()).
		Msg("reservation total is not positive, flagged for operator review")
}
