package dto

import (
	"time"

	"rolloff/internal/domains/reservation/availability"
	"rolloff/internal/domains/reservation/calendar"
	"rolloff/internal/domains/reservation/model"
	"rolloff/internal/domains/reservation/pricing"
	"rolloff/shared"
	"rolloff/shared/constant"
	"rolloff/shared/daterange"
	gDto "rolloff/shared/dto"
	gModel "rolloff/shared/model"
	"rolloff/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteRequest describes a prospective booking. It is the pricing half of CreateReservationRequest.
type QuoteRequest struct {
	ContainerTypeID  string `json:"container_type_id" validate:"required"`
	StartDate        string `json:"start_date"        validate:"required,isodate"`
	EndDate          string `json:"end_date"          validate:"required,isodate"`
	Channel          string `json:"channel"           validate:"required,max=30"`
	ServiceType      string `json:"service_type"      validate:"required,oneof=delivery pickup"`
	DeliveryZip      string `json:"delivery_zip"      validate:"required_if=ServiceType delivery,omitempty,zipcode"`
	ExtraTonnage     int    `json:"extra_tonnage"     validate:"gte=0,lte=20"`
	ApplianceCount   int    `json:"appliance_count"   validate:"gte=0,lte=50"`
	AdjustmentAmount string `json:"adjustment_amount" validate:"omitempty,decimal"`
	AdjustmentReason string `json:"adjustment_reason" validate:"required_with=AdjustmentAmount,max=255"`
}

func (q QuoteRequest) Dates() (daterange.Range, error) {
	return daterange.Parse(q.StartDate, q.EndDate)
}

func (q QuoteRequest) Adjustment() pricing.Adjustment {
	amount := decimal.Zero
	if q.AdjustmentAmount != constant.Empty {
		amount = decimal.RequireFromString(q.AdjustmentAmount)
	}

	return pricing.Adjustment{Amount: amount, Reason: q.AdjustmentReason}
}

func (q QuoteRequest) HasAdjustment() bool {
	return q.AdjustmentAmount != constant.Empty
}

func (q QuoteRequest) AddOns() pricing.AddOns {
	return pricing.AddOns{ExtraTonnage: q.ExtraTonnage, ApplianceCount: q.ApplianceCount}
}

type CreateReservationRequest struct {
	QuoteRequest
	CustomerName    string `json:"customer_name"    validate:"required,max=100"`
	CustomerEmail   string `json:"customer_email"   validate:"required,email,max=100"`
	CustomerPhone   string `json:"customer_phone"   validate:"omitempty,max=20"`
	DeliveryAddress string `json:"delivery_address" validate:"required,max=255"`
	PreferredTime   string `json:"preferred_time"   validate:"omitempty,oneof=morning afternoon anytime"`
	Notes           string `json:"notes"            validate:"omitempty,max=1000"`
}

// ToModel builds a pending reservation carrying the priced breakdown.
func (c *CreateReservationRequest) ToModel(user, policy string, dates daterange.Range, breakdown pricing.Breakdown) model.Reservation {
	adjustment := c.Adjustment()

	return model.Reservation{
		ID:               uuid.NewString(),
		ContainerTypeID:  c.ContainerTypeID,
		CustomerName:     c.CustomerName,
		CustomerEmail:    c.CustomerEmail,
		CustomerPhone:    c.CustomerPhone,
		DeliveryAddress:  c.DeliveryAddress,
		DeliveryZip:      c.DeliveryZip,
		StartDate:        dates.Start,
		EndDate:          dates.End,
		PreferredTime:    c.PreferredTime,
		ServiceType:      c.ServiceType,
		Channel:          c.Channel,
		PricingPolicy:    policy,
		Status:           model.StatusPending,
		PaymentStatus:    model.PaymentStatusPending,
		ExtraTonnage:     c.ExtraTonnage,
		ApplianceCount:   c.ApplianceCount,
		AdjustmentAmount: adjustment.Amount,
		AdjustmentReason: adjustment.Reason,
		BasePrice:        breakdown.BasePrice,
		TotalAmount:      breakdown.Total,
		PricingBreakdown: model.PricingBreakdown{Breakdown: breakdown},
		Notes:            c.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type ExtendReservationRequest struct {
	NewEndDate string `json:"new_end_date" validate:"required,isodate"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed awaiting_card completed cancelled"`
}

type SaveCardRequest struct {
	PaymentMethodID string `json:"payment_method_id" validate:"required,max=255"`
}

type SignatureRequest struct {
	Signature string `json:"signature" validate:"required,mimetypes=image/png image/jpeg,maxfilesize=2"`
}

type QuoteResponse struct {
	Available     bool              `json:"available"`
	Policy        string            `json:"policy"`
	Breakdown     pricing.Breakdown `json:"breakdown"`
	DistanceError string            `json:"distance_error,omitempty"`
}

type AvailabilityResponse struct {
	ContainerTypeID string                         `json:"container_type_id"`
	Version         string                         `json:"version"`
	Available       bool                           `json:"available"`
	Days            []availability.DayAvailability `json:"days"`
}

type ReservationResponse struct {
	ID               string            `json:"id"`
	ContainerTypeID  string            `json:"container_type_id"`
	CustomerName     string            `json:"customer_name"`
	CustomerEmail    string            `json:"customer_email"`
	CustomerPhone    string            `json:"customer_phone"`
	DeliveryAddress  string            `json:"delivery_address"`
	DeliveryZip      string            `json:"delivery_zip"`
	StartDate        string            `json:"start_date"`
	EndDate          string            `json:"end_date"`
	PreferredTime    string            `json:"preferred_time"`
	ServiceType      string            `json:"service_type"`
	Channel          string            `json:"channel"`
	PricingPolicy    string            `json:"pricing_policy"`
	Status           string            `json:"status"`
	PaymentStatus    string            `json:"payment_status"`
	ExtraTonnage     int               `json:"extra_tonnage"`
	ApplianceCount   int               `json:"appliance_count"`
	AdjustmentAmount decimal.Decimal   `json:"adjustment_amount"`
	AdjustmentReason string            `json:"adjustment_reason"`
	BasePrice        decimal.Decimal   `json:"base_price"`
	TotalAmount      decimal.Decimal   `json:"total_amount"`
	PricingBreakdown pricing.Breakdown `json:"pricing_breakdown"`
	CardOnFile       bool              `json:"card_on_file"`
	SignatureURL     string            `json:"signature_url"`
	Notes            string            `json:"notes"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(model model.Reservation) {
	r.ID = model.ID
	r.ContainerTypeID = model.ContainerTypeID
	r.CustomerName = model.CustomerName
	r.CustomerEmail = model.CustomerEmail
	r.CustomerPhone = model.CustomerPhone
	r.DeliveryAddress = model.DeliveryAddress
	r.DeliveryZip = model.DeliveryZip
	r.StartDate = model.StartDate.Format(constant.DateOnlyFormat)
	r.EndDate = model.EndDate.Format(constant.DateOnlyFormat)
	r.PreferredTime = model.PreferredTime
	r.ServiceType = model.ServiceType
	r.Channel = model.Channel
	r.PricingPolicy = model.PricingPolicy
	r.Status = model.Status
	r.PaymentStatus = model.PaymentStatus
	r.ExtraTonnage = model.ExtraTonnage
	r.ApplianceCount = model.ApplianceCount
	r.AdjustmentAmount = model.AdjustmentAmount
	r.AdjustmentReason = model.AdjustmentReason
	r.BasePrice = model.BasePrice
	r.TotalAmount = model.TotalAmount
	r.PricingBreakdown = model.PricingBreakdown.Breakdown
	r.CardOnFile = model.StripePaymentMethodID != constant.Empty
	r.SignatureURL = model.SignatureURL
	r.Notes = model.Notes
	r.Metadata.FromModel(model.Metadata)
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}

type ExtendReservationResponse struct {
	AdditionalDays int                 `json:"additional_days"`
	AdditionalCost decimal.Decimal     `json:"additional_cost"`
	Reservation    ReservationResponse `json:"reservation"`
}

type CalendarBand struct {
	calendar.Band
	ContainerTypeID string `json:"container_type_id"`
	CustomerName    string `json:"customer_name"`
	Status          string `json:"status"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
}

type CalendarResponse struct {
	WeekStart string         `json:"week_start"`
	WeekEnd   string         `json:"week_end"`
	Rows      int            `json:"rows"`
	Bands     []CalendarBand `json:"bands"`
}

// FromBands joins laid out bands with the reservations they were built from.
func (c *CalendarResponse) FromBands(week daterange.Range, bands []calendar.Band, reservations map[string]model.Reservation) {
	c.WeekStart = week.Start.Format(constant.DateOnlyFormat)
	c.WeekEnd = week.End.Format(constant.DateOnlyFormat)
	c.Bands = make([]CalendarBand, len(bands))

	for i, band := range bands {
		res := reservations[band.ReservationID]

		c.Bands[i] = CalendarBand{
			Band:            band,
			ContainerTypeID: res.ContainerTypeID,
			CustomerName:    res.CustomerName,
			Status:          res.Status,
			StartDate:       res.StartDate.Format(constant.DateOnlyFormat),
			EndDate:         res.EndDate.Format(constant.DateOnlyFormat),
		}

		c.Rows = max(c.Rows, band.Row+1)
	}
}

// FormatVersion renders a snapshot version for clients comparing successive reads.
func FormatVersion(version time.Time) string {
	return version.UTC().Format(time.RFC3339Nano)
}
