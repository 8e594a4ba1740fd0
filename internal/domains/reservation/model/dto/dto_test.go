package dto_test

import (
	"net/http"
	"testing"
	"time"

	"rolloff/internal/domains/reservation/calendar"
	"rolloff/internal/domains/reservation/model"
	"rolloff/internal/domains/reservation/model/dto"
	"rolloff/internal/domains/reservation/pricing"
	"rolloff/shared/daterange"
	"rolloff/shared/failure"
	"rolloff/shared/validator"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateRequest() dto.CreateReservationRequest {
	return dto.CreateReservationRequest{
		QuoteRequest: dto.QuoteRequest{
			ContainerTypeID: "ct-20",
			StartDate:       "2024-06-01",
			EndDate:         "2024-06-05",
			Channel:         "phone",
			ServiceType:     pricing.ServiceDelivery,
			DeliveryZip:     "78701",
			ExtraTonnage:    1,
		},
		CustomerName:    "Dana Reyes",
		CustomerEmail:   "dana@example.com",
		DeliveryAddress: "100 Congress Ave",
		PreferredTime:   "morning",
	}
}

func TestCreateReservationRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *dto.CreateReservationRequest)
		wantMsg string
	}{
		{name: "valid request", mutate: func(_ *dto.CreateReservationRequest) {}},
		{
			name:    "missing customer email",
			mutate:  func(req *dto.CreateReservationRequest) { req.CustomerEmail = "" },
			wantMsg: "customer_email is required",
		},
		{
			name:    "malformed start date",
			mutate:  func(req *dto.CreateReservationRequest) { req.StartDate = "06/01/2024" },
			wantMsg: "start_date must be a date in YYYY-MM-DD format",
		},
		{
			name:    "delivery without zip",
			mutate:  func(req *dto.CreateReservationRequest) { req.DeliveryZip = "" },
			wantMsg: "delivery_zip is required",
		},
		{
			name: "pickup without zip",
			mutate: func(req *dto.CreateReservationRequest) {
				req.ServiceType = pricing.ServicePickup
				req.DeliveryZip = ""
			},
		},
		{
			name:    "invalid zip",
			mutate:  func(req *dto.CreateReservationRequest) { req.DeliveryZip = "7870" },
			wantMsg: "delivery_zip must be a valid postal code",
		},
		{
			name:    "adjustment without reason",
			mutate:  func(req *dto.CreateReservationRequest) { req.AdjustmentAmount = "-20" },
			wantMsg: "adjustment_reason is required when AdjustmentAmount is set",
		},
		{
			name: "adjustment in cents",
			mutate: func(req *dto.CreateReservationRequest) {
				req.AdjustmentAmount = "-12.35"
				req.AdjustmentReason = "goodwill"
			},
		},
		{
			name: "sub cent adjustment",
			mutate: func(req *dto.CreateReservationRequest) {
				req.AdjustmentAmount = "10.005"
				req.AdjustmentReason = "fuel"
			},
			wantMsg: "adjustment_amount must be a number with at most 2 decimal places",
		},
		{
			name: "adjustment out of range",
			mutate: func(req *dto.CreateReservationRequest) {
				req.AdjustmentAmount = "1e12"
				req.AdjustmentReason = "typo"
			},
			wantMsg: "adjustment_amount must be a number with at most 2 decimal places",
		},
		{
			name:    "negative tonnage",
			mutate:  func(req *dto.CreateReservationRequest) { req.ExtraTonnage = -1 },
			wantMsg: "extra_tonnage must be greater than or equal to 0",
		},
		{
			name:    "unknown service type",
			mutate:  func(req *dto.CreateReservationRequest) { req.ServiceType = "drone" },
			wantMsg: "service_type must be one of delivery pickup",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(&req)

			err := validator.ValidateStruct(&req)

			if tt.wantMsg == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestQuoteRequest_Adjustment(t *testing.T) {
	req := dto.QuoteRequest{AdjustmentAmount: "-12.35", AdjustmentReason: "goodwill"}

	adjustment := req.Adjustment()

	assert.True(t, req.HasAdjustment())
	assert.Equal(t, "-12.35", adjustment.Amount.String())
	assert.Equal(t, "goodwill", adjustment.Reason)

	none := dto.QuoteRequest{}
	assert.False(t, none.HasAdjustment())
	assert.True(t, none.Adjustment().Amount.IsZero())
}

func TestCreateReservationRequest_ToModel(t *testing.T) {
	req := validCreateRequest()
	req.AdjustmentAmount = "-10"
	req.AdjustmentReason = "repeat customer"

	dates, err := req.Dates()
	require.NoError(t, err)

	breakdown := pricing.Breakdown{BasePrice: decimal.NewFromInt(595), Total: decimal.NewFromInt(760)}

	res := req.ToModel("admin-1", pricing.PolicyAdminPhone, dates, breakdown)

	assert.NotEmpty(t, res.ID)
	assert.Equal(t, model.StatusPending, res.Status)
	assert.Equal(t, model.PaymentStatusPending, res.PaymentStatus)
	assert.Equal(t, pricing.PolicyAdminPhone, res.PricingPolicy)
	assert.Equal(t, dates.Start, res.StartDate)
	assert.Equal(t, dates.End, res.EndDate)
	assert.True(t, decimal.NewFromInt(760).Equal(res.TotalAmount))
	assert.True(t, decimal.NewFromInt(-10).Equal(res.AdjustmentAmount))
	assert.Equal(t, "admin-1", res.CreatedBy)
}

func TestReservationResponse_FromModel(t *testing.T) {
	var res dto.ReservationResponse

	res.FromModel(model.Reservation{
		ID:                    "res-1",
		StartDate:             time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		EndDate:               time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC),
		StripePaymentMethodID: "pm_123",
		Status:                model.StatusConfirmed,
	})

	assert.Equal(t, "2024-06-01", res.StartDate)
	assert.Equal(t, "2024-06-05", res.EndDate)
	assert.True(t, res.CardOnFile)
	assert.Equal(t, model.StatusConfirmed, res.Status)
}

func TestCalendarResponse_FromBands(t *testing.T) {
	week := daterange.Week(time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC))

	var res dto.CalendarResponse

	res.FromBands(week, []calendar.Band{
		{ReservationID: "a", StartDayIndex: 0, DurationDays: 3, Row: 0},
		{ReservationID: "b", StartDayIndex: 1, DurationDays: 2, Row: 1},
	}, map[string]model.Reservation{
		"a": {ID: "a", CustomerName: "Dana"},
		"b": {ID: "b", CustomerName: "Lee"},
	})

	assert.Equal(t, "2024-06-03", res.WeekStart)
	assert.Equal(t, "2024-06-09", res.WeekEnd)
	assert.Equal(t, 2, res.Rows)
	require.Len(t, res.Bands, 2)
	assert.Equal(t, "Lee", res.Bands[1].CustomerName)
}
