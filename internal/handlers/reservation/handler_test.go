package reservation_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rolloff/infras/otel/mocks"
	"rolloff/internal/domains/reservation/model/dto"
	serviceMocks "rolloff/internal/domains/reservation/service/mocks"
	"rolloff/internal/handlers/reservation"
	"rolloff/shared/daterange"
	"rolloff/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const quoteBody = `{"container_type_id":"ct-20","start_date":"2026-11-02","end_date":"2026-11-06",` +
	`"channel":"self_serve","service_type":"pickup"}`

func TestHandler(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		target    string
		body      string
		setupMock func(svc *serviceMocks.MockReservation)
		wantCode  int
		wantBody  string
	}{
		{
			name:      "quote rejects an invalid body",
			method:    http.MethodPost,
			target:    "/reservations/quote",
			body:      `{"container_type_id":"ct-20","start_date":"11/02/2026"}`,
			setupMock: func(_ *serviceMocks.MockReservation) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:   "quote",
			method: http.MethodPost,
			target: "/reservations/quote",
			body:   quoteBody,
			setupMock: func(svc *serviceMocks.MockReservation) {
				svc.EXPECT().Quote(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req dto.QuoteRequest) (dto.QuoteResponse, error) {
					assert.Equal(t, "ct-20", req.ContainerTypeID)

					return dto.QuoteResponse{Available: true, Policy: "self_serve"}, nil
				})
			},
			wantCode: http.StatusOK,
			wantBody: `"policy":"self_serve"`,
		},
		{
			name:      "availability requires a container type",
			method:    http.MethodGet,
			target:    "/reservations/availability?from=2026-11-02&to=2026-11-06",
			setupMock: func(_ *serviceMocks.MockReservation) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "availability rejects a reversed range",
			method:    http.MethodGet,
			target:    "/reservations/availability?container_type_id=ct-20&from=2026-11-06&to=2026-11-02",
			setupMock: func(_ *serviceMocks.MockReservation) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:   "availability",
			method: http.MethodGet,
			target: "/reservations/availability?container_type_id=ct-20&from=2026-11-02&to=2026-11-06",
			setupMock: func(svc *serviceMocks.MockReservation) {
				svc.EXPECT().Availability(gomock.Any(), "ct-20", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, dates daterange.Range) (dto.AvailabilityResponse, error) {
						assert.Equal(t, 5, dates.Len())

						return dto.AvailabilityResponse{ContainerTypeID: "ct-20", Available: true}, nil
					})
			},
			wantCode: http.StatusOK,
			wantBody: `"available":true`,
		},
		{
			name:      "calendar rejects a malformed week start",
			method:    http.MethodGet,
			target:    "/reservations/calendar?week_start=next-monday",
			setupMock: func(_ *serviceMocks.MockReservation) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:   "calendar",
			method: http.MethodGet,
			target: "/reservations/calendar?week_start=2026-11-02&container_type_id=ct-20",
			setupMock: func(svc *serviceMocks.MockReservation) {
				svc.EXPECT().CalendarWeek(gomock.Any(), time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC), "ct-20").
					Return(dto.CalendarResponse{}, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name:   "create conflict keeps the status code",
			method: http.MethodPost,
			target: "/reservations",
			body: `{"container_type_id":"ct-20","start_date":"2026-11-02","end_date":"2026-11-06",` +
				`"channel":"self_serve","service_type":"pickup","customer_name":"Jane Doe",` +
				`"customer_email":"jane@example.com","delivery_address":"1 Main St"}`,
			setupMock: func(svc *serviceMocks.MockReservation) {
				svc.EXPECT().Create(gomock.Any(), gomock.Any()).
					Return(dto.ReservationResponse{}, failure.Conflict("Selected date range is not available, please choose different dates"))
			},
			wantCode: http.StatusConflict,
			wantBody: "not available",
		},
		{
			name:   "charge passes the path id",
			method: http.MethodPost,
			target: "/reservations/res-1/charge",
			setupMock: func(svc *serviceMocks.MockReservation) {
				svc.EXPECT().Charge(gomock.Any(), "res-1").Return(dto.ReservationResponse{ID: "res-1"}, nil)
			},
			wantCode: http.StatusOK,
			wantBody: `"id":"res-1"`,
		},
		{
			name:   "status update",
			method: http.MethodPatch,
			target: "/reservations/res-1/status",
			body:   `{"status":"confirmed"}`,
			setupMock: func(svc *serviceMocks.MockReservation) {
				svc.EXPECT().UpdateStatus(gomock.Any(), "res-1", dto.UpdateStatusRequest{Status: "confirmed"}).Return(nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name:      "status update rejects unknown status",
			method:    http.MethodPatch,
			target:    "/reservations/res-1/status",
			body:      `{"status":"shipped"}`,
			setupMock: func(_ *serviceMocks.MockReservation) {},
			wantCode:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := serviceMocks.NewMockReservation(ctrl)

			tt.setupMock(svc)

			handler := reservation.New(svc, mocks.NewOtel())
			router := chi.NewRouter()
			handler.Router(router)

			request := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			recorder := httptest.NewRecorder()

			router.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantCode, recorder.Code, recorder.Body.String())
			assert.Contains(t, recorder.Body.String(), tt.wantBody)
		})
	}
}
