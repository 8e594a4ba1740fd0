package service_test

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"sync"
	"testing"
	"time"

	"rolloff/config"
	kafkaMocks "rolloff/infras/kafka/mocks"
	"rolloff/infras/otel"
	"rolloff/infras/otel/mocks"
	s3Mocks "rolloff/infras/s3/mocks"
	"rolloff/infras/stripe"
	stripeMocks "rolloff/infras/stripe/mocks"
	containerMocks "rolloff/internal/domains/container/mocks"
	containerModel "rolloff/internal/domains/container/model"
	distanceService "rolloff/internal/domains/distance/service"
	distanceMocks "rolloff/internal/domains/distance/service/mocks"
	reservationMocks "rolloff/internal/domains/reservation/mocks"
	"rolloff/internal/domains/reservation/model"
	"rolloff/internal/domains/reservation/model/dto"
	"rolloff/internal/domains/reservation/pricing"
	"rolloff/internal/domains/reservation/repository"
	"rolloff/internal/domains/reservation/service"
	cacheMocks "rolloff/shared/cache/mocks"
	"rolloff/shared/constant"
	"rolloff/shared/daterange"
	gDto "rolloff/shared/dto"
	"rolloff/shared/failure"
	"rolloff/shared/timezone"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/mock/gomock"
)

const containerTypeID = "ct-20"

type deps struct {
	repo       *reservationMocks.MockReservation
	containers *containerMocks.MockContainerType
	distance   *distanceMocks.MockResolver
	kafka      *kafkaMocks.MockClient
	payment    *stripeMocks.MockPayment
	storage    *s3Mocks.MockS3
	cache      *cacheMocks.MockRedisCache
	deleted    *keyLog
}

// keyLog collects cache keys deleted from any goroutine.
type keyLog struct {
	mu   sync.Mutex
	keys []string
}

func (l *keyLog) add(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.keys = append(l.keys, key)
}

func (l *keyLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return slices.Clone(l.keys)
}

func newService(t *testing.T) (service.Reservation, deps) {
	t.Helper()

	return newTracedService(t, mocks.NewOtel())
}

func newTracedService(t *testing.T, tracer otel.Otel) (service.Reservation, deps) {
	t.Helper()

	ctrl := gomock.NewController(t)

	d := deps{
		repo:       reservationMocks.NewMockReservation(ctrl),
		containers: containerMocks.NewMockContainerType(ctrl),
		distance:   distanceMocks.NewMockResolver(ctrl),
		kafka:      kafkaMocks.NewMockClient(ctrl),
		payment:    stripeMocks.NewMockPayment(ctrl),
		storage:    s3Mocks.NewMockS3(ctrl),
		cache:      cacheMocks.NewMockRedisCache(ctrl),
		deleted:    &keyLog{},
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Cache.SnapshotTTL = 60
	cfg.Kafka.Topics.Reservation = "reservation.events"
	cfg.Pricing.ChannelPolicies = map[string]string{
		"self_serve": "self_serve",
		"admin":      "admin_phone",
	}

	// cache writes, invalidations and events run in background goroutines
	d.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	d.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string) error {
			d.deleted.add(key)

			return nil
		}).AnyTimes()
	d.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	d.cache.EXPECT().Increment(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil).AnyTimes()
	d.kafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	d.storage.EXPECT().KeyFromURL(gomock.Any()).Return("signatures/old.png").AnyTimes()
	d.storage.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(d.repo, d.containers, pricing.New(cfg), d.distance, d.kafka, d.payment, d.storage, cfg, d.cache, tracer)

	return svc, d
}

func (d deps) cacheMiss() {
	d.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
}

func (d deps) catalog(ct containerModel.ContainerType) {
	d.containers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ct, nil).AnyTimes()
}

func (d deps) active(reservations ...model.Reservation) {
	d.repo.EXPECT().ListActive(gomock.Any(), containerTypeID).Return(reservations, nil).AnyTimes()
}

func adminCtx() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)
}

// future returns the calendar day n days from a base well ahead of today.
func future(n int) time.Time {
	return daterange.Day(timezone.Now()).AddDate(0, 0, 30+n)
}

func iso(n int) string {
	return future(n).Format(constant.DateOnlyFormat)
}

func roll() containerModel.ContainerType {
	return containerModel.ContainerType{
		ID:                containerTypeID,
		Label:             "20 Yard",
		BasePrice:         decimal.NewFromInt(595),
		AvailableQuantity: 2,
		Visible:           true,
	}
}

func booked(id string, start, end int) model.Reservation {
	return model.Reservation{
		ID:              id,
		ContainerTypeID: containerTypeID,
		StartDate:       future(start),
		EndDate:         future(end),
		Status:          model.StatusConfirmed,
	}
}

func quoteRequest(channel string, start, end int) dto.QuoteRequest {
	return dto.QuoteRequest{
		ContainerTypeID: containerTypeID,
		StartDate:       iso(start),
		EndDate:         iso(end),
		Channel:         channel,
		ServiceType:     pricing.ServicePickup,
		ExtraTonnage:    1,
	}
}

func confirmed() model.Reservation {
	policies, _ := pricing.DefaultPolicies()
	priced, _ := policies["admin_phone"].Price(pricing.Input{
		BasePrice:   decimal.NewFromInt(595),
		Dates:       daterange.Range{Start: future(1), End: future(5)},
		ServiceType: pricing.ServicePickup,
		AddOns:      pricing.AddOns{ExtraTonnage: 1},
	})

	return model.Reservation{
		ID:               "res-1",
		ContainerTypeID:  containerTypeID,
		CustomerName:     "Jane Doe",
		CustomerEmail:    "jane@example.com",
		StartDate:        future(1),
		EndDate:          future(5),
		PricingPolicy:    "admin_phone",
		Status:           model.StatusConfirmed,
		PaymentStatus:    model.PaymentStatusPending,
		TotalAmount:      priced.Total,
		PricingBreakdown: model.PricingBreakdown{Breakdown: priced},
	}
}

func TestReservationService_Quote(t *testing.T) {
	tests := []struct {
		name          string
		ctx           context.Context
		req           func() dto.QuoteRequest
		setupMock     func(d deps)
		wantCode      int
		wantTotal     string
		wantAvailable bool
		wantDistance  bool
	}{
		{
			name: "admin phone policy",
			ctx:  adminCtx(),
			req:  func() dto.QuoteRequest { return quoteRequest("admin", 1, 5) },
			setupMock: func(d deps) {
				d.cacheMiss()
				d.catalog(roll())
				d.active()
			},
			wantTotal:     "770",
			wantAvailable: true,
		},
		{
			name: "self serve policy bills every day",
			ctx:  context.Background(),
			req:  func() dto.QuoteRequest { return quoteRequest("self_serve", 1, 5) },
			setupMock: func(d deps) {
				d.cacheMiss()
				d.catalog(roll())
				d.active()
			},
			wantTotal:     "845",
			wantAvailable: true,
		},
		{
			name: "fully booked range is priced but unavailable",
			ctx:  adminCtx(),
			req:  func() dto.QuoteRequest { return quoteRequest("admin", 6, 11) },
			setupMock: func(d deps) {
				d.cacheMiss()
				d.catalog(roll())
				d.active(booked("a", 5, 8), booked("b", 7, 10))
			},
			wantTotal:     "795",
			wantAvailable: false,
		},
		{
			name: "delivery with failed distance lookup degrades to zero fee",
			ctx:  adminCtx(),
			req: func() dto.QuoteRequest {
				req := quoteRequest("admin", 1, 5)
				req.ServiceType = pricing.ServiceDelivery
				req.DeliveryZip = "78701"

				return req
			},
			setupMock: func(d deps) {
				d.cacheMiss()
				d.catalog(roll())
				d.active()
				d.distance.EXPECT().ResolveDistanceFee(gomock.Any(), "78701").
					Return(distanceService.Fee{Miles: decimal.Zero, Fee: decimal.Zero}, errors.New("distance lookup failed"))
			},
			wantTotal:     "770",
			wantAvailable: true,
			wantDistance:  true,
		},
		{
			name: "delivery adds distance fee",
			ctx:  adminCtx(),
			req: func() dto.QuoteRequest {
				req := quoteRequest("admin", 1, 5)
				req.ServiceType = pricing.ServiceDelivery
				req.DeliveryZip = "78701"

				return req
			},
			setupMock: func(d deps) {
				d.cacheMiss()
				d.catalog(roll())
				d.active()
				d.distance.EXPECT().ResolveDistanceFee(gomock.Any(), "78701").
					Return(distanceService.Fee{Miles: decimal.NewFromInt(22), Fee: decimal.NewFromInt(28)}, nil)
			},
			wantTotal:     "798",
			wantAvailable: true,
		},
		{
			name: "adjustment requires admin",
			ctx:  context.Background(),
			req: func() dto.QuoteRequest {
				req := quoteRequest("self_serve", 1, 5)
				req.AdjustmentAmount = "-45.10"
				req.AdjustmentReason = "loyal customer"

				return req
			},
			setupMock: func(_ deps) {},
			wantCode:  http.StatusForbidden,
		},
		{
			name:      "unknown channel",
			ctx:       adminCtx(),
			req:       func() dto.QuoteRequest { return quoteRequest("kiosk", 1, 5) },
			setupMock: func(_ deps) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "end before start",
			ctx:       adminCtx(),
			req:       func() dto.QuoteRequest { return quoteRequest("admin", 5, 1) },
			setupMock: func(_ deps) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "hidden container type for the public",
			ctx:  context.Background(),
			req:  func() dto.QuoteRequest { return quoteRequest("self_serve", 1, 5) },
			setupMock: func(d deps) {
				hidden := roll()
				hidden.Visible = false
				d.catalog(hidden)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "zero capacity container type",
			ctx:  adminCtx(),
			req:  func() dto.QuoteRequest { return quoteRequest("admin", 1, 5) },
			setupMock: func(d deps) {
				empty := roll()
				empty.AvailableQuantity = 0
				d.cacheMiss()
				d.catalog(empty)
				d.active()
			},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newService(t)
			tt.setupMock(d)

			res, err := svc.Quote(tt.ctx, tt.req())

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.wantTotal).Equal(res.Breakdown.Total), "total %s", res.Breakdown.Total)
			assert.Equal(t, tt.wantAvailable, res.Available)
			assert.Equal(t, tt.wantDistance, res.DistanceError != "")
		})
	}
}

func TestReservationService_Availability(t *testing.T) {
	svc, d := newService(t)
	d.cacheMiss()
	d.catalog(roll())
	d.active(booked("a", 5, 8), booked("b", 7, 10))

	res, err := svc.Availability(context.Background(), containerTypeID, daterange.Range{Start: future(6), End: future(11)})

	require.NoError(t, err)
	assert.False(t, res.Available)
	require.Len(t, res.Days, 6)
	assert.Equal(t, 0, res.Days[1].Remaining)
	assert.True(t, res.Days[1].Full)
	assert.Equal(t, 1, res.Days[3].Remaining)
	assert.Equal(t, 2, res.Days[5].Remaining)
	assert.NotEmpty(t, res.Version)
	assert.NotContains(t, d.deleted.list(), "availability:snapshot:ct-20")
}

func TestReservationService_Availability_Visibility(t *testing.T) {
	hidden := roll()
	hidden.Visible = false

	tests := []struct {
		name     string
		ctx      context.Context
		catalog  containerModel.ContainerType
		wantCode int
	}{
		{name: "unknown container type", ctx: context.Background(), catalog: containerModel.ContainerType{}, wantCode: http.StatusNotFound},
		{name: "hidden from the public", ctx: context.Background(), catalog: hidden, wantCode: http.StatusNotFound},
		{name: "hidden but admin", ctx: adminCtx(), catalog: hidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newService(t)
			d.cacheMiss()
			d.catalog(tt.catalog)
			d.active()

			res, err := svc.Availability(tt.ctx, containerTypeID, daterange.Range{Start: future(1), End: future(2)})

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
				assert.Empty(t, res.Days)

				return
			}

			require.NoError(t, err)
			assert.True(t, res.Available)
		})
	}
}

func TestReservationService_Availability_DiscardsSnapshotBuiltAcrossWrite(t *testing.T) {
	svc, d := newService(t)
	d.catalog(roll())
	d.active(booked("a", 1, 2))

	generation := func(value int64) func(context.Context, string, any) error {
		return func(_ context.Context, _ string, target any) error {
			*target.(*int64) = value

			return nil
		}
	}

	d.cache.EXPECT().Get(gomock.Any(), "availability:snapshot:ct-20", gomock.Any()).Return(errors.New("cache miss"))
	d.cache.EXPECT().Get(gomock.Any(), "availability:generation:ct-20", gomock.Any()).DoAndReturn(generation(4))
	d.cache.EXPECT().Get(gomock.Any(), "availability:generation:ct-20", gomock.Any()).DoAndReturn(generation(5))

	_, err := svc.Availability(context.Background(), containerTypeID, daterange.Range{Start: future(1), End: future(2)})

	require.NoError(t, err)
	assert.Contains(t, d.deleted.list(), "availability:snapshot:ct-20")
}

func TestReservationService_ClientErrorsDoNotFailSpans(t *testing.T) {
	tracer, spans := mocks.NewRecorder()
	svc, d := newTracedService(t, tracer)

	stored := confirmed()
	stored.Status = model.StatusCancelled
	d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)

	err := svc.Cancel(adminCtx(), "res-1")

	require.Error(t, err)
	require.Len(t, spans.Ended(), 1)

	span := spans.Ended()[0]
	assert.Equal(t, codes.Unset, span.Status().Code)
	require.Len(t, span.Events(), 1)
	assert.Equal(t, "client error", span.Events()[0].Name)
}

func TestReservationService_Create(t *testing.T) {
	request := func() dto.CreateReservationRequest {
		return dto.CreateReservationRequest{
			QuoteRequest:    quoteRequest("admin", 1, 5),
			CustomerName:    "Jane Doe",
			CustomerEmail:   "jane@example.com",
			DeliveryAddress: "1 Main St",
		}
	}

	tests := []struct {
		name      string
		setupMock func(d deps)
		wantCode  int
	}{
		{
			name: "created as pending with breakdown",
			setupMock: func(d deps) {
				d.cacheMiss()
				d.catalog(roll())
				d.active()
				d.repo.EXPECT().InsertWithCapacity(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, res model.Reservation) error {
						assert.Equal(t, model.StatusPending, res.Status)
						assert.Equal(t, "admin_phone", res.PricingPolicy)
						assert.Equal(t, "admin-1", res.CreatedBy)
						assert.True(t, decimal.NewFromInt(770).Equal(res.TotalAmount))
						assert.Equal(t, 2, res.PricingBreakdown.ExtraDays)

						return nil
					})
			},
		},
		{
			name: "stale snapshot says full but the store has room",
			setupMock: func(d deps) {
				d.cacheMiss()
				d.catalog(roll())
				d.active(booked("a", 1, 2), booked("b", 2, 3))
				d.repo.EXPECT().InsertWithCapacity(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "store rejects on capacity",
			setupMock: func(d deps) {
				d.cacheMiss()
				d.catalog(roll())
				d.active()
				d.repo.EXPECT().InsertWithCapacity(gomock.Any(), gomock.Any()).Return(repository.ErrCapacityExceeded)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "store failure",
			setupMock: func(d deps) {
				d.cacheMiss()
				d.catalog(roll())
				d.active()
				d.repo.EXPECT().InsertWithCapacity(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newService(t)
			tt.setupMock(d)

			res, err := svc.Create(adminCtx(), request())

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				if tt.wantCode == http.StatusConflict {
					assert.Equal(t, "Selected date range is not available, please choose different dates", err.Error())
				}

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, res.ID)
			assert.Equal(t, model.StatusPending, res.Status)
		})
	}
}

func TestReservationService_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(d deps)
		wantCode  int
	}{
		{
			name: "cache hit",
			setupMock: func(d deps) {
				d.cache.EXPECT().Get(gomock.Any(), "reservation:get:res-1", gomock.Any()).Return(nil)
			},
		},
		{
			name: "found in db",
			setupMock: func(d deps) {
				d.cacheMiss()
				d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(confirmed(), nil)
			},
		},
		{
			name: "not found",
			setupMock: func(d deps) {
				d.cacheMiss()
				d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Reservation{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newService(t)
			tt.setupMock(d)

			_, err := svc.Get(context.Background(), "res-1")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestReservationService_Extend(t *testing.T) {
	tests := []struct {
		name       string
		newEnd     string
		stored     func() model.Reservation
		setupMock  func(d deps)
		wantCode   int
		wantDays   int
		wantCost   string
		wantTotal  string
		wantEndDay time.Time
	}{
		{
			name:   "three more days",
			newEnd: iso(8),
			stored: confirmed,
			setupMock: func(d deps) {
				d.repo.EXPECT().UpdateEndDate(gomock.Any(), "res-1", future(5), future(8), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, _, _ time.Time, fields map[string]any) error {
						breakdown, ok := fields[model.FieldPricingBreakdown].(model.PricingBreakdown)
						require.True(t, ok)
						assert.Equal(t, 8, breakdown.TotalDays)
						assert.Len(t, breakdown.Extensions, 1)

						return nil
					})
			},
			wantDays:   3,
			wantCost:   "75",
			wantTotal:  "845",
			wantEndDay: future(8),
		},
		{
			name:      "not forward",
			newEnd:    iso(5),
			stored:    confirmed,
			setupMock: func(_ deps) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:   "pending reservation",
			newEnd: iso(8),
			stored: func() model.Reservation {
				res := confirmed()
				res.Status = model.StatusPending

				return res
			},
			setupMock: func(_ deps) {},
			wantCode:  http.StatusConflict,
		},
		{
			name:   "capacity exceeded",
			newEnd: iso(8),
			stored: confirmed,
			setupMock: func(d deps) {
				d.repo.EXPECT().UpdateEndDate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(repository.ErrCapacityExceeded)
			},
			wantCode: http.StatusConflict,
		},
		{
			name:   "changed concurrently",
			newEnd: iso(8),
			stored: confirmed,
			setupMock: func(d deps) {
				d.repo.EXPECT().UpdateEndDate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(repository.ErrStaleReservation)
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newService(t)
			d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.stored(), nil)
			tt.setupMock(d)

			res, err := svc.Extend(adminCtx(), "res-1", dto.ExtendReservationRequest{NewEndDate: tt.newEnd})

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantDays, res.AdditionalDays)
			assert.True(t, decimal.RequireFromString(tt.wantCost).Equal(res.AdditionalCost))
			assert.True(t, decimal.RequireFromString(tt.wantTotal).Equal(res.Reservation.TotalAmount))
			assert.Equal(t, tt.wantEndDay.Format(constant.DateOnlyFormat), res.Reservation.EndDate)
		})
	}
}

func TestReservationService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		next     string
		stale    bool
		wantCode int
	}{
		{name: "pending to awaiting card", current: model.StatusPending, next: model.StatusAwaitingCard},
		{name: "confirmed to completed", current: model.StatusConfirmed, next: model.StatusCompleted},
		{name: "completed is terminal", current: model.StatusCompleted, next: model.StatusCancelled, wantCode: http.StatusConflict},
		{name: "cancelled is terminal", current: model.StatusCancelled, next: model.StatusConfirmed, wantCode: http.StatusConflict},
		{name: "pending cannot complete", current: model.StatusPending, next: model.StatusCompleted, wantCode: http.StatusConflict},
		{name: "changed since read", current: model.StatusPending, next: model.StatusAwaitingCard, stale: true, wantCode: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newService(t)

			stored := confirmed()
			stored.Status = tt.current
			d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)

			if tt.wantCode == 0 || tt.stale {
				d.repo.EXPECT().UpdateStatus(gomock.Any(), "res-1", tt.current, gomock.Any()).
					DoAndReturn(func(_ context.Context, _, _ string, fields map[string]any) error {
						assert.Equal(t, tt.next, fields[model.FieldStatus])

						if tt.stale {
							return repository.ErrStaleReservation
						}

						return nil
					})
			}

			err := svc.UpdateStatus(adminCtx(), "res-1", dto.UpdateStatusRequest{Status: tt.next})

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestReservationService_Cancel(t *testing.T) {
	svc, d := newService(t)
	d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(confirmed(), nil)
	d.repo.EXPECT().UpdateStatus(gomock.Any(), "res-1", model.StatusConfirmed, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, fields map[string]any) error {
			assert.Equal(t, model.StatusCancelled, fields[model.FieldStatus])

			return nil
		})

	assert.NoError(t, svc.Cancel(adminCtx(), "res-1"))
}

func TestReservationService_SaveCard(t *testing.T) {
	tests := []struct {
		name      string
		status    string
		setupMock func(d deps)
		wantCode  int
	}{
		{
			name:   "awaiting card becomes confirmed",
			status: model.StatusAwaitingCard,
			setupMock: func(d deps) {
				d.payment.EXPECT().SaveCard(gomock.Any(), gomock.Any()).
					Return(stripe.SavedCard{CustomerID: "cus_1", PaymentMethodID: "pm_1"}, nil)
				d.repo.EXPECT().UpdateStatus(gomock.Any(), "res-1", model.StatusAwaitingCard, gomock.Any()).
					DoAndReturn(func(_ context.Context, _, _ string, fields map[string]any) error {
						assert.Equal(t, model.StatusConfirmed, fields[model.FieldStatus])
						assert.Equal(t, "cus_1", fields[model.FieldStripeCustomerID])
						assert.Equal(t, "pm_1", fields[model.FieldStripePaymentMethodID])

						return nil
					})
			},
		},
		{
			name:   "declined card",
			status: model.StatusPending,
			setupMock: func(d deps) {
				d.payment.EXPECT().SaveCard(gomock.Any(), gomock.Any()).Return(stripe.SavedCard{}, stripe.ErrCardDeclined)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name:      "already confirmed",
			status:    model.StatusConfirmed,
			setupMock: func(_ deps) {},
			wantCode:  http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newService(t)

			stored := confirmed()
			stored.Status = tt.status
			d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil).AnyTimes()
			tt.setupMock(d)

			err := svc.SaveCard(context.Background(), "res-1", dto.SaveCardRequest{PaymentMethodID: "pm_1"})

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestReservationService_Charge(t *testing.T) {
	withCard := func() model.Reservation {
		res := confirmed()
		res.StripeCustomerID = "cus_1"
		res.StripePaymentMethodID = "pm_1"

		return res
	}

	tests := []struct {
		name       string
		stored     func() model.Reservation
		setupMock  func(d deps)
		wantCode   int
		wantStatus string
	}{
		{
			name:   "paid",
			stored: withCard,
			setupMock: func(d deps) {
				d.payment.EXPECT().ChargeSavedCard(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req stripe.ChargeRequest) (stripe.Charge, error) {
						assert.True(t, decimal.NewFromInt(770).Equal(req.Amount))
						assert.Equal(t, "pm_1", req.PaymentMethodID)

						return stripe.Charge{PaymentIntentID: "pi_1", Status: "succeeded", AmountCharged: 77000}, nil
					})
				d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, model.PaymentStatusPaid, fields[model.FieldPaymentStatus])
						assert.Equal(t, "pi_1", fields[model.FieldStripePaymentIntentID])

						return nil
					})
			},
			wantStatus: model.PaymentStatusPaid,
		},
		{
			name:   "declined marks payment failed",
			stored: withCard,
			setupMock: func(d deps) {
				d.payment.EXPECT().ChargeSavedCard(gomock.Any(), gomock.Any()).Return(stripe.Charge{}, stripe.ErrCardDeclined)
				d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, model.PaymentStatusFailed, fields[model.FieldPaymentStatus])

						return nil
					})
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name:      "no card on file",
			stored:    confirmed,
			setupMock: func(_ deps) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "already paid",
			stored: func() model.Reservation {
				res := withCard()
				res.PaymentStatus = model.PaymentStatusPaid

				return res
			},
			setupMock: func(_ deps) {},
			wantCode:  http.StatusConflict,
		},
		{
			name:   "non positive total",
			stored: withCard,
			setupMock: func(d deps) {
				d.payment.EXPECT().ChargeSavedCard(gomock.Any(), gomock.Any()).Return(stripe.Charge{}, stripe.ErrInvalidAmount)
			},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newService(t)
			d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.stored(), nil)
			tt.setupMock(d)

			res, err := svc.Charge(adminCtx(), "res-1")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.PaymentStatus)
		})
	}
}

func TestReservationService_UploadSignature(t *testing.T) {
	const png = "data:image/png;base64,iVBORw0KGgo="

	tests := []struct {
		name      string
		signature string
		setupMock func(d deps)
		wantCode  int
	}{
		{
			name:      "stored in signatures directory",
			signature: png,
			setupMock: func(d deps) {
				stored := confirmed()
				stored.SignatureURL = "https://cdn.example.com/signatures/old.png"
				d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)
				d.storage.EXPECT().Upload(gomock.Any(), gomock.Any(), "image/png", gomock.Any(), gomock.Any()).
					Return("https://cdn.example.com/signatures/res-1.png", nil)
				d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:      "not a data url",
			signature: "iVBORw0KGgo=",
			setupMock: func(_ deps) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "upload failure",
			signature: png,
			setupMock: func(d deps) {
				d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(confirmed(), nil)
				d.storage.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", errors.New("s3 down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newService(t)
			tt.setupMock(d)

			res, err := svc.UploadSignature(context.Background(), "res-1", dto.SignatureRequest{Signature: tt.signature})

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "https://cdn.example.com/signatures/res-1.png", res.SignatureURL)
		})
	}
}

func TestReservationService_CalendarWeek(t *testing.T) {
	svc, d := newService(t)

	weekStart := future(0)
	d.repo.EXPECT().ListOverlapping(gomock.Any(), containerTypeID, weekStart, future(6)).
		Return([]model.Reservation{booked("a", -2, 2), booked("b", 1, 3), booked("c", 3, 9)}, nil)

	res, err := svc.CalendarWeek(context.Background(), weekStart, containerTypeID)

	require.NoError(t, err)
	require.Len(t, res.Bands, 3)
	assert.Equal(t, 2, res.Rows)

	rows := map[string]int{}
	for _, band := range res.Bands {
		rows[band.ReservationID] = band.Row
	}

	assert.Equal(t, 0, rows["a"])
	assert.Equal(t, 1, rows["b"])
	assert.Equal(t, 0, rows["c"])
}

func TestReservationService_CompleteElapsed(t *testing.T) {
	svc, d := newService(t)
	d.repo.EXPECT().CompleteElapsed(gomock.Any(), gomock.Any(), "system").Return([]string{"res-1", "res-2"}, nil)

	count, err := svc.CompleteElapsed(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestReservationService_RefreshSnapshots(t *testing.T) {
	svc, d := newService(t)
	d.cacheMiss()
	d.containers.EXPECT().ListContainerTypes(gomock.Any(), false).Return([]containerModel.ContainerType{roll()}, nil)
	d.active(booked("a", 5, 8))

	assert.NoError(t, svc.RefreshSnapshots(context.Background()))
}
