package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"time"

	"rolloff/config"
	"rolloff/infras/kafka"
	"rolloff/infras/otel"
	"rolloff/infras/s3"
	"rolloff/infras/stripe"
	containerRepo "rolloff/internal/domains/container/repository"
	distanceService "rolloff/internal/domains/distance/service"
	"rolloff/internal/domains/reservation/model"
	"rolloff/internal/domains/reservation/model/dto"
	"rolloff/internal/domains/reservation/pricing"
	"rolloff/internal/domains/reservation/repository"
	"rolloff/shared"
	"rolloff/shared/cache"
	"rolloff/shared/constant"
	"rolloff/shared/daterange"
	gDto "rolloff/shared/dto"
	"rolloff/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetReservation    = "reservation:get"
	cacheGetAllReservation = "reservation:gets"
	cacheCountReservation  = "reservation:count"

	signatureDirectory = "signatures"
	systemUser         = "system"

	msgRangeUnavailable = "Selected date range is not available, please choose different dates"
	msgNotFound         = "reservation not found"
	msgStale            = "reservation was changed by someone else, reload and try again"
	msgDistanceDegraded = "distance lookup failed, delivery surcharge not applied"
)

type Reservation interface {
	Quote(ctx context.Context, req dto.QuoteRequest) (dto.QuoteResponse, error)
	Availability(ctx context.Context, containerTypeID string, dates daterange.Range) (dto.AvailabilityResponse, error)
	Create(ctx context.Context, req dto.CreateReservationRequest) (dto.ReservationResponse, error)
	Get(ctx context.Context, id string) (dto.ReservationResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetReservationsResponse, error)
	Extend(ctx context.Context, id string, req dto.ExtendReservationRequest) (dto.ExtendReservationResponse, error)
	Cancel(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) error
	SaveCard(ctx context.Context, id string, req dto.SaveCardRequest) error
	Charge(ctx context.Context, id string) (dto.ReservationResponse, error)
	UploadSignature(ctx context.Context, id string, req dto.SignatureRequest) (dto.ReservationResponse, error)
	CalendarWeek(ctx context.Context, weekStart time.Time, containerTypeID string) (dto.CalendarResponse, error)
	CompleteElapsed(ctx context.Context) (int, error)
	RefreshSnapshots(ctx context.Context) error
}

type serviceImpl struct {
	repo          repository.Reservation
	containerRepo containerRepo.ContainerType
	pricing       *pricing.Engine
	distance      distanceService.Resolver
	kafka         kafka.Client
	payment       stripe.Payment
	storage       s3.S3
	cfg           *config.Config
	cache         cache.RedisCache
	otel          otel.Otel
}

func New(
	repo repository.Reservation,
	containerRepo containerRepo.ContainerType,
	pricing *pricing.Engine,
	distance distanceService.Resolver,
	kafka kafka.Client,
	payment stripe.Payment,
	storage s3.S3,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Reservation {
	return &serviceImpl{
		repo:          repo,
		containerRepo: containerRepo,
		pricing:       pricing,
		distance:      distance,
		kafka:         kafka,
		payment:       payment,
		storage:       storage,
		cfg:           cfg,
		cache:         cache,
		otel:          otel,
	}
}

func isAdmin(ctx context.Context) bool {
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	return role == constant.RoleAdmin || role == constant.RoleSuperAdmin
}

func currentUser(ctx context.Context) string {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		return constant.ContextGuest
	}

	return user
}

func today() time.Time {
	return timezone.Today()
}

func newEvent(eventType string, reservation model.Reservation) model.Event {
	return model.Event{
		Type:            eventType,
		ReservationID:   reservation.ID,
		ContainerTypeID: reservation.ContainerTypeID,
		CustomerName:    reservation.CustomerName,
		CustomerEmail:   reservation.CustomerEmail,
		StartDate:       reservation.StartDate.Format(constant.DateOnlyFormat),
		EndDate:         reservation.EndDate.Format(constant.DateOnlyFormat),
		Status:          reservation.Status,
		TotalAmount:     reservation.TotalAmount,
		OccurredAt:      timezone.Now(),
	}
}

// afterWrite publishes the events of a committed write and drops every cache it touched.
func (s *serviceImpl) afterWrite(ctx context.Context, containerTypeID string, reservationIDs []string, events ...model.Event) {
	go func() {
		c := context.WithoutCancel(ctx)

		s.invalidate(c, containerTypeID, reservationIDs...)

		if len(events) == 0 {
			return
		}

		messages := make([]kafka.Message, len(events))
		for i, event := range events {
			messages[i] = kafka.Message{Key: event.ReservationID, Value: event}
		}

		if err := s.kafka.SendMessages(c, s.cfg.Kafka.Topics.Reservation, messages...); err != nil {
			log.Error().Err(err).Int("events", len(events)).Msg("failed to publish reservation events")
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, containerTypeID string, reservationIDs ...string) {
	for _, id := range reservationIDs {
		if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetReservation, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete reservation cache")
		}
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetAllReservation)
	shared.InvalidateCaches(ctx, s.cache, cacheCountReservation)

	if containerTypeID == constant.Empty {
		shared.InvalidateCaches(ctx, s.cache, constant.CacheAvailabilitySnapshot)

		return
	}

	if _, err := s.cache.Increment(ctx, shared.BuildCacheKey(constant.CacheAvailabilityGeneration, containerTypeID), constant.AvailabilityGenerationTTL); err != nil {
		log.Error().Err(err).Msg("failed to bump availability generation")
	}

	if err := s.cache.Delete(ctx, shared.BuildCacheKey(constant.CacheAvailabilitySnapshot, containerTypeID)); err != nil {
		log.Error().Err(err).Msg("failed to delete availability snapshot")
	}
}
