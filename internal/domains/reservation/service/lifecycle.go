package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rolloff/internal/domains/reservation/model"
	"rolloff/internal/domains/reservation/model/dto"
	"rolloff/internal/domains/reservation/pricing"
	"rolloff/internal/domains/reservation/repository"
	"rolloff/shared"
	"rolloff/shared/constant"
	"rolloff/shared/daterange"
	gDto "rolloff/shared/dto"
	"rolloff/shared/failure"
	"rolloff/shared/timezone"

	"github.com/rs/zerolog/log"
)

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	quote, err := s.price(ctx, req.QuoteRequest)
	if err != nil {
		return res, err
	}

	// quote.available comes from the cached snapshot; only the store decides capacity.
	reservation := req.ToModel(currentUser(ctx), quote.policy.Name, quote.dates, quote.breakdown)

	if err = s.repo.InsertWithCapacity(ctx, reservation); err != nil {
		switch {
		case errors.Is(err, repository.ErrCapacityExceeded):
			go s.invalidate(context.WithoutCancel(ctx), reservation.ContainerTypeID)

			return res, failure.Conflict(msgRangeUnavailable) // nolint:wrapcheck
		case errors.Is(err, repository.ErrContainerTypeNotFound):
			return res, failure.NotFound("container type not found") // nolint:wrapcheck
		case errors.Is(err, daterange.ErrInvalidRange):
			return res, failure.BadRequest(err) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create reservation")

		return res, fmt.Errorf("failed to create reservation: %w", err)
	}

	s.afterWrite(ctx, reservation.ContainerTypeID, nil, newEvent(model.EventCreated, reservation))

	res.FromModel(reservation)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservations")

		return res, nil
	}

	total, err := s.count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservations to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetReservation, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation")

		return res, nil
	}

	reservation, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(reservation)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation to cache")
		}
	}()

	return res, nil
}

// find reads a reservation from the store, bypassing the cache.
func (s *serviceImpl) find(ctx context.Context, id string) (model.Reservation, error) {
	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return reservation, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return reservation, failure.NotFound(msgNotFound) // nolint:wrapcheck
	}

	return reservation, nil
}

// Extend lengthens a confirmed reservation. The additional days are re-checked against capacity by
// the store in the same transaction that moves the end date.
func (s *serviceImpl) Extend(ctx context.Context, id string, req dto.ExtendReservationRequest) (res dto.ExtendReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Extend")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	newEnd, err := time.Parse(constant.DateOnlyFormat, req.NewEndDate)
	if err != nil {
		return res, failure.BadRequestFromString("new_end_date must be a YYYY-MM-DD date") // nolint:wrapcheck
	}

	reservation, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if reservation.Status != model.StatusConfirmed {
		return res, failure.Conflict("only confirmed reservations can be extended") // nolint:wrapcheck
	}

	policy, err := s.pricing.Policy(reservation.PricingPolicy)
	if err != nil {
		log.Error().Err(err).Str("policy", reservation.PricingPolicy).Msg("reservation refers to an unknown pricing policy")

		return res, fmt.Errorf("failed to load pricing policy: %w", err)
	}

	extension, err := policy.Extend(reservation.PricingBreakdown.Breakdown, reservation.EndDate, newEnd)
	if err != nil {
		if errors.Is(err, pricing.ErrExtensionNotForward) {
			return res, failure.BadRequest(err) // nolint:wrapcheck
		}

		return res, fmt.Errorf("failed to price extension: %w", err)
	}

	previous := reservation
	reservation.EndDate = daterange.Day(newEnd)
	reservation.TotalAmount = extension.Breakdown.Total
	reservation.PricingBreakdown = model.PricingBreakdown{Breakdown: extension.Breakdown}
	reservation.ModifiedAt = timezone.Now()
	reservation.ModifiedBy = currentUser(ctx)

	fields := map[string]any{
		model.FieldTotalAmount:      reservation.TotalAmount,
		model.FieldPricingBreakdown: reservation.PricingBreakdown,
		constant.FieldModifiedAt:    reservation.ModifiedAt,
		constant.FieldModifiedBy:    reservation.ModifiedBy,
	}

	if err = s.repo.UpdateEndDate(ctx, id, previous.EndDate, newEnd, fields); err != nil {
		switch {
		case errors.Is(err, repository.ErrCapacityExceeded):
			go s.invalidate(context.WithoutCancel(ctx), reservation.ContainerTypeID)

			return res, failure.Conflict(msgRangeUnavailable) // nolint:wrapcheck
		case errors.Is(err, repository.ErrStaleReservation):
			return res, failure.Conflict(msgStale) // nolint:wrapcheck
		case errors.Is(err, repository.ErrReservationNotFound):
			return res, failure.NotFound(msgNotFound) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to extend reservation")

		return res, fmt.Errorf("failed to extend reservation: %w", err)
	}

	event := newEvent(model.EventExtended, reservation)
	event.AdditionalCost = extension.AdditionalCost
	s.afterWrite(ctx, reservation.ContainerTypeID, []string{id}, event)

	res.AdditionalDays = extension.AdditionalDays
	res.AdditionalCost = extension.AdditionalCost
	res.Reservation.FromModel(reservation)

	return res, nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.transition(ctx, id, model.StatusCancelled, nil)
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.transition(ctx, id, req.Status, nil)
}

// transition moves a reservation along the status machine, writing extra fields in the same update.
func (s *serviceImpl) transition(ctx context.Context, id, to string, extra map[string]any) error {
	reservation, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if !model.CanTransition(reservation.Status, to) {
		return failure.Conflict(fmt.Sprintf("reservation cannot move from %s to %s", reservation.Status, to)) // nolint:wrapcheck
	}

	fields := map[string]any{
		model.FieldStatus:        to,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: currentUser(ctx),
	}

	for field, value := range extra {
		fields[field] = value
	}

	if err = s.repo.UpdateStatus(ctx, id, reservation.Status, fields); err != nil {
		if errors.Is(err, repository.ErrStaleReservation) {
			return failure.Conflict(msgStale) // nolint:wrapcheck
		}

		log.Error().Err(err).Str("status", to).Msg("failed to update reservation status")

		return fmt.Errorf("failed to update reservation status: %w", err)
	}

	previousStatus := reservation.Status
	reservation.Status = to

	eventType := model.EventStatusChanged
	if to == model.StatusCancelled {
		eventType = model.EventCancelled
	}

	event := newEvent(eventType, reservation)
	event.PreviousStatus = previousStatus
	s.afterWrite(ctx, reservation.ContainerTypeID, []string{id}, event)

	return nil
}

// CompleteElapsed marks every confirmed reservation that ended before today as completed.
func (s *serviceImpl) CompleteElapsed(ctx context.Context) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CompleteElapsed")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	ids, err := s.repo.CompleteElapsed(ctx, today(), systemUser)
	if err != nil {
		log.Error().Err(err).Msg("failed to complete elapsed reservations")

		return 0, fmt.Errorf("failed to complete elapsed reservations: %w", err)
	}

	if len(ids) == 0 {
		return 0, nil
	}

	events := make([]model.Event, len(ids))
	for i, id := range ids {
		events[i] = model.Event{
			Type:           model.EventStatusChanged,
			ReservationID:  id,
			Status:         model.StatusCompleted,
			PreviousStatus: model.StatusConfirmed,
			OccurredAt:     timezone.Now(),
		}
	}

	s.afterWrite(ctx, constant.Empty, ids, events...)

	log.Info().Int("count", len(ids)).Msg("elapsed reservations completed")

	return len(ids), nil
}
