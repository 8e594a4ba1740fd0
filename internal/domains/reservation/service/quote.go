package service

import (
	"context"
	"errors"
	"fmt"

	containerModel "rolloff/internal/domains/container/model"
	"rolloff/internal/domains/reservation/availability"
	"rolloff/internal/domains/reservation/model"
	"rolloff/internal/domains/reservation/model/dto"
	"rolloff/internal/domains/reservation/pricing"
	"rolloff/shared"
	"rolloff/shared/constant"
	"rolloff/shared/daterange"
	"rolloff/shared/failure"
	"rolloff/shared/timezone"

	"github.com/rs/zerolog/log"
)

const maxAvailabilityDays = 366

type priced struct {
	policy        pricing.Policy
	dates         daterange.Range
	breakdown     pricing.Breakdown
	available     bool
	distanceError string
}

func (s *serviceImpl) Quote(ctx context.Context, req dto.QuoteRequest) (res dto.QuoteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Quote")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	quote, err := s.price(ctx, req)
	if err != nil {
		return res, err
	}

	return dto.QuoteResponse{
		Available:     quote.available,
		Policy:        quote.policy.Name,
		Breakdown:     quote.breakdown,
		DistanceError: quote.distanceError,
	}, nil
}

// price runs the shared half of Quote and Create: validate the request against the catalog, check the
// snapshot for capacity, resolve the delivery surcharge and price the booking.
func (s *serviceImpl) price(ctx context.Context, req dto.QuoteRequest) (res priced, err error) {
	res.dates, err = req.Dates()
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	if res.dates.Start.Before(today()) && !isAdmin(ctx) {
		return res, failure.BadRequestFromString("start_date must not be in the past") // nolint:wrapcheck
	}

	if req.HasAdjustment() && !isAdmin(ctx) {
		return res, failure.Forbidden("only administrators can apply manual adjustments") // nolint:wrapcheck
	}

	res.policy, err = s.pricing.PolicyForChannel(req.Channel)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	containerType, err := s.visibleContainerType(ctx, req.ContainerTypeID)
	if err != nil {
		return res, err
	}

	snapshot, err := s.snapshot(ctx, req.ContainerTypeID)
	if err != nil {
		return res, err
	}

	res.available, err = availability.New(snapshot).IsRangeAvailable(req.ContainerTypeID, res.dates.Start, res.dates.End, 1)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	input := pricing.Input{
		BasePrice:   containerType.BasePrice,
		Dates:       res.dates,
		ServiceType: req.ServiceType,
		AddOns:      req.AddOns(),
		Adjustment:  req.Adjustment(),
	}

	if req.ServiceType == pricing.ServiceDelivery {
		fee, lookupErr := s.distance.ResolveDistanceFee(ctx, req.DeliveryZip)
		if lookupErr != nil {
			res.distanceError = msgDistanceDegraded
		}

		input.Distance = pricing.Distance{Miles: fee.Miles, Fee: fee.Fee}
	}

	res.breakdown, err = res.policy.Price(input)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	return res, nil
}

func (s *serviceImpl) Availability(ctx context.Context, containerTypeID string, dates daterange.Range) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Availability")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if dates.Len() > maxAvailabilityDays {
		return res, failure.BadRequestFromString(fmt.Sprintf("date range must not exceed %d days", maxAvailabilityDays)) // nolint:wrapcheck
	}

	if _, err = s.visibleContainerType(ctx, containerTypeID); err != nil {
		return res, err
	}

	snapshot, err := s.snapshot(ctx, containerTypeID)
	if err != nil {
		return res, err
	}

	index := availability.New(snapshot)

	available, err := index.IsRangeAvailable(containerTypeID, dates.Start, dates.End, 1)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	return dto.AvailabilityResponse{
		ContainerTypeID: containerTypeID,
		Version:         dto.FormatVersion(index.Version()),
		Available:       available,
		Days:            index.Days(containerTypeID, dates),
	}, nil
}

// visibleContainerType loads a container type the caller may see. Unknown and hidden types look the
// same to everyone but admins.
func (s *serviceImpl) visibleContainerType(ctx context.Context, id string) (containerModel.ContainerType, error) {
	containerType, err := s.containerRepo.Get(ctx, shared.FilterByID(id, containerModel.FieldID, containerModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get container type")

		return containerType, fmt.Errorf("failed to get container type: %w", err)
	}

	if containerType.ID == constant.Empty || (!containerType.Visible && !isAdmin(ctx)) {
		return containerType, failure.NotFound("container type not found") // nolint:wrapcheck
	}

	return containerType, nil
}

// snapshot returns the cached read model of a container type, rebuilding it from the store on a miss.
// Unknown container types yield a snapshot without capacity and are not cached.
func (s *serviceImpl) snapshot(ctx context.Context, containerTypeID string) (res availability.Snapshot, err error) {
	cacheKey := shared.BuildCacheKey(constant.CacheAvailabilitySnapshot, containerTypeID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for availability snapshot")

		return res, nil
	}

	generation := s.generation(ctx, containerTypeID)

	containerType, err := s.containerRepo.Get(ctx, shared.FilterByID(containerTypeID, containerModel.FieldID, containerModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get container type for snapshot")

		return res, fmt.Errorf("failed to get container type for snapshot: %w", err)
	}

	if containerType.ID == constant.Empty {
		return availability.Snapshot{Version: timezone.Now(), Capacity: map[string]int{}}, nil
	}

	res, err = s.buildSnapshot(ctx, containerType)
	if err != nil {
		return res, err
	}

	if err := s.storeSnapshot(ctx, containerTypeID, generation, res); err != nil {
		log.Error().Err(err).Msg("failed to save availability snapshot to cache")
	}

	return res, nil
}

// generation reads the write counter of a container type. Writers bump it before dropping the
// snapshot, so a reader that sees it move knows its rows may predate that write.
func (s *serviceImpl) generation(ctx context.Context, containerTypeID string) int64 {
	var generation int64

	if err := s.cache.Get(ctx, shared.BuildCacheKey(constant.CacheAvailabilityGeneration, containerTypeID), &generation); err != nil {
		return 0
	}

	return generation
}

// storeSnapshot caches a snapshot built under the given generation and takes it back out when a write
// landed while it was being built or saved.
func (s *serviceImpl) storeSnapshot(ctx context.Context, containerTypeID string, generation int64, snapshot availability.Snapshot) error {
	cacheKey := shared.BuildCacheKey(constant.CacheAvailabilitySnapshot, containerTypeID)

	if err := s.cache.Save(ctx, cacheKey, snapshot, s.cfg.Cache.SnapshotTTL); err != nil {
		return fmt.Errorf("failed to save availability snapshot: %w", err)
	}

	if s.generation(ctx, containerTypeID) == generation {
		return nil
	}

	log.Warn().Str("container_type_id", containerTypeID).Msg("availability changed while building snapshot, discarding it")

	if err := s.cache.Delete(ctx, cacheKey); err != nil {
		return fmt.Errorf("failed to discard stale availability snapshot: %w", err)
	}

	return nil
}

func (s *serviceImpl) buildSnapshot(ctx context.Context, containerType containerModel.ContainerType) (availability.Snapshot, error) {
	version := timezone.Now()

	reservations, err := s.repo.ListActive(ctx, containerType.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list active reservations")

		return availability.Snapshot{}, fmt.Errorf("failed to list active reservations: %w", err)
	}

	entries := make([]availability.Entry, len(reservations))
	for i, reservation := range reservations {
		entries[i] = availability.Entry{
			ID:              reservation.ID,
			ContainerTypeID: reservation.ContainerTypeID,
			Dates:           reservation.Dates(),
			Cancelled:       reservation.Status == model.StatusCancelled,
		}
	}

	return availability.Snapshot{
		Version:  version,
		Capacity: map[string]int{containerType.ID: containerType.AvailableQuantity},
		Entries:  entries,
	}, nil
}

// RefreshSnapshots rebuilds and stores the snapshot of every container type.
func (s *serviceImpl) RefreshSnapshots(ctx context.Context) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefreshSnapshots")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	containerTypes, err := s.containerRepo.ListContainerTypes(ctx, false)
	if err != nil {
		log.Error().Err(err).Msg("failed to list container types")

		return fmt.Errorf("failed to list container types: %w", err)
	}

	var errs []error

	for _, containerType := range containerTypes {
		generation := s.generation(ctx, containerType.ID)

		snapshot, err := s.buildSnapshot(ctx, containerType)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		if err := s.storeSnapshot(ctx, containerType.ID, generation, snapshot); err != nil {
			errs = append(errs, err)
		}
	}

	if err = errors.Join(errs...); err != nil {
		return fmt.Errorf("failed to refresh availability snapshots: %w", err)
	}

	log.Info().Int("container_types", len(containerTypes)).Msg("availability snapshots refreshed")

	return nil
}
