package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"time"

	"rolloff/infras/otel"
	"rolloff/infras/postgres"
	containerModel "rolloff/internal/domains/container/model"
	"rolloff/internal/domains/reservation/model"
	"rolloff/shared"
	"rolloff/shared/constant"
	gDto "rolloff/shared/dto"
	"rolloff/shared/logger"
	gRepo "rolloff/shared/repository"

	"github.com/jmoiron/sqlx"
)

var (
	ErrCapacityExceeded      = errors.New("container type capacity exceeded for the requested dates")
	ErrContainerTypeNotFound = errors.New("container type not found")
	ErrReservationNotFound   = errors.New("reservation not found")
	ErrStaleReservation      = errors.New("reservation changed since it was read")
)

const (
	lockContainerTypeQuery = `SELECT available_quantity FROM container_types WHERE id = $1 FOR UPDATE`

	// peakUsageQuery returns the highest number of non-cancelled reservations of a container type
	// sharing any single day of [$2, $3], ignoring reservation $4.
	peakUsageQuery = `SELECT COALESCE(MAX(used), 0) FROM (
	SELECT d.day, COUNT(r.id) AS used
	FROM generate_series($2::date, $3::date, interval '1 day') AS d(day)
	LEFT JOIN reservations r
		ON r.container_type_id = $1
		AND r.status <> 'cancelled'
		AND r.id <> $4
		AND d.day BETWEEN r.start_date AND r.end_date
	GROUP BY d.day
) usage`

	completeElapsedQuery = `UPDATE reservations
SET status = $1, modified_at = $2, modified_by = $3
WHERE status = $4 AND end_date < $5
RETURNING id`
)

type Reservation interface {
	Insert(ctx context.Context, model model.Reservation) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Reservation, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Reservation, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	ListActive(ctx context.Context, containerTypeID string) ([]model.Reservation, error)
	ListOverlapping(ctx context.Context, containerTypeID string, from, to time.Time) ([]model.Reservation, error)
	InsertWithCapacity(ctx context.Context, reservation model.Reservation) error
	UpdateEndDate(ctx context.Context, id string, currentEnd, newEnd time.Time, fields map[string]any) error
	UpdateStatus(ctx context.Context, id, from string, fields map[string]any) error
	CompleteElapsed(ctx context.Context, before time.Time, user string) ([]string, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Reservation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func activeFilter(containerTypeID string) gDto.FilterGroup {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldStatus,
				Value:    model.StatusCancelled,
				Operator: gDto.FilterOperatorNotEq,
				Table:    model.TableName,
			},
		},
	}

	if containerTypeID != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldContainerTypeID,
			Value:    containerTypeID,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	return filter
}

// ListActive returns every non-cancelled reservation, optionally restricted to one container type.
func (r *repositoryImpl) ListActive(ctx context.Context, containerTypeID string) ([]model.Reservation, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.ListActive")
	defer scope.End()

	params := gDto.QueryParams{SortBy: model.FieldStartDate, SortDir: gDto.SortDirAsc}

	reservations, err := r.GetAll(ctx, params, activeFilter(containerTypeID))
	if err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list active reservations: %w", err)
	}

	return reservations, nil
}

// ListOverlapping returns non-cancelled reservations touching [from, to], ordered by start date.
func (r *repositoryImpl) ListOverlapping(ctx context.Context, containerTypeID string, from, to time.Time) ([]model.Reservation, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.ListOverlapping")
	defer scope.End()

	filter := activeFilter(containerTypeID)
	filter.Filters = append(filter.Filters,
		gDto.Filter{
			ArgName:  "window_end",
			Field:    model.FieldStartDate,
			Value:    to,
			Operator: gDto.FilterOperatorLessEq,
			Table:    model.TableName,
		},
		gDto.Filter{
			ArgName:  "window_start",
			Field:    model.FieldEndDate,
			Value:    from,
			Operator: gDto.FilterOperatorGreaterEq,
			Table:    model.TableName,
		},
	)

	params := gDto.QueryParams{SortBy: model.FieldStartDate, SortDir: gDto.SortDirAsc}

	reservations, err := r.GetAll(ctx, params, filter)
	if err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list overlapping reservations: %w", err)
	}

	return reservations, nil
}

// InsertWithCapacity inserts the reservation only if one more unit fits on every day of its range.
// The container type row is locked for the duration of the check so concurrent inserts of the same
// type are serialized.
func (r *repositoryImpl) InsertWithCapacity(ctx context.Context, reservation model.Reservation) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.InsertWithCapacity")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		err := r.checkCapacity(ctx, tx, reservation.ContainerTypeID, reservation.StartDate, reservation.EndDate, reservation.ID)
		if err != nil {
			return err
		}

		if err = r.InsertTx(ctx, tx, reservation); err != nil {
			return fmt.Errorf("failed to insert reservation: %w", err)
		}

		return nil
	})
}

// UpdateEndDate moves the end of a reservation to newEnd when it still ends at currentEnd and the
// additional days fit within capacity. fields are written in the same statement as the new end date.
func (r *repositoryImpl) UpdateEndDate(ctx context.Context, id string, currentEnd, newEnd time.Time, fields map[string]any) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.UpdateEndDate")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	byID := shared.FilterByID(id, model.FieldID, model.TableName)

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		locked, err := r.GetForUpdateTx(ctx, tx, byID,
			model.FieldContainerTypeID, model.FieldStartDate, model.FieldEndDate, model.FieldStatus)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrReservationNotFound
		}

		if err != nil {
			return fmt.Errorf("failed to lock reservation: %w", err)
		}

		if !sameDay(locked.EndDate, currentEnd) || model.IsTerminal(locked.Status) {
			return ErrStaleReservation
		}

		err = r.checkCapacity(ctx, tx, locked.ContainerTypeID, currentEnd.AddDate(0, 0, 1), newEnd, id)
		if err != nil {
			return err
		}

		update := maps.Clone(fields)
		if update == nil {
			update = map[string]any{}
		}

		update[model.FieldEndDate] = newEnd

		if err = r.UpdateTx(ctx, tx, update, byID); err != nil {
			return fmt.Errorf("failed to update reservation end date: %w", err)
		}

		return nil
	})
}

// UpdateStatus writes fields only while the reservation is still in status from. A reservation that
// moved on since it was read yields ErrStaleReservation.
func (r *repositoryImpl) UpdateStatus(ctx context.Context, id, from string, fields map[string]any) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.UpdateStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)
	filter.Filters = append(filter.Filters, gDto.Filter{
		ArgName:  "current_status",
		Field:    model.FieldStatus,
		Value:    from,
		Operator: gDto.FilterOperatorEq,
		Table:    model.TableName,
	})

	updated, err := r.UpdateRows(ctx, fields, filter)
	if err != nil {
		return fmt.Errorf("failed to update reservation status: %w", err)
	}

	if updated == 0 {
		return ErrStaleReservation
	}

	return nil
}

// CompleteElapsed marks confirmed reservations that ended before the given day as completed and
// returns their ids.
func (r *repositoryImpl) CompleteElapsed(ctx context.Context, before time.Time, user string) ([]string, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.CompleteElapsed")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, completeElapsedQuery)

	var ids []string

	err := r.db.Write.SelectContext(ctx, &ids, completeElapsedQuery,
		model.StatusCompleted, time.Now().UTC(), user, model.StatusConfirmed, before)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to complete elapsed reservations: %w", err)
	}

	return ids, nil
}

func (r *repositoryImpl) checkCapacity(ctx context.Context, tx *sqlx.Tx, containerTypeID string, start, end time.Time, excludeID string) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.checkCapacity")
	defer scope.End()

	var capacity int

	err := tx.GetContext(ctx, &capacity, lockContainerTypeQuery, containerTypeID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrContainerTypeNotFound, containerTypeID)
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to lock %s: %w", containerModel.EntityName, err)
	}

	var peak int

	scope.SetAttribute(constant.OtelQueryAttributeKey, peakUsageQuery)

	if err = tx.GetContext(ctx, &peak, peakUsageQuery, containerTypeID, start, end, excludeID); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to count overlapping reservations: %w", err)
	}

	if peak+1 > capacity {
		return fmt.Errorf("%w: %d of %d units already booked", ErrCapacityExceeded, peak, capacity)
	}

	return nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
