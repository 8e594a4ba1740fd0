package service

import (
	"context"
	"fmt"
	"time"

	"rolloff/internal/domains/reservation/calendar"
	"rolloff/internal/domains/reservation/model"
	"rolloff/internal/domains/reservation/model/dto"
	"rolloff/shared/constant"
	"rolloff/shared/daterange"

	"github.com/rs/zerolog/log"
)

// CalendarWeek lays out the non-cancelled reservations touching the week as non-overlapping rows.
func (s *serviceImpl) CalendarWeek(ctx context.Context, weekStart time.Time, containerTypeID string) (res dto.CalendarResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CalendarWeek")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	week := daterange.Week(weekStart)

	reservations, err := s.repo.ListOverlapping(ctx, containerTypeID, week.Start, week.End)
	if err != nil {
		log.Error().Err(err).Msg("failed to list reservations for calendar")

		return res, fmt.Errorf("failed to list reservations for calendar: %w", err)
	}

	items := make([]calendar.Item, len(reservations))
	byID := make(map[string]model.Reservation, len(reservations))

	for i, reservation := range reservations {
		items[i] = calendar.Item{ReservationID: reservation.ID, Dates: reservation.Dates()}
		byID[reservation.ID] = reservation
	}

	res.FromBands(week, calendar.LayoutWeek(week.Start, items), byID)

	return res, nil
}
