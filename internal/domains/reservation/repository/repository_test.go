package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"rolloff/infras/otel/mocks"
	"rolloff/infras/postgres"
	"rolloff/internal/domains/reservation/model"
	"rolloff/internal/domains/reservation/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	lockContainerType = regexp.QuoteMeta(`SELECT available_quantity FROM container_types WHERE id = $1 FOR UPDATE`)
	lockReservation   = `SELECT reservations.container_type_id, reservations.start_date, reservations.end_date, reservations.status FROM reservations\s+WHERE \(reservations.id = \$1\)\s+FOR UPDATE`
	peakUsage         = `SELECT COALESCE\(MAX\(used\), 0\)`
)

func day(d int) time.Time {
	return time.Date(2024, time.June, d, 0, 0, 0, 0, time.UTC)
}

func newRepository(t *testing.T) (repository.Reservation, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "postgres")

	return repository.New(&postgres.Connection{Read: sqlxDB, Write: sqlxDB}, mocks.NewOtel()), mock
}

func draft() model.Reservation {
	return model.Reservation{
		ID:              "res-1",
		ContainerTypeID: "ct-20",
		CustomerName:    "Dana Reyes",
		StartDate:       day(5),
		EndDate:         day(8),
		Status:          model.StatusPending,
		PaymentStatus:   model.PaymentStatusPending,
		BasePrice:       decimal.NewFromInt(595),
		TotalAmount:     decimal.NewFromInt(620),
	}
}

func TestReservationRepository_InsertWithCapacity(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		peak     int
		wantErr  error
	}{
		{name: "one unit left", capacity: 2, peak: 1},
		{name: "fully booked", capacity: 2, peak: 2, wantErr: repository.ErrCapacityExceeded},
		{name: "no fleet", capacity: 0, peak: 0, wantErr: repository.ErrCapacityExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepository(t)
			res := draft()

			mock.ExpectBegin()
			mock.ExpectQuery(lockContainerType).
				WithArgs("ct-20").
				WillReturnRows(sqlmock.NewRows([]string{"available_quantity"}).AddRow(tt.capacity))
			mock.ExpectQuery(peakUsage).
				WithArgs("ct-20", res.StartDate, res.EndDate, res.ID).
				WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(tt.peak))

			if tt.wantErr == nil {
				mock.ExpectExec("INSERT INTO reservations").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			} else {
				mock.ExpectRollback()
			}

			err := repo.InsertWithCapacity(context.Background(), res)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReservationRepository_InsertWithCapacity_UnknownContainerType(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockContainerType).
		WithArgs("ct-20").
		WillReturnRows(sqlmock.NewRows([]string{"available_quantity"}))
	mock.ExpectRollback()

	err := repo.InsertWithCapacity(context.Background(), draft())

	assert.ErrorIs(t, err, repository.ErrContainerTypeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_InsertWithCapacity_InsertFails(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockContainerType).
		WillReturnRows(sqlmock.NewRows([]string{"available_quantity"}).AddRow(3))
	mock.ExpectQuery(peakUsage).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))
	mock.ExpectExec("INSERT INTO reservations").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.InsertWithCapacity(context.Background(), draft())

	assert.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrCapacityExceeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_UpdateEndDate(t *testing.T) {
	lockedRow := func(end time.Time, status string) *sqlmock.Rows {
		return sqlmock.NewRows([]string{"container_type_id", "start_date", "end_date", "status"}).
			AddRow("ct-20", day(5), end, status)
	}

	t.Run("extension fits", func(t *testing.T) {
		repo, mock := newRepository(t)

		mock.ExpectBegin()
		mock.ExpectPrepare(lockReservation).ExpectQuery().WithArgs("res-1").WillReturnRows(lockedRow(day(8), model.StatusConfirmed))
		mock.ExpectQuery(lockContainerType).
			WithArgs("ct-20").
			WillReturnRows(sqlmock.NewRows([]string{"available_quantity"}).AddRow(2))
		mock.ExpectQuery(peakUsage).
			WithArgs("ct-20", day(9), day(11), "res-1").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(1))
		mock.ExpectExec("UPDATE reservations SET").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.UpdateEndDate(context.Background(), "res-1", day(8), day(11), map[string]any{
			model.FieldTotalAmount: decimal.NewFromInt(695),
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("extension would overbook", func(t *testing.T) {
		repo, mock := newRepository(t)

		mock.ExpectBegin()
		mock.ExpectPrepare(lockReservation).ExpectQuery().WithArgs("res-1").WillReturnRows(lockedRow(day(8), model.StatusConfirmed))
		mock.ExpectQuery(lockContainerType).
			WillReturnRows(sqlmock.NewRows([]string{"available_quantity"}).AddRow(1))
		mock.ExpectQuery(peakUsage).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(1))
		mock.ExpectRollback()

		err := repo.UpdateEndDate(context.Background(), "res-1", day(8), day(11), nil)

		assert.ErrorIs(t, err, repository.ErrCapacityExceeded)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("end date moved concurrently", func(t *testing.T) {
		repo, mock := newRepository(t)

		mock.ExpectBegin()
		mock.ExpectPrepare(lockReservation).ExpectQuery().WithArgs("res-1").WillReturnRows(lockedRow(day(9), model.StatusConfirmed))
		mock.ExpectRollback()

		err := repo.UpdateEndDate(context.Background(), "res-1", day(8), day(11), nil)

		assert.ErrorIs(t, err, repository.ErrStaleReservation)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cancelled meanwhile", func(t *testing.T) {
		repo, mock := newRepository(t)

		mock.ExpectBegin()
		mock.ExpectPrepare(lockReservation).ExpectQuery().WithArgs("res-1").WillReturnRows(lockedRow(day(8), model.StatusCancelled))
		mock.ExpectRollback()

		err := repo.UpdateEndDate(context.Background(), "res-1", day(8), day(11), nil)

		assert.ErrorIs(t, err, repository.ErrStaleReservation)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing reservation", func(t *testing.T) {
		repo, mock := newRepository(t)

		mock.ExpectBegin()
		mock.ExpectPrepare(lockReservation).ExpectQuery().
			WithArgs("res-1").
			WillReturnRows(sqlmock.NewRows([]string{"container_type_id", "start_date", "end_date", "status"}))
		mock.ExpectRollback()

		err := repo.UpdateEndDate(context.Background(), "res-1", day(8), day(11), nil)

		assert.ErrorIs(t, err, repository.ErrReservationNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReservationRepository_UpdateStatus(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "still in the expected status", affected: 1},
		{name: "moved on since it was read", affected: 0, wantErr: repository.ErrStaleReservation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepository(t)

			mock.ExpectExec(regexp.QuoteMeta(
				"UPDATE reservations SET modified_by = $1, status = $2  " +
					"WHERE (reservations.id = $3 AND reservations.status = $4)")).
				WithArgs("admin-1", model.StatusConfirmed, "res-1", model.StatusAwaitingCard).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := repo.UpdateStatus(context.Background(), "res-1", model.StatusAwaitingCard, map[string]any{
				model.FieldStatus: model.StatusConfirmed,
				"modified_by":     "admin-1",
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReservationRepository_CompleteElapsed(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectQuery("RETURNING id").
		WithArgs(model.StatusCompleted, sqlmock.AnyArg(), "system", model.StatusConfirmed, day(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("res-1").AddRow("res-2"))

	ids, err := repo.CompleteElapsed(context.Background(), day(10), "system")

	require.NoError(t, err)
	assert.Equal(t, []string{"res-1", "res-2"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_ListActive(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectPrepare(`SELECT (.+) FROM reservations\s+WHERE \(reservations.status != \$1 AND reservations.container_type_id = \$2\)`).
		ExpectQuery().
		WithArgs(model.StatusCancelled, "ct-20").
		WillReturnRows(sqlmock.NewRows([]string{"id", "container_type_id", "start_date", "end_date", "status"}).
			AddRow("res-1", "ct-20", day(5), day(8), model.StatusConfirmed))

	reservations, err := repo.ListActive(context.Background(), "ct-20")

	require.NoError(t, err)
	require.Len(t, reservations, 1)
	assert.Equal(t, day(8), reservations[0].EndDate)
}
