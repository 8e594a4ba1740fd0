package jobs

import (
	"context"
	"fmt"
	"time"

	"rolloff/config"
	"rolloff/infras/otel"
	reservationService "rolloff/internal/domains/reservation/service"
	"rolloff/shared/constant"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

type Scheduler struct {
	cron        *cron.Cron
	cfg         *config.Config
	reservation reservationService.Reservation
	otel        otel.Otel
}

func New(cfg *config.Config, reservation reservationService.Reservation, otel otel.Otel) *Scheduler {
	logger := cronLogger{}

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		cfg:         cfg,
		reservation: reservation,
		otel:        otel,
	}
}

// Register adds every job to the scheduler. An invalid schedule fails the whole registration.
func (s *Scheduler) Register() error {
	jobs := []struct {
		name string
		spec string
		run  func()
	}{
		{name: "complete_elapsed_reservations", spec: s.cfg.Jobs.CompleteReservationsSpec, run: s.CompleteElapsed},
		{name: "refresh_availability_snapshots", spec: s.cfg.Jobs.RefreshSnapshotsSpec, run: s.RefreshSnapshots},
	}

	for _, job := range jobs {
		if _, err := s.cron.AddFunc(job.spec, job.run); err != nil {
			return fmt.Errorf("failed to register %s job: %w", job.name, err)
		}

		log.Info().Str("job", job.name).Str("spec", job.spec).Msg("cron job registered")
	}

	return nil
}

func (s *Scheduler) Start() {
	log.Info().Int("jobs", len(s.cron.Entries())).Msg("starting cron scheduler")
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("cron scheduler stopped")
}

// CompleteElapsed moves confirmed reservations whose rental ended before today to completed.
func (s *Scheduler) CompleteElapsed() {
	ctx, scope := s.otel.NewScope(context.Background(), constant.OtelJobScopeName, constant.OtelJobScopeName+".CompleteElapsed")
	defer scope.End()

	completed, err := s.reservation.CompleteElapsed(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int("completed", completed).Msg("complete elapsed reservations job failed")

		return
	}

	log.Info().Int("completed", completed).Msg("complete elapsed reservations job finished")
}

func (s *Scheduler) RefreshSnapshots() {
	ctx, scope := s.otel.NewScope(context.Background(), constant.OtelJobScopeName, constant.OtelJobScopeName+".RefreshSnapshots")
	defer scope.End()

	if err := s.reservation.RefreshSnapshots(ctx); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("refresh availability snapshots job failed")

		return
	}

	log.Info().Msg("refresh availability snapshots job finished")
}

type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	log.Debug().Fields(keysAndValues).Msg(msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
