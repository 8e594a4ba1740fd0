package event

import (
	"context"
	"fmt"

	"rolloff/config"
	"rolloff/infras/kafka"
	notificationService "rolloff/internal/domains/notification/service"
	"rolloff/internal/jobs"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Worker runs the reservation event consumer and the cron scheduler.
type Worker struct {
	cfg          *config.Config
	kafka        kafka.Client
	notification notificationService.Notification
	scheduler    *jobs.Scheduler
}

func New(cfg *config.Config, kafka kafka.Client, notification notificationService.Notification, scheduler *jobs.Scheduler) *Worker {
	return &Worker{
		cfg:          cfg,
		kafka:        kafka,
		notification: notification,
		scheduler:    scheduler,
	}
}

// Run blocks until ctx is cancelled, then waits for in-flight messages and jobs.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.scheduler.Register(); err != nil {
		return fmt.Errorf("failed to register jobs: %w", err)
	}

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		w.scheduler.Start()

		<-ctx.Done()
		w.scheduler.Stop()

		return nil
	})

	group.Go(func() error {
		log.Info().Str("topic", w.cfg.Kafka.Topics.Reservation).Msg("consuming reservation events")

		w.kafka.Consume(ctx, w.cfg.Kafka.ConsumerGroup, w.cfg.Kafka.Topics.Reservation, w.notification.HandleReservationEvent)

		return nil
	})

	err := group.Wait()

	if closeErr := w.kafka.Close(); closeErr != nil {
		log.Error().Err(closeErr).Msg("failed to close kafka client")
	}

	if err != nil {
		return fmt.Errorf("worker stopped: %w", err)
	}

	log.Info().Msg("worker stopped")

	return nil
}
