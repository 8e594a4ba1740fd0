package event_test

import (
	"context"
	"testing"
	"time"

	"rolloff/config"
	"rolloff/infras/kafka"
	kafkaMocks "rolloff/infras/kafka/mocks"
	otelMocks "rolloff/infras/otel/mocks"
	notificationMocks "rolloff/internal/domains/notification/service/mocks"
	reservationMocks "rolloff/internal/domains/reservation/service/mocks"
	"rolloff/internal/jobs"
	"rolloff/transport/event"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newConfig(complete string) *config.Config {
	cfg := &config.Config{}
	cfg.Kafka.ConsumerGroup = "rolloff-worker"
	cfg.Kafka.Topics.Reservation = "reservation.events"
	cfg.Jobs.CompleteReservationsSpec = complete
	cfg.Jobs.RefreshSnapshotsSpec = "@every 1h"

	return cfg
}

func TestWorker_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := kafkaMocks.NewMockClient(ctrl)
	notification := notificationMocks.NewMockNotification(ctrl)
	reservation := reservationMocks.NewMockReservation(ctrl)

	cfg := newConfig("@daily")

	client.EXPECT().Consume(gomock.Any(), "rolloff-worker", "reservation.events", gomock.Any()).
		Do(func(ctx context.Context, _, _ string, _ kafka.Handler) {
			<-ctx.Done()
		})
	client.EXPECT().Close().Return(nil)

	worker := event.New(cfg, client, notification, jobs.New(cfg, reservation, otelMocks.NewOtel()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- worker.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

func TestWorker_RunInvalidSchedule(t *testing.T) {
	ctrl := gomock.NewController(t)
	cfg := newConfig("whenever")

	worker := event.New(cfg, kafkaMocks.NewMockClient(ctrl), notificationMocks.NewMockNotification(ctrl),
		jobs.New(cfg, reservationMocks.NewMockReservation(ctrl), otelMocks.NewOtel()))

	assert.Error(t, worker.Run(context.Background()))
}
