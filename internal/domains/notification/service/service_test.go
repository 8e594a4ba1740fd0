package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"rolloff/infras/otel/mocks"
	"rolloff/infras/sendgrid"
	sendgridMocks "rolloff/infras/sendgrid/mocks"
	"rolloff/internal/domains/notification/service"
	"rolloff/internal/domains/reservation/model"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func message(t *testing.T, event model.Event) kafkaGo.Message {
	t.Helper()

	value, err := json.Marshal(event)
	require.NoError(t, err)

	return kafkaGo.Message{Key: []byte(event.ReservationID), Value: value}
}

func event(eventType string) model.Event {
	return model.Event{
		Type:            eventType,
		ReservationID:   "res-1",
		ContainerTypeID: "ct-20",
		CustomerName:    "Jane Doe",
		CustomerEmail:   "jane@example.com",
		StartDate:       "2026-11-02",
		EndDate:         "2026-11-06",
		Status:          model.StatusPending,
		TotalAmount:     decimal.NewFromInt(770),
	}
}

func TestNotification_HandleReservationEvent(t *testing.T) {
	noEmail := event(model.EventCreated)
	noEmail.CustomerEmail = ""

	extended := event(model.EventExtended)
	extended.AdditionalCost = decimal.NewFromInt(75)
	extended.TotalAmount = decimal.NewFromInt(845)

	changed := event(model.EventStatusChanged)
	changed.PreviousStatus = model.StatusPending
	changed.Status = model.StatusAwaitingCard

	tests := []struct {
		name      string
		message   func(t *testing.T) kafkaGo.Message
		setupMock func(mailer *sendgridMocks.MockMailer)
		wantErr   bool
	}{
		{
			name:    "created event emails the customer",
			message: func(t *testing.T) kafkaGo.Message { return message(t, event(model.EventCreated)) },
			setupMock: func(mailer *sendgridMocks.MockMailer) {
				mailer.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, email sendgrid.Email) error {
					assert.Equal(t, "jane@example.com", email.To)
					assert.Equal(t, "We received your dumpster reservation", email.Subject)
					assert.Contains(t, email.PlainText, "Hi Jane Doe,")
					assert.Contains(t, email.PlainText, "$770.00")

					return nil
				})
			},
		},
		{
			name:    "extended event carries the additional cost",
			message: func(t *testing.T) kafkaGo.Message { return message(t, extended) },
			setupMock: func(mailer *sendgridMocks.MockMailer) {
				mailer.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, email sendgrid.Email) error {
					assert.Contains(t, email.PlainText, "Additional cost: $75.00")
					assert.Contains(t, email.PlainText, "New total: $845.00")

					return nil
				})
			},
		},
		{
			name:    "status change names both statuses",
			message: func(t *testing.T) kafkaGo.Message { return message(t, changed) },
			setupMock: func(mailer *sendgridMocks.MockMailer) {
				mailer.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, email sendgrid.Email) error {
					assert.Equal(t, "Reservation awaiting card", email.Subject)
					assert.Contains(t, email.PlainText, "from pending to awaiting_card")

					return nil
				})
			},
		},
		{
			name:      "no customer email is skipped",
			message:   func(t *testing.T) kafkaGo.Message { return message(t, noEmail) },
			setupMock: func(_ *sendgridMocks.MockMailer) {},
		},
		{
			name:      "unknown event type is skipped",
			message:   func(t *testing.T) kafkaGo.Message { return message(t, event("reservation.archived")) },
			setupMock: func(_ *sendgridMocks.MockMailer) {},
		},
		{
			name: "undecodable payload is skipped",
			message: func(_ *testing.T) kafkaGo.Message {
				return kafkaGo.Message{Key: []byte("res-1"), Value: []byte("{not json")}
			},
			setupMock: func(_ *sendgridMocks.MockMailer) {},
		},
		{
			name:    "unconfigured mailer drops the notification",
			message: func(t *testing.T) kafkaGo.Message { return message(t, event(model.EventCancelled)) },
			setupMock: func(mailer *sendgridMocks.MockMailer) {
				mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(sendgrid.ErrNotConfigured)
			},
		},
		{
			name:    "provider failure is retried",
			message: func(t *testing.T) kafkaGo.Message { return message(t, event(model.EventCancelled)) },
			setupMock: func(mailer *sendgridMocks.MockMailer) {
				mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mailer := sendgridMocks.NewMockMailer(ctrl)

			tt.setupMock(mailer)

			err := service.New(mailer, mocks.NewOtel()).HandleReservationEvent(context.Background(), tt.message(t))

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
