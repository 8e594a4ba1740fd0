package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rolloff/infras/kafka"
	"rolloff/infras/otel"
	"rolloff/infras/sendgrid"
	"rolloff/internal/domains/reservation/model"
	"rolloff/shared/constant"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

const otelAttrEventType = "event.type"

type Notification interface {
	HandleReservationEvent(ctx context.Context, message kafkaGo.Message) error
}

type serviceImpl struct {
	mailer sendgrid.Mailer
	otel   otel.Otel
}

func New(mailer sendgrid.Mailer, otel otel.Otel) Notification {
	return &serviceImpl{
		mailer: mailer,
		otel:   otel,
	}
}

// HandleReservationEvent emails the customer about a reservation event. Messages that can never be
// delivered (bad payload, no recipient, unknown type) return nil so their offset is committed.
func (s *serviceImpl) HandleReservationEvent(ctx context.Context, message kafkaGo.Message) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".HandleReservationEvent")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	event, err := kafka.Decode[model.Event](message)
	if err != nil {
		log.Warn().Err(err).Str("key", string(message.Key)).Msg("skipping undecodable reservation event")

		return nil
	}

	scope.SetAttribute(otelAttrEventType, event.Type)

	if event.CustomerEmail == constant.Empty {
		log.Info().Str("reservation_id", event.ReservationID).Msg("reservation has no customer email, skipping notification")

		return nil
	}

	email, ok := compose(event)
	if !ok {
		log.Debug().Str("type", event.Type).Msg("no notification for event type")

		return nil
	}

	err = s.mailer.Send(ctx, email)

	switch {
	case errors.Is(err, sendgrid.ErrNotConfigured):
		log.Warn().Str("reservation_id", event.ReservationID).Msg("mailer not configured, notification dropped")

		return nil
	case err != nil:
		log.Error().Err(err).Str("reservation_id", event.ReservationID).Msg("failed to send reservation notification")

		return fmt.Errorf("failed to send reservation notification: %w", err)
	}

	log.Info().Str("reservation_id", event.ReservationID).Str("type", event.Type).Msg("reservation notification sent")

	return nil
}

func compose(event model.Event) (sendgrid.Email, bool) {
	dates := fmt.Sprintf("%s to %s", event.StartDate, event.EndDate)
	total := "$" + event.TotalAmount.StringFixed(2)

	var subject, body string

	switch event.Type {
	case model.EventCreated:
		subject = "We received your dumpster reservation"
		body = fmt.Sprintf("Your reservation %s for %s is %s. Estimated total: %s.",
			event.ReservationID, dates, event.Status, total)
	case model.EventExtended:
		subject = "Your dumpster rental was extended"
		body = fmt.Sprintf("Reservation %s now runs %s. Additional cost: $%s. New total: %s.",
			event.ReservationID, dates, event.AdditionalCost.StringFixed(2), total)
	case model.EventCancelled:
		subject = "Your dumpster reservation was cancelled"
		body = fmt.Sprintf("Reservation %s for %s has been cancelled.", event.ReservationID, dates)
	case model.EventStatusChanged:
		subject = "Reservation " + strings.ReplaceAll(event.Status, "_", " ")
		body = fmt.Sprintf("Reservation %s for %s changed from %s to %s.",
			event.ReservationID, dates, event.PreviousStatus, event.Status)
	default:
		return sendgrid.Email{}, false
	}

	greeting := "Hi,"
	if event.CustomerName != constant.Empty {
		greeting = fmt.Sprintf("Hi %s,", event.CustomerName)
	}

	return sendgrid.Email{
		To:        event.CustomerEmail,
		ToName:    event.CustomerName,
		Subject:   subject,
		PlainText: greeting + "\n\n" + body,
		HTML:      fmt.Sprintf("<p>%s</p><p>%s</p>", greeting, body),
	}, true
}
