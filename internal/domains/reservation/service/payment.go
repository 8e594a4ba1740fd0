package service

import (
	"context"
	"errors"
	"fmt"

	"rolloff/infras/stripe"
	"rolloff/internal/domains/reservation/model"
	"rolloff/internal/domains/reservation/model/dto"
	"rolloff/shared"
	"rolloff/shared/base64"
	"rolloff/shared/constant"
	"rolloff/shared/failure"
	"rolloff/shared/timezone"

	"github.com/rs/zerolog/log"
)

// SaveCard attaches a processor card token to the reservation and confirms it.
func (s *serviceImpl) SaveCard(ctx context.Context, id string, req dto.SaveCardRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SaveCard")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	reservation, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if !model.CanTransition(reservation.Status, model.StatusConfirmed) {
		return failure.Conflict(fmt.Sprintf("cannot save a card on a %s reservation", reservation.Status)) // nolint:wrapcheck
	}

	saved, err := s.payment.SaveCard(ctx, stripe.SaveCardRequest{
		CustomerID:      reservation.StripeCustomerID,
		Email:           reservation.CustomerEmail,
		Name:            reservation.CustomerName,
		PaymentMethodID: req.PaymentMethodID,
		IdempotencyKey:  "card:" + id + ":" + req.PaymentMethodID,
	})
	if err != nil {
		if errors.Is(err, stripe.ErrCardDeclined) {
			return failure.BadRequestFromString("card was declined, please use a different card") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to save card")

		return fmt.Errorf("failed to save card: %w", err)
	}

	return s.transition(ctx, id, model.StatusConfirmed, map[string]any{
		model.FieldStripeCustomerID:      saved.CustomerID,
		model.FieldStripePaymentMethodID: saved.PaymentMethodID,
	})
}

// Charge bills the reservation total to the saved card. A declined card marks the payment failed.
func (s *serviceImpl) Charge(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Charge")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	reservation, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	switch {
	case reservation.PaymentStatus == model.PaymentStatusPaid:
		return res, failure.Conflict("reservation is already paid") // nolint:wrapcheck
	case reservation.Status != model.StatusConfirmed && reservation.Status != model.StatusCompleted:
		return res, failure.Conflict(fmt.Sprintf("cannot charge a %s reservation", reservation.Status)) // nolint:wrapcheck
	case reservation.StripePaymentMethodID == constant.Empty:
		return res, failure.BadRequestFromString("reservation has no card on file") // nolint:wrapcheck
	}

	charge, err := s.payment.ChargeSavedCard(ctx, stripe.ChargeRequest{
		ReservationID:   id,
		CustomerID:      reservation.StripeCustomerID,
		PaymentMethodID: reservation.StripePaymentMethodID,
		Amount:          reservation.TotalAmount,
		Description:     "Dumpster rental " + id,
		IdempotencyKey:  "charge:" + id + ":" + reservation.TotalAmount.String(),
	})

	switch {
	case errors.Is(err, stripe.ErrInvalidAmount):
		return res, failure.BadRequestFromString("reservation total is not chargeable, review the adjustments") // nolint:wrapcheck
	case errors.Is(err, stripe.ErrCardDeclined):
		reservation.PaymentStatus = model.PaymentStatusFailed
	case err != nil:
		log.Error().Err(err).Msg("failed to charge reservation")

		return res, fmt.Errorf("failed to charge reservation: %w", err)
	default:
		reservation.PaymentStatus = model.PaymentStatusPaid
		reservation.StripePaymentIntentID = charge.PaymentIntentID
	}

	reservation.ModifiedAt = timezone.Now()
	reservation.ModifiedBy = currentUser(ctx)

	fields := map[string]any{
		model.FieldPaymentStatus:         reservation.PaymentStatus,
		model.FieldStripePaymentIntentID: reservation.StripePaymentIntentID,
		constant.FieldModifiedAt:         reservation.ModifiedAt,
		constant.FieldModifiedBy:         reservation.ModifiedBy,
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("payment_status", reservation.PaymentStatus).Msg("failed to record payment status")

		return res, fmt.Errorf("failed to record payment status: %w", err)
	}

	s.afterWrite(ctx, reservation.ContainerTypeID, []string{id})

	if reservation.PaymentStatus == model.PaymentStatusFailed {
		return res, failure.BadRequestFromString("card was declined") // nolint:wrapcheck
	}

	res.FromModel(reservation)

	return res, nil
}

// UploadSignature stores the signed rental agreement image and replaces any previous one.
func (s *serviceImpl) UploadSignature(ctx context.Context, id string, req dto.SignatureRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadSignature")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	contentType, data, err := base64.Decode(req.Signature)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	reservation, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	key := fmt.Sprintf("%s/%s-%d.%s", signatureDirectory, id, timezone.Now().Unix(), base64.Extension(contentType))

	url, err := s.storage.Upload(ctx, key, contentType, data, map[string]string{"reservation-id": id})
	if err != nil {
		log.Error().Err(err).Msg("failed to upload signature")

		return res, fmt.Errorf("failed to upload signature: %w", err)
	}

	previousURL := reservation.SignatureURL
	reservation.SignatureURL = url
	reservation.ModifiedAt = timezone.Now()
	reservation.ModifiedBy = currentUser(ctx)

	fields := map[string]any{
		model.FieldSignatureURL:  url,
		constant.FieldModifiedAt: reservation.ModifiedAt,
		constant.FieldModifiedBy: reservation.ModifiedBy,
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to save signature url")

		return res, fmt.Errorf("failed to save signature url: %w", err)
	}

	s.afterWrite(ctx, reservation.ContainerTypeID, []string{id})

	if previousURL != constant.Empty {
		go func() {
			c := context.WithoutCancel(ctx)

			key := s.storage.KeyFromURL(previousURL)
			if key == constant.Empty {
				return
			}

			if err := s.storage.Delete(c, key); err != nil {
				log.Error().Err(err).Msg("failed to delete previous signature")
			}
		}()
	}

	res.FromModel(reservation)

	return res, nil
}
