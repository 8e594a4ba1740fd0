package stripe

//go:generate go run go.uber.org/mock/mockgen -source=./stripe.go -destination=./mocks/stripe_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"rolloff/config"
	"rolloff/infras/otel"
	"rolloff/shared/constant"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	stripeGo "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

const (
	otelAttrCustomer = "stripe.customer"
	otelAttrAmount   = "stripe.amount"

	metadataReservationID = "reservation_id"
)

var (
	ErrCardDeclined   = errors.New("card was declined")
	ErrInvalidAmount  = errors.New("charge amount must be positive")
	ErrNotConfigured  = errors.New("payment processor is not configured")
	minorUnitsPerUnit = decimal.NewFromInt(100)
)

type SaveCardRequest struct {
	CustomerID      string
	Email           string
	Name            string
	PaymentMethodID string
	IdempotencyKey  string
}

type SavedCard struct {
	CustomerID      string
	PaymentMethodID string
}

type ChargeRequest struct {
	ReservationID   string
	CustomerID      string
	PaymentMethodID string
	Amount          decimal.Decimal
	Description     string
	IdempotencyKey  string
}

type Charge struct {
	PaymentIntentID string
	Status          string
	AmountCharged   int64
}

// Payment saves cards against a processor customer and charges them later without the cardholder present.
type Payment interface {
	SaveCard(ctx context.Context, req SaveCardRequest) (SavedCard, error)
	ChargeSavedCard(ctx context.Context, req ChargeRequest) (Charge, error)
}

type paymentImpl struct {
	api        *client.API
	currency   string
	configured bool
	otel       otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) Payment {
	if cfg.External.Stripe.SecretKey == constant.Empty {
		log.Warn().Msg("Stripe secret key is not set, payment calls will fail")
	}

	api := &client.API{}
	api.Init(cfg.External.Stripe.SecretKey, nil)

	return &paymentImpl{
		api:        api,
		currency:   cfg.External.Stripe.Currency,
		configured: cfg.External.Stripe.SecretKey != constant.Empty,
		otel:       otel,
	}
}

// ToMinorUnits converts an amount to the smallest currency unit, rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(minorUnitsPerUnit).Round(0).IntPart()
}

func (p *paymentImpl) SaveCard(ctx context.Context, req SaveCardRequest) (res SavedCard, err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelStripeScopeName, constant.OtelStripeScopeName+".SaveCard")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !p.configured {
		return res, ErrNotConfigured
	}

	customerID := req.CustomerID

	if customerID == constant.Empty {
		params := &stripeGo.CustomerParams{
			Email: stripeGo.String(req.Email),
			Name:  stripeGo.String(req.Name),
		}
		params.Context = ctx
		params.SetIdempotencyKey(req.IdempotencyKey + ":customer")

		customer, err := p.api.Customers.New(params)
		if err != nil {
			log.Error().Err(err).Msg("failed to create stripe customer")

			return res, fmt.Errorf("failed to create stripe customer: %w", translate(err))
		}

		customerID = customer.ID
	}

	scope.SetAttribute(otelAttrCustomer, customerID)

	attach := &stripeGo.PaymentMethodAttachParams{Customer: stripeGo.String(customerID)}
	attach.Context = ctx
	attach.SetIdempotencyKey(req.IdempotencyKey + ":attach")

	method, err := p.api.PaymentMethods.Attach(req.PaymentMethodID, attach)
	if err != nil {
		log.Error().Err(err).Str("customer", customerID).Msg("failed to attach payment method")

		return res, fmt.Errorf("failed to attach payment method: %w", translate(err))
	}

	return SavedCard{CustomerID: customerID, PaymentMethodID: method.ID}, nil
}

func (p *paymentImpl) ChargeSavedCard(ctx context.Context, req ChargeRequest) (res Charge, err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelStripeScopeName, constant.OtelStripeScopeName+".ChargeSavedCard")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	amount := ToMinorUnits(req.Amount)
	if amount <= 0 {
		return res, fmt.Errorf("%w: %s", ErrInvalidAmount, req.Amount)
	}

	if !p.configured {
		return res, ErrNotConfigured
	}

	scope.SetAttributes(map[string]any{
		otelAttrCustomer: req.CustomerID,
		otelAttrAmount:   int(amount),
	})

	params := &stripeGo.PaymentIntentParams{
		Amount:        stripeGo.Int64(amount),
		Currency:      stripeGo.String(p.currency),
		Customer:      stripeGo.String(req.CustomerID),
		PaymentMethod: stripeGo.String(req.PaymentMethodID),
		Description:   stripeGo.String(req.Description),
		OffSession:    stripeGo.Bool(true),
		Confirm:       stripeGo.Bool(true),
	}
	params.Context = ctx
	params.SetIdempotencyKey(req.IdempotencyKey)
	params.AddMetadata(metadataReservationID, req.ReservationID)

	intent, err := p.api.PaymentIntents.New(params)
	if err != nil {
		log.Error().Err(err).Str("reservation_id", req.ReservationID).Msg("failed to charge saved card")

		return res, fmt.Errorf("failed to charge saved card: %w", translate(err))
	}

	return Charge{
		PaymentIntentID: intent.ID,
		Status:          string(intent.Status),
		AmountCharged:   intent.AmountReceived,
	}, nil
}

func translate(err error) error {
	var stripeErr *stripeGo.Error
	if errors.As(err, &stripeErr) && stripeErr.Type == stripeGo.ErrorTypeCard {
		return fmt.Errorf("%w: %s", ErrCardDeclined, stripeErr.Msg)
	}

	return err
}
