package distance

//go:generate go run go.uber.org/mock/mockgen -source=./distance.go -destination=./mocks/distance_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"rolloff/config"
	"rolloff/infras/otel"
	"rolloff/shared/constant"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	statusOK          = "OK"
	statusNotFound    = "NOT_FOUND"
	statusZeroResults = "ZERO_RESULTS"

	otelAttrDestination = "distance.destination"
)

var (
	ErrLookupFailed = errors.New("distance lookup failed")
	ErrNotFound     = errors.New("no route found for destination")

	metersPerMile = decimal.RequireFromString("1609.344")
)

// Lookup resolves driving distance between two places.
type Lookup interface {
	LookupDistanceMiles(ctx context.Context, origin, destinationZip string) (decimal.Decimal, error)
}

type matrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value int64  `json:"value"`
				Text  string `json:"text"`
			} `json:"distance"`
		} `json:"elements"`
	} `json:"rows"`
}

type lookupImpl struct {
	client  *http.Client
	baseURL string
	apiKey  string
	otel    otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) Lookup {
	timeout := time.Duration(cfg.External.Distance.TimeoutSeconds) * time.Second

	return &lookupImpl{
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: cfg.External.Distance.BaseURL,
		apiKey:  cfg.External.Distance.APIKey,
		otel:    otel,
	}
}

// LookupDistanceMiles queries a Distance Matrix compatible endpoint for the driving distance from
// origin to the destination postal code.
func (l *lookupImpl) LookupDistanceMiles(ctx context.Context, origin, destinationZip string) (miles decimal.Decimal, err error) {
	ctx, scope := l.otel.NewScope(ctx, constant.OtelDistanceScopeName, constant.OtelDistanceScopeName+".LookupDistanceMiles")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelAttrDestination, destinationZip)

	query := url.Values{}
	query.Set("origins", origin)
	query.Set("destinations", destinationZip)
	query.Set("units", "imperial")
	query.Set("key", l.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("zip", destinationZip).Msg("distance lookup request failed")

		return decimal.Zero, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("%w: unexpected status %d", ErrLookupFailed, resp.StatusCode)
	}

	var body matrixResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("%w: decode response: %w", ErrLookupFailed, err)
	}

	if body.Status != statusOK {
		return decimal.Zero, fmt.Errorf("%w: %s %s", ErrLookupFailed, body.Status, body.ErrorMessage)
	}

	if len(body.Rows) == 0 || len(body.Rows[0].Elements) == 0 {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrNotFound, destinationZip)
	}

	element := body.Rows[0].Elements[0]

	switch element.Status {
	case statusOK:
	case statusNotFound, statusZeroResults:
		return decimal.Zero, fmt.Errorf("%w: %s", ErrNotFound, destinationZip)
	default:
		return decimal.Zero, fmt.Errorf("%w: element status %s", ErrLookupFailed, element.Status)
	}

	return decimal.NewFromInt(element.Distance.Value).Div(metersPerMile).Round(2), nil
}
