package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"rolloff/config"
	"rolloff/infras/distance"
	"rolloff/infras/otel"
	"rolloff/shared"
	"rolloff/shared/cache"
	"rolloff/shared/constant"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const cacheDistanceMiles = "distance:miles"

var (
	defaultFreeRadiusMiles = decimal.NewFromInt(15)
	defaultPerMileRate     = decimal.NewFromInt(4)
)

// Fee is the surcharge resolved for one destination. A failed lookup yields the zero Fee.
type Fee struct {
	Miles           decimal.Decimal `json:"miles"`
	Fee             decimal.Decimal `json:"fee"`
	WithinFreeRange bool            `json:"within_free_range"`
}

type Resolver interface {
	ResolveDistanceFee(ctx context.Context, zip string) (Fee, error)
}

type serviceImpl struct {
	lookup     distance.Lookup
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
	freeRadius decimal.Decimal
	perMile    decimal.Decimal
}

func New(lookup distance.Lookup, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Resolver {
	return &serviceImpl{
		lookup:     lookup,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
		freeRadius: parseOrDefault(cfg.Pricing.FreeRadiusMiles, defaultFreeRadiusMiles, "free radius"),
		perMile:    parseOrDefault(cfg.Pricing.PerMileRate, defaultPerMileRate, "per mile rate"),
	}
}

func parseOrDefault(value string, fallback decimal.Decimal, name string) decimal.Decimal {
	if value == constant.Empty {
		return fallback
	}

	parsed, err := decimal.NewFromString(value)
	if err != nil || parsed.IsNegative() {
		log.Warn().Str("value", value).Str("setting", name).Msg("invalid distance pricing setting, using default")

		return fallback
	}

	return parsed
}

// Calculate applies the free radius and per mile rate to a distance.
func Calculate(miles, freeRadius, perMileRate decimal.Decimal) Fee {
	billable := decimal.Max(decimal.Zero, miles.Sub(freeRadius))

	return Fee{
		Miles:           miles,
		Fee:             billable.Mul(perMileRate),
		WithinFreeRange: !miles.GreaterThan(freeRadius),
	}
}

// ResolveDistanceFee never blocks checkout: on any lookup failure it returns the zero fee along with
// an error wrapping distance.ErrLookupFailed, and the caller carries on with a zero surcharge.
func (s *serviceImpl) ResolveDistanceFee(ctx context.Context, zip string) (res Fee, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ResolveDistanceFee")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	zero := Fee{Miles: decimal.Zero, Fee: decimal.Zero}

	if zip == constant.Empty {
		return zero, fmt.Errorf("%w: empty zip code", distance.ErrLookupFailed)
	}

	cacheKey := shared.BuildCacheKey(cacheDistanceMiles, s.cfg.Pricing.OriginZip, zip)

	var miles decimal.Decimal

	if err = s.cache.Get(ctx, cacheKey, &miles); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for distance lookup")

		return Calculate(miles, s.freeRadius, s.perMile), nil
	}

	miles, err = s.lookup.LookupDistanceMiles(ctx, s.cfg.Pricing.OriginZip, zip)
	if err != nil {
		log.Error().Err(err).Str("zip", zip).Msg("distance lookup failed, applying zero distance fee")

		if errors.Is(err, distance.ErrLookupFailed) {
			return zero, fmt.Errorf("failed to resolve distance fee: %w", err)
		}

		return zero, fmt.Errorf("failed to resolve distance fee: %w: %w", distance.ErrLookupFailed, err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, miles, s.cfg.Cache.DistanceTTL); err != nil {
			log.Error().Err(err).Msg("failed to save distance lookup to cache")
		}
	}()

	return Calculate(miles, s.freeRadius, s.perMile), nil
}
