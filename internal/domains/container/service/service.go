package service

import (
	"context"
	"fmt"

	"rolloff/config"
	"rolloff/infras/otel"
	"rolloff/internal/domains/container/model"
	"rolloff/internal/domains/container/model/dto"
	"rolloff/internal/domains/container/repository"
	"rolloff/shared"
	"rolloff/shared/cache"
	"rolloff/shared/constant"
	gDto "rolloff/shared/dto"
	"rolloff/shared/failure"
	gRepo "rolloff/shared/repository"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetContainerType     = "container_type:get"
	cacheGetAllContainerType  = "container_type:gets"
	cacheCountContainerType   = "container_type:count"
	cacheCatalogContainerType = "container_type:catalog"
)

type ContainerType interface {
	Create(ctx context.Context, req dto.CreateContainerTypeRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetContainerTypesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.ContainerTypeResponse, error)
	Update(ctx context.Context, req dto.UpdateContainerTypeRequest, id string) error
	Delete(ctx context.Context, id string) error
	Catalog(ctx context.Context, visibleOnly bool) ([]dto.ContainerTypeResponse, error)
}

type serviceImpl struct {
	repo  repository.ContainerType
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.ContainerType, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) ContainerType {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateContainerTypeRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.repo.Insert(ctx, req.ToModel(user)); err != nil {
		log.Error().Err(err).Msg("failed to create container type")

		return fmt.Errorf("failed to create container type: %w", err)
	}

	go s.invalidateLists(context.WithoutCancel(ctx))

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetContainerTypesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllContainerType, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for container types")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count container types")

		return res, fmt.Errorf("failed to count container types: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get container types")

		return res, fmt.Errorf("failed to get container types: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save container types to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountContainerType, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for container type count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count container types")

		return res, fmt.Errorf("failed to count container types: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save container type count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ContainerTypeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetContainerType, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for container type")

		return res, nil
	}

	containerType, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get container type")

		return res, fmt.Errorf("failed to get container type: %w", err)
	}

	if containerType.ID == constant.Empty {
		return res, failure.NotFound("container type not found") // nolint:wrapcheck
	}

	res.FromModel(containerType)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save container type to cache")
		}
	}()

	return res, nil
}

// Catalog lists container types for the booking flow. The price shown here is the one copied onto new reservations.
func (s *serviceImpl) Catalog(ctx context.Context, visibleOnly bool) (res []dto.ContainerTypeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Catalog")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheCatalogContainerType, fmt.Sprintf("visible=%t", visibleOnly))

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for container catalog")

		return res, nil
	}

	models, err := s.repo.ListContainerTypes(ctx, visibleOnly)
	if err != nil {
		log.Error().Err(err).Msg("failed to list container types")

		return nil, fmt.Errorf("failed to list container types: %w", err)
	}

	res = make([]dto.ContainerTypeResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save container catalog to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateContainerTypeRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.IsEmpty() {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	if req.BasePrice != nil && req.BasePrice.IsNegative() {
		return failure.BadRequestFromString("base_price must not be negative") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if container type exists")

		return fmt.Errorf("failed to check if container type exists: %w", err)
	}

	if !exist {
		return failure.NotFound("container type not found") // nolint:wrapcheck
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), filter); err != nil {
		log.Error().Err(err).Msg("failed to update container type")

		return fmt.Errorf("failed to update container type: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetContainerType, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete container type cache")
		}

		s.invalidateLists(c)

		if req.AvailableQuantity != nil {
			generationKey := shared.BuildCacheKey(constant.CacheAvailabilityGeneration, id)
			if _, err := s.cache.Increment(c, generationKey, constant.AvailabilityGenerationTTL); err != nil {
				log.Error().Err(err).Msg("failed to bump availability generation")
			}

			if err := s.cache.Delete(c, shared.BuildCacheKey(constant.CacheAvailabilitySnapshot, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete availability snapshot")
			}
		}
	}()

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if container type exists")

		return fmt.Errorf("failed to check if container type exists: %w", err)
	}

	if !exist {
		return failure.NotFound("container type not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		if gRepo.IsForeignKeyViolation(err) {
			return failure.Conflict("container type has reservations, hide it instead of deleting") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to delete container type")

		return fmt.Errorf("failed to delete container type: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetContainerType, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete container type from cache")
		}

		s.invalidateLists(c)
		shared.InvalidateCaches(c, s.cache, constant.CacheAvailabilitySnapshot)
	}()

	return nil
}

func (s *serviceImpl) invalidateLists(ctx context.Context) {
	shared.InvalidateCaches(ctx, s.cache, cacheGetAllContainerType)
	shared.InvalidateCaches(ctx, s.cache, cacheCountContainerType)
	shared.InvalidateCaches(ctx, s.cache, cacheCatalogContainerType)
}
