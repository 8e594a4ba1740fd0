package container

import (
	"net/http"

	"rolloff/infras/otel"
	"rolloff/internal/domains/container/model"
	"rolloff/internal/domains/container/model/dto"
	"rolloff/internal/domains/container/service"
	"rolloff/shared"
	"rolloff/shared/constant"
	gDto "rolloff/shared/dto"
	"rolloff/shared/validator"
	"rolloff/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.ContainerType
	otel    otel.Otel
}

func New(service service.ContainerType, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/container-types", func(routerGroup chi.Router) {
		routerGroup.Get("/catalog", handler.GetCatalog)
		routerGroup.Post("/", handler.CreateContainerType)
		routerGroup.Get("/", handler.GetContainerTypes)
		routerGroup.Get("/{id}", handler.GetContainerTypeByID)
		routerGroup.Patch("/{id}", handler.UpdateContainerType)
		routerGroup.Delete("/{id}", handler.DeleteContainerType)
	})
}

// GetCatalog lists the container types offered for booking.
// @Summary Get the container catalog
// @Description Customers only see visible container types. Staff see every type.
// @Tags ContainerType
// @Produce json
// @Success 200 {object} response.Data[[]dto.ContainerTypeResponse] "Container catalog"
// @Failure 500 {object} response.Error
// @Router /v1/container-types/catalog [get]
func (handler *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCatalog")
	defer scope.End()

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	staff := role == constant.RoleAdmin || role == constant.RoleSuperAdmin || role == constant.RoleDispatcher

	catalog, err := handler.service.Catalog(ctx, !staff)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get container catalog")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, catalog)
}

// CreateContainerType handles the creation of a new container type.
// @Summary Create a container type
// @Description Add a dumpster size to the fleet.
// @Tags ContainerType
// @Accept json
// @Produce json
// @Param request body dto.CreateContainerTypeRequest true "Container type"
// @Success 201 {object} response.Message "Container type created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/container-types [post]
// @Security BearerAuth
func (handler *Handler) CreateContainerType(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateContainerType")
	defer scope.End()

	var req dto.CreateContainerTypeRequest

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create container type")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Container type created successfully by user " + user)

	response.WithMessage(w, http.StatusCreated, "Container type created successfully")
}

// GetContainerTypes retrieves container types based on query parameters.
// @Summary Get all container types
// @Description Retrieve container types with optional filtering and pagination.
// @Tags ContainerType
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param label query string false "Filter by label"
// @Param visible query boolean false "Filter by visibility"
// @Success 200 {object} response.Data[dto.GetContainerTypesResponse] "List of container types"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/container-types [get]
// @Security BearerAuth
func (handler *Handler) GetContainerTypes(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetContainerTypes")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldLabel,
				Operator: gDto.FilterOperatorLike,
				Value:    r.URL.Query().Get(model.FieldLabel),
				Table:    model.TableName,
			},
		},
	}

	if visible := shared.ConvertStringToBool(r.URL.Query().Get(constant.RequestParamVisible)); visible != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldVisible,
			Operator: gDto.FilterOperatorEq,
			Value:    *visible,
			Table:    model.TableName,
		})
	}

	containerTypes, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get container types")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, containerTypes)
}

// GetContainerTypeByID retrieves a container type by its ID.
// @Summary Get a container type by ID
// @Tags ContainerType
// @Produce json
// @Param id path string true "Container type ID"
// @Success 200 {object} response.Data[dto.ContainerTypeResponse] "Container type details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/container-types/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetContainerTypeByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetContainerTypeByID")
	defer scope.End()

	containerType, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get container type by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, containerType)
}

// UpdateContainerType updates an existing container type.
// @Summary Update a container type
// @Description Lowering the quantity never cancels reservations already accepted.
// @Tags ContainerType
// @Accept json
// @Produce json
// @Param id path string true "Container type ID"
// @Param request body dto.UpdateContainerTypeRequest true "Fields to change"
// @Success 200 {object} response.Message "Container type updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/container-types/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateContainerType(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateContainerType")
	defer scope.End()

	var req dto.UpdateContainerTypeRequest

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update container type")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Container type updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Container type updated successfully")
}

// DeleteContainerType deletes a container type by its ID.
// @Summary Delete a container type
// @Description Types that still have reservations cannot be deleted.
// @Tags ContainerType
// @Produce json
// @Param id path string true "Container type ID"
// @Success 200 {object} response.Message "Container type deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/container-types/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteContainerType(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteContainerType")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete container type")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Container type deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Container type deleted successfully")
}
