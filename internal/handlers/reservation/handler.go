package reservation

import (
	"net/http"
	"time"

	"rolloff/infras/otel"
	"rolloff/internal/domains/reservation/model"
	"rolloff/internal/domains/reservation/model/dto"
	"rolloff/internal/domains/reservation/service"
	"rolloff/shared/constant"
	"rolloff/shared/daterange"
	gDto "rolloff/shared/dto"
	"rolloff/shared/failure"
	"rolloff/shared/timezone"
	"rolloff/shared/validator"
	"rolloff/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Reservation
	otel    otel.Otel
}

func New(service service.Reservation, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reservations", func(routerGroup chi.Router) {
		routerGroup.Post("/quote", handler.Quote)
		routerGroup.Get("/availability", handler.GetAvailability)
		routerGroup.Get("/calendar", handler.GetCalendar)
		routerGroup.Post("/", handler.CreateReservation)
		routerGroup.Get("/", handler.GetReservations)
		routerGroup.Get("/{id}", handler.GetReservationByID)
		routerGroup.Post("/{id}/extend", handler.ExtendReservation)
		routerGroup.Post("/{id}/cancel", handler.CancelReservation)
		routerGroup.Patch("/{id}/status", handler.UpdateStatus)
		routerGroup.Post("/{id}/card", handler.SaveCard)
		routerGroup.Post("/{id}/charge", handler.Charge)
		routerGroup.Put("/{id}/signature", handler.UploadSignature)
	})
}

// Quote prices a prospective reservation without booking it.
// @Summary Quote a reservation
// @Description Price a date range under the pricing policy of the channel. The distance surcharge
// @Description degrades to zero when the lookup fails, and distance_error explains why.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param request body dto.QuoteRequest true "Quote request"
// @Success 200 {object} response.Data[dto.QuoteResponse] "Price breakdown"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/quote [post]
func (handler *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Quote")
	defer scope.End()

	var req dto.QuoteRequest

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	quote, err := handler.service.Quote(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to quote reservation")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, quote)
}

// GetAvailability reports per-day remaining capacity for a container type.
// @Summary Get availability
// @Description Days are inclusive. The snapshot version changes whenever a reservation is written.
// @Tags Reservation
// @Produce json
// @Param container_type_id query string true "Container type ID"
// @Param from query string true "First day (YYYY-MM-DD)"
// @Param to query string true "Last day (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.AvailabilityResponse] "Availability"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/availability [get]
func (handler *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailability")
	defer scope.End()

	query := r.URL.Query()

	containerTypeID := query.Get(constant.RequestParamContainerTypeID)
	if containerTypeID == constant.Empty {
		response.WithError(w, failure.BadRequestFromString("container_type_id is required"))

		return
	}

	dates, err := daterange.Parse(query.Get(constant.RequestParamFrom), query.Get(constant.RequestParamTo))
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, failure.BadRequest(err))

		return
	}

	availability, err := handler.service.Availability(ctx, containerTypeID, dates)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get availability")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, availability)
}

// GetCalendar lays out one week of reservations as non-overlapping rows.
// @Summary Get the weekly calendar
// @Tags Reservation
// @Produce json
// @Param week_start query string false "First day of the week (YYYY-MM-DD), defaults to today"
// @Param container_type_id query string false "Only this container type"
// @Success 200 {object} response.Data[dto.CalendarResponse] "Calendar bands"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/calendar [get]
// @Security BearerAuth
func (handler *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCalendar")
	defer scope.End()

	query := r.URL.Query()

	weekStart := timezone.Now()

	if raw := query.Get(constant.RequestParamWeekStart); raw != constant.Empty {
		parsed, err := time.Parse(constant.DateOnlyFormat, raw)
		if err != nil {
			response.WithError(w, failure.BadRequestFromString("week_start must be a date in YYYY-MM-DD format"))

			return
		}

		weekStart = parsed
	}

	calendar, err := handler.service.CalendarWeek(ctx, weekStart, query.Get(constant.RequestParamContainerTypeID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get calendar")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, calendar)
}

// CreateReservation books a container for a date range.
// @Summary Create a reservation
// @Description The range is checked against capacity under a lock, so two customers cannot take
// @Description the last container for overlapping days.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param request body dto.CreateReservationRequest true "Reservation"
// @Success 201 {object} response.Data[dto.ReservationResponse] "Reservation created"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations [post]
func (handler *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateReservation")
	defer scope.End()

	var req dto.CreateReservationRequest

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	reservation, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create reservation")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reservation created " + reservation.ID)

	response.WithJSON(w, http.StatusCreated, reservation)
}

// GetReservations retrieves reservations based on query parameters.
// @Summary Get all reservations
// @Tags Reservation
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Param container_type_id query string false "Filter by container type"
// @Param customer_name query string false "Filter by customer name"
// @Param customer_email query string false "Filter by customer email"
// @Success 200 {object} response.Data[dto.GetReservationsResponse] "List of reservations"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations [get]
// @Security BearerAuth
func (handler *Handler) GetReservations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservations")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range []string{model.FieldCustomerName, model.FieldCustomerEmail} {
		if value := query.Get(field); value != constant.Empty {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorLike,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	for _, field := range []string{model.FieldStatus, model.FieldContainerTypeID, model.FieldPaymentStatus} {
		if value := query.Get(field); value != constant.Empty {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	reservations, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservations")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservations)
}

// GetReservationByID retrieves a reservation by its ID.
// @Summary Get a reservation by ID
// @Tags Reservation
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Data[dto.ReservationResponse] "Reservation details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetReservationByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservationByID")
	defer scope.End()

	reservation, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservation by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservation)
}

// ExtendReservation moves the end date of a reservation later.
// @Summary Extend a reservation
// @Description Only the added days are checked against capacity and charged.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.ExtendReservationRequest true "New end date"
// @Success 200 {object} response.Data[dto.ExtendReservationResponse] "Extension result"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/extend [post]
// @Security BearerAuth
func (handler *Handler) ExtendReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ExtendReservation")
	defer scope.End()

	var req dto.ExtendReservationRequest

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	extension, err := handler.service.Extend(ctx, chi.URLParam(r, constant.RequestParamID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to extend reservation")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, extension)
}

// CancelReservation releases the container held by a reservation.
// @Summary Cancel a reservation
// @Tags Reservation
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Message "Reservation cancelled successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/cancel [post]
// @Security BearerAuth
func (handler *Handler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelReservation")
	defer scope.End()

	if err := handler.service.Cancel(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel reservation")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Reservation cancelled by user " + user)

	response.WithMessage(w, http.StatusOK, "Reservation cancelled successfully")
}

// UpdateStatus moves a reservation along its lifecycle.
// @Summary Update reservation status
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.UpdateStatusRequest true "Target status"
// @Success 200 {object} response.Message "Reservation status updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateStatus")
	defer scope.End()

	var req dto.UpdateStatusRequest

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.UpdateStatus(ctx, chi.URLParam(r, constant.RequestParamID), req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update reservation status")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Reservation status updated successfully")
}

// SaveCard stores a card for later charging and confirms the reservation.
// @Summary Save a card on file
// @Description payment_method_id is the token issued by the payment processor's client library.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.SaveCardRequest true "Card token"
// @Success 200 {object} response.Message "Card saved successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/card [post]
func (handler *Handler) SaveCard(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SaveCard")
	defer scope.End()

	var req dto.SaveCardRequest

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.SaveCard(ctx, chi.URLParam(r, constant.RequestParamID), req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to save card")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Card saved successfully")
}

// Charge bills the reservation total to the saved card.
// @Summary Charge a reservation
// @Tags Reservation
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Data[dto.ReservationResponse] "Charged reservation"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/charge [post]
// @Security BearerAuth
func (handler *Handler) Charge(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Charge")
	defer scope.End()

	reservation, err := handler.service.Charge(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to charge reservation")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Reservation charged by user " + user)

	response.WithJSON(w, http.StatusOK, reservation)
}

// UploadSignature stores the signed rental agreement.
// @Summary Upload the rental agreement signature
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.SignatureRequest true "Base64 data URL of a PNG or JPEG"
// @Success 200 {object} response.Data[dto.ReservationResponse] "Reservation with signature"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/signature [put]
func (handler *Handler) UploadSignature(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadSignature")
	defer scope.End()

	var req dto.SignatureRequest

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	reservation, err := handler.service.UploadSignature(ctx, chi.URLParam(r, constant.RequestParamID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload signature")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservation)
}
