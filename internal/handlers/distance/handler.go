package distance

import (
	"net/http"

	"rolloff/infras/otel"
	"rolloff/internal/domains/distance/service"
	"rolloff/shared/constant"
	"rolloff/shared/validator"
	"rolloff/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const msgLookupFailed = "distance lookup failed, delivery surcharge not applied"

type FeeResponse struct {
	service.Fee
	Error string `json:"error,omitempty"`
}

type Handler struct {
	service service.Resolver
	otel    otel.Otel
}

func New(service service.Resolver, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/distance-fee", handler.GetDistanceFee)
}

// GetDistanceFee previews the delivery surcharge for a zip code.
// @Summary Get the delivery distance fee
// @Description A failed lookup still answers 200 with a zero fee and an error message, matching
// @Description what checkout will charge.
// @Tags Distance
// @Produce json
// @Param zip query string true "Delivery zip code"
// @Success 200 {object} response.Data[FeeResponse] "Distance fee"
// @Failure 400 {object} response.Error
// @Router /v1/distance-fee [get]
func (handler *Handler) GetDistanceFee(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDistanceFee")
	defer scope.End()

	zip := r.URL.Query().Get(constant.RequestParamZip)

	if err := validator.ValidateVar(zip, "required,zipcode"); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	fee, err := handler.service.ResolveDistanceFee(ctx, zip)
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Str("zip", zip).Msg("distance fee degraded to zero")

		response.WithJSON(w, http.StatusOK, FeeResponse{Fee: fee, Error: msgLookupFailed})

		return
	}

	response.WithJSON(w, http.StatusOK, FeeResponse{Fee: fee})
}
