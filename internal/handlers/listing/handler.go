package listing

import (
	"net/http"
	"rental/infras/otel"
	"rental/internal/domains/listing/service"
	reservationService "rental/internal/domains/reservation/service"
	"rental/shared"
	"rental/shared/constant"
	gDto "rental/shared/dto"
	"rental/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service     service.Listing
	reservation reservationService.Reservation
	otel        otel.Otel
}

func New(service service.Listing, reservation reservationService.Reservation, otel otel.Otel) Handler {
	return Handler{
		service:     service,
		reservation: reservation,
		otel:        otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/listings/{id}", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetListingByID)
		routerGroup.Get("/availability", handler.GetAvailability)
		routerGroup.Get("/reservations", handler.GetListingReservations)
	})
}

// GetListingByID
// @Summary Get a listing by ID
// @Tags Listing
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} response.Data[dto.ListingResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings/{id} [get]
func (handler *Handler) GetListingByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetListingByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	listing, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to get listing")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, listing)
}

// GetAvailability reports whether the listing is free from today on.
// @Summary Get listing availability
// @Description Derives availability from active reservations ending after today and returns the stored flag beside it.
// @Tags Listing
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} response.Data[dto.AvailabilityResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings/{id}/availability [get]
func (handler *Handler) GetAvailability(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailability")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	availability, err := handler.service.Availability(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to get listing availability")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, availability)
}

// GetListingReservations
// @Summary Get the reservations of a listing
// @Tags Listing
// @Produce json
// @Param id path string true "Listing ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param include_deleted query bool false "Include cancelled reservations"
// @Success 200 {object} response.Data[reservationDto.GetReservationsResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings/{id}/reservations [get]
// @Security BearerAuth
func (handler *Handler) GetListingReservations(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetListingReservations")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	queryParams := gDto.ParseQueryParams(request.URL.Query(), true)

	deleted := shared.ConvertStringToBool(request.URL.Query().Get(constant.RequestParamIncludeDeleted))

	res, err := handler.reservation.FindByListing(ctx, id, queryParams, deleted != nil && *deleted)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("listing_id", id).Msg("failed to get listing reservations")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}
