package reservation

import (
	"net/http"
	"rental/infras/otel"
	"rental/internal/domains/reservation/model"
	"rental/internal/domains/reservation/model/dto"
	"rental/internal/domains/reservation/service"
	"rental/shared"
	"rental/shared/constant"
	gDto "rental/shared/dto"
	"rental/shared/failure"
	"rental/shared/validator"
	"rental/transport/http/response"

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
		routerGroup.Post("/", handler.CreateReservation)
		routerGroup.Get("/", handler.GetReservations)
		routerGroup.Get("/mine", handler.GetMyReservations)
		routerGroup.Get("/{id}", handler.GetReservationByID)
		routerGroup.Patch("/{id}/status", handler.UpdateReservationStatus)
		routerGroup.Delete("/{id}", handler.CancelReservation)
	})
}

func includeDeleted(r *http.Request) bool {
	value := shared.ConvertStringToBool(r.URL.Query().Get(constant.RequestParamIncludeDeleted))

	return value != nil && *value
}

// CreateReservation books a listing for the authenticated user.
// @Summary Create a reservation
// @Description Reserve a listing for the half-open day range [start_date, end_date). The reservation starts pending.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param request body dto.CreateReservationRequest true "Create Reservation Request"
// @Success 201 {object} response.Data[dto.ReservationResponse]
// @Failure 400 {object} response.Error "Invalid date range"
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error "Listing not found"
// @Failure 409 {object} response.Error "Dates overlap an existing reservation"
// @Failure 422 {object} response.Error "Listing unavailable"
// @Failure 500 {object} response.Error
// @Router /v1/reservations [post]
// @Security BearerAuth
func (handler *Handler) CreateReservation(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateReservation")
	defer scope.End()

	req := dto.CreateReservationRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("listing_id", req.ListingID).Msg("failed to create reservation")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("reservation created", map[string]any{"reservation.id": res.ID, "listing.id": res.ListingID})

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetReservations lists reservations, newest first.
// @Summary Get reservations
// @Description List reservations filtered by status, listing or requester. Cancelled (soft deleted) reservations are hidden unless include_deleted is true.
// @Tags Reservation
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status (pending, confirmed, cancelled, completed)"
// @Param listing_id query string false "Filter by listing ID"
// @Param requester_id query string false "Filter by requester ID"
// @Param include_deleted query bool false "Include cancelled reservations"
// @Success 200 {object} response.Data[dto.GetReservationsResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations [get]
// @Security BearerAuth
func (handler *Handler) GetReservations(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservations")
	defer scope.End()

	queryParams := gDto.ParseQueryParams(request.URL.Query(), true)

	query := request.URL.Query()

	filter := dto.ReservationFilter{
		ListingID:      query.Get(model.FieldListingID),
		RequesterID:    query.Get(model.FieldRequesterID),
		Status:         query.Get(model.FieldStatus),
		IncludeDeleted: includeDeleted(request),
	}

	reservations, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservations")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, reservations)
}

// GetMyReservations lists the reservations made by the authenticated user.
// @Summary Get my reservations
// @Tags Reservation
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param include_deleted query bool false "Include cancelled reservations"
// @Success 200 {object} response.Data[dto.GetReservationsResponse]
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/mine [get]
// @Security BearerAuth
func (handler *Handler) GetMyReservations(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyReservations")
	defer scope.End()

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if userID == "" {
		err := failure.Unauthorized("unauthorized")
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	queryParams := gDto.ParseQueryParams(request.URL.Query(), true)

	reservations, err := handler.service.FindByRequester(ctx, userID, queryParams, includeDeleted(request))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("user_id", userID).Msg("failed to get user reservations")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, reservations)
}

// GetReservationByID returns one reservation with its listing and requester.
// @Summary Get a reservation by ID
// @Tags Reservation
// @Produce json
// @Param id path string true "Reservation ID"
// @Param include_deleted query bool false "Return the reservation even if cancelled"
// @Success 200 {object} response.Data[dto.ReservationResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetReservationByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservationByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	reservation, err := handler.service.Get(ctx, id, includeDeleted(request))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to get reservation")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, reservation)
}

// UpdateReservationStatus moves a reservation through its lifecycle.
// @Summary Update a reservation status
// @Description pending can become confirmed, cancelled or completed; confirmed can become cancelled or completed. Cancelled and completed are final.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.UpdateStatusRequest true "Update Status Request"
// @Success 200 {object} response.Data[dto.ReservationResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error "Invalid status transition"
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateReservationStatus(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateReservationStatus")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	req := dto.UpdateStatusRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	reservation, err := handler.service.UpdateStatus(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Str("status", req.Status).Msg("failed to update reservation status")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("reservation status updated", map[string]any{"reservation.id": id, "status": reservation.Status})

	response.WithJSON(writer, http.StatusOK, reservation)
}

// CancelReservation soft deletes a reservation and frees its dates.
// @Summary Cancel a reservation
// @Tags Reservation
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id} [delete]
// @Security BearerAuth
func (handler *Handler) CancelReservation(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelReservation")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := handler.service.Cancel(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to cancel reservation")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("reservation cancelled", map[string]any{"reservation.id": id, "user.id": user})

	response.WithMessage(writer, http.StatusOK, "Reservation cancelled successfully")
}
