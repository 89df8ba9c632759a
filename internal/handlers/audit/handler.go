package audit

import (
	"net/http"
	"rental/infras/otel"
	"rental/internal/domains/audit/model"
	"rental/internal/domains/audit/model/dto"
	"rental/internal/domains/audit/service"
	"rental/shared/constant"
	gDto "rental/shared/dto"
	"rental/shared/validator"
	"rental/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Audit
	otel    otel.Otel
}

func New(service service.Audit, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/audits", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetAudits)
		routerGroup.Post("/export", handler.ExportAudits)
		routerGroup.Get("/{id}", handler.GetAuditByID)
		routerGroup.Delete("/{id}", handler.DeleteAudit)
	})
}

// GetAudits
// @Summary Get audit entries
// @Description List audit entries, newest first.
// @Tags Audit
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param action query string false "Filter by action, e.g. reservation.created"
// @Param entity_type query string false "Filter by entity type"
// @Param entity_id query string false "Filter by entity ID"
// @Param actor_id query string false "Filter by actor ID"
// @Success 200 {object} response.Data[dto.GetAuditsResponse]
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/audits [get]
// @Security BearerAuth
func (handler *Handler) GetAudits(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAudits")
	defer scope.End()

	queryParams := gDto.ParseQueryParams(request.URL.Query(), true)

	query := request.URL.Query()

	filter := dto.AuditFilter{
		Action:     query.Get(model.FieldAction),
		EntityType: query.Get(model.FieldEntityType),
		EntityID:   query.Get(model.FieldEntityID),
		ActorID:    query.Get(model.FieldActorID),
	}

	audits, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get audits")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, audits)
}

// GetAuditByID
// @Summary Get an audit entry by ID
// @Tags Audit
// @Produce json
// @Param id path string true "Audit ID"
// @Success 200 {object} response.Data[dto.AuditResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/audits/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetAuditByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAuditByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	audit, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to get audit")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, audit)
}

// DeleteAudit purges one audit entry.
// @Summary Delete an audit entry
// @Tags Audit
// @Produce json
// @Param id path string true "Audit ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/audits/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteAudit(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteAudit")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to delete audit")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("audit deleted", map[string]any{"audit.id": id, "user.id": user})

	response.WithMessage(writer, http.StatusOK, "Audit deleted successfully")
}

// ExportAudits archives a time window of audit entries to object storage.
// @Summary Export audit entries
// @Description Writes the entries created in [from, to) as one JSON document and returns its URL.
// @Tags Audit
// @Accept json
// @Produce json
// @Param request body dto.ExportRequest true "Export Request"
// @Success 200 {object} response.Data[dto.ExportResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/audits/export [post]
// @Security BearerAuth
func (handler *Handler) ExportAudits(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ExportAudits")
	defer scope.End()

	req := dto.ExportRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	export, err := handler.service.Export(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("from", req.From).Str("to", req.To).Msg("failed to export audits")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, export)
}
