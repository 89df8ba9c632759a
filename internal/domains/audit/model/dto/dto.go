package dto

import (
	"encoding/json"
	"fmt"
	"rental/internal/domains/audit/model"
	"rental/shared"
	"rental/shared/constant"
	gDto "rental/shared/dto"
	"rental/shared/timezone"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

type RecordRequest struct {
	Action        string
	ActorID       *string
	EntityType    string
	EntityID      string
	Before        any
	After         any
	OriginAddress string
}

func (r *RecordRequest) ToModel() (model.AuditEntry, error) {
	before, err := snapshot(r.Before)
	if err != nil {
		return model.AuditEntry{}, fmt.Errorf("encoding before snapshot: %w", err)
	}

	after, err := snapshot(r.After)
	if err != nil {
		return model.AuditEntry{}, fmt.Errorf("encoding after snapshot: %w", err)
	}

	entry := model.AuditEntry{
		ID:         uuid.NewString(),
		Action:     r.Action,
		ActorID:    r.ActorID,
		EntityType: r.EntityType,
		EntityID:   r.EntityID,
		Before:     before,
		After:      after,
		CreatedAt:  timezone.Now(),
	}

	if r.OriginAddress != "" {
		origin := r.OriginAddress
		entry.OriginAddress = &origin
	}

	return entry, nil
}

func snapshot(value any) (types.NullJSONText, error) {
	if value == nil {
		return types.NullJSONText{}, nil
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return types.NullJSONText{}, err
	}

	return types.NullJSONText{JSONText: encoded, Valid: true}, nil
}

type AuditResponse struct {
	ID            string          `json:"id"`
	Action        string          `json:"action"`
	ActorID       *string         `json:"actor_id"`
	EntityType    string          `json:"entity_type"`
	EntityID      string          `json:"entity_id"`
	Before        json.RawMessage `json:"before,omitempty" swaggertype:"object"`
	After         json.RawMessage `json:"after,omitempty"  swaggertype:"object"`
	OriginAddress *string         `json:"origin_address"`
	CreatedAt     string          `json:"created_at"`
}

func (r *AuditResponse) FromModel(model model.AuditEntry) {
	r.ID = model.ID
	r.Action = model.Action
	r.ActorID = model.ActorID
	r.EntityType = model.EntityType
	r.EntityID = model.EntityID
	r.OriginAddress = model.OriginAddress
	r.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)

	if model.Before.Valid {
		r.Before = json.RawMessage(model.Before.JSONText)
	}

	if model.After.Valid {
		r.After = json.RawMessage(model.After.JSONText)
	}
}

type GetAuditsResponse struct {
	Audits    []AuditResponse `json:"audits"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetAuditsResponse) FromModels(models []model.AuditEntry, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Audits = make([]AuditResponse, len(models))
	for i, mod := range models {
		r.Audits[i].FromModel(mod)
	}
}

type AuditFilter struct {
	Action     string
	EntityType string
	EntityID   string
	ActorID    string
}

func (f AuditFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	fields := []struct {
		field string
		value string
	}{
		{model.FieldAction, f.Action},
		{model.FieldEntityType, f.EntityType},
		{model.FieldEntityID, f.EntityID},
		{model.FieldActorID, f.ActorID},
	}

	for _, item := range fields {
		if item.value == "" {
			continue
		}

		group.Filters = append(group.Filters, gDto.Filter{
			Field:    item.field,
			Operator: gDto.FilterOperatorEq,
			Value:    item.value,
			Table:    model.TableName,
		})
	}

	return group
}

type ExportRequest struct {
	From string `json:"from" validate:"required,calendardate" example:"2030-03-01"`
	To   string `json:"to"   validate:"required,calendardate" example:"2030-04-01"`
}

// Window parses both bounds as dates or RFC3339 timestamps and returns [from, to).
func (r *ExportRequest) Window() (from, to time.Time, err error) {
	from, err = parseBound(r.From)
	if err != nil {
		return from, to, fmt.Errorf("from: %w", err)
	}

	to, err = parseBound(r.To)
	if err != nil {
		return from, to, fmt.Errorf("to: %w", err)
	}

	if !from.Before(to) {
		return from, to, fmt.Errorf("from must be before to")
	}

	return from, to, nil
}

func parseBound(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	if t, err := timezone.Parse(constant.DateOnlyFormat, value); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD or RFC3339: %w", err)
	}

	return t, nil
}

type ExportResponse struct {
	URL     string `json:"url"`
	Entries int    `json:"entries"`
}
