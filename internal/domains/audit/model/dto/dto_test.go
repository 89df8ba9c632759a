package dto_test

import (
	"rental/internal/domains/audit/model"
	"rental/internal/domains/audit/model/dto"
	gDto "rental/shared/dto"
	"testing"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRequest_ToModel(t *testing.T) {
	actor := "renter-1"
	req := dto.RecordRequest{
		Action:        model.ActionReservationStatusUpdated,
		ActorID:       &actor,
		EntityType:    model.EntityTypeReservation,
		EntityID:      "res-1",
		Before:        map[string]string{"status": "pending"},
		After:         map[string]string{"status": "confirmed"},
		OriginAddress: "203.0.113.7",
	}

	entry, err := req.ToModel()

	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, req.Action, entry.Action)
	assert.Equal(t, &actor, entry.ActorID)
	assert.Equal(t, "res-1", entry.EntityID)
	assert.True(t, entry.Before.Valid)
	assert.JSONEq(t, `{"status":"pending"}`, string(entry.Before.JSONText))
	assert.JSONEq(t, `{"status":"confirmed"}`, string(entry.After.JSONText))
	require.NotNil(t, entry.OriginAddress)
	assert.Equal(t, "203.0.113.7", *entry.OriginAddress)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestRecordRequest_ToModelWithoutSnapshots(t *testing.T) {
	req := dto.RecordRequest{Action: model.ActionReservationCreated, EntityType: model.EntityTypeReservation, EntityID: "res-1"}

	entry, err := req.ToModel()

	require.NoError(t, err)
	assert.False(t, entry.Before.Valid)
	assert.False(t, entry.After.Valid)
	assert.Nil(t, entry.ActorID)
	assert.Nil(t, entry.OriginAddress)
}

func TestRecordRequest_ToModelUnencodable(t *testing.T) {
	req := dto.RecordRequest{Action: model.ActionReservationCreated, After: make(chan int)}

	_, err := req.ToModel()

	assert.Error(t, err)
}

func TestAuditResponse_FromModel(t *testing.T) {
	entry := model.AuditEntry{
		ID:         "audit-1",
		Action:     model.ActionReservationCancelled,
		EntityType: model.EntityTypeReservation,
		EntityID:   "res-1",
		Before:     types.NullJSONText{JSONText: types.JSONText(`{"status":"pending"}`), Valid: true},
		CreatedAt:  time.Date(2030, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	var response dto.AuditResponse
	response.FromModel(entry)

	assert.Equal(t, "audit-1", response.ID)
	assert.JSONEq(t, `{"status":"pending"}`, string(response.Before))
	assert.Nil(t, response.After)
	assert.Nil(t, response.ActorID)
	assert.NotEmpty(t, response.CreatedAt)
}

func TestAuditFilter_ToFilterGroup(t *testing.T) {
	group := dto.AuditFilter{Action: model.ActionReservationCreated, EntityID: "res-1"}.ToFilterGroup()

	require.Len(t, group.Filters, 2)

	first, ok := group.Filters[0].(gDto.Filter)
	require.True(t, ok)
	assert.Equal(t, model.FieldAction, first.Field)
	assert.Equal(t, model.TableName, first.Table)

	second, ok := group.Filters[1].(gDto.Filter)
	require.True(t, ok)
	assert.Equal(t, model.FieldEntityID, second.Field)
	assert.Equal(t, "res-1", second.Value)

	assert.Empty(t, dto.AuditFilter{}.ToFilterGroup().Filters)
}

func TestExportRequest_Window(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.ExportRequest
		wantErr bool
	}{
		{name: "timestamps", req: dto.ExportRequest{From: "2030-03-01T00:00:00Z", To: "2030-04-01T00:00:00Z"}},
		{name: "dates", req: dto.ExportRequest{From: "2030-03-01", To: "2030-03-02"}},
		{name: "empty window", req: dto.ExportRequest{From: "2030-03-01", To: "2030-03-01"}, wantErr: true},
		{name: "reversed", req: dto.ExportRequest{From: "2030-04-01T00:00:00Z", To: "2030-03-01T00:00:00Z"}, wantErr: true},
		{name: "garbage", req: dto.ExportRequest{From: "last week", To: "2030-03-01"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := tt.req.Window()

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.True(t, from.Before(to))
		})
	}
}
