package dto_test

import (
	"net/url"
	"rental/shared/constant"
	"rental/shared/dto"
	"rental/shared/model"
	"rental/shared/timezone"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataFrom(t *testing.T) {
	createdAt := time.Date(2030, 3, 1, 9, 0, 0, 0, time.UTC)

	metadata := dto.MetadataFrom(model.NewMetadata(createdAt, "renter-1"))

	assert.Equal(t, timezone.Format(createdAt, constant.DateFormat), metadata.CreatedAt)
	assert.Equal(t, metadata.CreatedAt, metadata.ModifiedAt)
	assert.Equal(t, "renter-1", metadata.CreatedBy)
	assert.Equal(t, "renter-1", metadata.ModifiedBy)
}

func TestParseQueryParams(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		defaultRequest bool
		want           dto.QueryParams
	}{
		{
			name:  "every parameter",
			query: "page=2&limit=20&sort_by=start_date&sort_dir=asc",
			want:  dto.QueryParams{Page: 2, Limit: 20, SortBy: "start_date", SortDir: dto.SortDirAsc},
		},
		{
			name:           "defaults fill page and limit",
			defaultRequest: true,
			want:           dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name: "nothing without defaults",
			want: dto.QueryParams{},
		},
		{
			name:           "invalid numbers fall back",
			query:          "page=-1&limit=ten",
			defaultRequest: true,
			want:           dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:  "limit is capped",
			query: "limit=5000",
			want:  dto.QueryParams{Limit: constant.MaxValueLimit},
		},
		{
			name:  "sort column is normalised and bad direction ignored",
			query: "sort_by=%20End_Date%20&sort_dir=sideways",
			want:  dto.QueryParams{SortBy: "end_date"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			assert.Equal(t, tt.want, dto.ParseQueryParams(values, tt.defaultRequest))
		})
	}
}

func TestQueryParamsOffset(t *testing.T) {
	assert.Equal(t, 0, dto.QueryParams{}.Offset())
	assert.Equal(t, 0, dto.QueryParams{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 20, dto.QueryParams{Page: 3, Limit: 10}.Offset())
	assert.Equal(t, 0, dto.QueryParams{Page: 4}.Offset())
}

func TestFilterGetWhereClause(t *testing.T) {
	day := "2030-03-01"

	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "equality with table",
			filter:    dto.Filter{Field: "listing_id", Value: "l-1", Operator: dto.FilterOperatorEq, Table: "reservations"},
			wantWhere: "reservations.listing_id = :listing_id",
			wantArgs:  map[string]any{"listing_id": "l-1"},
		},
		{
			name:      "custom argument name",
			filter:    dto.Filter{ArgName: "from", Field: "end_date", Value: day, Operator: dto.FilterOperatorGreater},
			wantWhere: "end_date > :from",
			wantArgs:  map[string]any{"from": day},
		},
		{
			name:      "not equal",
			filter:    dto.Filter{Field: "status", Value: "cancelled", Operator: dto.FilterOperatorNotEq},
			wantWhere: "status != :status",
			wantArgs:  map[string]any{"status": "cancelled"},
		},
		{
			name:      "like escapes wildcards",
			filter:    dto.Filter{Field: "title", Value: "50%_off", Operator: dto.FilterOperatorLike},
			wantWhere: "LOWER(title) LIKE LOWER(:title)",
			wantArgs:  map[string]any{"title": `%50\%\_off%`},
		},
		{
			name:      "in over a slice",
			filter:    dto.Filter{Field: "status", Value: []string{"pending", "confirmed"}, Operator: dto.FilterOperatorIn},
			wantWhere: "status IN (:status_0, :status_1)",
			wantArgs:  map[string]any{"status_0": "pending", "status_1": "confirmed"},
		},
		{
			name:      "in over a scalar is still bound",
			filter:    dto.Filter{Field: "status", Value: "pending); DROP TABLE reservations; --", Operator: dto.FilterOperatorIn},
			wantWhere: "status IN (:status)",
			wantArgs:  map[string]any{"status": "pending); DROP TABLE reservations; --"},
		},
		{
			name:      "in over nothing matches nothing",
			filter:    dto.Filter{Field: "status", Value: []string{}, Operator: dto.FilterOperatorIn},
			wantWhere: "FALSE",
			wantArgs:  map[string]any{},
		},
		{
			name:      "is null",
			filter:    dto.Filter{Field: "deleted_at", Operator: dto.FilterIsNull, Table: "reservations"},
			wantWhere: "reservations.deleted_at IS NULL",
			wantArgs:  map[string]any{},
		},
		{
			name:      "unknown operator renders nothing",
			filter:    dto.Filter{Field: "status", Value: "x", Operator: "between"},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroupGetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Filters: []any{
			dto.Filter{Field: "listing_id", Value: "l-1", Operator: dto.FilterOperatorEq},
			dto.Filter{Field: "status", Value: "x", Operator: "between"},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{Field: "status", Value: "pending", Operator: dto.FilterOperatorEq},
					dto.Filter{Field: "deleted_at", Operator: dto.FilterIsNotNull},
				},
			},
			"ignored",
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(listing_id = :listing_id AND (status = :status OR deleted_at IS NOT NULL))", where)
	assert.Equal(t, map[string]any{"listing_id": "l-1", "status": "pending"}, args)

	empty := dto.FilterGroup{}
	where, args = empty.GetWhereClause()

	assert.Empty(t, where)
	assert.Empty(t, args)
}
