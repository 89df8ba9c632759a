package shared_test

import (
	"context"
	"errors"
	"fmt"
	"rental/shared"
	"rental/shared/cache"
	cacheMocks "rental/shared/cache/mocks"
	"rental/shared/dto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func boolPtr(b bool) *bool {
	return &b
}

func TestConvertStringToBool(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *bool
	}{
		{name: "empty string returns nil", input: "", expected: nil},
		{name: "true", input: "true", expected: boolPtr(true)},
		{name: "false", input: "false", expected: boolPtr(false)},
		{name: "numeric one", input: "1", expected: boolPtr(true)},
		{name: "upper case", input: "TRUE", expected: boolPtr(true)},
		{name: "invalid string returns nil", input: "maybe", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.ConvertStringToBool(tt.input))
		})
	}
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{name: "zero total returns 1", total: 0, limit: 10, expected: 1},
		{name: "zero limit returns 1", total: 100, limit: 0, expected: 1},
		{name: "exact division", total: 100, limit: 10, expected: 10},
		{name: "division with remainder", total: 101, limit: 10, expected: 11},
		{name: "limit greater than total", total: 5, limit: 10, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

func TestFilterByID(t *testing.T) {
	result := shared.FilterByID("abc", "id", "reservations")

	assert.Equal(t, dto.FilterGroup{
		Filters: []any{
			dto.Filter{Field: "id", Value: "abc", Operator: dto.FilterOperatorEq, Table: "reservations"},
		},
	}, result)

	where, args := result.GetWhereClause()
	assert.Equal(t, "(reservations.id = :id)", where)
	assert.Equal(t, "abc", args["id"])
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "reservation:get", shared.BuildCacheKey("reservation:get"))
	assert.Equal(t, "reservation:get:abc", shared.BuildCacheKey("reservation:get", "abc"))
	assert.Equal(t, "limiter:10.0.0.1:curl", shared.BuildCacheKey("limiter", "10.0.0.1", "curl"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	byStatus := func(status string) dto.FilterGroup {
		return dto.FilterGroup{
			Operator: dto.FilterGroupOperatorAnd,
			Filters: []any{
				dto.Filter{Field: "status", Value: status, Operator: dto.FilterOperatorEq},
			},
		}
	}

	params := dto.QueryParams{Page: 1, Limit: 10}

	first := shared.BuildCacheKeyWithQuery("reservation:gets", params, byStatus("pending"))
	again := shared.BuildCacheKeyWithQuery("reservation:gets", params, byStatus("pending"))
	other := shared.BuildCacheKeyWithQuery("reservation:gets", params, byStatus("confirmed"))
	nextPage := shared.BuildCacheKeyWithQuery("reservation:gets", dto.QueryParams{Page: 2, Limit: 10}, byStatus("pending"))

	assert.True(t, strings.HasPrefix(first, "reservation:gets:"))
	assert.Equal(t, first, again)
	assert.NotEqual(t, first, other)
	assert.NotEqual(t, first, nextPage)
}

func TestInvalidateCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	mockCache.EXPECT().Clear(gomock.Any(), "reservation:gets:*").Return(nil)
	shared.InvalidateCaches(context.Background(), mockCache, "reservation:gets")

	mockCache.EXPECT().Clear(gomock.Any(), "reservation:count:*").Return(errors.New("redis down"))
	shared.InvalidateCaches(context.Background(), mockCache, "reservation:count")
}

func TestCacheGeneration(t *testing.T) {
	tests := []struct {
		name      string
		stored    string
		err       error
		wantStamp string
		wantOK    bool
	}{
		{name: "bumped scope", stored: "b7c1", wantStamp: "b7c1", wantOK: true},
		{name: "never bumped", err: fmt.Errorf("failed to get cache: %w", cache.Nil), wantStamp: "0", wantOK: true},
		{name: "redis down", err: errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCache := cacheMocks.NewMockRedisCache(gomock.NewController(t))

			mockCache.EXPECT().
				Get(gomock.Any(), "reservation:generation:res-1", gomock.Any()).
				DoAndReturn(func(_ context.Context, _ string, value any) error {
					*value.(*string) = tt.stored

					return tt.err
				})

			stamp, ok := shared.CacheGeneration(context.Background(), mockCache, "reservation:generation:res-1")

			assert.Equal(t, tt.wantStamp, stamp)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestBumpCacheGeneration(t *testing.T) {
	mockCache := cacheMocks.NewMockRedisCache(gomock.NewController(t))

	var stamps []string

	record := func(_ context.Context, _ string, value any, _ int) error {
		stamps = append(stamps, value.(string))

		return nil
	}

	mockCache.EXPECT().Save(gomock.Any(), "reservation:generation:res-1", gomock.Any(), 7200).DoAndReturn(record)
	mockCache.EXPECT().Save(gomock.Any(), "listing:generation:listing-1", gomock.Any(), 7200).DoAndReturn(record)

	shared.BumpCacheGeneration(context.Background(), mockCache, 3600, "reservation:generation:res-1", "listing:generation:listing-1")

	assert.Len(t, stamps, 2)
	assert.NotEmpty(t, stamps[0])
	assert.Equal(t, stamps[0], stamps[1])
	assert.NotEqual(t, "0", stamps[0])
}
