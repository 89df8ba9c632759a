package dto

import (
	"net/url"
	"rental/shared/constant"
	"strconv"
	"strings"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

func positive(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0
	}

	return n
}

// ParseQueryParams reads page, limit, sort_by and sort_dir. Malformed values are dropped and
// limit is capped at MaxValueLimit. With paginate set, a missing page or limit gets its default.
func ParseQueryParams(values url.Values, paginate bool) QueryParams {
	params := QueryParams{
		Page:   positive(values.Get(constant.RequestParamPage)),
		Limit:  min(positive(values.Get(constant.RequestParamLimit)), constant.MaxValueLimit),
		SortBy: strings.ToLower(strings.TrimSpace(values.Get(constant.RequestParamSortBy))),
	}

	if dir := strings.ToUpper(values.Get(constant.RequestParamSortDir)); dir == SortDirAsc || dir == SortDirDesc {
		params.SortDir = dir
	}

	if !paginate {
		return params
	}

	if params.Page == 0 {
		params.Page = constant.DefaultValuePage
	}

	if params.Limit == 0 {
		params.Limit = constant.DefaultValueLimit
	}

	return params
}

// Offset is the number of rows before the requested page, or 0 when unpaginated.
func (q QueryParams) Offset() int {
	if q.Page < 1 || q.Limit < 1 {
		return 0
	}

	return (q.Page - 1) * q.Limit
}
