package validator_test

import (
	"errors"
	"net/http"
	"rental/shared/failure"
	"rental/shared/validator"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingRequest struct {
	ListingID string `json:"listing_id" validate:"required,max=8"`
	StartDate string `json:"start_date" validate:"required,calendardate"`
	EndDate   string `json:"end_date"   validate:"required,calendardate"`
	Status    string `json:"status"     validate:"omitempty,oneof=pending confirmed"`
	Internal  string `json:"-"          validate:"empty"`
}

func failureCode(t *testing.T, err error) int {
	t.Helper()

	var f *failure.Failure
	require.True(t, errors.As(err, &f), "expected a failure, got %T", err)

	return f.Code
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name: "valid body",
			body: `{"listing_id":"l-1","start_date":"2030-03-01","end_date":"2030-03-04T00:00:00Z"}`,
		},
		{
			name:    "empty body",
			body:    ``,
			wantErr: "request body is required",
		},
		{
			name:    "malformed json",
			body:    `{"listing_id":`,
			wantErr: "failed to decode request body",
		},
		{
			name:    "wrong type",
			body:    `{"listing_id":42}`,
			wantErr: "failed to decode request body",
		},
		{
			name:    "missing fields use json names",
			body:    `{"listing_id":"l-1"}`,
			wantErr: "start_date is required; end_date is required",
		},
		{
			name:    "bad date",
			body:    `{"listing_id":"l-1","start_date":"01/03/2030","end_date":"2030-03-04"}`,
			wantErr: "start_date must be a date (YYYY-MM-DD) or an RFC3339 timestamp",
		},
		{
			name:    "too long and unknown status",
			body:    `{"listing_id":"listing-123","start_date":"2030-03-01","end_date":"2030-03-04","status":"done"}`,
			wantErr: "listing_id must be at most 8 characters; status must be one of [pending confirmed]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req bookingRequest

			err := validator.Validate(strings.NewReader(tt.body), &req)

			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "l-1", req.ListingID)

				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, http.StatusBadRequest, failureCode(t, err))
		})
	}
}

func TestValidateStructEmptyRule(t *testing.T) {
	req := bookingRequest{ListingID: "l-1", StartDate: "2030-03-01", EndDate: "2030-03-02", Internal: "set"}

	err := validator.ValidateStruct(&req)

	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, failureCode(t, err))
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name    string
		field   any
		tag     string
		wantErr string
	}{
		{name: "calendar date", field: "2030-03-01", tag: "calendardate"},
		{name: "rfc3339", field: "2030-03-01T10:00:00+07:00", tag: "calendardate"},
		{name: "padded date", field: " 2030-03-01 ", tag: "calendardate"},
		{name: "impossible day", field: "2030-02-30", tag: "calendardate", wantErr: "must be a date"},
		{name: "day first", field: "01-03-2030", tag: "calendardate", wantErr: "must be a date"},
		{name: "non string", field: 20300301, tag: "calendardate", wantErr: "must be a date"},
		{name: "required", field: "", tag: "required", wantErr: "is required"},
		{name: "positive rate", field: 0, tag: "gt=0", wantErr: "must be greater than 0"},
		{name: "rule without template", field: "abc", tag: "numeric", wantErr: "numeric"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
