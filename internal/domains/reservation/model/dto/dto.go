package dto

import (
	"errors"
	"fmt"
	"rental/internal/domains/reservation/model"
	"rental/internal/domains/reservation/overlap"
	"rental/internal/domains/reservation/pricing"
	"rental/shared"
	"rental/shared/constant"
	gDto "rental/shared/dto"
	"rental/shared/timezone"
	"strings"
	"time"
)

var errDateFormat = errors.New("date must be YYYY-MM-DD or RFC3339")

// ParseDate accepts a calendar date or an RFC3339 timestamp and keeps only the date.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	if t, err := time.Parse(constant.DateOnlyFormat, value); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, errDateFormat
	}

	return pricing.DateOf(t), nil
}

type CreateReservationRequest struct {
	ListingID string `json:"listing_id" validate:"required,max=64"`
	StartDate string `json:"start_date" validate:"required"    example:"2030-03-01"`
	EndDate   string `json:"end_date"   validate:"required"    example:"2030-03-04"`
}

// Interval parses both dates and enforces start < end.
func (c *CreateReservationRequest) Interval() (overlap.Interval, error) {
	start, err := ParseDate(c.StartDate)
	if err != nil {
		return overlap.Interval{}, fmt.Errorf("%w: start_date: %w", model.ErrInvalidRange, err)
	}

	end, err := ParseDate(c.EndDate)
	if err != nil {
		return overlap.Interval{}, fmt.Errorf("%w: end_date: %w", model.ErrInvalidRange, err)
	}

	interval := overlap.Interval{Start: start, End: end}
	if !interval.Valid() {
		return interval, fmt.Errorf("%w: end_date must be after start_date", model.ErrInvalidRange)
	}

	return interval, nil
}

type UpdateStatusRequest struct {
	Status string `db:"status" json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

// ReservationFilter narrows list queries. Tombstoned rows are hidden unless IncludeDeleted is set.
type ReservationFilter struct {
	ListingID      string
	RequesterID    string
	Status         string
	IncludeDeleted bool
}

func (f ReservationFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if f.ListingID != "" {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldListingID,
			Operator: gDto.FilterOperatorEq,
			Value:    f.ListingID,
			Table:    model.TableName,
		})
	}

	if f.RequesterID != "" {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldRequesterID,
			Operator: gDto.FilterOperatorEq,
			Value:    f.RequesterID,
			Table:    model.TableName,
		})
	}

	if f.Status != "" {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    f.Status,
			Table:    model.TableName,
		})
	}

	if !f.IncludeDeleted {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldDeletedAt,
			Operator: gDto.FilterIsNull,
			Table:    model.TableName,
		})
	}

	return group
}

// NewestFirst forces creation-time descending order, keeping the caller's paging.
func NewestFirst(params gDto.QueryParams) gDto.QueryParams {
	params.SortBy = model.FieldCreatedAt
	params.SortDir = gDto.SortDirDesc

	return params
}

type ListingSummary struct {
	Title   string `json:"title"`
	OwnerID string `json:"owner_id"`
	DayRate string `json:"day_rate" example:"50.00"`
}

type RequesterSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type ReservationResponse struct {
	ID         string           `json:"id"`
	ListingID  string           `json:"listing_id"`
	StartDate  string           `json:"start_date"`
	EndDate    string           `json:"end_date"`
	Days       int              `json:"days"`
	TotalPrice string           `json:"total_price" example:"150.00"`
	Status     string           `json:"status"`
	DeletedAt  *string          `json:"deleted_at,omitempty"`
	Listing    ListingSummary   `json:"listing"`
	Requester  RequesterSummary `json:"requester"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(model model.Reservation) {
	r.ID = model.ID
	r.ListingID = model.ListingID
	r.StartDate = model.StartDate.Format(constant.DateOnlyFormat)
	r.EndDate = model.EndDate.Format(constant.DateOnlyFormat)
	r.Days, _ = pricing.DayCount(model.StartDate, model.EndDate)
	r.TotalPrice = model.TotalPrice.StringFixed(2)
	r.Status = string(model.Status)

	if model.DeletedAt != nil {
		deletedAt := timezone.Format(*model.DeletedAt, constant.DateFormat)
		r.DeletedAt = &deletedAt
	}

	r.Listing = ListingSummary{
		Title:   model.ListingTitle,
		OwnerID: model.ListingOwnerID,
		DayRate: model.ListingDayRate.StringFixed(2),
	}

	r.Requester = RequesterSummary{ID: model.RequesterID}
	if model.RequesterName != nil {
		r.Requester.Name = *model.RequesterName
	}

	if model.RequesterEmail != nil {
		r.Requester.Email = *model.RequesterEmail
	}

	r.Metadata = gDto.MetadataFrom(model.Metadata)
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}
