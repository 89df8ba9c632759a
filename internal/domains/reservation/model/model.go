package model

import (
	"errors"
	"fmt"
	listingModel "rental/internal/domains/listing/model"
	userModel "rental/internal/domains/user/model"
	"rental/shared/model"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID          = "id"
	FieldListingID   = "listing_id"
	FieldRequesterID = "requester_id"
	FieldStartDate   = "start_date"
	FieldEndDate     = "end_date"
	FieldTotalPrice  = "total_price"
	FieldStatus      = "status"
	FieldDeletedAt   = "deleted_at"
	FieldCreatedAt   = "created_at"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

var (
	ErrNotFound          = errors.New("reservation not found")
	ErrInvalidRange      = errors.New("invalid date range")
	ErrUnavailable       = errors.New("listing unavailable")
	ErrConflict          = errors.New("dates overlap an existing reservation")
	ErrInvalidTransition = errors.New("invalid status transition")
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusCompleted},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// Transition reports whether moving from s to next changes anything. Terminal states never move,
// a same-state request on a live reservation is a no-op.
func (s Status) Transition(next Status) (changed bool, err error) {
	if !next.IsValid() {
		return false, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, next)
	}

	if s.IsTerminal() {
		return false, fmt.Errorf("%w: %s is final", ErrInvalidTransition, s)
	}

	if s == next {
		return false, nil
	}

	if !slices.Contains(transitions[s], next) {
		return false, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, s, next)
	}

	return true, nil
}

// Reservation occupies the half-open day range [StartDate, EndDate) of a listing.
// Listing and requester columns are read-only projections filled by the join.
type Reservation struct {
	ID          string          `db:"id"`
	ListingID   string          `db:"listing_id"`
	RequesterID string          `db:"requester_id"`
	StartDate   time.Time       `db:"start_date"`
	EndDate     time.Time       `db:"end_date"`
	TotalPrice  decimal.Decimal `db:"total_price"`
	Status      Status          `db:"status"`
	DeletedAt   *time.Time      `db:"deleted_at"`

	ListingTitle   string          `column:"title"     db:"listing_title"    table:"listings"`
	ListingOwnerID string          `column:"owner_id"  db:"listing_owner_id" table:"listings"`
	ListingDayRate decimal.Decimal `column:"day_rate"  db:"listing_day_rate" table:"listings"`
	RequesterName  *string         `column:"full_name" db:"requester_name"   table:"users"`
	RequesterEmail *string         `column:"email"     db:"requester_email"  table:"users"`
	model.Metadata
}

func (Reservation) GetJoinQuery() string {
	return fmt.Sprintf(
		"JOIN %[1]s ON %[1]s.%[2]s = %[3]s.%[4]s LEFT JOIN %[5]s ON %[5]s.%[6]s = %[3]s.%[7]s",
		listingModel.TableName, listingModel.FieldID, TableName, FieldListingID,
		userModel.TableName, userModel.FieldID, FieldRequesterID,
	)
}

// IsActive reports whether the reservation still holds its dates.
func (r Reservation) IsActive() bool {
	return r.Status != StatusCancelled && r.DeletedAt == nil
}
