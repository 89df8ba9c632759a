package model

import (
	"rental/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "listings"
	EntityName = "listing"

	FieldID        = "id"
	FieldOwnerID   = "owner_id"
	FieldTitle     = "title"
	FieldDayRate   = "day_rate"
	FieldStatus    = "status"
	FieldAvailable = "available"
)

// Cache prefixes shared by every writer of listing state.
const (
	CacheKeyGet          = "listing:get"
	CacheKeyAvailability = "listing:availability"
	CacheKeyGeneration   = "listing:generation"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Listing is a rentable item. Available is a cached projection of its reservations and is
// only written by the reservation flow while the row is locked.
type Listing struct {
	ID        string          `db:"id"`
	OwnerID   string          `db:"owner_id"`
	Title     string          `db:"title"`
	DayRate   decimal.Decimal `db:"day_rate"`
	Status    string          `db:"status"`
	Available bool            `db:"available"`
	model.Metadata
}

func (l Listing) IsActive() bool {
	return l.Status == StatusActive
}
