package dto

import (
	"rental/internal/domains/listing/model"
	gDto "rental/shared/dto"
)

type ListingResponse struct {
	ID        string `json:"id"`
	OwnerID   string `json:"owner_id"`
	Title     string `json:"title"`
	DayRate   string `json:"day_rate" example:"12.50"`
	Status    string `json:"status"`
	Available bool   `json:"available"`
	gDto.Metadata
}

func (r *ListingResponse) FromModel(model model.Listing) {
	r.ID = model.ID
	r.OwnerID = model.OwnerID
	r.Title = model.Title
	r.DayRate = model.DayRate.StringFixed(2)
	r.Status = model.Status
	r.Available = model.Available
	r.Metadata = gDto.MetadataFrom(model.Metadata)
}

type BookedInterval struct {
	ReservationID string `json:"reservation_id"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Status        string `json:"status"`
}

// AvailabilityResponse reports both the value derived from live reservations and the cached flag.
type AvailabilityResponse struct {
	ListingID string           `json:"listing_id"`
	Available bool             `json:"available"`
	Cached    bool             `json:"cached"`
	Upcoming  []BookedInterval `json:"upcoming"`
}
