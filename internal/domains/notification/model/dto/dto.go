package dto

import "strconv"

// ReservationNotice is what the owner of a listing is told about a new booking.
type ReservationNotice struct {
	ReservationID string
	ListingTitle  string
	RequesterName string
	StartDate     string
	EndDate       string
	Days          int
	TotalPrice    string
	Link          string
}

func (n ReservationNotice) Vars() map[string]string {
	return map[string]string{
		"reservation_id": n.ReservationID,
		"listing_title":  n.ListingTitle,
		"requester_name": n.RequesterName,
		"start_date":     n.StartDate,
		"end_date":       n.EndDate,
		"days":           strconv.Itoa(n.Days),
		"total_price":    n.TotalPrice,
		"link":           n.Link,
	}
}
