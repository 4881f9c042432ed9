package models

// Booking is a property booking owned by the reservation system. It is only
// read here, as input to assignment sync and date reconciliation.
type Booking struct {
	ID               string `json:"id" validate:"required"`
	CheckOut         string `json:"checkOut" validate:"required,datetime=2006-01-02"` // "YYYY-MM-DD"
	GuestName        string `json:"guestName"`
	CleaningRequired bool   `json:"cleaningRequired"`
}
