package models

import "time"

// CleaningAssignment is one cleaning task after a booking's checkout.
type CleaningAssignment struct {
	ID                  string         `mapstructure:"id" json:"id" validate:"required"`                                                    // "<originalBookingDate>_<bookingId>", or a bare date for legacy records
	OriginalBookingDate string         `mapstructure:"originalBookingDate" json:"originalBookingDate" validate:"omitempty,datetime=2006-01-02"` // Checkout date when the record was created
	CurrentCleaningDate string         `mapstructure:"currentCleaningDate" json:"currentCleaningDate" validate:"omitempty,datetime=2006-01-02"` // Checkout date as currently known
	BookingID           string         `mapstructure:"bookingId" json:"bookingId"`
	GuestName           string         `mapstructure:"guestName" json:"guestName"`
	CleanerID           *string        `mapstructure:"cleanerId" json:"cleanerId"`
	CleanerName         *string        `mapstructure:"cleanerName" json:"cleanerName"`
	BookingDateChanged  bool           `mapstructure:"bookingDateChanged" json:"bookingDateChanged"`
	CreatedAt           time.Time      `mapstructure:"createdAt" json:"createdAt,omitempty"`
	UpdatedAt           time.Time      `mapstructure:"updatedAt" json:"updatedAt,omitempty"`
	Extra               map[string]any `mapstructure:",remain" json:"-"` // Fields written by older clients, carried through migration
}

// Fields returns the stored representation without id and audit timestamps.
func (a CleaningAssignment) Fields() map[string]any {
	out := make(map[string]any, len(a.Extra)+7)
	for k, v := range a.Extra {
		out[k] = v
	}
	out["originalBookingDate"] = a.OriginalBookingDate
	out["currentCleaningDate"] = a.CurrentCleaningDate
	out["bookingId"] = a.BookingID
	out["guestName"] = a.GuestName
	out["cleanerId"] = nullable(a.CleanerID)
	out["cleanerName"] = nullable(a.CleanerName)
	out["bookingDateChanged"] = a.BookingDateChanged
	return out
}

// IsAssigned reports whether a cleaner is linked to the assignment.
func (a CleaningAssignment) IsAssigned() bool {
	return a.CleanerID != nil && a.CleanerName != nil
}

// MatchesDate reports whether date is either the original or the rescheduled cleaning date.
func (a CleaningAssignment) MatchesDate(date string) bool {
	return a.CurrentCleaningDate == date || a.OriginalBookingDate == date
}

// CleaningDate is the date the cleaning currently happens on.
func (a CleaningAssignment) CleaningDate() string {
	if a.CurrentCleaningDate != "" {
		return a.CurrentCleaningDate
	}
	return a.OriginalBookingDate
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
