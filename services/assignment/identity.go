package assignment

import (
	"regexp"
	"strings"
	"time"

	"cleaningmanager/models"
)

// IDSeparator joins the original booking date and the booking id.
const IDSeparator = "_"

const dateLayout = "2006-01-02"

var legacyIDPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// CanonicalID is the identity of the assignment for a booking, fixed to the
// checkout date the booking had when the assignment was created.
func CanonicalID(originalBookingDate, bookingID string) string {
	return originalBookingDate + IDSeparator + bookingID
}

// IsLegacyID reports whether id is a bare date from the old identity scheme.
func IsLegacyID(id string) bool {
	return legacyIDPattern.MatchString(id)
}

// HasCanonicalShape reports whether id embeds a booking id.
func HasCanonicalShape(id string) bool {
	return strings.Contains(id, IDSeparator)
}

// OriginalDate is the checkout date a record was created for. Legacy records
// without originalBookingDate were keyed by that date.
func OriginalDate(a models.CleaningAssignment) string {
	if a.OriginalBookingDate == "" && IsLegacyID(a.ID) {
		return a.ID
	}
	return a.OriginalBookingDate
}

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}
