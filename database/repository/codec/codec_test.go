package codec

import (
	"errors"
	"testing"
	"time"

	"cleaningmanager/database/store"
	"cleaningmanager/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAssignmentKeepsUnknownFields(t *testing.T) {
	at := time.Date(2025, 3, 20, 8, 0, 0, 0, time.UTC)
	doc := store.Document{ID: "2025-03-21", Data: map[string]any{
		"bookingId":           "bk1",
		"originalBookingDate": "2025-03-21",
		"guestName":           "Jones",
		"cleanerId":           "c1",
		"cleanerName":         "Sarah",
		"date":                "2025-03-21",
		"updatedAt":           at,
	}}

	var a models.CleaningAssignment
	require.NoError(t, Decode("cleaning-assignments", doc, &a))

	assert.Equal(t, "2025-03-21", a.ID)
	assert.Equal(t, "bk1", a.BookingID)
	require.NotNil(t, a.CleanerID)
	assert.Equal(t, "c1", *a.CleanerID)
	assert.Equal(t, at, a.UpdatedAt)
	assert.Equal(t, map[string]any{"date": "2025-03-21"}, a.Extra)
	assert.Equal(t, "2025-03-21", a.Fields()["date"])
}

func TestDecodeNullCleanerStaysNil(t *testing.T) {
	doc := store.Document{ID: "2025-03-21_bk1", Data: map[string]any{
		"bookingId":   "bk1",
		"cleanerId":   nil,
		"cleanerName": nil,
	}}

	var a models.CleaningAssignment
	require.NoError(t, Decode("cleaning-assignments", doc, &a))
	assert.Nil(t, a.CleanerID)
	assert.Nil(t, a.CleanerName)
	assert.Nil(t, a.Fields()["cleanerId"])
}

func TestDecodeParsesStringTimestamps(t *testing.T) {
	doc := store.Document{ID: "u1", Data: map[string]any{
		"email":     "admin@example.com",
		"role":      "admin",
		"isActive":  true,
		"createdAt": "2025-01-02T03:04:05Z",
	}}

	var u models.User
	require.NoError(t, Decode("users", doc, &u))
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), u.CreatedAt)
}

func TestDecodeRejectsMalformedRecords(t *testing.T) {
	cases := map[string]store.Document{
		"bad role":      {ID: "u1", Data: map[string]any{"email": "a@example.com", "role": "owner"}},
		"missing email": {ID: "u2", Data: map[string]any{"role": "cleaner"}},
		"wrong type":    {ID: "u3", Data: map[string]any{"email": "a@example.com", "role": "cleaner", "isActive": "yes"}},
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			var u models.User
			err := Decode("users", doc, &u)
			assert.True(t, errors.Is(err, store.ErrValidationFailed))
		})
	}
}

func TestCheckReportsJSONFieldNames(t *testing.T) {
	err := Check("cleaner_availability", models.CleanerAvailability{
		CleanerID:      "c1",
		Month:          "2025-03",
		AvailableDates: []string{"2025-03-01", "March 2"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrValidationFailed))
	assert.Contains(t, err.Error(), "availableDates[1]")
}

func TestDecodeAllStopsAtFirstInvalid(t *testing.T) {
	docs := []store.Document{
		{ID: "c1", Data: map[string]any{"name": "Sarah", "isActive": true, "role": "cleaner"}},
		{ID: "c2", Data: map[string]any{"isActive": true}},
	}
	_, err := DecodeAll[models.Cleaner]("cleaners", docs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cleaners/c2")
}

func TestDecodeEachKeepsGoodRecordsAndRejectsTheRest(t *testing.T) {
	docs := []store.Document{
		{ID: "2025-03-21", Data: map[string]any{"bookingId": "bk1", "originalBookingDate": "2025-03-21"}},
		{ID: "2025-03-22", Data: map[string]any{"bookingId": "bk2", "originalBookingDate": "22/03/2025"}},
		{ID: "2025-03-23_bk3", Data: map[string]any{"bookingId": "bk3", "guestName": 42}},
	}

	records, rejected := DecodeEach[models.CleaningAssignment]("cleaning-assignments", docs)

	require.Len(t, records, 1)
	assert.Equal(t, "2025-03-21", records[0].ID)
	require.Len(t, rejected, 2)
	assert.Equal(t, "2025-03-22", rejected[0].ID)
	assert.True(t, errors.Is(rejected[0].Err, store.ErrValidationFailed))
	assert.Equal(t, "bk2", StringField(rejected[0].Data, "bookingId"))
	assert.Equal(t, "2025-03-23_bk3", rejected[1].ID)
	assert.Empty(t, StringField(rejected[1].Data, "guestName"))
}
