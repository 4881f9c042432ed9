package assignmentRepo

import (
	"context"
	"errors"
	"testing"

	"cleaningmanager/database/store"
	"cleaningmanager/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAssignment(date, bookingID string) models.CleaningAssignment {
	return models.CleaningAssignment{
		ID:                  date + "_" + bookingID,
		OriginalBookingDate: date,
		CurrentCleaningDate: date,
		BookingID:           bookingID,
		GuestName:           "Guest " + bookingID,
	}
}

func TestCreateAndReadBack(t *testing.T) {
	ctx := context.Background()
	repo := NewAssignmentRepository(store.NewMemoryStore(nil))

	require.NoError(t, repo.Create(ctx, newAssignment("2025-03-21", "bk1")))

	got, err := repo.GetByID(ctx, "2025-03-21_bk1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "bk1", got.BookingID)
	assert.Nil(t, got.CleanerID)
	assert.False(t, got.UpdatedAt.IsZero())

	missing, err := repo.GetByID(ctx, "2025-03-22_bk9")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCreateRejectsMalformedDate(t *testing.T) {
	repo := NewAssignmentRepository(store.NewMemoryStore(nil))

	a := newAssignment("21/03/2025", "bk1")
	err := repo.Create(context.Background(), a)
	assert.True(t, errors.Is(err, store.ErrValidationFailed))
}

func TestCreateManySkipsExisting(t *testing.T) {
	ctx := context.Background()
	repo := NewAssignmentRepository(store.NewMemoryStore(nil))
	require.NoError(t, repo.Create(ctx, newAssignment("2025-03-21", "bk1")))

	created, err := repo.CreateMany(ctx, []models.CleaningAssignment{
		newAssignment("2025-03-21", "bk1"),
		newAssignment("2025-03-22", "bk2"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-22_bk2"}, created)

	byBooking, rejected, err := repo.GetByBookingID(ctx, "bk2")
	require.NoError(t, err)
	assert.Empty(t, rejected)
	require.Len(t, byBooking, 1)
	assert.Equal(t, "2025-03-22", byBooking[0].CurrentCleaningDate)
}

func TestCreateManyEmptyIsNoop(t *testing.T) {
	repo := NewAssignmentRepository(store.NewMemoryStore(nil))

	created, err := repo.CreateMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestGetAllReturnsMalformedRecordsSeparately(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore(nil)
	repo := NewAssignmentRepository(s)
	require.NoError(t, repo.Create(ctx, newAssignment("2025-03-21", "bk1")))
	require.NoError(t, s.SetWithID(ctx, Collection, "2025-03-22", map[string]any{
		"bookingId":           "bk2",
		"originalBookingDate": "22/03/2025",
	}))

	records, rejected, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2025-03-21_bk1", records[0].ID)
	require.Len(t, rejected, 1)
	assert.Equal(t, "2025-03-22", rejected[0].ID)
	assert.True(t, errors.Is(rejected[0].Err, store.ErrValidationFailed))

	ids, err := repo.IDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"2025-03-21_bk1", "2025-03-22"}, ids)
}
