package assignment

import (
	"context"
	"errors"
	"testing"
	"time"

	"cleaningmanager/database/store"
	"cleaningmanager/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticRoster []models.Cleaner

func (r staticRoster) ListActive(context.Context) ([]models.Cleaner, error) {
	return r, nil
}

// blockingService holds AssignCleaner until release is closed so the
// speculative patch can be observed.
type blockingService struct {
	AssignmentService
	entered chan struct{}
	release chan struct{}
	err     error
}

func (b *blockingService) AssignCleaner(ctx context.Context, date, bookingID, cleanerID, cleanerName string) (*models.CleaningAssignment, error) {
	close(b.entered)
	<-b.release
	if b.err != nil {
		return nil, b.err
	}
	return b.AssignmentService.AssignCleaner(ctx, date, bookingID, cleanerID, cleanerName)
}

func boardFixture(t *testing.T) (*Board, *faultyStore, AssignmentService) {
	t.Helper()
	s := newFaultyStore()
	svc, _ := newService(s)
	_, err := svc.SyncFromBookings(context.Background(), []models.Booking{
		booking("bk1", "2025-03-21", true),
		booking("bk2", "2025-03-22", true),
	})
	require.NoError(t, err)

	roster := staticRoster{
		{ID: "c1", Name: "Sarah", IsActive: true, Role: models.RoleCleaner},
		{ID: "a1", Name: "Owner", IsActive: true, Role: models.RoleAdmin},
		{ID: "c2", Name: "Mike", IsActive: true},
	}
	board := NewBoard(svc, roster, time.Minute, nil)
	require.NoError(t, board.Refresh(context.Background()))
	return board, s, svc
}

func TestBoardAssignmentsForDate(t *testing.T) {
	board, _, _ := boardFixture(t)

	day := board.AssignmentsForDate("2025-03-21")
	require.Len(t, day, 1)
	assert.Equal(t, "2025-03-21_bk1", day[0].ID)
	assert.Empty(t, board.AssignmentsForDate("2025-04-01"))
}

func TestBoardAvailableCleanersIgnoresAvailabilityRecords(t *testing.T) {
	board, _, _ := boardFixture(t)

	cleaners := board.AvailableCleaners("2025-03-21")
	require.Len(t, cleaners, 2)
	assert.Equal(t, "c1", cleaners[0].ID)
	assert.Equal(t, "c2", cleaners[1].ID)
}

func TestBoardAssignReplacesPatchWithStoredRecord(t *testing.T) {
	board, _, _ := boardFixture(t)

	stored, err := board.AssignCleaner(context.Background(), "2025-03-21", "bk1", "c1", "Sarah")
	require.NoError(t, err)
	assert.False(t, stored.UpdatedAt.IsZero())

	day := board.AssignmentsForDate("2025-03-21")
	require.Len(t, day, 1)
	require.NotNil(t, day[0].CleanerName)
	assert.Equal(t, "Sarah", *day[0].CleanerName)
	assert.Equal(t, stored.UpdatedAt, day[0].UpdatedAt)
}

func TestBoardPatchIsVisibleBeforeStoreConfirms(t *testing.T) {
	board, _, svc := boardFixture(t)
	blocking := &blockingService{AssignmentService: svc, entered: make(chan struct{}), release: make(chan struct{})}
	board.svc = blocking

	done := make(chan error, 1)
	go func() {
		_, err := board.AssignCleaner(context.Background(), "2025-03-21", "bk1", "c1", "Sarah")
		done <- err
	}()

	<-blocking.entered
	day := board.AssignmentsForDate("2025-03-21")
	require.NotNil(t, day[0].CleanerID)
	assert.Equal(t, "c1", *day[0].CleanerID)

	close(blocking.release)
	require.NoError(t, <-done)
}

func TestBoardRollsBackWhenStoreRejects(t *testing.T) {
	board, _, svc := boardFixture(t)
	rejection := &store.Error{Op: "update", Kind: store.ErrUnauthorized}
	blocking := &blockingService{AssignmentService: svc, entered: make(chan struct{}), release: make(chan struct{}), err: rejection}
	board.svc = blocking
	close(blocking.release)

	_, err := board.AssignCleaner(context.Background(), "2025-03-21", "bk1", "c1", "Sarah")
	assert.True(t, errors.Is(err, store.ErrUnauthorized))

	day := board.AssignmentsForDate("2025-03-21")
	require.Len(t, day, 1)
	assert.Nil(t, day[0].CleanerID)
	assert.Nil(t, day[0].CleanerName)
}

func TestBoardRollsBackUnassignOnStoreFailure(t *testing.T) {
	board, s, _ := boardFixture(t)
	_, err := board.AssignCleaner(context.Background(), "2025-03-21", "bk1", "c1", "Sarah")
	require.NoError(t, err)

	s.updateErr = &store.Error{Op: "update", Kind: store.ErrStoreUnavailable}
	_, err = board.UnassignCleaner(context.Background(), "2025-03-21", "bk1")
	require.Error(t, err)

	day := board.AssignmentsForDate("2025-03-21")
	require.NotNil(t, day[0].CleanerID)
	assert.Equal(t, "c1", *day[0].CleanerID)
}

func TestBoardEnsureFreshReloadsWhenStale(t *testing.T) {
	board, s, _ := boardFixture(t)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	board.now = func() time.Time { return now }
	require.NoError(t, board.Refresh(context.Background()))

	seed(t, s, "2025-03-21_bk9", map[string]any{"bookingId": "bk9", "originalBookingDate": "2025-03-21", "currentCleaningDate": "2025-03-21"})
	require.NoError(t, board.EnsureFresh(context.Background()))
	assert.Len(t, board.AssignmentsForDate("2025-03-21"), 1)

	now = now.Add(2 * time.Minute)
	require.NoError(t, board.EnsureFresh(context.Background()))
	assert.Len(t, board.AssignmentsForDate("2025-03-21"), 2)
}

func TestBoardRefreshSkipsMalformedRecords(t *testing.T) {
	board, s, _ := boardFixture(t)
	seed(t, s, "2025-03-21", map[string]any{"bookingId": "bk9", "guestName": 42, "currentCleaningDate": "2025-03-21"})

	require.NoError(t, board.Refresh(context.Background()))
	day := board.AssignmentsForDate("2025-03-21")
	require.Len(t, day, 1)
	assert.Equal(t, "2025-03-21_bk1", day[0].ID)
}
