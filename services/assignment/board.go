package assignment

import (
	"context"
	"sort"
	"sync"
	"time"

	"cleaningmanager/models"

	"go.uber.org/zap"
)

// RosterReader lists the cleaners that can take work.
type RosterReader interface {
	ListActive(ctx context.Context) ([]models.Cleaner, error)
}

// Board is the calendar view's cache of assignments and cleaners. Mutations
// patch the cache first, then replace the patch with the stored record, or
// restore the previous record if the write fails.
type Board struct {
	svc    AssignmentService
	roster RosterReader
	logger *zap.Logger
	maxAge time.Duration
	now    func() time.Time

	mu          sync.RWMutex
	assignments map[string]models.CleaningAssignment
	cleaners    []models.Cleaner
	loadedAt    time.Time
}

// NewBoard returns an empty board. A zero maxAge reloads on every EnsureFresh.
func NewBoard(svc AssignmentService, roster RosterReader, maxAge time.Duration, logger *zap.Logger) *Board {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Board{
		svc:         svc,
		roster:      roster,
		logger:      logger,
		maxAge:      maxAge,
		now:         time.Now,
		assignments: make(map[string]models.CleaningAssignment),
	}
}

// Refresh reloads assignments and cleaners from the store.
func (b *Board) Refresh(ctx context.Context) error {
	all, err := b.svc.ListAssignments(ctx)
	if err != nil {
		return err
	}
	cleaners, err := b.roster.ListActive(ctx)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.assignments = make(map[string]models.CleaningAssignment, len(all))
	for _, a := range all {
		b.assignments[a.ID] = a
	}
	b.cleaners = cleaners
	b.loadedAt = b.now()
	return nil
}

// EnsureFresh refreshes the board when it is older than maxAge.
func (b *Board) EnsureFresh(ctx context.Context) error {
	b.mu.RLock()
	stale := b.loadedAt.IsZero() || b.now().Sub(b.loadedAt) >= b.maxAge
	b.mu.RUnlock()
	if !stale {
		return nil
	}
	return b.Refresh(ctx)
}

// Invalidate forces the next EnsureFresh to reload.
func (b *Board) Invalidate() {
	b.mu.Lock()
	b.loadedAt = time.Time{}
	b.mu.Unlock()
}

// AssignmentsForDate returns the cached assignments cleaned on date.
func (b *Board) AssignmentsForDate(date string) []models.CleaningAssignment {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := []models.CleaningAssignment{}
	for _, a := range b.assignments {
		if a.CleaningDate() == date {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AvailableCleaners returns every active non-admin cleaner. Availability
// records are not consulted; date is accepted for the calendar's call shape.
func (b *Board) AvailableCleaners(date string) []models.Cleaner {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := []models.Cleaner{}
	for _, c := range b.cleaners {
		if c.Assignable() {
			out = append(out, c)
		}
	}
	return out
}

func (b *Board) AssignCleaner(ctx context.Context, date, bookingID, cleanerID, cleanerName string) (*models.CleaningAssignment, error) {
	id, name := cleanerID, cleanerName
	return b.mutate(ctx, date, bookingID, &id, &name, func() (*models.CleaningAssignment, error) {
		return b.svc.AssignCleaner(ctx, date, bookingID, cleanerID, cleanerName)
	})
}

func (b *Board) UnassignCleaner(ctx context.Context, date, bookingID string) (*models.CleaningAssignment, error) {
	return b.mutate(ctx, date, bookingID, nil, nil, func() (*models.CleaningAssignment, error) {
		return b.svc.UnassignCleaner(ctx, date, bookingID)
	})
}

func (b *Board) mutate(
	ctx context.Context,
	date, bookingID string,
	cleanerID, cleanerName *string,
	write func() (*models.CleaningAssignment, error),
) (*models.CleaningAssignment, error) {
	previous, patched := b.patch(date, bookingID, cleanerID, cleanerName)

	stored, err := write()
	if err != nil {
		if patched {
			b.rollback(previous)
			b.logger.Warn("Rolled back board patch",
				zap.String("assignmentId", previous.ID),
				zap.Error(err),
			)
		}
		return nil, err
	}

	b.mu.Lock()
	b.assignments[stored.ID] = *stored
	b.mu.Unlock()
	return stored, nil
}

// patch applies the speculative change to the cached record that the store
// will pick, and returns that record as it was before.
func (b *Board) patch(date, bookingID string, cleanerID, cleanerName *string) (models.CleaningAssignment, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var candidates []models.CleaningAssignment
	for _, a := range b.assignments {
		if a.BookingID == bookingID {
			candidates = append(candidates, a)
		}
	}
	match := pickMatch(candidates, date)
	if match == nil {
		return models.CleaningAssignment{}, false
	}
	previous := *match
	next := previous
	next.CleanerID, next.CleanerName = cleanerID, cleanerName
	b.assignments[next.ID] = next
	return previous, true
}

func (b *Board) rollback(previous models.CleaningAssignment) {
	b.mu.Lock()
	b.assignments[previous.ID] = previous
	b.mu.Unlock()
}
