package assignment

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"cleaningmanager/database/store"
	"cleaningmanager/models"

	"go.uber.org/zap"
)

func (s *DefaultAssignmentService) ListAssignments(ctx context.Context) ([]models.CleaningAssignment, error) {
	all, malformed, err := s.Repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range malformed {
		s.Logger.Warn("Omitting assignment that does not match the schema", zap.String("id", r.ID), zap.Error(r.Err))
	}
	return all, nil
}

func (s *DefaultAssignmentService) GetAssignment(ctx context.Context, id string) (*models.CleaningAssignment, error) {
	a, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: %s", ErrAssignmentNotFound, id)
	}
	return a, nil
}

func (s *DefaultAssignmentService) AssignCleaner(ctx context.Context, date, bookingID, cleanerID, cleanerName string) (*models.CleaningAssignment, error) {
	cleanerID, cleanerName = strings.TrimSpace(cleanerID), strings.TrimSpace(cleanerName)
	if cleanerID == "" || cleanerName == "" {
		return nil, store.Invalid("cleanerId and cleanerName are both required")
	}
	target, err := s.locate(ctx, date, bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.Update(ctx, target.ID, map[string]any{
		"cleanerId":   cleanerID,
		"cleanerName": cleanerName,
	}); err != nil {
		return nil, err
	}
	updated, err := s.reload(ctx, target.ID)
	if err != nil {
		return nil, err
	}

	if target.CleanerID != nil && *target.CleanerID != cleanerID {
		s.notifyUnassigned(ctx, *updated, *target.CleanerID)
	}
	if err := s.Notifier.NotifyCleanerAssigned(ctx, *updated); err != nil {
		s.Logger.Warn("Failed to notify assigned cleaner", zap.String("assignmentId", updated.ID), zap.Error(err))
	}
	s.Logger.Info("Cleaner assigned",
		zap.String("assignmentId", updated.ID),
		zap.String("bookingId", bookingID),
		zap.String("cleanerId", cleanerID),
	)
	return updated, nil
}

func (s *DefaultAssignmentService) UnassignCleaner(ctx context.Context, date, bookingID string) (*models.CleaningAssignment, error) {
	target, err := s.locate(ctx, date, bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.Update(ctx, target.ID, map[string]any{
		"cleanerId":   nil,
		"cleanerName": nil,
	}); err != nil {
		return nil, err
	}
	updated, err := s.reload(ctx, target.ID)
	if err != nil {
		return nil, err
	}

	if target.CleanerID != nil {
		s.notifyUnassigned(ctx, *updated, *target.CleanerID)
	}
	s.Logger.Info("Cleaner unassigned", zap.String("assignmentId", updated.ID), zap.String("bookingId", bookingID))
	return updated, nil
}

// locate finds the assignment of bookingID whose original or current date is
// date. A canonical record wins over a legacy duplicate still awaiting cleanup.
func (s *DefaultAssignmentService) locate(ctx context.Context, date, bookingID string) (*models.CleaningAssignment, error) {
	if strings.TrimSpace(date) == "" || strings.TrimSpace(bookingID) == "" {
		return nil, store.Invalid("date and bookingId are required")
	}
	candidates, malformed, err := s.Repo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	match := pickMatch(candidates, date)
	if match == nil {
		if len(malformed) > 0 {
			return nil, store.Invalid("booking %s has %d assignment(s) that do not match the schema: %v",
				bookingID, len(malformed), malformed[0].Err)
		}
		return nil, fmt.Errorf("%w: booking %s on %s", ErrAssignmentNotFound, bookingID, date)
	}
	return match, nil
}

func pickMatch(candidates []models.CleaningAssignment, date string) *models.CleaningAssignment {
	var matches []models.CleaningAssignment
	for _, a := range candidates {
		if a.MatchesDate(date) {
			matches = append(matches, a)
		}
	}
	if len(matches) == 0 {
		return nil
	}
	sort.SliceStable(matches, func(i, j int) bool {
		ci, cj := HasCanonicalShape(matches[i].ID), HasCanonicalShape(matches[j].ID)
		if ci != cj {
			return ci
		}
		return matches[i].ID < matches[j].ID
	})
	return &matches[0]
}

// reload returns the stored record after a write so callers see the
// authoritative state, audit timestamp included.
func (s *DefaultAssignmentService) reload(ctx context.Context, id string) (*models.CleaningAssignment, error) {
	a, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: %s", ErrAssignmentNotFound, id)
	}
	return a, nil
}

func (s *DefaultAssignmentService) notifyUnassigned(ctx context.Context, a models.CleaningAssignment, cleanerID string) {
	if err := s.Notifier.NotifyCleanerUnassigned(ctx, a, cleanerID); err != nil {
		s.Logger.Warn("Failed to notify unassigned cleaner",
			zap.String("assignmentId", a.ID),
			zap.String("cleanerId", cleanerID),
			zap.Error(err),
		)
	}
}
