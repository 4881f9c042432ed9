package assignment

import (
	"context"
	"errors"
	"sort"
	"strings"

	"cleaningmanager/database/repository/codec"
	"cleaningmanager/database/store"
	"cleaningmanager/models"
	"cleaningmanager/utils"

	"go.uber.org/zap"
)

// MigrationEntry moves one legacy record to its canonical id.
type MigrationEntry struct {
	FromID string         `json:"fromId"`
	ToID   string         `json:"toId"`
	Data   map[string]any `json:"data"`
	// TargetExists is true when ToID was already present at planning time.
	TargetExists bool `json:"targetExists"`
}

// UnmigratableRecord is a legacy record no canonical id can be derived for.
type UnmigratableRecord struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type MigrationPlan struct {
	Entries      []MigrationEntry     `json:"entries"`
	Unmigratable []UnmigratableRecord `json:"unmigratable"`
}

type MigrationResult struct {
	Created        int           `json:"created"`
	AlreadyPresent int           `json:"alreadyPresent"`
	Failed         int           `json:"failed"`
	Failures       []ItemFailure `json:"failures,omitempty"`
}

type CleanupResult struct {
	Deleted  int           `json:"deleted"`
	Rejected []string      `json:"rejected,omitempty"` // ids that carry a booking id
	Failed   int           `json:"failed"`
	Failures []ItemFailure `json:"failures,omitempty"`
}

// BuildMigrationPlan maps every legacy record to its canonical id. It only
// reads its input. Canonical records are left out of the plan. Legacy
// documents that do not match the schema are reported as unmigratable.
func BuildMigrationPlan(all []models.CleaningAssignment, malformed []codec.Rejected) MigrationPlan {
	present := make(map[string]bool, len(all)+len(malformed))
	canonicalByBooking := make(map[string]string)
	noteCanonical := func(id, bookingID string) {
		if !HasCanonicalShape(id) || bookingID == "" {
			return
		}
		if current, ok := canonicalByBooking[bookingID]; !ok || id < current {
			canonicalByBooking[bookingID] = id
		}
	}
	for _, a := range all {
		present[a.ID] = true
		noteCanonical(a.ID, a.BookingID)
	}
	for _, r := range malformed {
		present[r.ID] = true
		noteCanonical(r.ID, codec.StringField(r.Data, "bookingId"))
	}

	plan := MigrationPlan{Entries: []MigrationEntry{}, Unmigratable: []UnmigratableRecord{}}
	for _, r := range malformed {
		if IsLegacyID(r.ID) {
			plan.Unmigratable = append(plan.Unmigratable, UnmigratableRecord{ID: r.ID, Reason: "record does not match the assignment schema: " + r.Err.Error()})
		}
	}
	for _, a := range all {
		if !IsLegacyID(a.ID) {
			continue
		}
		bookingID := strings.TrimSpace(a.BookingID)
		if bookingID == "" {
			plan.Unmigratable = append(plan.Unmigratable, UnmigratableRecord{ID: a.ID, Reason: "record has no bookingId"})
			continue
		}
		date := OriginalDate(a)
		if !validDate(date) {
			plan.Unmigratable = append(plan.Unmigratable, UnmigratableRecord{ID: a.ID, Reason: "originalBookingDate is not a YYYY-MM-DD date"})
			continue
		}

		data := a.Fields()
		data["originalBookingDate"] = date
		entry := MigrationEntry{FromID: a.ID, ToID: CanonicalID(date, bookingID), Data: data}
		// The booking already has a canonical record: migrating is a no-op
		// aimed at that record.
		if existing, ok := canonicalByBooking[bookingID]; ok {
			entry.ToID = existing
		}
		entry.TargetExists = present[entry.ToID]
		plan.Entries = append(plan.Entries, entry)
	}

	sort.Slice(plan.Entries, func(i, j int) bool { return plan.Entries[i].FromID < plan.Entries[j].FromID })
	sort.Slice(plan.Unmigratable, func(i, j int) bool { return plan.Unmigratable[i].ID < plan.Unmigratable[j].ID })
	return plan
}

func (s *DefaultAssignmentService) PlanMigration(ctx context.Context) (*MigrationPlan, error) {
	all, malformed, err := s.Repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range malformed {
		if !IsLegacyID(r.ID) {
			s.Logger.Warn("Assignment does not match the schema", zap.String("id", r.ID), zap.Error(r.Err))
		}
	}
	plan := BuildMigrationPlan(all, malformed)
	for _, u := range plan.Unmigratable {
		s.Logger.Warn("Legacy assignment cannot be migrated", zap.String("id", u.ID), zap.String("reason", u.Reason))
	}
	return &plan, nil
}

// ApplyMigration creates each entry's target unless it exists. Source records
// are left in place. A failed entry is counted and the rest still run, so the
// same plan can be applied again after a partial failure.
func (s *DefaultAssignmentService) ApplyMigration(ctx context.Context, plan *MigrationPlan) (*MigrationResult, error) {
	result := &MigrationResult{}
	if plan == nil {
		return result, nil
	}
	for _, e := range plan.Entries {
		err := s.applyEntry(ctx, e)
		switch {
		case err == nil:
			result.Created++
			s.Logger.Info("Legacy assignment migrated", zap.String("from", e.FromID), zap.String("to", e.ToID))
		case errors.Is(err, store.ErrAlreadyExists):
			result.AlreadyPresent++
		default:
			result.Failed++
			result.Failures = append(result.Failures, failure(e.FromID, err))
			s.Logger.Error("Failed to migrate legacy assignment",
				zap.String("from", e.FromID),
				zap.String("to", e.ToID),
				zap.Error(err),
			)
		}
	}

	utils.CountOutcome(utils.MigrationOutcomes, "created", result.Created)
	utils.CountOutcome(utils.MigrationOutcomes, "already_present", result.AlreadyPresent)
	utils.CountOutcome(utils.MigrationOutcomes, "failed", result.Failed)
	return result, nil
}

func (s *DefaultAssignmentService) applyEntry(ctx context.Context, e MigrationEntry) error {
	if !HasCanonicalShape(e.ToID) {
		return store.Invalid("migration target %q is not a canonical id", e.ToID)
	}
	return s.Repo.CreateRaw(ctx, e.ToID, e.Data)
}

// DeleteLegacyRecords removes the given legacy records. Ids containing the
// separator are refused so canonical records cannot be deleted here.
func (s *DefaultAssignmentService) DeleteLegacyRecords(ctx context.Context, ids []string) (*CleanupResult, error) {
	result := &CleanupResult{}
	for _, id := range ids {
		if id == "" || HasCanonicalShape(id) {
			result.Rejected = append(result.Rejected, id)
			continue
		}
		if err := s.Repo.Delete(ctx, id); err != nil {
			result.Failed++
			result.Failures = append(result.Failures, failure(id, err))
			s.Logger.Error("Failed to delete legacy assignment", zap.String("id", id), zap.Error(err))
			continue
		}
		result.Deleted++
		s.Logger.Info("Legacy assignment deleted", zap.String("id", id))
	}

	utils.CountOutcome(utils.CleanupOutcomes, "deleted", result.Deleted)
	utils.CountOutcome(utils.CleanupOutcomes, "rejected", len(result.Rejected))
	utils.CountOutcome(utils.CleanupOutcomes, "failed", result.Failed)
	return result, nil
}

// LegacyIDs lists the ids still waiting for cleanup.
func (s *DefaultAssignmentService) LegacyIDs(ctx context.Context) ([]string, error) {
	all, err := s.Repo.IDs(ctx)
	if err != nil {
		return nil, err
	}
	ids := []string{}
	for _, id := range all {
		if !HasCanonicalShape(id) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
