package assignment

import (
	"context"
	"testing"

	"cleaningmanager/database/repository/codec"
	"cleaningmanager/database/store"
	"cleaningmanager/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMigrationPlanExcludesCanonicalRecords(t *testing.T) {
	plan := BuildMigrationPlan([]models.CleaningAssignment{
		{ID: "2025-03-21", BookingID: "bk1", OriginalBookingDate: "2025-03-21"},
		{ID: "2025-03-22_bk2", BookingID: "bk2", OriginalBookingDate: "2025-03-22"},
	}, nil)

	require.Len(t, plan.Entries, 1)
	assert.Equal(t, "2025-03-21", plan.Entries[0].FromID)
	assert.Equal(t, "2025-03-21_bk1", plan.Entries[0].ToID)
	assert.False(t, plan.Entries[0].TargetExists)
	assert.Empty(t, plan.Unmigratable)
}

func TestBuildMigrationPlanReportsUnmigratable(t *testing.T) {
	plan := BuildMigrationPlan([]models.CleaningAssignment{
		{ID: "2025-03-21"},
		{ID: "2025-03-23", BookingID: "bk3", OriginalBookingDate: "23/03/2025"},
	}, nil)

	assert.Empty(t, plan.Entries)
	require.Len(t, plan.Unmigratable, 2)
	assert.Equal(t, "2025-03-21", plan.Unmigratable[0].ID)
	assert.Equal(t, "2025-03-23", plan.Unmigratable[1].ID)
}

func TestBuildMigrationPlanFallsBackToLegacyDate(t *testing.T) {
	plan := BuildMigrationPlan([]models.CleaningAssignment{{ID: "2025-03-21", BookingID: "bk1"}}, nil)

	require.Len(t, plan.Entries, 1)
	assert.Equal(t, "2025-03-21_bk1", plan.Entries[0].ToID)
	assert.Equal(t, "2025-03-21", plan.Entries[0].Data["originalBookingDate"])
}

func TestBuildMigrationPlanTargetsExistingCanonicalRecord(t *testing.T) {
	plan := BuildMigrationPlan([]models.CleaningAssignment{
		{ID: "2025-03-21", BookingID: "bk1", OriginalBookingDate: "2025-03-21"},
		{ID: "2025-03-20_bk1", BookingID: "bk1", OriginalBookingDate: "2025-03-20"},
	}, nil)

	require.Len(t, plan.Entries, 1)
	assert.Equal(t, "2025-03-20_bk1", plan.Entries[0].ToID)
	assert.True(t, plan.Entries[0].TargetExists)
}

func TestBuildMigrationPlanReportsMalformedLegacyRecords(t *testing.T) {
	plan := BuildMigrationPlan(
		[]models.CleaningAssignment{{ID: "2025-03-21", BookingID: "bk1", OriginalBookingDate: "2025-03-21"}},
		[]codec.Rejected{
			{ID: "2025-03-22", Data: map[string]any{"bookingId": "bk2"}, Err: store.Invalid("bad date")},
			{ID: "2025-03-19_bk1", Data: map[string]any{"bookingId": "bk1"}, Err: store.Invalid("bad guest")},
		},
	)

	require.Len(t, plan.Entries, 1)
	// The malformed canonical record still counts as the booking's target.
	assert.Equal(t, "2025-03-19_bk1", plan.Entries[0].ToID)
	assert.True(t, plan.Entries[0].TargetExists)
	require.Len(t, plan.Unmigratable, 1)
	assert.Equal(t, "2025-03-22", plan.Unmigratable[0].ID)
	assert.Contains(t, plan.Unmigratable[0].Reason, "bad date")
}

func TestBuildMigrationPlanRejectsImpossibleLegacyDate(t *testing.T) {
	plan := BuildMigrationPlan([]models.CleaningAssignment{{ID: "2025-13-40", BookingID: "bk1"}}, nil)

	assert.Empty(t, plan.Entries)
	require.Len(t, plan.Unmigratable, 1)
	assert.Contains(t, plan.Unmigratable[0].Reason, "YYYY-MM-DD")
}

func TestMigrationWithMalformedRecordMigratesTheRest(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore(nil)
	svc, _ := newService(s)
	seed(t, s, "2025-03-21", map[string]any{"bookingId": "bk1", "originalBookingDate": "2025-03-21"})
	seed(t, s, "2025-03-22", map[string]any{"bookingId": "bk2", "originalBookingDate": "22/03/2025"})
	seed(t, s, "2025-03-23_bk3", map[string]any{"bookingId": "bk3", "guestName": 42})

	plan, err := svc.PlanMigration(ctx)
	require.NoError(t, err)
	require.Len(t, plan.Entries, 1)
	assert.Equal(t, "2025-03-21_bk1", plan.Entries[0].ToID)
	require.Len(t, plan.Unmigratable, 1)
	assert.Equal(t, "2025-03-22", plan.Unmigratable[0].ID)

	result, err := svc.ApplyMigration(ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	legacy, err := svc.LegacyIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-21", "2025-03-22"}, legacy)

	cleanup, err := svc.DeleteLegacyRecords(ctx, []string{"2025-03-21"})
	require.NoError(t, err)
	assert.Equal(t, 1, cleanup.Deleted)
	assert.Equal(t, []string{"2025-03-21_bk1", "2025-03-22", "2025-03-23_bk3"}, allIDs(t, s))
}

func TestMigrationScenario(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore(nil)
	svc, _ := newService(s)
	cleaner, name := "c1", "Sarah"
	seed(t, s, "2025-03-21", map[string]any{
		"bookingId":           "bk1",
		"originalBookingDate": "2025-03-21",
		"cleanerId":           cleaner,
		"cleanerName":         name,
	})

	plan, err := svc.PlanMigration(ctx)
	require.NoError(t, err)
	result, err := svc.ApplyMigration(ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	assert.Equal(t, []string{"2025-03-21", "2025-03-21_bk1"}, allIDs(t, s))
	legacy, _ := stored(t, s, "2025-03-21")
	migrated, found := stored(t, s, "2025-03-21_bk1")
	require.True(t, found)
	for _, field := range []string{"bookingId", "originalBookingDate", "cleanerId", "cleanerName"} {
		assert.Equal(t, legacy.Data[field], migrated.Data[field], field)
	}
	assert.Contains(t, migrated.Data, store.FieldUpdatedAt)

	cleanup, err := svc.DeleteLegacyRecords(ctx, []string{"2025-03-21"})
	require.NoError(t, err)
	assert.Equal(t, 1, cleanup.Deleted)
	assert.Equal(t, []string{"2025-03-21_bk1"}, allIDs(t, s))
}

func TestApplyMigrationTwiceMatchesApplyingOnce(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore(nil)
	svc, _ := newService(s)
	seed(t, s, "2025-03-21", map[string]any{"bookingId": "bk1", "originalBookingDate": "2025-03-21"})
	seed(t, s, "2025-03-22", map[string]any{"bookingId": "bk2", "originalBookingDate": "2025-03-22"})

	plan, err := svc.PlanMigration(ctx)
	require.NoError(t, err)
	_, err = svc.ApplyMigration(ctx, plan)
	require.NoError(t, err)
	first, _ := stored(t, s, "2025-03-21_bk1")

	// An operator assigns a cleaner between the two runs; the rerun must not undo it.
	_, err = svc.AssignCleaner(ctx, "2025-03-21", "bk1", "c9", "Mike")
	require.NoError(t, err)

	again, err := svc.ApplyMigration(ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Created)
	assert.Equal(t, 2, again.AlreadyPresent)
	assert.Zero(t, again.Failed)

	assert.Len(t, allIDs(t, s), 4)
	second, _ := stored(t, s, "2025-03-21_bk1")
	assert.Equal(t, first.Data[store.FieldCreatedAt], second.Data[store.FieldCreatedAt])
	assert.Equal(t, "c9", second.Data["cleanerId"])
}

func TestApplyMigrationContinuesPastFailedEntry(t *testing.T) {
	ctx := context.Background()
	s := newFaultyStore()
	svc, _ := newService(s)
	seed(t, s, "2025-03-21", map[string]any{"bookingId": "bk1", "originalBookingDate": "2025-03-21"})
	seed(t, s, "2025-03-22", map[string]any{"bookingId": "bk2", "originalBookingDate": "2025-03-22"})
	s.createErrs["2025-03-21_bk1"] = &store.Error{Op: "create", Kind: store.ErrStoreUnavailable}

	plan, err := svc.PlanMigration(ctx)
	require.NoError(t, err)
	result, err := svc.ApplyMigration(ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "2025-03-21", result.Failures[0].ID)

	// Rerun after the outage completes the remaining entry.
	delete(s.createErrs, "2025-03-21_bk1")
	rerun, err := svc.ApplyMigration(ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, 1, rerun.Created)
	assert.Equal(t, 1, rerun.AlreadyPresent)
	_, found := stored(t, s, "2025-03-21_bk1")
	assert.True(t, found)
}

func TestApplyMigrationRejectsNonCanonicalTarget(t *testing.T) {
	svc, _ := newService(store.NewMemoryStore(nil))

	result, err := svc.ApplyMigration(context.Background(), &MigrationPlan{Entries: []MigrationEntry{
		{FromID: "2025-03-21", ToID: "2025-03-21", Data: map[string]any{}},
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
}

func TestDeleteLegacyRecordsRefusesCanonicalIDs(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore(nil)
	svc, _ := newService(s)
	seed(t, s, "2025-03-21_bk1", map[string]any{"bookingId": "bk1"})

	result, err := svc.DeleteLegacyRecords(ctx, []string{"2025-03-21_bk1", ""})
	require.NoError(t, err)
	assert.Zero(t, result.Deleted)
	assert.Equal(t, []string{"2025-03-21_bk1", ""}, result.Rejected)
	_, found := stored(t, s, "2025-03-21_bk1")
	assert.True(t, found)
}

func TestDeleteLegacyRecordsCountsFailures(t *testing.T) {
	ctx := context.Background()
	s := newFaultyStore()
	svc, _ := newService(s)
	seed(t, s, "2025-03-21", map[string]any{"bookingId": "bk1"})
	seed(t, s, "2025-03-22", map[string]any{"bookingId": "bk2"})
	s.deleteErrs["2025-03-21"] = &store.Error{Op: "delete", Kind: store.ErrUnauthorized}

	result, err := svc.DeleteLegacyRecords(ctx, []string{"2025-03-21", "2025-03-22"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, 1, result.Failed)
}

func TestLegacyIDs(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore(nil)
	svc, _ := newService(s)
	seed(t, s, "2025-03-22", map[string]any{"bookingId": "bk2"})
	seed(t, s, "2025-03-21", map[string]any{})
	seed(t, s, "2025-03-21_bk1", map[string]any{"bookingId": "bk1"})

	ids, err := svc.LegacyIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-21", "2025-03-22"}, ids)
}
