package assignment

import (
	"context"

	"cleaningmanager/database/repository"
	"cleaningmanager/models"
	"cleaningmanager/services/notification"

	"go.uber.org/zap"
)

// AssignmentService owns cleaning assignment identity, sync with bookings and
// cleaner assignment.
type AssignmentService interface {
	ListAssignments(ctx context.Context) ([]models.CleaningAssignment, error)
	GetAssignment(ctx context.Context, id string) (*models.CleaningAssignment, error)

	// AssignCleaner links a cleaner to the assignment of bookingID on date,
	// where date may be the original or the rescheduled checkout.
	AssignCleaner(ctx context.Context, date, bookingID, cleanerID, cleanerName string) (*models.CleaningAssignment, error)
	UnassignCleaner(ctx context.Context, date, bookingID string) (*models.CleaningAssignment, error)

	// SyncFromBookings creates the missing assignments for cleaning-required
	// bookings in one atomic batch. Existing assignments are never changed.
	SyncFromBookings(ctx context.Context, bookings []models.Booking) (*SyncResult, error)
	// ReconcileBookingDates records checkout date changes on existing assignments.
	ReconcileBookingDates(ctx context.Context, bookings []models.Booking) (*ReconcileResult, error)

	PlanMigration(ctx context.Context) (*MigrationPlan, error)
	ApplyMigration(ctx context.Context, plan *MigrationPlan) (*MigrationResult, error)
	DeleteLegacyRecords(ctx context.Context, ids []string) (*CleanupResult, error)
	LegacyIDs(ctx context.Context) ([]string, error)
}

// DefaultAssignmentService implements AssignmentService over the record store.
type DefaultAssignmentService struct {
	Repo     repository.AssignmentRepository
	Notifier notification.NotificationService
	Logger   *zap.Logger
}

func NewDefaultAssignmentService(repo repository.AssignmentRepository, notifier notification.NotificationService, logger *zap.Logger) *DefaultAssignmentService {
	if notifier == nil {
		notifier = notification.NoopNotificationService{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultAssignmentService{Repo: repo, Notifier: notifier, Logger: logger}
}

var _ AssignmentService = (*DefaultAssignmentService)(nil)
