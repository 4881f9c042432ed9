package assignmentRepo

import (
	"context"

	"cleaningmanager/database/repository/codec"
	"cleaningmanager/database/store"
	"cleaningmanager/models"
)

// Collection holds one document per cleaning assignment.
const Collection = "cleaning-assignments"

// AssignmentRepository is the typed view of the cleaning-assignments collection.
type AssignmentRepository interface {
	// GetAll returns every assignment, legacy ids included. Documents that do
	// not match the schema are returned as rejected rather than failing the read.
	GetAll(ctx context.Context) ([]models.CleaningAssignment, []codec.Rejected, error)
	// IDs lists every document id without decoding the records.
	IDs(ctx context.Context) ([]string, error)
	// GetByID returns nil without error when the id is absent.
	GetByID(ctx context.Context, id string) (*models.CleaningAssignment, error)
	GetByBookingID(ctx context.Context, bookingID string) ([]models.CleaningAssignment, []codec.Rejected, error)
	// Create writes at a.ID only if absent; store.ErrAlreadyExists otherwise.
	Create(ctx context.Context, a models.CleaningAssignment) error
	// CreateMany atomically creates the absent assignments and returns their ids.
	CreateMany(ctx context.Context, assignments []models.CleaningAssignment) ([]string, error)
	// CreateRaw creates a document at id from stored field data, bypassing the schema.
	CreateRaw(ctx context.Context, id string, data map[string]any) error
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

type storeAssignmentRepo struct {
	store store.RecordStore
}

// NewAssignmentRepository returns a repository backed by the record store.
func NewAssignmentRepository(s store.RecordStore) AssignmentRepository {
	return &storeAssignmentRepo{store: s}
}
