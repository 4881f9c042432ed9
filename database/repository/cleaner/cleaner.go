package cleanerRepo

import (
	"context"

	"cleaningmanager/database/repository/codec"
	"cleaningmanager/database/store"
	"cleaningmanager/models"
)

const Collection = "cleaners"

// CleanerRepository defines data access for the cleaning roster.
type CleanerRepository interface {
	GetAll(ctx context.Context) ([]models.Cleaner, error)
	// GetActive returns cleaners whose isActive flag is set, admins included.
	GetActive(ctx context.Context) ([]models.Cleaner, error)
	// GetByID returns nil without error when the cleaner does not exist.
	GetByID(ctx context.Context, id string) (*models.Cleaner, error)
	// Create stores a new cleaner and returns its generated id.
	Create(ctx context.Context, c models.Cleaner) (string, error)
	Update(ctx context.Context, id string, fields map[string]any) error
}

type storeCleanerRepo struct {
	store store.RecordStore
}

func NewCleanerRepository(s store.RecordStore) CleanerRepository {
	return &storeCleanerRepo{store: s}
}

func (r *storeCleanerRepo) GetAll(ctx context.Context) ([]models.Cleaner, error) {
	docs, err := r.store.GetAll(ctx, Collection)
	if err != nil {
		return nil, err
	}
	return codec.DecodeAll[models.Cleaner](Collection, docs)
}

func (r *storeCleanerRepo) GetActive(ctx context.Context) ([]models.Cleaner, error) {
	docs, err := r.store.GetWhere(ctx, Collection, "isActive", store.OpEqual, true)
	if err != nil {
		return nil, err
	}
	return codec.DecodeAll[models.Cleaner](Collection, docs)
}

func (r *storeCleanerRepo) GetByID(ctx context.Context, id string) (*models.Cleaner, error) {
	doc, found, err := r.store.GetByID(ctx, Collection, id)
	if err != nil || !found {
		return nil, err
	}
	var c models.Cleaner
	if err := codec.Decode(Collection, doc, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *storeCleanerRepo) Create(ctx context.Context, c models.Cleaner) (string, error) {
	if err := codec.Check(Collection, c); err != nil {
		return "", err
	}
	return r.store.Add(ctx, Collection, c.Fields())
}

func (r *storeCleanerRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.store.Update(ctx, Collection, id, fields)
}
