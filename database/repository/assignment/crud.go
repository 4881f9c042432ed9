package assignmentRepo

import (
	"context"

	"cleaningmanager/database/repository/codec"
	"cleaningmanager/database/store"
	"cleaningmanager/models"
)

func (r *storeAssignmentRepo) GetAll(ctx context.Context) ([]models.CleaningAssignment, []codec.Rejected, error) {
	docs, err := r.store.GetAll(ctx, Collection)
	if err != nil {
		return nil, nil, err
	}
	records, rejected := codec.DecodeEach[models.CleaningAssignment](Collection, docs)
	return records, rejected, nil
}

func (r *storeAssignmentRepo) IDs(ctx context.Context) ([]string, error) {
	docs, err := r.store.GetAll(ctx, Collection)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	return ids, nil
}

func (r *storeAssignmentRepo) GetByID(ctx context.Context, id string) (*models.CleaningAssignment, error) {
	doc, found, err := r.store.GetByID(ctx, Collection, id)
	if err != nil || !found {
		return nil, err
	}
	var a models.CleaningAssignment
	if err := codec.Decode(Collection, doc, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *storeAssignmentRepo) GetByBookingID(ctx context.Context, bookingID string) ([]models.CleaningAssignment, []codec.Rejected, error) {
	docs, err := r.store.GetWhere(ctx, Collection, "bookingId", store.OpEqual, bookingID)
	if err != nil {
		return nil, nil, err
	}
	records, rejected := codec.DecodeEach[models.CleaningAssignment](Collection, docs)
	return records, rejected, nil
}

func (r *storeAssignmentRepo) Create(ctx context.Context, a models.CleaningAssignment) error {
	if err := codec.Check(Collection, a); err != nil {
		return err
	}
	return r.store.Create(ctx, Collection, a.ID, a.Fields())
}

func (r *storeAssignmentRepo) CreateMany(ctx context.Context, assignments []models.CleaningAssignment) ([]string, error) {
	entries := make([]store.Entry, 0, len(assignments))
	for _, a := range assignments {
		if err := codec.Check(Collection, a); err != nil {
			return nil, err
		}
		entries = append(entries, store.Entry{ID: a.ID, Data: a.Fields()})
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return r.store.CreateBatch(ctx, Collection, entries)
}

func (r *storeAssignmentRepo) CreateRaw(ctx context.Context, id string, data map[string]any) error {
	return r.store.Create(ctx, Collection, id, data)
}

func (r *storeAssignmentRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.store.Update(ctx, Collection, id, fields)
}

func (r *storeAssignmentRepo) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, Collection, id)
}
