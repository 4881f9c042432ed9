package availabilityRepo

import (
	"context"

	"cleaningmanager/database/repository/codec"
	"cleaningmanager/database/store"
	"cleaningmanager/models"
)

const Collection = "cleaner_availability"

// AvailabilityRepository stores monthly availability per cleaner.
type AvailabilityRepository interface {
	// GetByCleanerMonth returns nil without error when no record exists.
	GetByCleanerMonth(ctx context.Context, cleanerID, month string) (*models.CleanerAvailability, error)
	GetByMonth(ctx context.Context, month string) ([]models.CleanerAvailability, error)
	// Create writes the record at its deterministic key unless one exists.
	Create(ctx context.Context, a models.CleanerAvailability) (string, error)
	UpdateDates(ctx context.Context, id string, dates []string) error
}

type storeAvailabilityRepo struct {
	store store.RecordStore
}

func NewAvailabilityRepository(s store.RecordStore) AvailabilityRepository {
	return &storeAvailabilityRepo{store: s}
}

// RecordID is the key a new availability record is created under.
func RecordID(cleanerID, month string) string {
	return cleanerID + "_" + month
}

func (r *storeAvailabilityRepo) GetByCleanerMonth(ctx context.Context, cleanerID, month string) (*models.CleanerAvailability, error) {
	docs, err := r.store.GetWhere(ctx, Collection, "cleanerId", store.OpEqual, cleanerID)
	if err != nil {
		return nil, err
	}
	records, err := codec.DecodeAll[models.CleanerAvailability](Collection, docs)
	if err != nil {
		return nil, err
	}
	var match *models.CleanerAvailability
	for i := range records {
		if records[i].Month != month {
			continue
		}
		// Prefer the deterministic key if older clients left a second record.
		if match == nil || records[i].ID == RecordID(cleanerID, month) {
			match = &records[i]
		}
	}
	return match, nil
}

func (r *storeAvailabilityRepo) GetByMonth(ctx context.Context, month string) ([]models.CleanerAvailability, error) {
	docs, err := r.store.GetWhere(ctx, Collection, "month", store.OpEqual, month)
	if err != nil {
		return nil, err
	}
	return codec.DecodeAll[models.CleanerAvailability](Collection, docs)
}

func (r *storeAvailabilityRepo) Create(ctx context.Context, a models.CleanerAvailability) (string, error) {
	if err := codec.Check(Collection, a); err != nil {
		return "", err
	}
	id := RecordID(a.CleanerID, a.Month)
	if err := r.store.Create(ctx, Collection, id, a.Fields()); err != nil {
		return "", err
	}
	return id, nil
}

func (r *storeAvailabilityRepo) UpdateDates(ctx context.Context, id string, dates []string) error {
	if dates == nil {
		dates = []string{}
	}
	return r.store.Update(ctx, Collection, id, map[string]any{"availableDates": dates})
}
