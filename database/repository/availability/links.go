package availabilityRepo

import (
	"context"

	"cleaningmanager/database/repository/codec"
	"cleaningmanager/database/store"
	"cleaningmanager/models"
)

const LinksCollection = "availability_links"

// LinkRepository stores shareable availability links.
type LinkRepository interface {
	GetAll(ctx context.Context) ([]models.AvailabilityLink, error)
	GetByToken(ctx context.Context, token string) ([]models.AvailabilityLink, error)
	Create(ctx context.Context, l models.AvailabilityLink) (string, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type storeLinkRepo struct {
	store store.RecordStore
}

func NewLinkRepository(s store.RecordStore) LinkRepository {
	return &storeLinkRepo{store: s}
}

func (r *storeLinkRepo) GetAll(ctx context.Context) ([]models.AvailabilityLink, error) {
	docs, err := r.store.GetAll(ctx, LinksCollection)
	if err != nil {
		return nil, err
	}
	return codec.DecodeAll[models.AvailabilityLink](LinksCollection, docs)
}

func (r *storeLinkRepo) GetByToken(ctx context.Context, token string) ([]models.AvailabilityLink, error) {
	docs, err := r.store.GetWhere(ctx, LinksCollection, "uniqueLink", store.OpEqual, token)
	if err != nil {
		return nil, err
	}
	return codec.DecodeAll[models.AvailabilityLink](LinksCollection, docs)
}

func (r *storeLinkRepo) Create(ctx context.Context, l models.AvailabilityLink) (string, error) {
	if err := codec.Check(LinksCollection, l); err != nil {
		return "", err
	}
	return r.store.Add(ctx, LinksCollection, l.Fields())
}

func (r *storeLinkRepo) SetActive(ctx context.Context, id string, active bool) error {
	return r.store.Update(ctx, LinksCollection, id, map[string]any{"isActive": active})
}
