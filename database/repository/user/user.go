package userRepo

import (
	"context"

	"cleaningmanager/database/repository/codec"
	"cleaningmanager/database/store"
	"cleaningmanager/models"
)

// Collection is keyed by the identity provider's subject id.
const Collection = "users"

// UserRepository defines methods for user profile access.
type UserRepository interface {
	// GetByID returns nil without error when no profile exists for id.
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Create stores the profile at u.ID; store.ErrAlreadyExists if one is present.
	Create(ctx context.Context, u models.User) error
	Update(ctx context.Context, id string, fields map[string]any) error
}

type storeUserRepo struct {
	store store.RecordStore
}

func NewUserRepository(s store.RecordStore) UserRepository {
	return &storeUserRepo{store: s}
}

func (r *storeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	doc, found, err := r.store.GetByID(ctx, Collection, id)
	if err != nil || !found {
		return nil, err
	}
	var u models.User
	if err := codec.Decode(Collection, doc, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *storeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	docs, err := r.store.GetWhere(ctx, Collection, "email", store.OpEqual, email)
	if err != nil || len(docs) == 0 {
		return nil, err
	}
	var u models.User
	if err := codec.Decode(Collection, docs[0], &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *storeUserRepo) Create(ctx context.Context, u models.User) error {
	if err := codec.Check(Collection, u); err != nil {
		return err
	}
	return r.store.Create(ctx, Collection, u.ID, u.Fields())
}

func (r *storeUserRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.store.Update(ctx, Collection, id, fields)
}
