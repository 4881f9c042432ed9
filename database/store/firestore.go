package store

import (
	"context"
	"errors"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore is the production backend over Cloud Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore wraps a client obtained from firebase.App.Firestore.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) Ping(ctx context.Context) error {
	// Any cheap authenticated read proves connectivity and credentials.
	_, err := s.client.Collections(ctx).Next()
	if err != nil && !errors.Is(err, iterator.Done) {
		return classify("ping", "", "", err)
	}
	return nil
}

func (s *FirestoreStore) GetAll(ctx context.Context, collection string) ([]Document, error) {
	snaps, err := s.client.Collection(collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, classify("getAll", collection, "", err)
	}
	return fromSnapshots(snaps), nil
}

func (s *FirestoreStore) GetWhere(ctx context.Context, collection, field string, op Operator, value any) ([]Document, error) {
	if err := checkQuery(collection, field, op); err != nil {
		return nil, err
	}
	snaps, err := s.client.Collection(collection).Where(field, string(op), value).Documents(ctx).GetAll()
	if err != nil {
		return nil, classify("getWhere", collection, "", err)
	}
	return fromSnapshots(snaps), nil
}

func (s *FirestoreStore) GetByID(ctx context.Context, collection, id string) (Document, bool, error) {
	if err := checkID("getById", collection, id); err != nil {
		return Document{}, false, err
	}
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return Document{}, false, nil
	}
	if err != nil {
		return Document{}, false, classify("getById", collection, id, err)
	}
	return Document{ID: snap.Ref.ID, Data: snap.Data()}, true, nil
}

func (s *FirestoreStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, withServerTimestamps(data))
	if err != nil {
		return "", classify("add", collection, "", err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, partial map[string]any) error {
	if err := checkID("update", collection, id); err != nil {
		return err
	}
	fields := stripAudit(partial)
	updates := make([]firestore.Update, 0, len(fields)+1)
	for k, v := range fields {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	sort.Slice(updates, func(i, j int) bool { return updates[i].Path < updates[j].Path })
	updates = append(updates, firestore.Update{Path: FieldUpdatedAt, Value: firestore.ServerTimestamp})

	// Update fails with NotFound when the document is absent.
	if _, err := s.client.Collection(collection).Doc(id).Update(ctx, updates); err != nil {
		return classify("update", collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	if err := checkID("delete", collection, id); err != nil {
		return err
	}
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return classify("delete", collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) SetWithID(ctx context.Context, collection, id string, data map[string]any) error {
	if err := checkID("set", collection, id); err != nil {
		return err
	}
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, withServerTimestamps(data)); err != nil {
		return classify("set", collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) Create(ctx context.Context, collection, id string, data map[string]any) error {
	if err := checkID("create", collection, id); err != nil {
		return err
	}
	if _, err := s.client.Collection(collection).Doc(id).Create(ctx, withServerTimestamps(data)); err != nil {
		return classify("create", collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) CreateBatch(ctx context.Context, collection string, entries []Entry) ([]string, error) {
	refs := make([]*firestore.DocumentRef, 0, len(entries))
	data := make(map[string]map[string]any, len(entries))
	for _, e := range entries {
		if err := checkID("createBatch", collection, e.ID); err != nil {
			return nil, err
		}
		if _, dup := data[e.ID]; dup {
			continue
		}
		refs = append(refs, s.client.Collection(collection).Doc(e.ID))
		data[e.ID] = e.Data
	}
	if len(refs) == 0 {
		return nil, nil
	}

	var created []string
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// The function may run more than once; only the last attempt's result counts.
		created = created[:0]
		snaps, err := tx.GetAll(refs)
		if err != nil {
			return err
		}
		for i, snap := range snaps {
			if snap.Exists() {
				continue
			}
			ref := refs[i]
			if err := tx.Create(ref, withServerTimestamps(data[ref.ID])); err != nil {
				return err
			}
			created = append(created, ref.ID)
		}
		return nil
	})
	if err != nil {
		return nil, classify("createBatch", collection, "", err)
	}
	return created, nil
}

func withServerTimestamps(data map[string]any) map[string]any {
	out := stripAudit(data)
	out[FieldCreatedAt] = firestore.ServerTimestamp
	out[FieldUpdatedAt] = firestore.ServerTimestamp
	return out
}

func fromSnapshots(snaps []*firestore.DocumentSnapshot) []Document {
	docs := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs
}

// classify maps a gRPC status from Firestore onto the store's error kinds.
func classify(op, collection, id string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return newError(op, collection, id, ErrStoreUnavailable, err)
	}
	switch status.Code(err) {
	case codes.NotFound:
		return newError(op, collection, id, ErrNotFound, err)
	case codes.AlreadyExists:
		return newError(op, collection, id, ErrAlreadyExists, err)
	case codes.PermissionDenied, codes.Unauthenticated:
		return newError(op, collection, id, ErrUnauthorized, err)
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		return newError(op, collection, id, ErrValidationFailed, err)
	default:
		return newError(op, collection, id, ErrStoreUnavailable, err)
	}
}

var _ RecordStore = (*FirestoreStore)(nil)
