package assignment

import (
	"context"
	"sync"
	"testing"

	"cleaningmanager/database/repository"
	assignmentRepo "cleaningmanager/database/repository/assignment"
	"cleaningmanager/database/store"
	"cleaningmanager/models"

	"github.com/stretchr/testify/require"
)

// faultyStore injects failures into an in-memory store.
type faultyStore struct {
	*store.MemoryStore
	createErrs map[string]error
	batchErr   error
	updateErr  error
	deleteErrs map[string]error
}

func newFaultyStore() *faultyStore {
	return &faultyStore{
		MemoryStore: store.NewMemoryStore(nil),
		createErrs:  map[string]error{},
		deleteErrs:  map[string]error{},
	}
}

func (f *faultyStore) Create(ctx context.Context, collection, id string, data map[string]any) error {
	if err, ok := f.createErrs[id]; ok {
		return err
	}
	return f.MemoryStore.Create(ctx, collection, id, data)
}

func (f *faultyStore) CreateBatch(ctx context.Context, collection string, entries []store.Entry) ([]string, error) {
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	return f.MemoryStore.CreateBatch(ctx, collection, entries)
}

func (f *faultyStore) Update(ctx context.Context, collection, id string, partial map[string]any) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	return f.MemoryStore.Update(ctx, collection, id, partial)
}

func (f *faultyStore) Delete(ctx context.Context, collection, id string) error {
	if err, ok := f.deleteErrs[id]; ok {
		return err
	}
	return f.MemoryStore.Delete(ctx, collection, id)
}

type sentNotice struct {
	kind      string
	id        string
	cleanerID string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotice
}

func (n *recordingNotifier) NotifyCleanerAssigned(_ context.Context, a models.CleaningAssignment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotice{kind: "assigned", id: a.ID, cleanerID: *a.CleanerID})
	return nil
}

func (n *recordingNotifier) NotifyCleanerUnassigned(_ context.Context, a models.CleaningAssignment, cleanerID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotice{kind: "unassigned", id: a.ID, cleanerID: cleanerID})
	return nil
}

func newService(s store.RecordStore) (*DefaultAssignmentService, *recordingNotifier) {
	notifier := &recordingNotifier{}
	return NewDefaultAssignmentService(repository.NewAssignmentRepository(s), notifier, nil), notifier
}

func seed(t *testing.T, s store.RecordStore, id string, data map[string]any) {
	t.Helper()
	require.NoError(t, s.SetWithID(context.Background(), assignmentRepo.Collection, id, data))
}

func stored(t *testing.T, s store.RecordStore, id string) (store.Document, bool) {
	t.Helper()
	doc, found, err := s.GetByID(context.Background(), assignmentRepo.Collection, id)
	require.NoError(t, err)
	return doc, found
}

func allIDs(t *testing.T, s store.RecordStore) []string {
	t.Helper()
	docs, err := s.GetAll(context.Background(), assignmentRepo.Collection)
	require.NoError(t, err)
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids
}

func booking(id, checkOut string, cleaning bool) models.Booking {
	return models.Booking{ID: id, CheckOut: checkOut, GuestName: "Guest " + id, CleaningRequired: cleaning}
}
