package tasks

import (
	"context"
	"errors"
	"testing"

	"cleaningmanager/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type()}, nil
}

func TestEnqueueSync(t *testing.T) {
	enq := &fakeEnqueuer{}
	id, err := EnqueueSync(context.Background(), enq, SyncBookingsPayload{
		Bookings: []models.Booking{{ID: "b1", CheckOut: "2024-06-01", CleaningRequired: true}},
	})
	require.NoError(t, err)
	assert.Equal(t, "task-1", id)
	require.Len(t, enq.tasks, 1)
	assert.Equal(t, TypeSyncBookings, enq.tasks[0].Type())
	assert.Contains(t, string(enq.tasks[0].Payload()), `"checkOut":"2024-06-01"`)
}

func TestEnqueueSyncWrapsQueueErrors(t *testing.T) {
	queueDown := errors.New("redis down")
	_, err := EnqueueSync(context.Background(), &fakeEnqueuer{err: queueDown}, SyncBookingsPayload{})
	assert.True(t, errors.Is(err, queueDown))
}
