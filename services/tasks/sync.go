package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cleaningmanager/models"

	"github.com/hibiken/asynq"
)

const TypeSyncBookings = "bookings:sync"

// SyncBookingsPayload is the booking batch a background sync works on.
type SyncBookingsPayload struct {
	Bookings    []models.Booking `json:"bookings"`
	RequestedBy string           `json:"requestedBy,omitempty"`
}

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

func NewSyncBookingsTask(payload SyncBookingsPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSyncBookings, b)
	opts := []asynq.Option{
		asynq.MaxRetry(5),
		asynq.Timeout(2 * time.Minute),
	}
	return task, opts, nil
}

// EnqueueSync queues a sync of bookings and returns the task id.
func EnqueueSync(ctx context.Context, client Enqueuer, payload SyncBookingsPayload) (string, error) {
	task, opts, err := NewSyncBookingsTask(payload)
	if err != nil {
		return "", fmt.Errorf("build sync task: %w", err)
	}
	info, err := client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return "", fmt.Errorf("enqueue sync task: %w", err)
	}
	return info.ID, nil
}
