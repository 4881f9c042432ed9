package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cleaningmanager/config"
	"cleaningmanager/database/store"
	"cleaningmanager/services/assignment"
	"cleaningmanager/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// QueueRedisOpt is the asynq connection for the background sync queue (REDIS_QUEUE_DB).
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitSyncWorker runs the booking sync worker in background until ctx is done.
// The returned server is shut down by the caller.
func InitSyncWorker(ctx context.Context, svc assignment.AssignmentService, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSyncBookings, HandleSyncTask(svc, logger))

	go monitorRedisConnection(ctx, logger)

	go func() {
		logger.Info("[SyncWorker] starting async worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Warn("[SyncWorker] failed to start worker",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("[SyncWorker] max retry attempts reached, background sync disabled")
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(attempts*2) * time.Second):
			}
		}
	}()
	return srv
}

// HandleSyncTask creates missing assignments for the task's bookings, then
// records checkout changes on the existing ones.
func HandleSyncTask(svc assignment.AssignmentService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.SyncBookingsPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("[SyncHandler] invalid payload", zap.Error(err))
			return fmt.Errorf("decode sync payload: %v: %w", err, asynq.SkipRetry)
		}

		synced, err := svc.SyncFromBookings(ctx, p.Bookings)
		if err != nil {
			return retryable("sync", err)
		}
		reconciled, err := svc.ReconcileBookingDates(ctx, p.Bookings)
		if err != nil {
			return retryable("reconcile", err)
		}

		logger.Info("[SyncHandler] background sync finished",
			zap.String("requestedBy", p.RequestedBy),
			zap.Int("bookings", len(p.Bookings)),
			zap.Int("created", synced.Created),
			zap.Int("rescheduled", reconciled.Updated),
			zap.Int("reconcileFailed", reconciled.Failed),
		)
		if reconciled.Failed > 0 {
			return fmt.Errorf("%d assignments failed to reconcile", reconciled.Failed)
		}
		return nil
	}
}

// retryable leaves transient store failures to asynq's retry policy.
func retryable(stage string, err error) error {
	if store.IsRetryable(err) {
		return fmt.Errorf("%s: %w", stage, err)
	}
	return fmt.Errorf("%s: %v: %w", stage, err, asynq.SkipRetry)
}

// monitorRedisConnection pings the queue database periodically to detect failures at runtime.
func monitorRedisConnection(ctx context.Context, logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("[SyncWorker] redis connection lost", zap.Error(err))
			}
		}
	}
}
