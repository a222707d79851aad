package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// DistributeTaskSyncLocations enqueues one on-demand location sync.
// Deduplicated by task ID so an already-queued sync is not queued twice.
func (distributor *RedisTaskDistributor) DistributeTaskSyncLocations(ctx context.Context, opts ...asynq.Option) error {
	task := asynq.NewTask(TaskSyncLocations, nil, opts...)

	info, err := distributor.client.EnqueueContext(ctx, task, asynq.TaskID(TaskSyncLocations), asynq.Queue(QueueDefault))
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	log.Info().
		Str("type", task.Type()).
		Str("queue", info.Queue).
		Msg("enqueued task")

	return nil
}

// ProcessTaskSyncLocations runs one full reference-data sync.
func (processor *RedisTaskProcessor) ProcessTaskSyncLocations(ctx context.Context, task *asynq.Task) error {
	stats, err := processor.syncer.SyncAll(ctx)
	if err != nil {
		return fmt.Errorf("location sync failed: %w", err)
	}

	log.Info().
		Str("type", task.Type()).
		Int64("provinces", stats.Provinces).
		Int64("districts", stats.Districts).
		Int64("wards", stats.Wards).
		Msg("processed task")

	return nil
}
