package taskPoller

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/kleros/linguo-engine/pkg/tasksStore"
	"github.com/kleros/linguo-engine/pkg/types"
)

// TaskSource supplies task snapshots changed since a block cursor. The
// transport behind it (indexer, RPC node, subgraph) is the caller's concern.
type TaskSource interface {
	// FetchTasks returns the snapshots that changed after fromBlock and
	// the latest block the source has observed.
	FetchTasks(ctx context.Context, fromBlock uint64) ([]*types.Task, uint64, error)
}

type TaskPollerConfig struct {
	Contract        common.Address
	PollingInterval time.Duration
}

func NewTaskPollerDefaultConfig(contract common.Address) *TaskPollerConfig {
	return &TaskPollerConfig{
		Contract:        contract,
		PollingInterval: 15 * time.Second,
	}
}

// TaskPoller mirrors task snapshots from a TaskSource into a TaskStore on an
// interval, resuming from the store's per-contract sync cursor.
type TaskPoller struct {
	source TaskSource
	store  tasksStore.TaskStore
	config *TaskPollerConfig
	logger *zap.Logger
}

func NewTaskPoller(
	source TaskSource,
	store tasksStore.TaskStore,
	config *TaskPollerConfig,
	logger *zap.Logger,
) *TaskPoller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskPoller{
		source: source,
		store:  store,
		config: config,
		logger: logger,
	}
}

// Start launches the poll loop. It returns immediately; the loop exits when
// ctx is cancelled.
func (tp *TaskPoller) Start(ctx context.Context) error {
	sugar := tp.logger.Sugar()
	sugar.Infow("Starting task poller",
		"contract", tp.config.Contract.Hex(),
		"pollingInterval", tp.config.PollingInterval,
	)
	go tp.pollForTasks(ctx)
	return nil
}

func (tp *TaskPoller) pollForTasks(ctx context.Context) {
	ticker := time.NewTicker(tp.config.PollingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			tp.logger.Sugar().Infow("Task poller context cancelled, exiting poll loop")
			return
		case <-ticker.C:
			if err := tp.SyncOnce(ctx); err != nil {
				tp.logger.Sugar().Errorw("Error syncing tasks", "error", err)
			}
		}
	}
}

// SyncOnce fetches everything newer than the stored cursor, upserts it, and
// advances the cursor. Invalid snapshots are skipped, not fatal: one bad
// record from an indexer must not wedge the mirror.
func (tp *TaskPoller) SyncOnce(ctx context.Context) error {
	fromBlock, err := tp.store.GetLastSyncedBlock(ctx, tp.config.Contract)
	if err != nil && !errors.Is(err, tasksStore.ErrNotFound) {
		return err
	}

	tasks, latestBlock, err := tp.source.FetchTasks(ctx, fromBlock)
	if err != nil {
		return err
	}

	for _, task := range tasks {
		if err := tp.store.UpsertTask(ctx, task); err != nil {
			if errors.Is(err, tasksStore.ErrInvalidTask) {
				tp.logger.Sugar().Warnw("Skipping invalid task snapshot",
					"taskId", taskID(task),
					"error", err,
				)
				continue
			}
			return err
		}
	}

	if latestBlock > fromBlock {
		if err := tp.store.SetLastSyncedBlock(ctx, tp.config.Contract, latestBlock); err != nil {
			return err
		}
	}

	if len(tasks) > 0 {
		tp.logger.Sugar().Debugw("Synced task snapshots",
			"count", len(tasks),
			"fromBlock", fromBlock,
			"latestBlock", latestBlock,
		)
	}
	return nil
}

func taskID(task *types.Task) string {
	if task == nil {
		return ""
	}
	return task.ID
}
