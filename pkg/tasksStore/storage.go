package tasksStore

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kleros/linguo-engine/pkg/types"
)

// TaskStore persists task snapshots mirrored from chain state, plus the
// per-contract sync cursor the poller resumes from.
type TaskStore interface {
	// UpsertTask saves or replaces a snapshot. Snapshots are replaced
	// wholesale; the store never merges fields.
	UpsertTask(ctx context.Context, task *types.Task) error
	GetTask(ctx context.Context, taskID string) (*types.Task, error)
	ListTasks(ctx context.Context) ([]*types.Task, error)
	DeleteTask(ctx context.Context, taskID string) error

	GetLastSyncedBlock(ctx context.Context, contract common.Address) (uint64, error)
	SetLastSyncedBlock(ctx context.Context, contract common.Address, blockNumber uint64) error

	Close() error
}

// TaskRecord wraps a snapshot with store bookkeeping.
type TaskRecord struct {
	Task      *types.Task
	CreatedAt time.Time
	UpdatedAt time.Time
}
