package taskPoller

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleros/linguo-engine/pkg/taskPoller/simulatedTaskSource"
	"github.com/kleros/linguo-engine/pkg/tasksStore/memory"
	"github.com/kleros/linguo-engine/pkg/types"
)

var contract = common.HexToAddress("0x1fb901E52696B11d4d0F389BEe0513f9fd99Ba32")

func snapshot(number uint64, status types.TaskStatus) *types.Task {
	created := time.Unix(1700000000, 0)
	return &types.Task{
		ID:                types.TaskID("en", "fr", number),
		Number:            number,
		ContractAddress:   contract,
		Status:            status,
		Requester:         common.HexToAddress("0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb1"),
		MinPrice:          big.NewInt(100),
		MaxPrice:          big.NewInt(200),
		CreatedAt:         created,
		Deadline:          created.Add(time.Hour),
		LastInteraction:   created,
		SubmissionTimeout: 3600,
		WordCount:         100,
	}
}

func TestSyncOnce_MirrorsSnapshotsAndAdvancesCursor(t *testing.T) {
	source := simulatedTaskSource.NewSimulatedTaskSource()
	store := memory.NewInMemoryTaskStore()
	defer store.Close()

	poller := NewTaskPoller(source, store, NewTaskPollerDefaultConfig(contract), nil)
	ctx := context.Background()

	source.PushTask(snapshot(1, types.TaskStatusCreated))
	source.PushTask(snapshot(2, types.TaskStatusCreated))

	require.NoError(t, poller.SyncOnce(ctx))

	tasks, err := store.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	cursor, err := store.GetLastSyncedBlock(ctx, contract)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), cursor)
}

func TestSyncOnce_ResumesFromCursor(t *testing.T) {
	source := simulatedTaskSource.NewSimulatedTaskSource()
	store := memory.NewInMemoryTaskStore()
	defer store.Close()

	poller := NewTaskPoller(source, store, NewTaskPollerDefaultConfig(contract), nil)
	ctx := context.Background()

	source.PushTask(snapshot(1, types.TaskStatusCreated))
	require.NoError(t, poller.SyncOnce(ctx))

	// A later snapshot of the same task supersedes the mirror
	updated := snapshot(1, types.TaskStatusAssigned)
	source.PushTask(updated)
	require.NoError(t, poller.SyncOnce(ctx))

	task, err := store.GetTask(ctx, updated.ID)
	require.NoError(t, err)
	assert.Equal(t, types.TaskStatusAssigned, task.Status)

	cursor, err := store.GetLastSyncedBlock(ctx, contract)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), cursor)
}

func TestSyncOnce_SkipsInvalidSnapshots(t *testing.T) {
	source := simulatedTaskSource.NewSimulatedTaskSource()
	store := memory.NewInMemoryTaskStore()
	defer store.Close()

	poller := NewTaskPoller(source, store, NewTaskPollerDefaultConfig(contract), nil)
	ctx := context.Background()

	bad := snapshot(1, types.TaskStatusCreated)
	bad.MinPrice = big.NewInt(9999) // exceeds MaxPrice
	source.PushTask(bad)
	source.PushTask(snapshot(2, types.TaskStatusCreated))

	require.NoError(t, poller.SyncOnce(ctx))

	tasks, err := store.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, uint64(2), tasks[0].Number)
}

func TestStart_StopsOnContextCancel(t *testing.T) {
	source := simulatedTaskSource.NewSimulatedTaskSource()
	store := memory.NewInMemoryTaskStore()
	defer store.Close()

	cfg := NewTaskPollerDefaultConfig(contract)
	cfg.PollingInterval = 10 * time.Millisecond
	poller := NewTaskPoller(source, store, cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, poller.Start(ctx))

	source.PushTask(snapshot(1, types.TaskStatusCreated))
	assert.Eventually(t, func() bool {
		tasks, err := store.ListTasks(context.Background())
		return err == nil && len(tasks) == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
}
