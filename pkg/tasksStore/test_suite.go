package tasksStore

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleros/linguo-engine/pkg/types"
)

// TestSuite is the conformance suite every TaskStore backend must pass.
type TestSuite struct {
	NewStore func() (TaskStore, error)
}

// Run executes all store interface compliance tests
func (s *TestSuite) Run(t *testing.T) {
	t.Run("SyncCursor", s.testSyncCursor)
	t.Run("TaskManagement", s.testTaskManagement)
	t.Run("Lifecycle", s.testLifecycle)
	t.Run("ConcurrentAccess", s.testConcurrentAccess)
}

func testTask(id string, number uint64) *types.Task {
	return &types.Task{
		ID:                id,
		Number:            number,
		ContractAddress:   common.HexToAddress("0x1fb901E52696B11d4d0F389BEe0513f9fd99Ba32"),
		Status:            types.TaskStatusCreated,
		Requester:         common.HexToAddress("0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb1"),
		MinPrice:          big.NewInt(1000),
		MaxPrice:          big.NewInt(2000),
		CreatedAt:         time.Unix(1700000000, 0),
		Deadline:          time.Unix(1700086400, 0),
		LastInteraction:   time.Unix(1700000000, 0),
		SubmissionTimeout: 3600,
		WordCount:         120,
	}
}

func (s *TestSuite) testSyncCursor(t *testing.T) {
	store, err := s.NewStore()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	contract := common.HexToAddress("0x1fb901E52696B11d4d0F389BEe0513f9fd99Ba32")

	// Cursor is absent until first set
	_, err = store.GetLastSyncedBlock(ctx, contract)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.SetLastSyncedBlock(ctx, contract, 12345))

	blockNum, err := store.GetLastSyncedBlock(ctx, contract)
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), blockNum)

	// Cursor advances on overwrite
	require.NoError(t, store.SetLastSyncedBlock(ctx, contract, 12346))
	blockNum, err = store.GetLastSyncedBlock(ctx, contract)
	require.NoError(t, err)
	assert.Equal(t, uint64(12346), blockNum)
}

func (s *TestSuite) testTaskManagement(t *testing.T) {
	store, err := s.NewStore()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	_, err = store.GetTask(ctx, "en|fr/1")
	assert.ErrorIs(t, err, ErrNotFound)

	task := testTask("en|fr/1", 1)
	require.NoError(t, store.UpsertTask(ctx, task))

	retrieved, err := store.GetTask(ctx, "en|fr/1")
	require.NoError(t, err)
	assert.Equal(t, task.ID, retrieved.ID)
	assert.Equal(t, task.Requester, retrieved.Requester)
	assert.Equal(t, 0, task.MinPrice.Cmp(retrieved.MinPrice))

	// Upsert replaces the snapshot wholesale
	updated := testTask("en|fr/1", 1)
	updated.Status = types.TaskStatusAssigned
	translator := common.HexToAddress("0x5B38Da6a701c568545dCfcB03FcB875f56beddC4")
	updated.Translator = &translator
	require.NoError(t, store.UpsertTask(ctx, updated))

	retrieved, err = store.GetTask(ctx, "en|fr/1")
	require.NoError(t, err)
	assert.Equal(t, types.TaskStatusAssigned, retrieved.Status)
	require.NotNil(t, retrieved.Translator)
	assert.Equal(t, translator, *retrieved.Translator)

	// Invalid snapshots are rejected
	invalid := testTask("en|fr/2", 2)
	invalid.MinPrice = big.NewInt(5000)
	err = store.UpsertTask(ctx, invalid)
	assert.ErrorIs(t, err, ErrInvalidTask)

	err = store.UpsertTask(ctx, nil)
	assert.ErrorIs(t, err, ErrInvalidTask)

	// Listing returns every snapshot
	require.NoError(t, store.UpsertTask(ctx, testTask("en|de/2", 2)))
	tasks, err := store.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	// Deleting removes it; deleting again reports absence
	require.NoError(t, store.DeleteTask(ctx, "en|de/2"))
	err = store.DeleteTask(ctx, "en|de/2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func (s *TestSuite) testLifecycle(t *testing.T) {
	store, err := s.NewStore()
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.UpsertTask(ctx, testTask("en|fr/1", 1)))
	require.NoError(t, store.Close())

	// Every operation fails once closed
	_, err = store.GetTask(ctx, "en|fr/1")
	assert.ErrorIs(t, err, ErrStoreClosed)
	err = store.UpsertTask(ctx, testTask("en|fr/3", 3))
	assert.ErrorIs(t, err, ErrStoreClosed)
	_, err = store.ListTasks(ctx)
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func (s *TestSuite) testConcurrentAccess(t *testing.T) {
	store, err := s.NewStore()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("en|fr/%d", n)
			assert.NoError(t, store.UpsertTask(ctx, testTask(id, uint64(n))))
		}(i)
	}
	wg.Wait()

	tasks, err := store.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 10)
}
