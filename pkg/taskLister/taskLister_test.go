package taskLister

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleros/linguo-engine/pkg/party"
	"github.com/kleros/linguo-engine/pkg/taskFilter"
	"github.com/kleros/linguo-engine/pkg/tasksStore/memory"
	"github.com/kleros/linguo-engine/pkg/types"
)

var (
	baseTime  = time.Unix(1700000000, 0)
	requester = common.HexToAddress("0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb1")
	viewer    = common.HexToAddress("0x5B38Da6a701c568545dCfcB03FcB875f56beddC4")
)

func seededTask(number uint64, status types.TaskStatus) *types.Task {
	return &types.Task{
		ID:                types.TaskID("en", "fr", number),
		Number:            number,
		Status:            status,
		Requester:         requester,
		MinPrice:          big.NewInt(100),
		MaxPrice:          big.NewInt(200),
		CreatedAt:         baseTime,
		Deadline:          baseTime.Add(1000 * time.Second),
		LastInteraction:   baseTime,
		SubmissionTimeout: 3600,
		WordCount:         100,
	}
}

func TestList_OpenTaskMidAuction(t *testing.T) {
	// A created task halfway through its auction window: open, not
	// incomplete, price interpolated to the midpoint.
	store := memory.NewInMemoryTaskStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.UpsertTask(ctx, seededTask(1, types.TaskStatusCreated)))

	lister := NewTaskLister(store, nil)
	now := baseTime.Add(500 * time.Second)
	views, err := lister.List(ctx, taskFilter.Filter{Status: taskFilter.FilterOpen, AllTasks: true}, viewer, now)
	require.NoError(t, err)
	require.Len(t, views, 1)

	v := views[0]
	assert.Equal(t, types.TaskStatusCreated, v.Status)
	assert.False(t, v.Incomplete)
	assert.Equal(t, int64(150), v.CurrentPrice.Int64())
	assert.Equal(t, int64(500), v.RemainingSeconds)
	assert.True(t, v.EndingSoon)
	assert.Equal(t, "00:08:20", v.FormattedRemaining)
}

func TestList_ExpiredTaskMovesToIncompleteView(t *testing.T) {
	// The same task past its deadline: out of open, into incomplete.
	store := memory.NewInMemoryTaskStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.UpsertTask(ctx, seededTask(1, types.TaskStatusCreated)))

	lister := NewTaskLister(store, nil)
	now := baseTime.Add(1500 * time.Second)

	open, err := lister.List(ctx, taskFilter.Filter{Status: taskFilter.FilterOpen, AllTasks: true}, viewer, now)
	require.NoError(t, err)
	assert.Empty(t, open)

	incomplete, err := lister.List(ctx, taskFilter.Filter{Status: taskFilter.FilterIncomplete, AllTasks: true}, viewer, now)
	require.NoError(t, err)
	require.Len(t, incomplete, 1)
	assert.Equal(t, types.TaskStatusCreated, incomplete[0].Status)
	assert.True(t, incomplete[0].Incomplete)
}

func TestList_MineOnlyKeepsTasksWhereViewerPlaysARole(t *testing.T) {
	store := memory.NewInMemoryTaskStore()
	defer store.Close()
	ctx := context.Background()

	mine := seededTask(1, types.TaskStatusAssigned)
	me := viewer
	mine.Translator = &me
	require.NoError(t, store.UpsertTask(ctx, mine))
	require.NoError(t, store.UpsertTask(ctx, seededTask(2, types.TaskStatusAssigned)))

	lister := NewTaskLister(store, nil)
	now := baseTime.Add(10 * time.Minute)

	views, err := lister.List(ctx, taskFilter.Filter{Status: taskFilter.FilterInProgress, AllTasks: false}, viewer, now)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, uint64(1), views[0].Task.Number)
	assert.Equal(t, party.PartyTranslator, views[0].Party)

	views, err = lister.List(ctx, taskFilter.Filter{Status: taskFilter.FilterInProgress, AllTasks: true}, viewer, now)
	require.NoError(t, err)
	assert.Len(t, views, 2)
}

func TestList_OrderingFollowsFilterComparator(t *testing.T) {
	store := memory.NewInMemoryTaskStore()
	defer store.Close()
	ctx := context.Background()

	// Task 2 pays more per word than task 1 at every instant.
	rich := seededTask(2, types.TaskStatusCreated)
	rich.WordCount = 50
	require.NoError(t, store.UpsertTask(ctx, seededTask(1, types.TaskStatusCreated)))
	require.NoError(t, store.UpsertTask(ctx, rich))

	lister := NewTaskLister(store, nil)
	now := baseTime.Add(500 * time.Second)
	views, err := lister.List(ctx, taskFilter.Filter{Status: taskFilter.FilterOpen, AllTasks: true}, viewer, now)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, uint64(2), views[0].Task.Number)
	assert.Equal(t, uint64(1), views[1].Task.Number)
}

func TestList_ReviewDeadlineDrivesRemainingTime(t *testing.T) {
	store := memory.NewInMemoryTaskStore()
	defer store.Close()
	ctx := context.Background()

	inReview := seededTask(1, types.TaskStatusAwaitingReview)
	inReview.Translation = "/ipfs/QmTr/translated.txt"
	require.NoError(t, store.UpsertTask(ctx, inReview))

	lister := NewTaskLister(store, nil)
	now := baseTime.Add(30 * time.Minute)
	views, err := lister.List(ctx, taskFilter.Filter{Status: taskFilter.FilterInReview, AllTasks: true}, viewer, now)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, int64(1800), views[0].RemainingSeconds)
}
