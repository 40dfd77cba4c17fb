package taskLister

import (
	"context"
	"math/big"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/kleros/linguo-engine/pkg/countdown"
	"github.com/kleros/linguo-engine/pkg/party"
	"github.com/kleros/linguo-engine/pkg/pricing"
	"github.com/kleros/linguo-engine/pkg/taskClassifier"
	"github.com/kleros/linguo-engine/pkg/taskFilter"
	"github.com/kleros/linguo-engine/pkg/tasksStore"
	"github.com/kleros/linguo-engine/pkg/types"
)

// TaskView is one row of a task list: the snapshot plus everything the
// display layer derives from it at a single instant.
type TaskView struct {
	Task *types.Task

	Status     types.TaskStatus
	Incomplete bool
	Party      party.Party

	CurrentPrice *big.Int

	// RemainingSeconds counts down to whichever deadline applies to the
	// task's current status; zero when no deadline applies.
	RemainingSeconds   int64
	FormattedRemaining string
	EndingSoon         bool
}

// TaskLister produces filtered, ordered task list views from a store.
type TaskLister struct {
	store  tasksStore.TaskStore
	logger *zap.Logger
}

func NewTaskLister(store tasksStore.TaskStore, logger *zap.Logger) *TaskLister {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskLister{store: store, logger: logger}
}

// List selects, orders and projects the stored tasks for the given filter
// and viewer at the given instant. With AllTasks unset, only tasks where the
// viewer plays a role are kept.
func (l *TaskLister) List(ctx context.Context, filter taskFilter.Filter, viewer common.Address, now time.Time) ([]*TaskView, error) {
	tasks, err := l.store.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	predicate := taskFilter.GetStatusFilterPredicate(filter.Status)
	selected := make([]*types.Task, 0, len(tasks))
	for _, task := range tasks {
		if !predicate(task, now) {
			continue
		}
		if !filter.AllTasks && party.Resolve(viewer, task) == party.PartyOther {
			continue
		}
		selected = append(selected, task)
	}

	comparator := taskFilter.GetComparator(filter.Status)
	sort.SliceStable(selected, func(i, j int) bool {
		return comparator(selected[i], selected[j], now) < 0
	})

	views := make([]*TaskView, 0, len(selected))
	for _, task := range selected {
		views = append(views, newTaskView(task, viewer, now))
	}
	return views, nil
}

func newTaskView(task *types.Task, viewer common.Address, now time.Time) *TaskView {
	classification := taskClassifier.Classify(task, now)

	remaining := int64(0)
	if deadline, ok := relevantDeadline(task, classification); ok {
		remaining = countdown.RemainingSeconds(deadline, now)
	}

	return &TaskView{
		Task:               task,
		Status:             classification.Status,
		Incomplete:         classification.Incomplete,
		Party:              party.Resolve(viewer, task),
		CurrentPrice:       pricing.CurrentPrice(task, now),
		RemainingSeconds:   remaining,
		FormattedRemaining: countdown.Format(remaining),
		EndingSoon:         remaining < int64(24*time.Hour/time.Second),
	}
}

// relevantDeadline picks the countdown target for the task's current status:
// the assignment deadline while open, the submission deadline while
// assigned, the review deadline while awaiting review. Disputed and resolved
// tasks have no engine-side deadline.
func relevantDeadline(task *types.Task, c taskClassifier.Classification) (time.Time, bool) {
	switch c.Status {
	case types.TaskStatusCreated:
		return task.Deadline, true
	case types.TaskStatusAssigned:
		return task.SubmissionDeadline(), true
	case types.TaskStatusAwaitingReview:
		return task.ReviewDeadline(), true
	default:
		return time.Time{}, false
	}
}
