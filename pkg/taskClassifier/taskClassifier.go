package taskClassifier

import (
	"time"

	"github.com/kleros/linguo-engine/pkg/types"
)

// Classification is the display view of a task's lifecycle state. Status is
// the raw on-chain status; Incomplete is a derived overlay that marks tasks
// whose assignment or submission window elapsed without the required action.
// The raw status stays unchanged on chain until someone sends the
// timeout-triggering transaction, so Incomplete must be consulted before
// trusting Created or Assigned at face value.
type Classification struct {
	Status     types.TaskStatus
	Incomplete bool
}

// Classify derives the display classification of a task at the given
// instant. It is a pure function of (task, now): no hidden clock, no side
// effects, and it never fails — missing optional fields are simply roles or
// windows that do not apply.
func Classify(task *types.Task, now time.Time) Classification {
	if task == nil {
		return Classification{Status: types.TaskStatusCreated, Incomplete: true}
	}

	switch task.Status {
	case types.TaskStatusCreated:
		return Classification{
			Status:     types.TaskStatusCreated,
			Incomplete: !now.Before(task.Deadline),
		}
	case types.TaskStatusAssigned:
		return Classification{
			Status:     types.TaskStatusAssigned,
			Incomplete: !now.Before(task.SubmissionDeadline()),
		}
	default:
		// AwaitingReview, DisputeCreated and Resolved pass through:
		// review-period expiry is a countdown concern, not a
		// classification concern.
		return Classification{Status: task.Status}
	}
}

// IsOpen reports whether the task can still be assigned: created and before
// its assignment deadline.
func IsOpen(task *types.Task, now time.Time) bool {
	c := Classify(task, now)
	return c.Status == types.TaskStatusCreated && !c.Incomplete
}

// IsInProgress reports whether the task is assigned and the translator still
// has time to submit.
func IsInProgress(task *types.Task, now time.Time) bool {
	c := Classify(task, now)
	return c.Status == types.TaskStatusAssigned && !c.Incomplete
}

// IsFinished reports whether the task reached a terminal state.
func IsFinished(task *types.Task, now time.Time) bool {
	c := Classify(task, now)
	return c.Status == types.TaskStatusResolved && !c.Incomplete
}
