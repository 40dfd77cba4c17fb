package taskFilter

import (
	"math/big"
	"time"

	"github.com/kleros/linguo-engine/pkg/countdown"
	"github.com/kleros/linguo-engine/pkg/pricing"
	"github.com/kleros/linguo-engine/pkg/taskClassifier"
	"github.com/kleros/linguo-engine/pkg/types"
)

// Comparator is a three-way ordering over tasks at a given instant: negative
// means a sorts before b.
type Comparator func(a, b *types.Task, now time.Time) int

// GetComparator returns the composite ordering for the named filter, as an
// ordered tie-break chain where the first non-zero rule wins. Unknown names
// order like FilterAll.
func GetComparator(name FilterName) Comparator {
	switch ParseFilterName(string(name)) {
	case FilterOpen:
		return chain(byCurrentPricePerWordDesc, byTaskNumberDesc)
	case FilterInProgress:
		return chain(byRemainingSubmissionTime, byTaskNumberDesc)
	case FilterInReview:
		return chain(byRemainingReviewTime, byTaskNumberDesc)
	case FilterInDispute:
		return chain(byDisputeIDDesc)
	case FilterFinished:
		return chain(byTaskNumberDesc)
	case FilterIncomplete:
		return chain(byStatusDesc, byLastInteractionDesc, byTaskNumberDesc)
	default:
		return chain(byIncompleteFirst, byRemainingSubmissionTime, byTaskNumberDesc)
	}
}

func chain(rules ...Comparator) Comparator {
	return func(a, b *types.Task, now time.Time) int {
		for _, rule := range rules {
			if r := rule(a, b, now); r != 0 {
				return r
			}
		}
		return 0
	}
}

// byIncompleteFirst surfaces incomplete tasks ahead of everything else.
func byIncompleteFirst(a, b *types.Task, now time.Time) int {
	ia := taskClassifier.Classify(a, now).Incomplete
	ib := taskClassifier.Classify(b, now).Incomplete
	switch {
	case ia == ib:
		return 0
	case ia:
		return -1
	default:
		return 1
	}
}

// byRemainingSubmissionTime orders the most time-critical tasks first: the
// task with the least submission time left sorts ahead. Tasks whose window
// already elapsed compare as zero remaining and therefore lead the list.
func byRemainingSubmissionTime(a, b *types.Task, now time.Time) int {
	ra := countdown.RemainingSeconds(a.SubmissionDeadline(), now)
	rb := countdown.RemainingSeconds(b.SubmissionDeadline(), now)
	return compareInt64(ra, rb)
}

// byRemainingReviewTime is the review-period variant of urgency-first
// ordering.
func byRemainingReviewTime(a, b *types.Task, now time.Time) int {
	ra := countdown.RemainingSeconds(a.ReviewDeadline(), now)
	rb := countdown.RemainingSeconds(b.ReviewDeadline(), now)
	return compareInt64(ra, rb)
}

// byCurrentPricePerWordDesc puts the highest-paying tasks first.
func byCurrentPricePerWordDesc(a, b *types.Task, now time.Time) int {
	return -pricing.ComparePricePerWord(a, b, now)
}

func byDisputeIDDesc(a, b *types.Task, _ time.Time) int {
	return disputeID(b).Cmp(disputeID(a))
}

func byTaskNumberDesc(a, b *types.Task, _ time.Time) int {
	return compareUint64(b.Number, a.Number)
}

func byStatusDesc(a, b *types.Task, _ time.Time) int {
	return int(b.Status) - int(a.Status)
}

func byLastInteractionDesc(a, b *types.Task, _ time.Time) int {
	switch {
	case a.LastInteraction.Equal(b.LastInteraction):
		return 0
	case a.LastInteraction.After(b.LastInteraction):
		return -1
	default:
		return 1
	}
}

func disputeID(task *types.Task) *big.Int {
	if task == nil || task.DisputeID == nil {
		return big.NewInt(0)
	}
	return task.DisputeID
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
