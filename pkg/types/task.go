package types

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// TaskStatus mirrors the on-chain status enum of the Linguo contract.
// Ordinal values match the contract.
type TaskStatus uint8

const (
	TaskStatusCreated TaskStatus = iota
	TaskStatusAssigned
	TaskStatusAwaitingReview
	TaskStatusDisputeCreated
	TaskStatusResolved
)

func (s TaskStatus) String() string {
	switch s {
	case TaskStatusCreated:
		return "Created"
	case TaskStatusAssigned:
		return "Assigned"
	case TaskStatusAwaitingReview:
		return "AwaitingReview"
	case TaskStatusDisputeCreated:
		return "DisputeCreated"
	case TaskStatusResolved:
		return "Resolved"
	default:
		return fmt.Sprintf("TaskStatus(%d)", uint8(s))
	}
}

// Task is a read-only snapshot of a translation task mirrored from chain
// state. The engine never mutates a snapshot; derived views (display status,
// current price, remaining time) are recomputed from it on demand.
type Task struct {
	// ID is the language pair plus the numeric on-chain task id,
	// e.g. "en|fr/42". Number is the numeric part alone, used for
	// ordering.
	ID     string
	Number uint64

	ContractAddress common.Address
	Status          TaskStatus

	Requester  common.Address
	Translator *common.Address
	Challenger *common.Address

	// MinPrice and MaxPrice bound the price auction, in the smallest
	// currency unit. On-chain amounts can exceed 64 bits.
	MinPrice *big.Int
	MaxPrice *big.Int

	// CreatedAt and Deadline bound the assignment window. Deadline is the
	// instant after which an unassigned task can no longer be picked up.
	CreatedAt time.Time
	Deadline  time.Time

	// LastInteraction is the most recent state-changing action on chain.
	// It anchors the submission, review and appeal countdowns.
	LastInteraction time.Time

	// SubmissionTimeout is the window (in seconds) the translator has to
	// submit after assignment. The contract reuses it as the review period.
	SubmissionTimeout int64

	DisputeID   *big.Int
	Translation string

	// MetaEvidence is a URI to the off-chain task metadata (title,
	// languages, expected quality). Resolution is the caller's concern.
	MetaEvidence string

	WordCount uint64

	SourceBlockNumber uint64
}

// HasTranslation reports whether a translation was submitted.
func (t *Task) HasTranslation() bool {
	return t.Translation != ""
}

// HasDispute reports whether a dispute has been raised.
func (t *Task) HasDispute() bool {
	return t.DisputeID != nil
}

// SubmissionDeadline is the instant the translator must submit by once the
// task is assigned.
func (t *Task) SubmissionDeadline() time.Time {
	return t.LastInteraction.Add(time.Duration(t.SubmissionTimeout) * time.Second)
}

// ReviewDeadline is the end of the review period after a submission. The
// contract uses the submission timeout as the review period length.
func (t *Task) ReviewDeadline() time.Time {
	return t.LastInteraction.Add(time.Duration(t.SubmissionTimeout) * time.Second)
}

// Validate checks the cross-field invariants a well-formed snapshot must
// satisfy before it is admitted into a store.
func (t *Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task id is empty")
	}
	if t.MinPrice == nil || t.MaxPrice == nil {
		return fmt.Errorf("task %s: min/max price missing", t.ID)
	}
	if t.MinPrice.Cmp(t.MaxPrice) > 0 {
		return fmt.Errorf("task %s: minPrice exceeds maxPrice", t.ID)
	}
	if t.MinPrice.Sign() < 0 {
		return fmt.Errorf("task %s: negative minPrice", t.ID)
	}
	return nil
}

// TaskID composes the canonical task identifier from a language pair and the
// numeric on-chain task id.
func TaskID(sourceLang, targetLang string, id uint64) string {
	return fmt.Sprintf("%s|%s/%d", strings.ToLower(sourceLang), strings.ToLower(targetLang), id)
}
