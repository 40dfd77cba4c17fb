package taskFilter

import (
	"net/url"
	"strconv"
	"time"

	"github.com/kleros/linguo-engine/pkg/taskClassifier"
	"github.com/kleros/linguo-engine/pkg/types"
)

// FilterName selects one of the named task list views.
type FilterName string

const (
	FilterAll        FilterName = "all"
	FilterOpen       FilterName = "open"
	FilterInProgress FilterName = "inProgress"
	FilterInReview   FilterName = "inReview"
	FilterInDispute  FilterName = "inDispute"
	FilterFinished   FilterName = "finished"
	FilterIncomplete FilterName = "incomplete"
)

var knownFilters = map[FilterName]struct{}{
	FilterAll:        {},
	FilterOpen:       {},
	FilterInProgress: {},
	FilterInReview:   {},
	FilterInDispute:  {},
	FilterFinished:   {},
	FilterIncomplete: {},
}

// ParseFilterName maps free-form input to a known filter name. Anything
// unknown falls back to FilterAll; the list views must keep working no
// matter what the query string carries.
func ParseFilterName(s string) FilterName {
	name := FilterName(s)
	if _, ok := knownFilters[name]; ok {
		return name
	}
	return FilterAll
}

// Predicate decides whether a task belongs to a list view at a given
// instant.
type Predicate func(task *types.Task, now time.Time) bool

// GetStatusFilterPredicate returns the membership predicate for the named
// filter. Unknown names behave exactly like FilterAll.
//
// The open, inProgress and finished views must never show a task whose
// assignment or submission window has already elapsed; those tasks belong to
// the incomplete view even though their raw on-chain status still reads
// Created or Assigned.
func GetStatusFilterPredicate(name FilterName) Predicate {
	switch ParseFilterName(string(name)) {
	case FilterOpen:
		return taskClassifier.IsOpen
	case FilterInProgress:
		return taskClassifier.IsInProgress
	case FilterInReview:
		return func(task *types.Task, now time.Time) bool {
			return taskClassifier.Classify(task, now).Status == types.TaskStatusAwaitingReview
		}
	case FilterInDispute:
		return func(task *types.Task, now time.Time) bool {
			return taskClassifier.Classify(task, now).Status == types.TaskStatusDisputeCreated
		}
	case FilterFinished:
		return taskClassifier.IsFinished
	case FilterIncomplete:
		return func(task *types.Task, now time.Time) bool {
			return taskClassifier.Classify(task, now).Incomplete
		}
	default:
		return func(*types.Task, time.Time) bool { return true }
	}
}

// Query string keys for filter persistence.
const (
	QueryKeyStatus   = "status"
	QueryKeyAllTasks = "allTasks"
)

// Filter is the externally-persisted list view selection: which status view
// to show, and whether to include everyone's tasks or only the viewer's.
type Filter struct {
	Status   FilterName
	AllTasks bool
}

// DefaultFilter is the view shown before the user picks anything.
func DefaultFilter() Filter {
	return Filter{Status: FilterOpen, AllTasks: true}
}

// FromQuery reads a filter from query-string values. A missing status means
// the default open view; garbage status or allTasks values degrade to the
// fallback instead of failing. The open view always shows all tasks — an
// open task has no assigned translator yet, so "only mine" is meaningless
// there.
func FromQuery(values url.Values) Filter {
	status := values.Get(QueryKeyStatus)
	if status == "" {
		return DefaultFilter()
	}

	f := Filter{Status: ParseFilterName(status)}
	if all, err := strconv.ParseBool(values.Get(QueryKeyAllTasks)); err == nil {
		f.AllTasks = all
	}
	if f.Status == FilterOpen {
		f.AllTasks = true
	}
	return f
}

// ToQuery renders the filter back to its two flat query-string keys.
func (f Filter) ToQuery() url.Values {
	values := url.Values{}
	values.Set(QueryKeyStatus, string(ParseFilterName(string(f.Status))))
	values.Set(QueryKeyAllTasks, strconv.FormatBool(f.AllTasks))
	return values
}
