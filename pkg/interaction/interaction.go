package interaction

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kleros/linguo-engine/pkg/stateMachine"
)

// Action is a party-initiated contract call gated by an interaction session.
type Action string

const (
	ActionAssign            Action = "assign"
	ActionChallenge         Action = "challenge"
	ActionAccept            Action = "accept"
	ActionSubmitTranslation Action = "submitTranslation"
)

// Interaction session states.
const (
	StateIdle      stateMachine.State = "idle"
	StatePending   stateMachine.State = "pending"
	StateSucceeded stateMachine.State = "succeeded"
)

// Interaction session events.
const (
	EventStart   stateMachine.Event = "START"
	EventSuccess stateMachine.Event = "SUCCESS"
	EventError   stateMachine.Event = "ERROR"
)

// Chart is the interaction lifecycle: idle -> pending -> succeeded, with
// errors returning to idle so the user can retry. succeeded is terminal.
// START is only handled in idle, which is what makes a second START while a
// call is in flight a no-op.
var Chart = stateMachine.Chart{
	Name:    "interaction",
	Initial: StateIdle,
	States: map[stateMachine.State]stateMachine.StateDef{
		StateIdle: {
			On: map[stateMachine.Event][]stateMachine.Transition{
				EventStart: stateMachine.To(StatePending),
			},
		},
		StatePending: {
			On: map[stateMachine.Event][]stateMachine.Transition{
				EventSuccess: stateMachine.To(StateSucceeded),
				EventError:   stateMachine.To(StateIdle),
			},
		},
		StateSucceeded: {
			On: map[stateMachine.Event][]stateMachine.Transition{},
		},
	},
}

// Invoker submits the underlying contract call for an action. It returns
// once the call is mined or rejected; the session only observes success or
// failure, never the transport.
type Invoker func(ctx context.Context, taskID string, params interface{}) error

// Notifier receives action failures. Errors are surfaced to the user out of
// band; the session itself keeps no error state.
type Notifier interface {
	NotifyError(taskID string, action Action, err error)
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) NotifyError(string, Action, error) {}

// Session drives one action for one task. At most one call is in flight per
// session: Start while pending or after success does nothing and reports
// false.
type Session struct {
	ID      string
	Action  Action
	TaskID  string
	machine *stateMachine.Machine

	invoker  Invoker
	notifier Notifier
	logger   *zap.Logger
}

// NewSession creates an idle session for the given action and task.
func NewSession(action Action, taskID string, invoker Invoker, notifier Notifier, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	machine, err := stateMachine.NewMachine(Chart, stateMachine.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:       uuid.New().String(),
		Action:   action,
		TaskID:   taskID,
		machine:  machine,
		invoker:  invoker,
		notifier: notifier,
		logger:   logger,
	}, nil
}

// State returns the session's current state.
func (s *Session) State() stateMachine.State {
	return s.machine.State()
}

// Start dispatches START and, if the session was idle, launches the invoker.
// The returned channel is closed once the call settles; it reports whether
// a call was actually started. Completion is delivered through the session
// state: SUCCESS moves it to succeeded, failure back to idle after the
// notifier is told.
func (s *Session) Start(ctx context.Context, params interface{}) (started bool, done <-chan struct{}) {
	_, took, _ := s.machine.Dispatch(EventStart, params)
	if !took {
		return false, closedChannel()
	}

	settled := make(chan struct{})
	go func() {
		defer close(settled)
		err := s.invoker(ctx, s.TaskID, params)
		if err != nil {
			s.logger.Sugar().Warnw("Interaction failed",
				"session", s.ID,
				"action", string(s.Action),
				"taskId", s.TaskID,
				"error", err,
			)
			s.notifier.NotifyError(s.TaskID, s.Action, err)
			_, _, _ = s.machine.Dispatch(EventError, nil)
			return
		}
		_, _, _ = s.machine.Dispatch(EventSuccess, nil)
	}()
	return true, settled
}

func closedChannel() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
