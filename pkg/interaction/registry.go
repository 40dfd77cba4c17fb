package interaction

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Registry hands out interaction sessions, one per (action, task) pair, so
// every caller asking to drive the same action on the same task shares the
// same state machine and its at-most-one-in-flight guarantee.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	invokers map[Action]Invoker
	notifier Notifier
	logger   *zap.Logger
}

// NewRegistry creates a registry with one invoker per supported action.
func NewRegistry(invokers map[Action]Invoker, notifier Notifier, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Registry{
		sessions: make(map[string]*Session),
		invokers: invokers,
		notifier: notifier,
		logger:   logger,
	}
}

// Session returns the session for the given action and task, creating it on
// first use. Unknown actions are an error.
func (r *Registry) Session(action Action, taskID string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := sessionKey(action, taskID)
	if s, ok := r.sessions[key]; ok {
		return s, nil
	}

	invoker, ok := r.invokers[action]
	if !ok {
		return nil, fmt.Errorf("no invoker registered for action %q", action)
	}
	s, err := NewSession(action, taskID, invoker, r.notifier, r.logger)
	if err != nil {
		return nil, err
	}
	r.sessions[key] = s
	return s, nil
}

func sessionKey(action Action, taskID string) string {
	return fmt.Sprintf("%s:%s", action, taskID)
}
