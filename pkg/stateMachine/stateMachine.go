package stateMachine

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// State and Event name the nodes and edges of a chart.
type State string

type Event string

// Guard decides whether a candidate transition may be taken. The payload is
// whatever the caller passed to Dispatch.
type Guard func(payload interface{}) bool

// Transition is one candidate edge. A nil Guard always passes.
type Transition struct {
	Target State
	Guard  Guard
}

// To is a plain unguarded transition.
func To(target State) []Transition {
	return []Transition{{Target: target}}
}

// ToGuarded is a single guarded transition.
func ToGuarded(target State, guard Guard) []Transition {
	return []Transition{{Target: target, Guard: guard}}
}

// StateDef maps events to an ordered candidate list; the first transition
// whose guard passes wins.
type StateDef struct {
	On map[Event][]Transition
}

// Chart is a whole state table. Charts are immutable and shared between
// machine instances.
type Chart struct {
	Name    string
	Initial State
	States  map[State]StateDef
}

// Validate checks that the initial state and every transition target exist.
func (c Chart) Validate() error {
	if _, ok := c.States[c.Initial]; !ok {
		return fmt.Errorf("chart %q: initial state %q is not defined", c.Name, c.Initial)
	}
	for state, def := range c.States {
		for event, transitions := range def.On {
			if len(transitions) == 0 {
				return fmt.Errorf("chart %q: %s/%s has no transitions", c.Name, state, event)
			}
			for _, tr := range transitions {
				if _, ok := c.States[tr.Target]; !ok {
					return fmt.Errorf("chart %q: %s/%s targets undefined state %q", c.Name, state, event, tr.Target)
				}
			}
		}
	}
	return nil
}

// Machine interprets a chart. Dispatching an event the current state does
// not handle is logged as a warning and ignored by default; WithStrict makes
// it an error instead. Machines are safe for concurrent dispatch.
type Machine struct {
	mu     sync.Mutex
	chart  Chart
	state  State
	strict bool
	logger *zap.Logger
}

// Option configures a machine.
type Option func(*Machine)

// WithStrict makes undefined state/event pairs return an error instead of
// being logged and ignored.
func WithStrict() Option {
	return func(m *Machine) {
		m.strict = true
	}
}

// WithLogger sets the logger used for ignored events.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// NewMachine creates a machine at the chart's initial state.
func NewMachine(chart Chart, opts ...Option) (*Machine, error) {
	if err := chart.Validate(); err != nil {
		return nil, err
	}
	m := &Machine{
		chart:  chart,
		state:  chart.Initial,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Dispatch applies an event and returns the resulting state, along with
// whether a transition actually fired. Events with no matching transition
// (undefined pair, or all guards rejecting) leave the state unchanged.
func (m *Machine) Dispatch(event Event, payload interface{}) (State, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	def, ok := m.chart.States[m.state]
	if !ok {
		return m.state, false, m.ignore(event, "state not in chart")
	}
	transitions, ok := def.On[event]
	if !ok {
		return m.state, false, m.ignore(event, "event not handled in state")
	}

	for _, tr := range transitions {
		if tr.Guard == nil || tr.Guard(payload) {
			m.state = tr.Target
			return m.state, true, nil
		}
	}
	return m.state, false, m.ignore(event, "all guards rejected")
}

func (m *Machine) ignore(event Event, reason string) error {
	if m.strict {
		return fmt.Errorf("chart %q: event %q in state %q: %s", m.chart.Name, event, m.state, reason)
	}
	m.logger.Sugar().Warnw("Ignoring state machine event",
		"chart", m.chart.Name,
		"state", string(m.state),
		"event", string(event),
		"reason", reason,
	)
	return nil
}
