package checkout

import "github.com/go-faster/errors"

// State is a phase of a single order submission attempt. An attempt runs from
// Idle to one of the terminal states; resubmitting starts a fresh attempt.
type State string

const (
	StateIdle         State = "IDLE"
	StateValidating   State = "VALIDATING"
	StateInvalid      State = "INVALID"
	StateSubmitting   State = "SUBMITTING"
	StateOrderCreated State = "ORDER_CREATED"
	// StateGatewayRedirect is the card branch's terminal hand-off: control
	// leaves the application and never comes back on this attempt.
	StateGatewayRedirect State = "GATEWAY_REDIRECT"
	// StateConfirmingAndNotifying covers cart clearing and the confirmation
	// email on the cash-on-delivery branch.
	StateConfirmingAndNotifying State = "CONFIRMING_AND_NOTIFYING"
	StateDone                   State = "DONE"
	StateFailed                 State = "FAILED"
)

// ErrIllegalTransition indicates a bug: a step ran out of order.
var ErrIllegalTransition = errors.New("illegal checkout state transition")

var transitions = map[State][]State{
	StateIdle:                   {StateValidating},
	StateValidating:             {StateInvalid, StateSubmitting},
	StateInvalid:                {StateIdle},
	StateSubmitting:             {StateOrderCreated, StateFailed},
	StateOrderCreated:           {StateGatewayRedirect, StateConfirmingAndNotifying},
	StateConfirmingAndNotifying: {StateDone},
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s State) CanTransitionTo(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the attempt is over in state s.
func (s State) IsTerminal() bool {
	switch s {
	case StateGatewayRedirect, StateDone, StateFailed, StateInvalid:
		return true
	}
	return false
}

func (s State) String() string { return string(s) }

// attempt tracks the state of one submission, guarding every step against
// out-of-order execution.
type attempt struct {
	state State
}

func newAttempt() *attempt {
	return &attempt{state: StateIdle}
}

func (a *attempt) step(next State) error {
	if !a.state.CanTransitionTo(next) {
		return errors.Wrapf(ErrIllegalTransition, "%s -> %s", a.state, next)
	}
	a.state = next
	return nil
}
