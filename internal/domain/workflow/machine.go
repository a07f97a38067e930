package workflow

import "context"

// State is a status value a machine can hold
type State interface {
	comparable
	IsValid() bool
	String() string
}

// Trigger is an action that can cause a state transition
type Trigger interface {
	comparable
	String() string
}

// StateMachine represents a state machine that tracks current state and validates transitions
type StateMachine[S State, T Trigger] interface {
	// State returns the current state
	State() S

	// Fire attempts to execute the trigger, transitioning to the new state if allowed
	Fire(ctx context.Context, trigger T) error

	// PermittedTriggers returns the configured triggers of the current state in configuration order
	PermittedTriggers() []T
}
