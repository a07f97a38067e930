package workflow

import (
	"context"
	"fmt"
)

// GuardFunc is a function that evaluates whether a transition should be allowed
type GuardFunc func(ctx context.Context) bool

// StateMachineBuilder builds a configured state machine
type StateMachineBuilder[S State, T Trigger] interface {
	// Configure returns a state configuration for the given state
	Configure(state S) StateConfiguration[S, T]

	// Build creates a new state machine instance with the given initial state
	Build(initialState S) StateMachine[S, T]
}

// StateConfiguration configures transitions for a specific state
type StateConfiguration[S State, T Trigger] interface {
	// Permit allows a trigger to transition to the target state
	Permit(trigger T, toState S) StateConfiguration[S, T]

	// PermitIf allows a trigger to transition to the target state if the guard condition passes.
	// Several guarded transitions may share a trigger; the first passing guard wins.
	PermitIf(trigger T, toState S, guard GuardFunc) StateConfiguration[S, T]
}

type transition[S State] struct {
	toState S
	guard   GuardFunc
}

type stateConfig[S State, T Trigger] struct {
	fromState   S
	order       []T
	transitions map[T][]transition[S]
}

type stateMachineBuilder[S State, T Trigger] struct {
	configurations map[S]*stateConfig[S, T]
}

type stateMachine[S State, T Trigger] struct {
	currentState   S
	configurations map[S]*stateConfig[S, T]
}

// NewBuilder creates a new state machine builder
func NewBuilder[S State, T Trigger]() StateMachineBuilder[S, T] {
	return &stateMachineBuilder[S, T]{
		configurations: make(map[S]*stateConfig[S, T]),
	}
}

// Configure returns a state configuration for the given state
func (b *stateMachineBuilder[S, T]) Configure(state S) StateConfiguration[S, T] {
	if !state.IsValid() {
		panic(fmt.Sprintf("invalid state: %s", state))
	}

	config, exists := b.configurations[state]
	if !exists {
		config = &stateConfig[S, T]{
			fromState:   state,
			transitions: make(map[T][]transition[S]),
		}
		b.configurations[state] = config
	}

	return config
}

// Build creates a new state machine instance with the given initial state.
// It panics on an invalid initial state; callers validate stored statuses first.
func (b *stateMachineBuilder[S, T]) Build(initialState S) StateMachine[S, T] {
	if !initialState.IsValid() {
		panic(fmt.Sprintf("invalid initial state: %s", initialState))
	}

	configsCopy := make(map[S]*stateConfig[S, T], len(b.configurations))
	for state, config := range b.configurations {
		transitionsCopy := make(map[T][]transition[S], len(config.transitions))
		for trigger, transitions := range config.transitions {
			transitionsCopy[trigger] = append([]transition[S]{}, transitions...)
		}
		configsCopy[state] = &stateConfig[S, T]{
			fromState:   state,
			order:       append([]T{}, config.order...),
			transitions: transitionsCopy,
		}
	}

	return &stateMachine[S, T]{
		currentState:   initialState,
		configurations: configsCopy,
	}
}

// Permit allows a trigger to transition to the target state
func (c *stateConfig[S, T]) Permit(trigger T, toState S) StateConfiguration[S, T] {
	return c.PermitIf(trigger, toState, nil)
}

// PermitIf allows a trigger to transition to the target state if the guard condition passes
func (c *stateConfig[S, T]) PermitIf(trigger T, toState S, guard GuardFunc) StateConfiguration[S, T] {
	if !toState.IsValid() {
		panic(fmt.Sprintf("invalid target state: %s", toState))
	}

	if _, seen := c.transitions[trigger]; !seen {
		c.order = append(c.order, trigger)
	}
	c.transitions[trigger] = append(c.transitions[trigger], transition[S]{
		toState: toState,
		guard:   guard,
	})

	return c
}

// State returns the current state
func (m *stateMachine[S, T]) State() S {
	return m.currentState
}

// Fire attempts to execute the trigger, transitioning to the new state if allowed
func (m *stateMachine[S, T]) Fire(ctx context.Context, trigger T) error {
	config, exists := m.configurations[m.currentState]
	if !exists {
		return fmt.Errorf("%w: cannot fire trigger %s from state %s (no configuration)", ErrInvalidTransition, trigger, m.currentState)
	}

	transitions := config.transitions[trigger]
	if len(transitions) == 0 {
		return fmt.Errorf("%w: cannot fire trigger %s from state %s", ErrInvalidTransition, trigger, m.currentState)
	}

	for _, t := range transitions {
		if t.guard == nil || t.guard(ctx) {
			m.currentState = t.toState
			return nil
		}
	}

	return fmt.Errorf("%w: trigger %s from state %s", ErrGuardFailed, trigger, m.currentState)
}

// PermittedTriggers returns the configured triggers of the current state
func (m *stateMachine[S, T]) PermittedTriggers() []T {
	config, exists := m.configurations[m.currentState]
	if !exists {
		return []T{}
	}
	return append([]T{}, config.order...)
}
