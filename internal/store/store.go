package store

import (
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type Reducer func(state entity.GameState, action entity.Action) entity.GameState

type Subscriber func(state entity.GameState)

type subscription struct {
	fn     Subscriber
	active bool
}

// Store holds the current state of one session and notifies subscribers
// after every dispatch. It is meant to be driven from a single goroutine;
// dispatching from inside a subscriber is not supported.
type Store struct {
	reduce Reducer
	state  entity.GameState

	subscribers []*subscription
}

func New(reduce Reducer, initial entity.GameState) *Store {
	return &Store{
		reduce: reduce,
		state:  initial,
	}
}

func (that *Store) State() entity.GameState {
	return that.state
}

// Dispatch applies action and calls every subscriber registered before the
// call, in registration order.
func (that *Store) Dispatch(action entity.Action) entity.GameState {
	that.state = that.reduce(that.state, action)

	current := that.state
	for _, sub := range append([]*subscription(nil), that.subscribers...) {
		sub.fn(current)
	}

	return current
}

// Subscribe registers fn and returns a function that removes it. Removing a
// subscriber during a notification pass does not affect that pass.
func (that *Store) Subscribe(fn Subscriber) func() {
	sub := &subscription{fn: fn, active: true}
	that.subscribers = append(that.subscribers, sub)

	return func() {
		if !sub.active {
			return
		}
		sub.active = false

		for i, registered := range that.subscribers {
			if registered == sub {
				that.subscribers = append(that.subscribers[:i:i], that.subscribers[i+1:]...)
				break
			}
		}
	}
}
