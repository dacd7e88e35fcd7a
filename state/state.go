package state

import "fmt"

// Kind tags the active variant of a State.
type Kind int

const (
	// KindLoading is reported when a run starts.
	KindLoading Kind = iota
	// KindResult carries one emitted value.
	KindResult
	// KindSuccess is terminal and may carry the last emitted value.
	KindSuccess
	// KindCancelled is terminal and reported after a forced cancel.
	KindCancelled
	// KindError is terminal and carries the failure cause.
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindLoading:
		return "loading"
	case KindResult:
		return "result"
	case KindSuccess:
		return "success"
	case KindCancelled:
		return "cancelled"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// State is a discriminated snapshot of a run. Exactly one Kind is active;
// it is not an accumulator.
type State[T any] struct {
	kind     Kind
	value    T
	hasValue bool
	err      error
}

// Loading returns the state reported before any result.
func Loading[T any]() State[T] { return State[T]{kind: KindLoading} }

// Result returns a state carrying one emitted value.
func Result[T any](v T) State[T] { return State[T]{kind: KindResult, value: v, hasValue: true} }

// Success returns the terminal success state. ok reports whether v is a
// real last value.
func Success[T any](v T, ok bool) State[T] {
	s := State[T]{kind: KindSuccess, hasValue: ok}
	if ok {
		s.value = v
	}
	return s
}

// Cancelled returns the terminal cancelled state.
func Cancelled[T any]() State[T] { return State[T]{kind: KindCancelled} }

// Failure returns the terminal error state. err may be nil.
func Failure[T any](err error) State[T] { return State[T]{kind: KindError, err: err} }

// Kind returns the active variant.
func (s State[T]) Kind() Kind { return s.kind }

// Value returns the carried value of Result and Success states.
func (s State[T]) Value() (T, bool) { return s.value, s.hasValue }

// Err returns the cause of an Error state.
func (s State[T]) Err() error { return s.err }

// Terminal reports whether no further state of the same run follows.
func (s State[T]) Terminal() bool {
	return s.kind == KindSuccess || s.kind == KindCancelled || s.kind == KindError
}

// String renders the state for logs.
func (s State[T]) String() string {
	switch {
	case s.kind == KindError && s.err != nil:
		return fmt.Sprintf("error(%v)", s.err)
	case s.hasValue:
		return fmt.Sprintf("%s(%v)", s.kind, s.value)
	default:
		return s.kind.String()
	}
}
