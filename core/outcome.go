package core

import (
	"context"
	"errors"
	"fmt"
)

// Outcome classifies how a run ended. It only drives callback dispatch and is
// never persisted.
type Outcome int

const (
	// OutcomePending is reported while a run is still in flight.
	OutcomePending Outcome = iota
	// OutcomeCompleted means the workload returned without error.
	OutcomeCompleted
	// OutcomeChannelClosed means the workload tried to send after its channel
	// was closed. It is treated as a normal completion.
	OutcomeChannelClosed
	// OutcomeRestarted means the run was superseded by a new invocation.
	OutcomeRestarted
	// OutcomeCancelled means the run was stopped through Cancel.
	OutcomeCancelled
	// OutcomeFailed means the workload returned or panicked with an error.
	OutcomeFailed
	// OutcomeAbandoned means the run was dropped without a user visible
	// signal, e.g. its runner was closed.
	OutcomeAbandoned
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeCompleted:
		return "completed"
	case OutcomeChannelClosed:
		return "channel-closed"
	case OutcomeRestarted:
		return "restarted"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeFailed:
		return "failed"
	case OutcomeAbandoned:
		return "abandoned"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Classify maps the cancellation cause of a run's context and the error
// returned by its workload to an Outcome. Exactly one outcome applies.
//
// cause is context.Cause of the run context (nil while not cancelled). The
// cancellation cause wins over the workload error, so a cancelled run is never
// reported as failed.
func Classify(cause, err error) Outcome {
	switch {
	case errors.Is(cause, ErrRestarted):
		return OutcomeRestarted
	case errors.Is(cause, ErrForcedCancel):
		return OutcomeCancelled
	case cause != nil:
		return OutcomeAbandoned
	case err == nil:
		return OutcomeCompleted
	case IsControlSignal(err):
		return classifySignal(err)
	case errors.Is(err, context.Canceled):
		return OutcomeAbandoned
	default:
		return OutcomeFailed
	}
}

// Terminal reports whether o is a final outcome.
func (o Outcome) Terminal() bool { return o != OutcomePending }

// Silent reports whether o fires no terminal callback.
func (o Outcome) Silent() bool {
	return o == OutcomeRestarted || o == OutcomeAbandoned || o == OutcomePending
}

// classifySignal maps a control signal returned by a workload to its outcome.
func classifySignal(err error) Outcome {
	switch {
	case errors.Is(err, ErrChannelClosed):
		return OutcomeChannelClosed
	case errors.Is(err, ErrRestarted):
		return OutcomeRestarted
	default:
		return OutcomeCancelled
	}
}
