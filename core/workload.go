package core

import "context"

// Sender is the send-only side of a run's emission channel.
//
// Semantics:
//   - Send blocks until the value is accepted by the runner, the channel is
//     closed (ErrChannelClosed) or ctx is done (the context cause is returned).
//   - Close marks the end of the stream. Closing twice returns ErrChannelClosed.
//   - Values are delivered to the result callback in the order they were sent.
type Sender[T any] interface {
	Send(ctx context.Context, v T) error
	Close() error
}

// Workload is the capability implemented by a use case body.
//
// Run produces zero or more values on out and then either returns nil
// (success; the runner closes out if the workload did not) or returns an
// error (failure). A workload must not send after returning. Run should
// honour ctx; it is cancelled when the run is restarted or cancelled.
type Workload[T, P any] interface {
	Run(ctx context.Context, out Sender[T], params P) error
}

// WorkloadFunc adapts an ordinary function to the Workload interface.
type WorkloadFunc[T, P any] func(ctx context.Context, out Sender[T], params P) error

// Run calls f(ctx, out, params).
func (f WorkloadFunc[T, P]) Run(ctx context.Context, out Sender[T], params P) error {
	return f(ctx, out, params)
}

// TaskCompletion is the marker value emitted by workloads that only signal
// that they finished.
type TaskCompletion struct{}
