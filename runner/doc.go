// Package runner implements the use case runner: a cancellable, restartable,
// multi-value-emitting unit of asynchronous work.
//
// A Runner wraps a core.Workload and bridges two executors. The workload runs
// on the work executor and streams values into a per-run emission channel;
// a supervising goroutine drains that channel and schedules every lifecycle
// callback on the delivery executor.
//
// # Lifecycle
//
//   - Invoke starts a run. If a run is already active it is superseded: its
//     context is cancelled with core.ErrRestarted, its channel is closed at
//     once and none of its pending callbacks fire.
//   - Cancel stops the active run with core.ErrForcedCancel. Exactly one
//     OnCancel dispatch follows and IsActive is false when Cancel returns.
//   - A run whose workload returns nil (or hits a closed channel) dispatches
//     After; a run whose workload fails dispatches OnError.
//
// Exactly one of After, OnCancel and OnError fires per run, except for
// restarted and abandoned runs which fire none. Before always precedes the
// results of its run and the terminal dispatch follows them.
//
// # Restart race
//
// Every run carries a generation number. Teardown of a run only clears the
// runner's active-run field when that field still belongs to the same
// generation, so a late teardown of a superseded run can never wipe the state
// of its replacement.
//
// See runner.go for the operational implementation details.
package runner
