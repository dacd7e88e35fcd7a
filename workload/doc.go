// Package workload contains the reference workloads driven by the runner:
//
//   - Upload streams progress snapshots 0, 10, ..., 100 with a pause between
//     them and can be told to fail through a FaultInjector.
//   - Task spins through a CPU-bound loop and emits a single completion.
//
// Workloads hold no per-run state, so one instance may back several runners.
package workload
