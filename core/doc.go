// Package core provides the foundational contracts shared by usecasemesh
// packages. It defines the core abstractions for:
//
//   - Workloads (units of streaming asynchronous work) and their Sender
//   - Executors (the work and delivery scheduling domains a runner bridges)
//   - Outcomes (how a run ended) and the error taxonomy used to classify them
//
// The package keeps implementation concerns (the runner state machine,
// concrete executors, concrete workloads) out of scope, exposing small
// interfaces so custom workloads and schedulers can be plugged in.
package core
