// Package state provides the observable side of a runner: State, a tagged
// union describing where a run is in its lifecycle, and Stream, an ordered
// value holder observers subscribe to.
//
// Streams never coalesce or reorder values: every Set reaches every
// subscriber in the order it was made.
package state
