// Package state holds the launch state shared between catalog loads and
// launch requests.
//
// # Overview
//
// A catalog load produces two derived indexes: the launch descriptor of
// every ready product and the set of product ids that mean "exit to the
// desktop". The launcher reads both whenever the operator picks a card,
// possibly while a reload is still in flight.
//
// # Concurrency
//
// Store guards a single Snapshot with a sync.RWMutex:
//
//   - Replace takes the write lock once, at the end of a load, and swaps in
//     fully built copies of both maps. A partially built state is never
//     visible.
//   - IsDesktop and Lookup take the read lock only long enough to extract
//     one entry. Callers spawn processes after the lock is released.
//
// Because both maps live in one snapshot, a reader never observes a new
// launch table next to a stale desktop set.
//
// # Poisoning
//
// If a panic escapes while the write lock is held, the store is marked
// poisoned and every later call returns ErrLocked. An empty state is never
// silently reported in its place.
//
// # Ownership
//
// There is no package-level instance. The composition root creates one
// Store and injects it into both the aggregator and the launch resolver, so
// each test can build its own.
package state
