// Package storage persists benchmark build and measurement records in a
// directory-backed, content-addressed store.
//
// The store is an OCI image layout: every record is a JSON blob addressed
// by its own digest, reachable through a deterministic tag derived from
// the logical request. Two key families exist — the build key (derived
// from a run plan's identity) and the measurement key (derived from a
// binary hash plus execution environment). Lookups are read-only; the
// only write path is Entry.EnsurePersisted.
//
// A single advisory lock guards the data directory against concurrent
// writer processes for the lifetime of an open Store.
package storage
