/*
Copyright © 2026 Benchvault Authors
SPDX-License-Identifier: Apache-2.0
*/
package storage

import "context"

// Entry wraps a value that is either already persisted or freshly
// computed and not yet written. EnsurePersisted is the only place a
// write to the store happens: construction and lookup never write.
type Entry[V any] struct {
	key        Key
	store      *Store
	value      V
	computeErr error
	fresh      bool
	written    bool
}

// Existing wraps a value resolved from the store. Persisting it is a
// no-op.
func Existing[V any](value V) *Entry[V] {
	return &Entry[V]{value: value}
}

// NewEntry wraps a freshly computed outcome destined for the store.
// computeErr, when non-nil, is the failure of the compute step; the
// value is still persisted (a recorded failure is data, not an
// exception) and the failure is surfaced by Value and EnsurePersisted.
func NewEntry[V any](key Key, value V, computeErr error, store *Store) *Entry[V] {
	return &Entry[V]{
		key:        key,
		store:      store,
		value:      value,
		computeErr: computeErr,
		fresh:      true,
	}
}

// Fresh reports whether the entry was computed in this invocation rather
// than resolved from the store.
func (e *Entry[V]) Fresh() bool {
	return e.fresh
}

// Value dereferences the entry. For a fresh entry wrapping a failed
// outcome the value does not exist and the compute failure is returned.
func (e *Entry[V]) Value() (V, error) {
	if e.computeErr != nil {
		var zero V
		return zero, e.computeErr
	}
	return e.value, nil
}

// EnsurePersisted writes a fresh entry's outcome to the store exactly
// once, then surfaces the wrapped compute failure (if any) as the
// overall result. For an existing entry it does nothing.
func (e *Entry[V]) EnsurePersisted(ctx context.Context) error {
	if !e.fresh {
		return nil
	}
	if !e.written {
		if err := Persist(ctx, e.store, e.key, e.value); err != nil {
			return err
		}
		e.written = true
	}
	return e.computeErr
}
