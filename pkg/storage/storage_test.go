/*
Copyright © 2026 Benchvault Authors
SPDX-License-Identifier: Apache-2.0
*/
package storage

import (
	"errors"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/benchvault/benchvault/pkg/errors"
	"github.com/benchvault/benchvault/pkg/runplan"
)

func testIdentity() runplan.Identity {
	return runplan.Identity{
		Toolchain: "1.72.0",
		Package:   "micro",
		Benchmark: "fib",
		Runner:    "runner-01",
		Shield:    "shield.slice",
	}
}

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestKeyDeterminism(t *testing.T) {
	t.Run("index keys", func(t *testing.T) {
		a := NewIndexKey(testIdentity())
		b := NewIndexKey(testIdentity())
		assert.Equal(t, a.Tag(), b.Tag())
		assert.True(t, validTag(a.Tag()))

		// Any differing identity field produces a different key.
		for _, mutate := range []func(*runplan.Identity){
			func(id *runplan.Identity) { id.Toolchain = "1.73.0" },
			func(id *runplan.Identity) { id.Package = "macro" },
			func(id *runplan.Identity) { id.Benchmark = "fact" },
			func(id *runplan.Identity) { id.Runner = "runner-02" },
			func(id *runplan.Identity) { id.Shield = "" },
		} {
			id := testIdentity()
			mutate(&id)
			assert.NotEqual(t, a.Tag(), NewIndexKey(id).Tag())
		}
	})

	t.Run("measurement keys", func(t *testing.T) {
		h := digest.FromString("binary")
		a := NewMeasurementKey(h, "runner-01", "shield.slice")
		b := NewMeasurementKey(h, "runner-01", "shield.slice")
		assert.Equal(t, a.Tag(), b.Tag())
		assert.True(t, validTag(a.Tag()))

		assert.NotEqual(t, a.Tag(), NewMeasurementKey(digest.FromString("other"), "runner-01", "shield.slice").Tag())
		assert.NotEqual(t, a.Tag(), NewMeasurementKey(h, "runner-02", "shield.slice").Tag())
		assert.NotEqual(t, a.Tag(), NewMeasurementKey(h, "runner-01", "").Tag())
	})

	t.Run("families do not alias", func(t *testing.T) {
		// Same payload bytes under different prefixes stay distinct.
		assert.NotEqual(t, hashTag("idx", "x"), hashTag("msr", "x"))
	})
}

func TestLookupAndPersist(t *testing.T) {
	s := openStore(t)
	ctx := t.Context()
	key := NewIndexKey(testIdentity())

	t.Run("missing", func(t *testing.T) {
		_, ok, err := Lookup[string](ctx, s, key)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("round trip", func(t *testing.T) {
		require.NoError(t, Persist(ctx, s, key, "sha256:abcd"))

		rec, ok, err := Lookup[string](ctx, s, key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "sha256:abcd", rec.Value)
		assert.JSONEq(t, `"sha256:abcd"`, string(rec.Raw))
	})

	t.Run("decode failure is a storage error", func(t *testing.T) {
		bad := NewMeasurementKey(digest.FromString("x"), "r", "")
		require.NoError(t, s.put(ctx, bad, []byte("{not-json")))

		_, _, err := Lookup[map[string]any](ctx, s, bad)
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeStorage))
	})
}

func TestEntryLifecycle(t *testing.T) {
	ctx := t.Context()

	t.Run("existing is a no-op", func(t *testing.T) {
		e := Existing("sha256:abcd")
		require.NoError(t, e.EnsurePersisted(ctx))
		assert.False(t, e.Fresh())

		v, err := e.Value()
		require.NoError(t, err)
		assert.Equal(t, "sha256:abcd", v)
	})

	t.Run("new writes exactly once", func(t *testing.T) {
		s := openStore(t)
		key := NewIndexKey(testIdentity())

		e := NewEntry(key, "sha256:abcd", nil, s)
		assert.True(t, e.Fresh())

		// Nothing is visible before EnsurePersisted.
		_, ok, err := Lookup[string](ctx, s, key)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, e.EnsurePersisted(ctx))
		require.NoError(t, e.EnsurePersisted(ctx)) // idempotent

		rec, ok, err := Lookup[string](ctx, s, key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "sha256:abcd", rec.Value)
	})

	t.Run("failed outcome is persisted and surfaced", func(t *testing.T) {
		s := openStore(t)
		key := NewMeasurementKey(digest.FromString("bin"), "r", "")
		boom := errors.New("benchmark exited 1")

		e := NewEntry(key, map[string]string{"failure": "benchmark exited 1"}, boom, s)

		_, err := e.Value()
		assert.ErrorIs(t, err, boom)

		err = e.EnsurePersisted(ctx)
		assert.ErrorIs(t, err, boom)

		// The failure record is durable.
		rec, ok, lerr := Lookup[map[string]string](ctx, s, key)
		require.NoError(t, lerr)
		require.True(t, ok)
		assert.Equal(t, "benchmark exited 1", rec.Value["failure"])
	})
}

func TestAdvisoryLock(t *testing.T) {
	dir := t.TempDir()

	first, err := Open(dir)
	require.NoError(t, err)

	_, err = Open(dir)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeStorage))

	require.NoError(t, first.Close())

	second, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}
