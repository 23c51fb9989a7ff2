/*
Copyright © 2026 Benchvault Authors
SPDX-License-Identifier: Apache-2.0
*/
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "github.com/benchvault/benchvault/pkg/errors"
)

// Record pairs a persisted record's raw bytes with its decoded value.
type Record[V any] struct {
	Raw   []byte
	Value V
}

// Lookup reads the record a key points at. The boolean reports presence;
// decode failures are storage errors, never "missing".
func Lookup[V any](ctx context.Context, s *Store, key Key) (*Record[V], bool, error) {
	raw, ok, err := s.get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	var v V
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrCodeStorage,
			fmt.Sprintf("decoding %s", key.Tag()), err)
	}
	return &Record[V]{Raw: raw, Value: v}, true, nil
}

// Persist encodes value and writes it under key.
func Persist(ctx context.Context, s *Store, key Key, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStorage,
			fmt.Sprintf("encoding %s", key.Tag()), err)
	}
	return s.put(ctx, key, data)
}
