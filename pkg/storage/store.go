/*
Copyright © 2026 Benchvault Authors
SPDX-License-Identifier: Apache-2.0
*/
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/content/oci"
	"oras.land/oras-go/v2/errdef"

	apperrors "github.com/benchvault/benchvault/pkg/errors"
)

const (
	recordsDirName = "records"
	lockFileName   = ".lock"
)

// Store is a directory-backed content-addressed record store. Safe for
// use by a single process at a time; the advisory lock taken by Open
// rejects concurrent writers against the same data directory.
type Store struct {
	dir    string
	lock   *os.File
	layout *oci.Store
}

// Open creates the data directory if needed, takes the advisory lock,
// and opens the record layout.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStorage, "creating data directory", err)
	}

	lock, err := acquireLock(filepath.Join(dataDir, lockFileName))
	if err != nil {
		return nil, err
	}

	layout, err := oci.New(filepath.Join(dataDir, recordsDirName))
	if err != nil {
		_ = lock.Close()
		return nil, apperrors.Wrap(apperrors.ErrCodeStorage, "opening record layout", err)
	}

	return &Store{
		dir:    dataDir,
		lock:   lock,
		layout: layout,
	}, nil
}

// Dir returns the data directory the store is rooted at.
func (s *Store) Dir() string {
	return s.dir
}

// Close releases the advisory lock.
func (s *Store) Close() error {
	if s.lock == nil {
		return nil
	}
	err := syscall.Flock(int(s.lock.Fd()), syscall.LOCK_UN)
	if cerr := s.lock.Close(); err == nil {
		err = cerr
	}
	s.lock = nil
	return err
}

// get resolves a key's tag and fetches its record. The boolean reports
// whether a record exists; I/O failures are never treated as missing.
func (s *Store) get(ctx context.Context, key Key) ([]byte, bool, error) {
	desc, err := s.layout.Resolve(ctx, key.Tag())
	if err != nil {
		if errors.Is(err, errdef.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, apperrors.Wrap(apperrors.ErrCodeStorage,
			fmt.Sprintf("resolving %s", key.Tag()), err)
	}

	raw, err := content.FetchAll(ctx, s.layout, desc)
	if err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrCodeStorage,
			fmt.Sprintf("fetching %s", key.Tag()), err)
	}
	return raw, true, nil
}

// put writes a record blob and points the key's tag at it. Re-pushing
// identical content is tolerated: the blob is content-addressed, so the
// same bytes always land at the same place.
func (s *Store) put(ctx context.Context, key Key, data []byte) error {
	tag := key.Tag()
	if !validTag(tag) {
		return apperrors.Newf(apperrors.ErrCodeStorage, "invalid record tag %q", tag)
	}

	desc := content.NewDescriptorFromBytes(key.MediaType(), data)
	desc.Annotations = map[string]string{
		ociv1.AnnotationCreated: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.layout.Push(ctx, desc, bytes.NewReader(data)); err != nil && !errors.Is(err, errdef.ErrAlreadyExists) {
		return apperrors.Wrap(apperrors.ErrCodeStorage, fmt.Sprintf("writing %s", tag), err)
	}
	if err := s.layout.Tag(ctx, desc, tag); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStorage, fmt.Sprintf("tagging %s", tag), err)
	}
	return nil
}

func acquireLock(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStorage, "opening lock file", err)
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = f.Close()
		if errors.Is(err, syscall.EWOULDBLOCK) {
			return nil, apperrors.New(apperrors.ErrCodeStorage,
				"data directory is locked by another process")
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeStorage, "locking data directory", err)
	}
	return f, nil
}
