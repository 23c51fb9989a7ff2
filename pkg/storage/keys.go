/*
Copyright © 2026 Benchvault Authors
SPDX-License-Identifier: Apache-2.0
*/
package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"regexp"

	"github.com/distribution/reference"
	"github.com/opencontainers/go-digest"

	"github.com/benchvault/benchvault/pkg/runplan"
)

// Record media types.
const (
	IndexMediaType       = "application/vnd.benchvault.index.v1+json"
	MeasurementMediaType = "application/vnd.benchvault.measurement.v1+json"
)

// Key is a typed, deterministic storage key: identical logical requests
// always produce identical tags.
type Key interface {
	// Tag is the reference the record is stored under.
	Tag() string
	// MediaType identifies the record family.
	MediaType() string
}

// tagPattern anchors the OCI tag grammar; derived tags must conform
// before anything is written under them.
var tagPattern = regexp.MustCompile(`^` + reference.TagRegexp.String() + `$`)

func validTag(tag string) bool {
	return tagPattern.MatchString(tag)
}

func hashTag(prefix string, payload any) string {
	// Field order in the payload struct is fixed, so the canonical JSON
	// encoding is deterministic.
	b, err := json.Marshal(payload)
	if err != nil {
		panic(err) // string-field structs cannot fail to marshal
	}
	sum := sha256.Sum256(b)
	return prefix + "-" + hex.EncodeToString(sum[:])
}

// IndexKey is the build key: derived from a run plan's identity, it maps
// to the binary hash the plan's build produced.
type IndexKey struct {
	tag string
}

// NewIndexKey derives the build key for a run plan.
func NewIndexKey(id runplan.Identity) IndexKey {
	return IndexKey{tag: hashTag("idx", id)}
}

func (k IndexKey) Tag() string       { return k.tag }
func (k IndexKey) MediaType() string { return IndexMediaType }

// MeasurementKey maps (binary hash, runner, shield) to a measurement
// result. It is derived from the binary content hash, not the toolchain,
// which is what lets toolchains producing identical binaries share
// measurements.
type MeasurementKey struct {
	tag string
}

// NewMeasurementKey derives the measurement key for a built artifact in
// a given execution environment.
func NewMeasurementKey(binaryHash digest.Digest, runner, shield string) MeasurementKey {
	payload := struct {
		BinaryHash string `json:"binary_hash"`
		Runner     string `json:"runner"`
		Shield     string `json:"shield,omitempty"`
	}{
		BinaryHash: binaryHash.String(),
		Runner:     runner,
		Shield:     shield,
	}
	return MeasurementKey{tag: hashTag("msr", payload)}
}

func (k MeasurementKey) Tag() string       { return k.tag }
func (k MeasurementKey) MediaType() string { return MeasurementMediaType }
