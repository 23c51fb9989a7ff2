/*
Copyright © 2026 Benchvault Authors
SPDX-License-Identifier: Apache-2.0
*/

package collector

import (
	"context"

	"github.com/benchvault/benchvault/pkg/runplan"
)

// Hooks are invoked around each run plan so callers can attach
// environment setup and result publication without the collector
// knowing about either.
type Hooks interface {
	// Prepare runs before any build or execution for the plan. An error
	// aborts the plan before anything is cached.
	Prepare(ctx context.Context, rp *runplan.RunPlan) error

	// Publish runs after the plan's results have been persisted
	// successfully. It is not invoked for plans that ended in a
	// recorded failure.
	Publish(ctx context.Context, rp *runplan.RunPlan) error
}

// NoopHooks is the default Hooks implementation. It does nothing.
type NoopHooks struct{}

func (NoopHooks) Prepare(context.Context, *runplan.RunPlan) error { return nil }
func (NoopHooks) Publish(context.Context, *runplan.RunPlan) error { return nil }
