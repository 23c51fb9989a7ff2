/*
Copyright © 2026 Benchvault Authors
SPDX-License-Identifier: Apache-2.0
*/
package runplan

import (
	"context"
	"fmt"

	"github.com/coreos/go-systemd/v22/dbus"
)

// VerifyShield confirms that the named systemd unit backing an isolation
// shield (typically a .slice with pinned CPUs) exists and is active.
// Executing a shielded benchmark without its shield would silently
// produce noisy measurements, so this fails loudly instead.
func VerifyShield(ctx context.Context, unit string) error {
	conn, err := dbus.NewSystemdConnectionContext(ctx)
	if err != nil {
		return fmt.Errorf("connecting to systemd: %w", err)
	}
	defer conn.Close()

	props, err := conn.GetAllPropertiesContext(ctx, unit)
	if err != nil {
		return fmt.Errorf("querying unit properties: %w", err)
	}

	state, _ := props["ActiveState"].(string)
	if state != "active" {
		return fmt.Errorf("unit is %q, want active", state)
	}

	return nil
}
