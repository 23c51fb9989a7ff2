/*
Copyright © 2026 Benchvault Authors
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"
)

func planCommand() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "list the suite plans that still need to run, without running anything",
		Flags: []cli.Flag{
			suiteFlag,
			dataDirFlag,
			outputFlag,
			formatFlag,
		},
		Action: planAction,
	}
}

func planAction(ctx context.Context, cmd *cli.Command) error {
	cfg, c, err := openCollector(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := c.Close(); cerr != nil {
			slog.Error("closing collector", "error", cerr)
		}
	}()

	needed, err := c.ComputeBuildsNeeded(ctx, cfg.Batches())
	if err != nil {
		return err
	}

	w, err := newOutputWriter(cmd)
	if err != nil {
		return err
	}
	defer w.Close()
	return w.Serialize(reportBatches(needed))
}
