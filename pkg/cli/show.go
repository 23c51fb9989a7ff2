/*
Copyright © 2026 Benchvault Authors
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// planStatus summarizes what the store holds for one plan.
type planStatus struct {
	Plan       string             `json:"plan"`
	Status     string             `json:"status"` // measured, failed, built, unknown
	BinaryHash string             `json:"binary_hash,omitempty"`
	Error      string             `json:"error,omitempty"`
	Estimates  map[string]float64 `json:"estimates,omitempty"`
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "show cached results for every plan in the suite",
		Flags: []cli.Flag{
			suiteFlag,
			dataDirFlag,
			outputFlag,
			formatFlag,
		},
		Action: showAction,
	}
}

func showAction(ctx context.Context, cmd *cli.Command) error {
	cfg, c, err := openCollector(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := c.Close(); cerr != nil {
			slog.Error("closing collector", "error", cerr)
		}
	}()

	title := cases.Title(language.English)

	var rows []planStatus
	for _, b := range cfg.Batches() {
		for i := range b.Plans {
			rp := &b.Plans[i]
			hash, res, err := c.LookupEstimates(ctx, rp)
			if err != nil {
				return err
			}

			row := planStatus{Plan: rp.String(), Status: "unknown"}
			if hash != "" {
				row.BinaryHash = hash.String()
				row.Status = "built"
			}
			switch {
			case res == nil:
			case res.Ok():
				row.Status = "measured"
				row.Estimates = make(map[string]float64, len(res.Estimates))
				for metric, stat := range res.Estimates {
					row.Estimates[title.String(metric)] = stat.Mean.PointEstimate
				}
			default:
				row.Status = "failed"
				row.Error = res.Failure.Error()
			}
			rows = append(rows, row)
		}
	}

	w, err := newOutputWriter(cmd)
	if err != nil {
		return err
	}
	defer w.Close()
	return w.Serialize(rows)
}
