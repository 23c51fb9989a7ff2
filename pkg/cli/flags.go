/*
Copyright © 2026 Benchvault Authors
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"github.com/urfave/cli/v3"

	"github.com/benchvault/benchvault/pkg/serializer"
)

var (
	logLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Usage:   "log level (debug, info, warn, error)",
		Value:   "info",
		Sources: cli.EnvVars("BENCHVAULT_LOG_LEVEL"),
	}

	suiteFlag = &cli.StringFlag{
		Name:    "suite",
		Aliases: []string{"s"},
		Usage:   "path to the suite file",
		Value:   "benchvault.yaml",
		Sources: cli.EnvVars("BENCHVAULT_SUITE"),
	}

	dataDirFlag = &cli.StringFlag{
		Name:    "data-dir",
		Aliases: []string{"d"},
		Usage:   "result store directory (overrides the suite file)",
		Sources: cli.EnvVars("BENCHVAULT_DATA_DIR"),
	}

	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "write output to file instead of stdout",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "output format (json, yaml, table)",
		Value:   string(serializer.FormatTable),
		Validator: func(value string) error {
			_, err := serializer.ParseFormat(value)
			return err
		},
	}

	metricsAddrFlag = &cli.StringFlag{
		Name:    "metrics-addr",
		Usage:   "serve Prometheus metrics on this address while running (e.g. :9090)",
		Sources: cli.EnvVars("BENCHVAULT_METRICS_ADDR"),
	}

	verifyShieldsFlag = &cli.BoolFlag{
		Name:  "verify-shields",
		Usage: "require each plan's shield unit to be active before executing",
	}
)

// newOutputWriter builds a serializer from the shared output flags.
func newOutputWriter(cmd *cli.Command) (*serializer.Writer, error) {
	format, err := serializer.ParseFormat(cmd.String("format"))
	if err != nil {
		return nil, err
	}
	return serializer.NewFileWriterOrStdout(format, cmd.String("output")), nil
}
