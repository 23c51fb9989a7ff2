/*
Copyright © 2026 Benchvault Authors
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"github.com/benchvault/benchvault/pkg/cli"
)

func main() {
	cli.Execute()
}
