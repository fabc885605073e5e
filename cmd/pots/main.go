// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

package main

import (
	"fmt"
	"os"

	cmdpots "github.com/vanavreddy/mackenzie/internal/cmd/pots"
)

func main() {
	if err := cmdpots.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
