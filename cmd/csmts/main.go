// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

package main

import (
	"fmt"
	"os"

	cmdcsmts "github.com/vanavreddy/mackenzie/internal/cmd/csmts"
)

func main() {
	if err := cmdcsmts.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
