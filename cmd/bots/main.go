// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

package main

import (
	"fmt"
	"os"

	cmdbots "github.com/vanavreddy/mackenzie/internal/cmd/bots"
)

func main() {
	if err := cmdbots.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
