// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

package main

import (
	"fmt"
	"os"

	cmdcontroller "github.com/vanavreddy/mackenzie/internal/cmd/controller"
)

func main() {
	if err := cmdcontroller.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
