// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

package main

import (
	"fmt"
	"os"

	cmdagent "github.com/vanavreddy/mackenzie/internal/cmd/agent"
)

func main() {
	if err := cmdagent.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
