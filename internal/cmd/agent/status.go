// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

package cmdagent

import (
	"fmt"
	"os"
	"strconv"

	"github.com/aquasecurity/table"
	"github.com/spf13/cobra"

	"github.com/vanavreddy/mackenzie/internal/config"
	"github.com/vanavreddy/mackenzie/internal/store/jobledger"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print a snapshot of this cluster's job ledger",
	Long: `Opens the same sqlite file the running agent writes to
(AGENT_SETUP_ROOT/jobs.db) read-only and renders a per-state job count,
so an operator can check on a running agent without signalling it.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	loader := config.NewLoader("AGENT_")
	if err := loader.RequireAll("setup_root"); err != nil {
		return err
	}

	jobs, err := jobledger.Open(loader.String("setup_root") + "/jobs.db")
	if err != nil {
		return fmt.Errorf("opening job ledger: %w", err)
	}

	states := []jobledger.State{jobledger.Ready, jobledger.Running, jobledger.Completed, jobledger.Failed, jobledger.Aborted, jobledger.Processed}
	t := table.New(os.Stdout)
	t.SetHeaders("state", "count")
	for _, s := range states {
		rows, err := jobs.ByState(s)
		if err != nil {
			return fmt.Errorf("listing jobs in state %s: %w", s, err)
		}
		t.AddRow(string(s), strconv.Itoa(len(rows)))
	}
	t.Render()
	return nil
}
