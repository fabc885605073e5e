// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

package cmdcontroller

import (
	"fmt"
	"os"
	"strconv"

	"github.com/aquasecurity/table"
	"github.com/spf13/cobra"

	"github.com/vanavreddy/mackenzie/internal/config"
	"github.com/vanavreddy/mackenzie/internal/store/setupstore"
	"github.com/vanavreddy/mackenzie/internal/store/taskqueue"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print a snapshot of the setup catalog and task queue",
	Long: `Opens the same sqlite files the serving controller writes to
(CONTROLLER_SETUP_ROOT/setups.db and tasks.db) read-only and renders a
human-readable summary, so an operator can check on a running
controller without going through the RPC surface.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	loader := config.NewLoader("CONTROLLER_")
	if err := loader.RequireAll("setup_root"); err != nil {
		return err
	}

	setups, err := setupstore.Open(loader.String("setup_root") + "/setups.db")
	if err != nil {
		return fmt.Errorf("opening setup store: %w", err)
	}
	names, err := setups.Names()
	if err != nil {
		return fmt.Errorf("listing setups: %w", err)
	}

	tasks, err := taskqueue.Open(loader.String("setup_root") + "/tasks.db")
	if err != nil {
		return fmt.Errorf("opening task queue: %w", err)
	}

	fmt.Printf("setups: %d\n", len(names))

	states := []taskqueue.State{taskqueue.Available, taskqueue.Assigned, taskqueue.Completed, taskqueue.Failed, taskqueue.Processed}
	t := table.New(os.Stdout)
	t.SetHeaders("state", "count")
	for _, s := range states {
		count, err := tasks.CountByState(s)
		if err != nil {
			return fmt.Errorf("counting tasks in state %s: %w", s, err)
		}
		t.AddRow(string(s), strconv.FormatInt(count, 10))
	}
	t.Render()
	return nil
}
