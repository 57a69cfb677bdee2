package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show activity of all projects",
		Long:  `Load all projects and their stats once and print totals, daily activity and project cards.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dashboard, closeDashboard, err := e.newDashboard(false)
			if err != nil {
				return err
			}
			defer closeDashboard()

			if err := dashboard.Load(cmd.Context(), false); err != nil {
				return fmt.Errorf("failed to load dashboard: %w", err)
			}

			return renderDashboard(e.out, dashboard.Snapshot())
		},
	}
}
