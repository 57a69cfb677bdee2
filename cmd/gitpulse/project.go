package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/m-zajac/gitpulse/internal/app"
	"github.com/spf13/cobra"
)

func newAddCmd(e *env) *cobra.Command {
	var draft app.ProjectDraft

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a project",
		Long: `Register a local git repository as a project.

Examples:
  gitpulse add --name gitpulse --path ~/src/gitpulse --description "dashboard"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dashboard, closeDashboard, err := e.newDashboard(false)
			if err != nil {
				return err
			}
			defer closeDashboard()

			p, err := dashboard.CreateProject(cmd.Context(), draft)
			if err != nil {
				e.l.Debugf("creating project: %v", err)
				return errors.New(app.ErrorDetail(err, "failed to add project"))
			}

			fmt.Fprintln(e.out, "Project added:")
			return renderProject(e.out, p)
		},
	}
	cmd.Flags().StringVar(&draft.Name, "name", "", "project name (required)")
	cmd.Flags().StringVar(&draft.Path, "path", "", "path of the git repository (required)")
	cmd.Flags().StringVar(&draft.Description, "description", "", "optional description")

	return cmd
}

func newRemoveCmd(e *env) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm <project-id>",
		Short: "Remove a project",
		Long:  `Remove a project from the dashboard. Asks for confirmation unless --yes is given.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}

			dashboard, closeDashboard, err := e.newDashboard(false)
			if err != nil {
				return err
			}
			defer closeDashboard()

			// Project name is shown in the confirmation prompt.
			if err := dashboard.Load(cmd.Context(), false); err != nil {
				return fmt.Errorf("failed to load projects: %w", err)
			}
			if _, ok := dashboard.Snapshot().Project(id); !ok {
				return fmt.Errorf("project %d not found", id)
			}

			confirmer := newPromptConfirmer(e.in, e.out)
			if yes {
				confirmer = app.ConfirmerFunc(func(_ context.Context, _ app.Project) (bool, error) {
					return true, nil
				})
			}

			deleted, err := dashboard.DeleteProject(cmd.Context(), id, confirmer)
			if err != nil {
				e.l.Debugf("deleting project: %v", err)
				return errors.New(app.ErrorDetail(err, "failed to remove project"))
			}
			if !deleted {
				fmt.Fprintln(e.out, "Cancelled.")
				return nil
			}

			fmt.Fprintf(e.out, "Project %d removed.\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "remove without confirmation")

	return cmd
}

func newFilterCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "filter <project-id> <me|all>",
		Short: "Choose whose commits are counted",
		Long: `Set the filter of a project: 'me' counts only commits of the configured git user, 'all' counts everyone.
Selection is saved and used by following commands and the daemon.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			filter, err := app.ParseFilter(args[1])
			if err != nil {
				return err
			}

			dashboard, closeDashboard, err := e.newDashboard(true)
			if err != nil {
				return err
			}
			defer closeDashboard()

			if err := dashboard.Load(cmd.Context(), false); err != nil {
				return fmt.Errorf("failed to load projects: %w", err)
			}

			stats, err := dashboard.SetFilter(cmd.Context(), id, filter)
			if err != nil && app.IsInvalidRequestError(err) {
				return err
			}
			if err != nil {
				e.l.Warnf("loading stats: %v", err)
			}

			p, _ := dashboard.Snapshot().Project(id)
			return renderProjectCard(e.out, p, filter, stats)
		},
	}
}

func parseProjectID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid project id %q", s)
	}
	return id, nil
}
