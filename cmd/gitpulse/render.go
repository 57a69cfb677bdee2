package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/m-zajac/gitpulse/internal/app"
)

const (
	topContributorsCount = 5
	timeFormat           = "2006-01-02 15:04:05"
)

func renderDashboard(out io.Writer, s app.Snapshot) error {
	var b strings.Builder

	fmt.Fprintln(&b, "gitpulse, activity from the last 7 days")
	if s.Config != nil && s.Config.GitUserName != "" {
		fmt.Fprintf(&b, "Git user: %s\n", s.Config.GitUserName)
	}
	if !s.LastUpdated.IsZero() {
		fmt.Fprintf(&b, "Last updated: %s\n", s.LastUpdated.Local().Format(timeFormat))
	}
	fmt.Fprintln(&b)

	totals := s.Totals()
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COMMITS\tADDITIONS\tDELETIONS")
	fmt.Fprintf(w, "%d\t+%d\t-%d\n", totals.Commits, totals.Additions, totals.Deletions)
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Activity:")
	activity := s.Activity()
	if len(activity) == 0 {
		fmt.Fprintln(&b, "  No statistics available.")
	} else {
		w = tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  DATE\tCOMMITS\tADDITIONS\tDELETIONS")
		for _, a := range activity {
			fmt.Fprintf(w, "  %s\t%d\t+%d\t-%d\n", a.Date, a.Commits, a.Additions, a.Deletions)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Projects:")
	if len(s.Projects) == 0 {
		fmt.Fprintln(&b, "  No projects yet. Add one with 'gitpulse add'.")
	}
	for _, p := range s.Projects {
		writeProjectCard(&b, p, s.Filter(p.ID), s.Stats[p.ID])
	}

	_, err := io.WriteString(out, b.String())
	return err
}

func renderProjectCard(out io.Writer, p app.Project, filter app.Filter, stats *app.ProjectStats) error {
	var b strings.Builder
	writeProjectCard(&b, p, filter, stats)

	_, err := io.WriteString(out, b.String())
	return err
}

func writeProjectCard(b *strings.Builder, p app.Project, filter app.Filter, stats *app.ProjectStats) {
	fmt.Fprintf(b, "  [%d] %s (filter: %s)\n", p.ID, p.Name, filter.Resolve())
	fmt.Fprintf(b, "      %s\n", p.Path)
	if p.Description != "" {
		fmt.Fprintf(b, "      %s\n", p.Description)
	}

	if stats == nil {
		fmt.Fprintln(b, "      no statistics")
		return
	}
	fmt.Fprintf(b, "      %d commits  +%d  -%d\n", stats.TotalCommits, stats.Additions, stats.Deletions)

	if filter.Resolve() != app.FilterAll {
		return
	}
	top, rest := stats.TopContributors(topContributorsCount)
	if len(top) == 0 {
		return
	}
	fmt.Fprintln(b, "      contributors:")
	w := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
	for _, c := range top {
		fmt.Fprintf(w, "        %s\t%d commits\t%.1f%%\n", c.Name, c.Commits, c.Percentage)
	}
	_ = w.Flush()
	if rest > 0 {
		fmt.Fprintf(b, "        ... and %d more\n", rest)
	}
}

func renderProject(out io.Writer, p app.Project) error {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d] %s\n", p.ID, p.Name)
	fmt.Fprintf(&b, "  path: %s\n", p.Path)
	if p.Description != "" {
		fmt.Fprintf(&b, "  description: %s\n", p.Description)
	}
	if !p.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "  created: %s\n", p.CreatedAt.Local().Format(timeFormat))
	}

	_, err := io.WriteString(out, b.String())
	return err
}

// newPromptConfirmer asks for removal confirmation on out and reads the answer from in.
// Only "y" and "yes" confirm.
func newPromptConfirmer(in io.Reader, out io.Writer) app.Confirmer {
	return app.ConfirmerFunc(func(ctx context.Context, p app.Project) (bool, error) {
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("#%d", p.ID)
		}
		if _, err := fmt.Fprintf(out, "Remove project %s? Its statistics will no longer be shown. [y/N]: ", name); err != nil {
			return false, err
		}

		answers := make(chan string, 1)
		go func() {
			line, _ := bufio.NewReader(in).ReadString('\n')
			answers <- line
		}()

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case line := <-answers:
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "y", "yes":
				return true, nil
			}
			return false, nil
		}
	})
}
