package app

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Filter selects whose commits are counted in project stats.
type Filter string

// Available filters.
const (
	FilterMe  Filter = "me"
	FilterAll Filter = "all"
)

// Resolve returns the filter, defaulting empty value to FilterAll.
func (f Filter) Resolve() Filter {
	if f == "" {
		return FilterAll
	}
	return f
}

// Validate returns InvalidRequestError for unknown filters.
func (f Filter) Validate() error {
	switch f.Resolve() {
	case FilterMe, FilterAll:
		return nil
	}
	return InvalidRequestError(fmt.Sprintf("unknown filter %q, want 'me' or 'all'", string(f)))
}

// ParseFilter converts string to valid Filter.
func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	if err := f.Validate(); err != nil {
		return "", err
	}
	return f.Resolve(), nil
}

// Project entity
type Project struct {
	ID          int
	Name        string
	Path        string
	Description string
	CreatedAt   time.Time
}

// Limits for project fields, enforced before sending a draft to the backend.
const (
	MaxProjectNameLength        = 100
	MaxProjectPathLength        = 500
	MaxProjectDescriptionLength = 500
)

// ProjectDraft is a user submission for a new project.
type ProjectDraft struct {
	Name        string
	Path        string
	Description string
}

// Validate checks required fields and length limits.
// Git repository checks are left to the backend.
func (d ProjectDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return InvalidRequestError("project name is required")
	}
	if strings.TrimSpace(d.Path) == "" {
		return InvalidRequestError("repository path is required")
	}
	if utf8.RuneCountInString(d.Name) > MaxProjectNameLength {
		return InvalidRequestError(fmt.Sprintf("project name can't be longer than %d characters", MaxProjectNameLength))
	}
	if utf8.RuneCountInString(d.Path) > MaxProjectPathLength {
		return InvalidRequestError(fmt.Sprintf("repository path can't be longer than %d characters", MaxProjectPathLength))
	}
	if utf8.RuneCountInString(d.Description) > MaxProjectDescriptionLength {
		return InvalidRequestError(fmt.Sprintf("description can't be longer than %d characters", MaxProjectDescriptionLength))
	}
	return nil
}

// Config is the backend configuration visible to the dashboard.
type Config struct {
	GitUserName string
}

// DailyStats entity
type DailyStats struct {
	Date      string
	Commits   int
	Additions int
	Deletions int
}

// Contributor entity
type Contributor struct {
	Name       string
	Commits    int
	Additions  int
	Deletions  int
	Percentage float64
}

// ProjectStats is a read-only snapshot of project activity under a filter.
type ProjectStats struct {
	ProjectID    int
	PeriodDays   int
	Filter       Filter
	TotalCommits int
	Additions    int
	Deletions    int
	DailyStats   []DailyStats
	Contributors []Contributor
}

// TopContributors returns at most n first contributors and the number of remaining ones.
func (s *ProjectStats) TopContributors(n int) ([]Contributor, int) {
	if s == nil || n <= 0 {
		return nil, 0
	}
	if len(s.Contributors) <= n {
		return s.Contributors, 0
	}
	return s.Contributors[:n], len(s.Contributors) - n
}
