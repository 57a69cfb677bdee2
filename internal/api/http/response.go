package http

import (
	"time"

	"github.com/m-zajac/gitpulse/internal/app"
)

// Number of contributors listed on a project card.
const topContributorsCount = 5

type errorResponse struct {
	Detail string `json:"detail"`
}

type totalsResponse struct {
	Commits   int `json:"commits"`
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

type activityPointResponse struct {
	Date      string `json:"date"`
	FullDate  string `json:"full_date"`
	Commits   int    `json:"commits"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

type projectResponse struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Path        string     `json:"path"`
	Description *string    `json:"description"`
	CreatedAt   *time.Time `json:"created_at"`
}

func newProjectResponse(p app.Project) projectResponse {
	r := projectResponse{
		ID:   p.ID,
		Name: p.Name,
		Path: p.Path,
	}
	if p.Description != "" {
		desc := p.Description
		r.Description = &desc
	}
	if !p.CreatedAt.IsZero() {
		created := p.CreatedAt
		r.CreatedAt = &created
	}
	return r
}

type dailyStatsResponse struct {
	Date      string `json:"date"`
	Commits   int    `json:"commits"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

type contributorResponse struct {
	Name       string  `json:"name"`
	Commits    int     `json:"commits"`
	Additions  int     `json:"additions"`
	Deletions  int     `json:"deletions"`
	Percentage float64 `json:"percentage"`
}

type statsResponse struct {
	PeriodDays   int                  `json:"period_days"`
	Filter       string               `json:"filter_mode"`
	TotalCommits int                  `json:"total_commits"`
	Additions    int                  `json:"additions"`
	Deletions    int                  `json:"deletions"`
	DailyStats   []dailyStatsResponse `json:"daily_stats"`
}

func newStatsResponse(s *app.ProjectStats) *statsResponse {
	if s == nil {
		return nil
	}

	daily := make([]dailyStatsResponse, 0, len(s.DailyStats))
	for _, d := range s.DailyStats {
		daily = append(daily, dailyStatsResponse{
			Date:      d.Date,
			Commits:   d.Commits,
			Additions: d.Additions,
			Deletions: d.Deletions,
		})
	}

	return &statsResponse{
		PeriodDays:   s.PeriodDays,
		Filter:       string(s.Filter.Resolve()),
		TotalCommits: s.TotalCommits,
		Additions:    s.Additions,
		Deletions:    s.Deletions,
		DailyStats:   daily,
	}
}

type projectCardResponse struct {
	Project projectResponse `json:"project"`
	Filter  string          `json:"filter"`
	Stats   *statsResponse  `json:"stats"`
	// Contributors are listed only when all authors are counted.
	TopContributors   []contributorResponse `json:"top_contributors,omitempty"`
	OtherContributors int                   `json:"other_contributors,omitempty"`
}

func newProjectCardResponse(p app.Project, filter app.Filter, stats *app.ProjectStats) projectCardResponse {
	card := projectCardResponse{
		Project: newProjectResponse(p),
		Filter:  string(filter.Resolve()),
		Stats:   newStatsResponse(stats),
	}

	if filter.Resolve() == app.FilterAll {
		top, rest := stats.TopContributors(topContributorsCount)
		for _, c := range top {
			card.TopContributors = append(card.TopContributors, contributorResponse{
				Name:       c.Name,
				Commits:    c.Commits,
				Additions:  c.Additions,
				Deletions:  c.Deletions,
				Percentage: c.Percentage,
			})
		}
		card.OtherContributors = rest
	}

	return card
}

type dashboardResponse struct {
	State       string                  `json:"state"`
	Loading     bool                    `json:"loading"`
	Refreshing  bool                    `json:"refreshing"`
	LastUpdated *time.Time              `json:"last_updated"`
	GitUserName *string                 `json:"git_user_name"`
	Totals      totalsResponse          `json:"totals"`
	Activity    []activityPointResponse `json:"activity"`
	Projects    []projectCardResponse   `json:"projects"`
}

func newDashboardResponse(s app.Snapshot) dashboardResponse {
	r := dashboardResponse{
		State:      s.State.String(),
		Loading:    s.Loading(),
		Refreshing: s.Refreshing(),
		Activity:   make([]activityPointResponse, 0),
		Projects:   make([]projectCardResponse, 0, len(s.Projects)),
	}
	if !s.LastUpdated.IsZero() {
		updated := s.LastUpdated
		r.LastUpdated = &updated
	}
	if s.Config != nil && s.Config.GitUserName != "" {
		name := s.Config.GitUserName
		r.GitUserName = &name
	}

	totals := s.Totals()
	r.Totals = totalsResponse{
		Commits:   totals.Commits,
		Additions: totals.Additions,
		Deletions: totals.Deletions,
	}

	for _, a := range s.Activity() {
		r.Activity = append(r.Activity, activityPointResponse{
			Date:      a.Date,
			FullDate:  a.FullDate,
			Commits:   a.Commits,
			Additions: a.Additions,
			Deletions: a.Deletions,
		})
	}

	for _, p := range s.Projects {
		r.Projects = append(r.Projects, newProjectCardResponse(p, s.Filter(p.ID), s.Stats[p.ID]))
	}

	return r
}

type setFilterRequest struct {
	Filter string `json:"filter"`
}

type createProjectRequest struct {
	Name        string  `json:"name"`
	Path        string  `json:"path"`
	Description *string `json:"description"`
}

func (r createProjectRequest) ToDraft() app.ProjectDraft {
	d := app.ProjectDraft{
		Name: r.Name,
		Path: r.Path,
	}
	if r.Description != nil {
		d.Description = *r.Description
	}
	return d
}
