package backend

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/m-zajac/gitpulse/internal/app"
)

// Layouts of created_at timestamps. Backend sends naive timestamps (no zone) in UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

type configResponse struct {
	GitUserName *string `json:"git_user_name"`
}

func (r configResponse) ToConfig() app.Config {
	var c app.Config
	if r.GitUserName != nil {
		c.GitUserName = *r.GitUserName
	}
	return c
}

type projectResponse struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Path        string  `json:"path"`
	Description *string `json:"description"`
	CreatedAt   string  `json:"created_at"`
}

func (r projectResponse) ToProject() app.Project {
	p := app.Project{
		ID:        r.ID,
		Name:      r.Name,
		Path:      r.Path,
		CreatedAt: parseTime(r.CreatedAt),
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	return p
}

type createProjectRequest struct {
	Name        string  `json:"name"`
	Path        string  `json:"path"`
	Description *string `json:"description"`
}

// newCreateProjectRequest converts draft, empty description is sent as null.
func newCreateProjectRequest(d app.ProjectDraft) createProjectRequest {
	r := createProjectRequest{
		Name: d.Name,
		Path: d.Path,
	}
	if d.Description != "" {
		desc := d.Description
		r.Description = &desc
	}
	return r
}

type statsResponse struct {
	ProjectID    int    `json:"project_id"`
	PeriodDays   int    `json:"period_days"`
	FilterMode   string `json:"filter_mode"`
	TotalCommits int    `json:"total_commits"`
	Additions    int    `json:"additions"`
	Deletions    int    `json:"deletions"`
	DailyStats   []struct {
		Date      string `json:"date"`
		Commits   int    `json:"commits"`
		Additions int    `json:"additions"`
		Deletions int    `json:"deletions"`
	} `json:"daily_stats"`
	Contributors []struct {
		Name       string  `json:"name"`
		Commits    int     `json:"commits"`
		Additions  int     `json:"additions"`
		Deletions  int     `json:"deletions"`
		Percentage float64 `json:"percentage"`
	} `json:"contributors"`
}

func (r statsResponse) ToStats() *app.ProjectStats {
	s := app.ProjectStats{
		ProjectID:    r.ProjectID,
		PeriodDays:   r.PeriodDays,
		Filter:       app.Filter(r.FilterMode).Resolve(),
		TotalCommits: r.TotalCommits,
		Additions:    r.Additions,
		Deletions:    r.Deletions,
	}
	if len(r.DailyStats) > 0 {
		s.DailyStats = make([]app.DailyStats, 0, len(r.DailyStats))
		for _, d := range r.DailyStats {
			s.DailyStats = append(s.DailyStats, app.DailyStats{
				Date:      d.Date,
				Commits:   d.Commits,
				Additions: d.Additions,
				Deletions: d.Deletions,
			})
		}
	}
	if len(r.Contributors) > 0 {
		s.Contributors = make([]app.Contributor, 0, len(r.Contributors))
		for _, c := range r.Contributors {
			s.Contributors = append(s.Contributors, app.Contributor{
				Name:       c.Name,
				Commits:    c.Commits,
				Additions:  c.Additions,
				Deletions:  c.Deletions,
				Percentage: c.Percentage,
			})
		}
	}

	return &s
}

type errorResponse struct {
	Detail jsoniter.RawMessage `json:"detail"`
}

// parseErrorDetail returns detail message from error response body.
// Details that aren't strings (validation error lists) are ignored.
func parseErrorDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Detail) == 0 {
		return ""
	}

	var detail string
	if err := json.Unmarshal(resp.Detail, &detail); err != nil {
		return ""
	}
	return detail
}

// parseTime returns zero time for empty or unknown timestamps.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
