package backend

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m-zajac/gitpulse/internal/app"
	"github.com/m-zajac/gitpulse/internal/mock"
	"github.com/m-zajac/gitpulse/internal/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Config(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doer    *mock.HTTPDoer
		want    app.Config
		wantErr bool
	}{
		{
			name: "user name set",
			doer: &mock.HTTPDoer{
				Bodies: [][]byte{[]byte(`{"git_user_name": "Jane Doe"}`)},
			},
			want: app.Config{GitUserName: "Jane Doe"},
		},
		{
			name: "user name null",
			doer: &mock.HTTPDoer{
				Bodies: [][]byte{[]byte(`{"git_user_name": null}`)},
			},
			want: app.Config{},
		},
		{
			name: "status not ok",
			doer: &mock.HTTPDoer{
				Statuses: []int{http.StatusInternalServerError},
			},
			wantErr: true,
		},
		{
			name: "invalid body",
			doer: &mock.HTTPDoer{
				Bodies: [][]byte{[]byte(`{"git_user_name":`)},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.doer, "http://fake/")
			got, err := c.Config(context.Background())
			require.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, tt.want, got)

			reqs := tt.doer.Requests()
			require.Len(t, reqs, 1)
			assert.Equal(t, http.MethodGet, reqs[0].Method)
			assert.Equal(t, "http://fake/api/config", reqs[0].URL.String())
			checkAPIHeaders(t, reqs[0])
		})
	}
}

func TestClient_Projects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doer    *mock.HTTPDoer
		want    []app.Project
		wantErr bool
	}{
		{
			name: "status ok, body ok",
			doer: &mock.HTTPDoer{
				Bodies: [][]byte{[]byte(`[
					{
						"id": 1,
						"name": "gitpulse",
						"path": "/home/me/gitpulse",
						"description": "dashboard",
						"created_at": "2024-05-01T10:20:30.123456"
					},
					{
						"id": 2,
						"name": "notes",
						"path": "/home/me/notes",
						"description": null,
						"created_at": "2024-05-02T08:00:00Z"
					}
				]`)},
			},
			want: []app.Project{
				{
					ID:          1,
					Name:        "gitpulse",
					Path:        "/home/me/gitpulse",
					Description: "dashboard",
					CreatedAt:   time.Date(2024, 5, 1, 10, 20, 30, 123456000, time.UTC),
				},
				{
					ID:        2,
					Name:      "notes",
					Path:      "/home/me/notes",
					CreatedAt: time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC),
				},
			},
		},
		{
			name: "empty list",
			doer: &mock.HTTPDoer{
				Bodies: [][]byte{[]byte(`[]`)},
			},
			want: []app.Project{},
		},
		{
			name: "status not ok",
			doer: &mock.HTTPDoer{
				Statuses: []int{http.StatusBadGateway},
			},
			wantErr: true,
		},
		{
			name: "status ok, body unexpectedly large",
			doer: &mock.HTTPDoer{
				Bodies: [][]byte{bytes.Repeat([]byte{'x'}, 1024*1024*5+1)},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.doer, "http://fake")
			got, err := c.Projects(context.Background())
			require.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, tt.want, got)

			reqs := tt.doer.Requests()
			require.Len(t, reqs, 1)
			assert.Equal(t, "http://fake/api/projects", reqs[0].URL.String())
			checkAPIHeaders(t, reqs[0])
		})
	}
}

func TestClient_CreateProject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		doer        *mock.HTTPDoer
		draft       app.ProjectDraft
		wantPayload string
		want        app.Project
		wantErr     bool
		wantDetail  string
	}{
		{
			name: "created",
			doer: &mock.HTTPDoer{
				Statuses: []int{http.StatusCreated},
				Bodies: [][]byte{[]byte(`{
					"id": 7,
					"name": "gitpulse",
					"path": "/src/gitpulse",
					"description": "dashboard",
					"created_at": "2024-05-01 10:00:00"
				}`)},
			},
			draft:       app.ProjectDraft{Name: "gitpulse", Path: "/src/gitpulse", Description: "dashboard"},
			wantPayload: `{"name":"gitpulse","path":"/src/gitpulse","description":"dashboard"}`,
			want: app.Project{
				ID:          7,
				Name:        "gitpulse",
				Path:        "/src/gitpulse",
				Description: "dashboard",
				CreatedAt:   time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			},
		},
		{
			name: "empty description sent as null",
			doer: &mock.HTTPDoer{
				Statuses: []int{http.StatusCreated},
				Bodies:   [][]byte{[]byte(`{"id": 8, "name": "n", "path": "/p", "description": null, "created_at": "bogus"}`)},
			},
			draft:       app.ProjectDraft{Name: "n", Path: "/p"},
			wantPayload: `{"name":"n","path":"/p","description":null}`,
			want:        app.Project{ID: 8, Name: "n", Path: "/p"},
		},
		{
			name: "not a git repository",
			doer: &mock.HTTPDoer{
				Statuses: []int{http.StatusBadRequest},
				Bodies:   [][]byte{[]byte(`{"detail": "Not a git repository: /tmp"}`)},
			},
			draft:       app.ProjectDraft{Name: "tmp", Path: "/tmp"},
			wantPayload: `{"name":"tmp","path":"/tmp","description":null}`,
			wantErr:     true,
			wantDetail:  "Not a git repository: /tmp",
		},
		{
			name: "validation error list",
			doer: &mock.HTTPDoer{
				Statuses: []int{http.StatusUnprocessableEntity},
				Bodies:   [][]byte{[]byte(`{"detail": [{"loc": ["body", "name"], "msg": "too long"}]}`)},
			},
			draft:       app.ProjectDraft{Name: "n", Path: "/p"},
			wantPayload: `{"name":"n","path":"/p","description":null}`,
			wantErr:     true,
			wantDetail:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.doer, "http://fake")
			got, err := c.CreateProject(context.Background(), tt.draft)
			require.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				var re *app.RemoteError
				require.True(t, errors.As(err, &re))
				assert.Equal(t, tt.doer.Statuses[0], re.StatusCode)
				assert.Equal(t, tt.wantDetail, re.Detail())
			}

			reqs := tt.doer.Requests()
			require.Len(t, reqs, 1)
			assert.Equal(t, http.MethodPost, reqs[0].Method)
			assert.Equal(t, "http://fake/api/projects", reqs[0].URL.String())
			assert.Equal(t, "application/json", reqs[0].Header.Get("Content-Type"))
			assert.JSONEq(t, tt.wantPayload, string(tt.doer.Payload(0)))
			checkAPIHeaders(t, reqs[0])
		})
	}
}

func TestClient_DeleteProject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		doer         *mock.HTTPDoer
		id           int
		wantErr      bool
		wantNotFound bool
	}{
		{
			name:    "invalid id",
			id:      0,
			wantErr: true,
		},
		{
			name: "deleted",
			doer: &mock.HTTPDoer{
				Statuses: []int{http.StatusNoContent},
			},
			id: 3,
		},
		{
			name: "not found",
			doer: &mock.HTTPDoer{
				Statuses: []int{http.StatusNotFound},
				Bodies:   [][]byte{[]byte(`{"detail": "Project not found"}`)},
			},
			id:           3,
			wantErr:      true,
			wantNotFound: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.doer, "http://fake")
			err := c.DeleteProject(context.Background(), tt.id)
			require.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, tt.wantNotFound, app.IsNotFoundError(err))

			if tt.doer == nil {
				return
			}

			reqs := tt.doer.Requests()
			require.Len(t, reqs, 1)
			assert.Equal(t, http.MethodDelete, reqs[0].Method)
			assert.Equal(t, "http://fake/api/projects/3", reqs[0].URL.String())
			checkAPIHeaders(t, reqs[0])
		})
	}
}

func TestClient_ProjectStats(t *testing.T) {
	t.Parallel()

	validStatsJSON := []byte(`{
		"project_id": 3,
		"period_days": 7,
		"filter_mode": "all",
		"total_commits": 5,
		"additions": 120,
		"deletions": 30,
		"daily_stats": [
			{"date": "2024-04-30", "commits": 0, "additions": 0, "deletions": 0},
			{"date": "2024-05-01", "commits": 5, "additions": 120, "deletions": 30}
		],
		"contributors": [
			{"name": "Jane", "commits": 4, "additions": 100, "deletions": 20, "percentage": 80.0},
			{"name": "John", "commits": 1, "additions": 20, "deletions": 10, "percentage": 20.0}
		]
	}`)

	tests := []struct {
		name       string
		doer       *mock.HTTPDoer
		id         int
		filter     app.Filter
		wantFilter string
		want       *app.ProjectStats
		wantErr    bool
	}{
		{
			name:    "invalid filter",
			id:      3,
			filter:  app.Filter("team"),
			wantErr: true,
		},
		{
			name:    "invalid id",
			id:      -1,
			filter:  app.FilterAll,
			wantErr: true,
		},
		{
			name: "status ok, body ok",
			doer: &mock.HTTPDoer{
				Bodies: [][]byte{validStatsJSON},
			},
			id:         3,
			filter:     app.FilterAll,
			wantFilter: "all",
			want: &app.ProjectStats{
				ProjectID:    3,
				PeriodDays:   7,
				Filter:       app.FilterAll,
				TotalCommits: 5,
				Additions:    120,
				Deletions:    30,
				DailyStats: []app.DailyStats{
					{Date: "2024-04-30"},
					{Date: "2024-05-01", Commits: 5, Additions: 120, Deletions: 30},
				},
				Contributors: []app.Contributor{
					{Name: "Jane", Commits: 4, Additions: 100, Deletions: 20, Percentage: 80},
					{Name: "John", Commits: 1, Additions: 20, Deletions: 10, Percentage: 20},
				},
			},
		},
		{
			name: "empty filter requests all",
			doer: &mock.HTTPDoer{
				Bodies: [][]byte{[]byte(`{"project_id": 3, "period_days": 7, "filter_mode": "all", "daily_stats": [], "contributors": []}`)},
			},
			id:         3,
			filter:     "",
			wantFilter: "all",
			want: &app.ProjectStats{
				ProjectID:  3,
				PeriodDays: 7,
				Filter:     app.FilterAll,
			},
		},
		{
			name: "not a git repository anymore",
			doer: &mock.HTTPDoer{
				Statuses: []int{http.StatusBadRequest},
				Bodies:   [][]byte{[]byte(`{"detail": "Invalid repository"}`)},
			},
			id:         3,
			filter:     app.FilterMe,
			wantFilter: "me",
			wantErr:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.doer, "http://fake")
			got, err := c.ProjectStats(context.Background(), tt.id, tt.filter)
			require.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, tt.want, got)

			if tt.doer == nil {
				return
			}

			reqs := tt.doer.Requests()
			require.Len(t, reqs, 1)
			assert.Equal(t, "/api/projects/3/stats", reqs[0].URL.Path)
			assert.Equal(t, tt.wantFilter, reqs[0].URL.Query().Get("filter"))
			checkAPIHeaders(t, reqs[0])
		})
	}
}

func TestClient_PropagatesRequestID(t *testing.T) {
	doer := &mock.HTTPDoer{
		Bodies: [][]byte{[]byte(`{"git_user_name": null}`)},
	}
	c := NewClient(doer, "http://fake")

	ctx := requestid.NewContext(context.Background(), "req-1")
	_, err := c.Config(ctx)
	require.NoError(t, err)

	reqs := doer.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "req-1", reqs[0].Header.Get(requestid.Header))
}

func TestClient_TransportError(t *testing.T) {
	doer := &mock.HTTPDoer{
		DoFunc: func(r *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		},
	}
	c := NewClient(doer, "http://fake")

	_, err := c.Projects(context.Background())
	require.Error(t, err)
	assert.False(t, app.IsNotFoundError(err))
	assert.Equal(t, "fallback", app.ErrorDetail(err, "fallback"))
}

func TestParseErrorDetail(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{body: ``, want: ""},
		{body: `not json`, want: ""},
		{body: `{}`, want: ""},
		{body: `{"detail": null}`, want: ""},
		{body: `{"detail": 42}`, want: ""},
		{body: `{"detail": ["a"]}`, want: ""},
		{body: `{"detail": "Project not found"}`, want: "Project not found"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseErrorDetail([]byte(tt.body)), "body: %s", tt.body)
	}
}

func checkAPIHeaders(t *testing.T, req *http.Request) {
	t.Helper()

	assert.Equal(t, "application/json", req.Header.Get("Accept"))
	_, err := uuid.Parse(req.Header.Get(requestid.Header))
	assert.NoError(t, err, "request id should be uuid")
}
