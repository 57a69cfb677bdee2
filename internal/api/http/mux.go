package http

import (
	"context"
	"net/http"
	"time"

	"github.com/m-zajac/gitpulse/internal/app"
	"github.com/sirupsen/logrus"
)

// Dashboard gives access to dashboard state and user actions.
//go:generate mockgen -destination mock/dashboard.go -package mock github.com/m-zajac/gitpulse/internal/api/http Dashboard
type Dashboard interface {
	Snapshot() app.Snapshot
	Refresh(ctx context.Context) (bool, error)
	SetFilter(ctx context.Context, projectID int, filter app.Filter) (*app.ProjectStats, error)
	CreateProject(ctx context.Context, draft app.ProjectDraft) (app.Project, error)
	DeleteProject(ctx context.Context, projectID int, confirmer app.Confirmer) (bool, error)
}

var _ Dashboard = &app.Dashboard{}

// NewMux creates router for dashboard's http server
func NewMux(dashboard Dashboard, timeout time.Duration, l logrus.FieldLogger) http.Handler {
	timeoutMiddleware := NewTimeoutMiddleware(timeout)
	projectID := func(r *http.Request) string {
		return r.PathValue("id")
	}

	m := http.NewServeMux()
	m.HandleFunc("GET /healthz", NewHealthHandler())
	m.HandleFunc("GET /api/dashboard", timeoutMiddleware(NewDashboardHandler(dashboard)))
	m.HandleFunc("POST /api/dashboard/refresh", timeoutMiddleware(NewRefreshHandler(dashboard, l)))
	m.HandleFunc("POST /api/dashboard/projects", timeoutMiddleware(NewCreateProjectHandler(dashboard, l)))
	m.HandleFunc("PUT /api/dashboard/projects/{id}/filter", timeoutMiddleware(NewSetFilterHandler(projectID, dashboard, l)))
	m.HandleFunc("DELETE /api/dashboard/projects/{id}", timeoutMiddleware(NewDeleteProjectHandler(projectID, dashboard, l)))

	return NewRequestLogMiddleware(l)(m)
}
