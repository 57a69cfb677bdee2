package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/m-zajac/gitpulse/internal/app"
	"github.com/sirupsen/logrus"
)

// Max size of request bodies accepted by handlers.
const maxRequestBodySize = 64 * 1024

// NewDashboardHandler creates handlerfunc returning current dashboard state.
func NewDashboardHandler(dashboard Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, newDashboardResponse(dashboard.Snapshot()))
	}
}

// NewRefreshHandler creates handlerfunc reloading all dashboard data.
// Responds with 409 if a load is already in progress.
func NewRefreshHandler(dashboard Dashboard, l logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		started, err := dashboard.Refresh(r.Context())
		if err != nil {
			writeAppError(w, l, err, "failed to refresh dashboard")
			return
		}
		if !started {
			writeError(w, http.StatusConflict, "refresh already in progress")
			return
		}

		writeJSON(w, http.StatusOK, newDashboardResponse(dashboard.Snapshot()))
	}
}

// NewSetFilterHandler creates handlerfunc changing filter of a project.
// Responds with the project card with stats reloaded under the new filter.
func NewSetFilterHandler(
	getProjectID func(*http.Request) string,
	dashboard Dashboard,
	l logrus.FieldLogger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseProjectID(w, getProjectID(r))
		if !ok {
			return
		}

		var req setFilterRequest
		if !decodeBody(w, r, &req) {
			return
		}
		filter, err := app.ParseFilter(req.Filter)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		stats, err := dashboard.SetFilter(r.Context(), id, filter)
		if err != nil {
			writeAppError(w, l, err, "failed to load project stats")
			return
		}

		p, _ := dashboard.Snapshot().Project(id)
		writeJSON(w, http.StatusOK, newProjectCardResponse(p, filter, stats))
	}
}

// NewCreateProjectHandler creates handlerfunc registering new project.
func NewCreateProjectHandler(dashboard Dashboard, l logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createProjectRequest
		if !decodeBody(w, r, &req) {
			return
		}

		p, err := dashboard.CreateProject(r.Context(), req.ToDraft())
		if err != nil {
			writeAppError(w, l, err, "failed to add project")
			return
		}

		writeJSON(w, http.StatusCreated, newProjectResponse(p))
	}
}

// NewDeleteProjectHandler creates handlerfunc removing a project.
// Removal has to be confirmed with "confirm=true" query param, otherwise responds with 428.
func NewDeleteProjectHandler(
	getProjectID func(*http.Request) string,
	dashboard Dashboard,
	l logrus.FieldLogger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseProjectID(w, getProjectID(r))
		if !ok {
			return
		}

		confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
		confirmer := app.ConfirmerFunc(func(context.Context, app.Project) (bool, error) {
			return confirmed, nil
		})

		deleted, err := dashboard.DeleteProject(r.Context(), id, confirmer)
		if err != nil {
			writeAppError(w, l, err, "failed to remove project")
			return
		}
		if !deleted {
			writeError(w, http.StatusPreconditionRequired, "removal must be confirmed with confirm=true")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// NewHealthHandler creates handlerfunc for liveness checks.
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok")
	}
}

// writeAppError maps err to response status.
// Backend rejections are passed with their status class and detail message.
func writeAppError(w http.ResponseWriter, l logrus.FieldLogger, err error, fallback string) {
	var re *app.RemoteError
	switch {
	case app.IsInvalidRequestError(err):
		writeError(w, http.StatusBadRequest, app.ErrorDetail(err, fallback))
	case errors.Is(err, app.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, "dashboard is shutting down")
	case errors.Is(err, context.DeadlineExceeded):
		l.Warnf("%s: %v", fallback, err)
		writeError(w, http.StatusGatewayTimeout, fallback)
	case errors.As(err, &re) && re.StatusCode == http.StatusNotFound:
		writeError(w, http.StatusNotFound, app.ErrorDetail(err, fallback))
	case errors.As(err, &re) && re.StatusCode/100 == 4:
		writeError(w, http.StatusBadRequest, app.ErrorDetail(err, fallback))
	default:
		l.Errorf("%s: %v", fallback, err)
		writeError(w, http.StatusBadGateway, app.ErrorDetail(err, fallback))
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, response interface{}) {
	w.Header().Set("Content-type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = jsoniter.ConfigFastest.NewEncoder(w).Encode(response)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := jsoniter.ConfigFastest.NewDecoder(io.LimitReader(r.Body, maxRequestBodySize)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func parseProjectID(w http.ResponseWriter, s string) (int, bool) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return 0, false
	}
	return id, true
}
