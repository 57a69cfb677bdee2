package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/m-zajac/gitpulse/internal/api/http/mock"
	"github.com/m-zajac/gitpulse/internal/app"
	"github.com/m-zajac/gitpulse/internal/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMux(t *testing.T) {
	t.Parallel()

	serviceDelay := 5 * time.Millisecond

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		muxTimeout     time.Duration
		setupMock      func(*mock.MockDashboard)
		wantStatusCode int
	}{
		{
			name:           "health check",
			method:         http.MethodGet,
			path:           "/healthz",
			muxTimeout:     time.Second,
			wantStatusCode: http.StatusOK,
		},
		{
			name:       "dashboard",
			method:     http.MethodGet,
			path:       "/api/dashboard",
			muxTimeout: time.Second,
			setupMock: func(m *mock.MockDashboard) {
				m.EXPECT().Snapshot().Return(app.Snapshot{})
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:       "refresh",
			method:     http.MethodPost,
			path:       "/api/dashboard/refresh",
			muxTimeout: time.Second,
			setupMock: func(m *mock.MockDashboard) {
				m.EXPECT().Refresh(gomock.Any()).Return(true, nil)
				m.EXPECT().Snapshot().Return(app.Snapshot{})
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:       "refresh exceeding handler timeout",
			method:     http.MethodPost,
			path:       "/api/dashboard/refresh",
			muxTimeout: time.Millisecond,
			setupMock: func(m *mock.MockDashboard) {
				m.EXPECT().
					Refresh(gomock.Any()).
					DoAndReturn(func(ctx context.Context) (bool, error) {
						time.Sleep(serviceDelay)
						return true, ctx.Err()
					})
			},
			wantStatusCode: http.StatusGatewayTimeout,
		},
		{
			name:       "set filter",
			method:     http.MethodPut,
			path:       "/api/dashboard/projects/4/filter",
			body:       `{"filter": "all"}`,
			muxTimeout: time.Second,
			setupMock: func(m *mock.MockDashboard) {
				m.EXPECT().SetFilter(gomock.Any(), 4, app.FilterAll).Return(nil, nil)
				m.EXPECT().Snapshot().Return(app.Snapshot{})
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:       "create project",
			method:     http.MethodPost,
			path:       "/api/dashboard/projects",
			body:       `{"name": "n", "path": "/p"}`,
			muxTimeout: time.Second,
			setupMock: func(m *mock.MockDashboard) {
				m.EXPECT().
					CreateProject(gomock.Any(), app.ProjectDraft{Name: "n", Path: "/p"}).
					Return(app.Project{ID: 1, Name: "n", Path: "/p"}, nil)
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:       "delete project",
			method:     http.MethodDelete,
			path:       "/api/dashboard/projects/4?confirm=true",
			muxTimeout: time.Second,
			setupMock: func(m *mock.MockDashboard) {
				m.EXPECT().DeleteProject(gomock.Any(), 4, gomock.Any()).Return(true, nil)
			},
			wantStatusCode: http.StatusNoContent,
		},
		{
			name:           "invalid method",
			method:         http.MethodDelete,
			path:           "/api/dashboard",
			muxTimeout:     time.Second,
			wantStatusCode: http.StatusMethodNotAllowed,
		},
		{
			name:           "invalid path",
			method:         http.MethodGet,
			path:           "/invalid_path",
			muxTimeout:     time.Second,
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			dashboard := mock.NewMockDashboard(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(dashboard)
			}

			mux := NewMux(dashboard, tt.muxTimeout, testLogger())

			server := httptest.NewServer(mux)
			defer server.Close()

			req, err := http.NewRequest(tt.method, server.URL+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatusCode, resp.StatusCode)

			_, err = uuid.Parse(resp.Header.Get(requestid.Header))
			assert.NoError(t, err, "response should carry request id")
		})
	}
}
