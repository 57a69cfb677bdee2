package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/m-zajac/gitpulse/internal/app"
	"github.com/m-zajac/gitpulse/internal/requestid"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// HTTPDoer can execute http request.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to the gitpulse backend REST API.
// This struct is an adapter for app.BackendClient.
// Every call is a single request, there are no retries and nothing is cached.
type Client struct {
	doer    HTTPDoer
	address string

	responseMaxSize      int
	statsResponseMaxSize int
	errorResponseMaxSize int
}

var _ app.BackendClient = &Client{}

// NewClient creates new backend client.
// address is the backend base url, for example "http://127.0.0.1:8000".
func NewClient(doer HTTPDoer, address string) *Client {
	c := Client{
		doer:    doer,
		address: strings.TrimRight(address, "/"),

		responseMaxSize:      1024 * 1024 * 5,
		statsResponseMaxSize: 1024 * 1024 * 20,
		errorResponseMaxSize: 1024 * 64,
	}

	return &c
}

// Config returns backend configuration.
func (c *Client) Config(ctx context.Context) (app.Config, error) {
	var resp configResponse
	if err := c.getJSON(ctx, "/api/config", nil, c.responseMaxSize, &resp); err != nil {
		return app.Config{}, err
	}

	return resp.ToConfig(), nil
}

// Projects returns all registered projects.
func (c *Client) Projects(ctx context.Context) ([]app.Project, error) {
	var resp []projectResponse
	if err := c.getJSON(ctx, "/api/projects", nil, c.responseMaxSize, &resp); err != nil {
		return nil, err
	}

	ps := make([]app.Project, 0, len(resp))
	for _, p := range resp {
		ps = append(ps, p.ToProject())
	}

	return ps, nil
}

// CreateProject registers new project.
// Backend rejects paths that aren't git repositories with status 400.
func (c *Client) CreateProject(ctx context.Context, draft app.ProjectDraft) (app.Project, error) {
	payload, err := json.Marshal(newCreateProjectRequest(draft))
	if err != nil {
		return app.Project{}, fmt.Errorf("marshalling request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, c.address+"/api/projects", bytes.NewReader(payload))
	if err != nil {
		return app.Project{}, fmt.Errorf("creating http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	body, _, err := c.makeRequest(ctx, httpReq, c.responseMaxSize)
	if err != nil {
		return app.Project{}, fmt.Errorf("making http request: %w", err)
	}

	var resp projectResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return app.Project{}, fmt.Errorf("unmarshalling response: %w", err)
	}

	return resp.ToProject(), nil
}

// DeleteProject removes project.
func (c *Client) DeleteProject(ctx context.Context, id int) error {
	if id < 1 {
		return app.InvalidRequestError("project id must be positive")
	}

	httpReq, err := http.NewRequest(http.MethodDelete, c.address+"/api/projects/"+strconv.Itoa(id), nil)
	if err != nil {
		return fmt.Errorf("creating http request: %w", err)
	}

	if _, _, err := c.makeRequest(ctx, httpReq, c.errorResponseMaxSize); err != nil {
		return fmt.Errorf("making http request: %w", err)
	}

	return nil
}

// ProjectStats returns activity of the project from the last days, counting commits matching filter.
func (c *Client) ProjectStats(ctx context.Context, id int, filter app.Filter) (*app.ProjectStats, error) {
	if id < 1 {
		return nil, app.InvalidRequestError("project id must be positive")
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	v := make(url.Values)
	v.Set("filter", string(filter.Resolve()))

	var resp statsResponse
	path := fmt.Sprintf("/api/projects/%d/stats", id)
	if err := c.getJSON(ctx, path, v, c.statsResponseMaxSize, &resp); err != nil {
		return nil, err
	}

	return resp.ToStats(), nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, maxBytes int, dst interface{}) error {
	u, err := url.Parse(c.address + path)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	httpReq, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("creating http request: %w", err)
	}

	body, _, err := c.makeRequest(ctx, httpReq, maxBytes)
	if err != nil {
		return fmt.Errorf("making http request: %w", err)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("unmarshalling response: %w", err)
	}

	return nil
}

// makeRequest executes req and returns its body.
// Responses with status other than 2xx are returned as *app.RemoteError.
func (c *Client) makeRequest(ctx context.Context, req *http.Request, maxBytes int) ([]byte, int, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestid.Header, requestid.FromContextOrNew(ctx))

	resp, err := c.doer.Do(req.WithContext(ctx))
	if err != nil {
		return nil, 0, fmt.Errorf("doing http request: %w", err)
	}
	// Always drain body before close to allow connection reuse.
	defer func() {
		_, _ = io.CopyN(io.Discard, resp.Body, 1024)
		resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, int64(c.errorResponseMaxSize)))
		return nil, resp.StatusCode, &app.RemoteError{
			StatusCode: resp.StatusCode,
			Message:    parseErrorDetail(b),
		}
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, resp.StatusCode, nil
	}

	// Reading one byte over the limit tells truncated bodies apart from ones of exactly maxBytes.
	b, err := io.ReadAll(io.LimitReader(resp.Body, int64(maxBytes)+1))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading http response body: %w", err)
	}
	if len(b) > maxBytes {
		return nil, resp.StatusCode, fmt.Errorf("response body exceeds %d bytes", maxBytes)
	}

	return b, resp.StatusCode, nil
}
