package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"inkwell-cli/internal/model"
)

// DefaultTimeout bounds every studio request unless the caller's context
// expires first.
const DefaultTimeout = 30 * time.Second

// Client talks to the studio backend over its REST surface. A non-2xx
// response decodes into *Error; transport failures pass through wrapped.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return NewWithTimeout(baseURL, DefaultTimeout)
}

func NewWithTimeout(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Detail: errorDetail(data)}
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
	}
	return nil
}

func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	if err := c.do(ctx, http.MethodGet, "/api/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) GetProject(ctx context.Context, id string) (*model.ProjectDetail, error) {
	var detail model.ProjectDetail
	if err := c.do(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(id), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *Client) ListChapters(ctx context.Context, projectID string) ([]model.Chapter, error) {
	var chapters []model.Chapter
	path := "/api/projects/" + url.PathEscape(projectID) + "/chapters"
	if err := c.do(ctx, http.MethodGet, path, nil, &chapters); err != nil {
		return nil, err
	}
	return chapters, nil
}

func (c *Client) ListStoryTemplates(ctx context.Context) ([]model.StoryTemplate, error) {
	var wrapper struct {
		Templates []model.StoryTemplate `json:"templates"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/story-templates", nil, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Templates, nil
}

func (c *Client) CreateProject(ctx context.Context, in model.CreateProjectInput) (*model.ProjectCreated, error) {
	var created model.ProjectCreated
	if err := c.do(ctx, http.MethodPost, "/api/projects", in, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteProject removes one project. A 404 means the project was already
// gone and reports as a missing outcome, not an error. Some deployments
// strip DELETE; those answer 405 and the POST action form is tried instead.
func (c *Client) DeleteProject(ctx context.Context, id string) (model.DeleteOutcome, error) {
	path := "/api/projects/" + url.PathEscape(id)
	out, err := c.deleteProjectVia(ctx, http.MethodDelete, path, id)
	if err != nil && IsMethodNotAllowed(err) {
		out, err = c.deleteProjectVia(ctx, http.MethodPost, path+"/delete", id)
	}
	return out, err
}

func (c *Client) deleteProjectVia(ctx context.Context, method, path, id string) (model.DeleteOutcome, error) {
	var out model.DeleteOutcome
	err := c.do(ctx, method, path, nil, &out)
	switch {
	case err == nil:
		if out.ProjectID == "" {
			out.ProjectID = id
		}
		if out.Status == "" {
			out.Status = "deleted"
		}
		return out, nil
	case IsNotFound(err):
		return model.DeleteOutcome{ProjectID: id, Status: "missing"}, nil
	default:
		return model.DeleteOutcome{ProjectID: id, Status: "failed"}, err
	}
}

type batchDeleteRequest struct {
	ProjectIDs []string `json:"project_ids"`
}

// BatchDeleteProjects removes several projects in one call. The DELETE
// form carries a request body, which some proxies refuse, so any failure
// retries once through the POST compatibility endpoint. An error means
// neither form went through and nothing can be assumed deleted.
func (c *Client) BatchDeleteProjects(ctx context.Context, ids []string) (*model.BatchDeleteResult, error) {
	in := batchDeleteRequest{ProjectIDs: ids}
	var res model.BatchDeleteResult
	if err := c.do(ctx, http.MethodDelete, "/api/projects", in, &res); err == nil {
		return &res, nil
	}
	res = model.BatchDeleteResult{}
	if err := c.do(ctx, http.MethodPost, "/api/projects/batch-delete", in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) GetMetrics(ctx context.Context, projectID string) (*model.Metrics, error) {
	path := "/api/metrics"
	if projectID != "" {
		path += "?project_id=" + url.QueryEscape(projectID)
	}
	var m model.Metrics
	if err := c.do(ctx, http.MethodGet, path, nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) Health(ctx context.Context) (*model.Health, error) {
	var h model.Health
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}
