// Package client is a Go client for the tokenomics-planner HTTP API.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/iwvelando/tokenomics-planner/internal/config"
	"github.com/iwvelando/tokenomics-planner/internal/planner"
)

// Plan is a computed plan as returned by the server.
type Plan struct {
	planner.Snapshot
	Warnings       []string `json:"warnings"`
	ConfigWarnings []string `json:"configWarnings,omitempty"`
	CSV            string   `json:"csv"`
	Duration       string   `json:"duration"`
	RequestID      string   `json:"requestId,omitempty"`
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status code: %d: %s", e.StatusCode, e.Message)
}

// Client talks to one planner server.
type Client struct {
	http *resty.Client
}

// New returns a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return NewWithClient(baseURL, &http.Client{Transport: &http.Transport{
		Proxy: http.ProxyFromEnvironment,
	}})
}

// NewWithClient returns a client that sends requests through hc.
func NewWithClient(baseURL string, hc *http.Client) *Client {
	r := resty.NewWithClient(hc).
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json")
	return &Client{http: r}
}

// Defaults fetches the default plan.
func (c *Client) Defaults(ctx context.Context) (*Plan, error) {
	var plan Plan
	req := c.http.R().SetContext(ctx).SetResult(&plan)
	if err := c.do(req, http.MethodGet, "/api/defaults"); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Simulate computes the plan described by doc.
func (c *Client) Simulate(ctx context.Context, doc config.Document) (*Plan, error) {
	var plan Plan
	req := c.http.R().SetContext(ctx).SetBody(doc).SetResult(&plan)
	if err := c.do(req, http.MethodPost, "/api/simulate"); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Edit applies edits to state in order and returns the resulting plan. A
// horizon of zero selects the server's default.
func (c *Client) Edit(ctx context.Context, state planner.State, edits []planner.Edit, horizonMonths int) (*Plan, error) {
	body := struct {
		State         planner.State  `json:"state"`
		Edits         []planner.Edit `json:"edits"`
		HorizonMonths int            `json:"horizonMonths,omitempty"`
	}{State: state, Edits: edits, HorizonMonths: horizonMonths}

	var plan Plan
	req := c.http.R().SetContext(ctx).SetBody(body).SetResult(&plan)
	if err := c.do(req, http.MethodPost, "/api/planner/edit"); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Export returns doc rendered as a YAML configuration file.
func (c *Client) Export(ctx context.Context, doc config.Document) (string, error) {
	var result struct {
		ConfigYAML string `json:"configYaml"`
	}
	req := c.http.R().SetContext(ctx).SetBody(doc).SetResult(&result)
	if err := c.do(req, http.MethodPost, "/api/export"); err != nil {
		return "", err
	}
	return result.ConfigYAML, nil
}

// Version returns the server version.
func (c *Client) Version(ctx context.Context) (string, error) {
	var result struct {
		Version string `json:"version"`
	}
	req := c.http.R().SetContext(ctx).SetResult(&result)
	if err := c.do(req, http.MethodGet, "/api/version"); err != nil {
		return "", err
	}
	return result.Version, nil
}

func (c *Client) do(req *resty.Request, method, path string) error {
	apiErr := &APIError{}
	resp, err := req.SetError(apiErr).Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		apiErr.StatusCode = resp.StatusCode()
		return apiErr
	}
	return nil
}
