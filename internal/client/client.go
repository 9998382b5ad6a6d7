// Package client is an HTTP client for the roster API.
//
// Every call returns the decoded JSON payload together with the HTTP
// status code. Roster outcomes such as "not found" arrive as payload
// fields with status 200, so callers inspect Payload.HasError and
// Payload.HasMessage rather than relying on the status alone.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jtacoma/uritemplates"
	"github.com/mitchellh/mapstructure"
)

// DefaultURL is where the API listens out of the box.
const DefaultURL = "http://127.0.0.1:8000"

// DefaultTimeout bounds a single request, connection and body included.
const DefaultTimeout = 10 * time.Second

// URI templates, resolved against the base URL.
const (
	rootPath     = "/"
	studentsPath = "/students"
	studentPath  = "/students/{id}"
	searchPath   = "/search{?name}"
	checkPath    = "/check/{id}"
)

// Payload is a decoded JSON object as returned by the API.
type Payload map[string]any

// HasError reports whether the payload carries an "error" key.
func (p Payload) HasError() bool {
	_, ok := p["error"]
	return ok
}

// HasMessage reports whether the payload carries a "message" key.
func (p Payload) HasMessage() bool {
	_, ok := p["message"]
	return ok
}

// Result is one API response.
type Result struct {
	StatusCode int
	Payload    Payload
}

// OK reports a 200 response.
func (r *Result) OK() bool {
	return r.StatusCode == http.StatusOK
}

// Decode copies the payload into out, a pointer to a struct with
// mapstructure tags (Created, Updated, Deleted).
func (r *Result) Decode(out any) error {
	return mapstructure.Decode(map[string]any(r.Payload), out)
}

// Created is the payload of a successful create.
type Created struct {
	ID   string `mapstructure:"id"`
	Name string `mapstructure:"name"`
}

// Updated is the payload of a successful update.
type Updated struct {
	ID          string `mapstructure:"id"`
	UpdatedName string `mapstructure:"updated_name"`
}

// Deleted is the payload of a successful delete.
type Deleted struct {
	DeletedID   string `mapstructure:"deleted_id"`
	DeletedName string `mapstructure:"deleted_name"`
}

// Client talks to one API instance.
type Client struct {
	base *url.URL
	http *http.Client
}

// New returns a client for the API at baseURL. A nil hc gets a client
// with DefaultTimeout.
func New(baseURL string, hc *http.Client) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("client: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("client: base url %q must be absolute", baseURL)
	}
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{base: base, http: hc}, nil
}

// expand fills a URI template and resolves it against the base URL.
func (c *Client) expand(template string, vars map[string]any) (*url.URL, error) {
	tmpl, err := uritemplates.Parse(template)
	if err != nil {
		return nil, err
	}
	expanded, err := tmpl.Expand(vars)
	if err != nil {
		return nil, err
	}
	return c.base.Parse(expanded)
}

// do performs one request. If in is non-nil it is sent as the JSON body.
func (c *Client) do(ctx context.Context, method, template string, vars map[string]any, in any) (*Result, error) {
	u, err := c.expand(template, vars)
	if err != nil {
		return nil, fmt.Errorf("client: build url: %w", err)
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("client: encode body: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	result := &Result{StatusCode: resp.StatusCode, Payload: Payload{}}
	err = json.NewDecoder(resp.Body).Decode(&result.Payload)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("client: %s %s: decode response (status %d): %w",
			method, u.Path, resp.StatusCode, err)
	}
	return result, nil
}

// Welcome calls GET /.
func (c *Client) Welcome(ctx context.Context) (*Result, error) {
	return c.do(ctx, http.MethodGet, rootPath, nil, nil)
}

// List calls GET /students.
func (c *Client) List(ctx context.Context) (*Result, error) {
	return c.do(ctx, http.MethodGet, studentsPath, nil, nil)
}

// Add calls POST /students.
func (c *Client) Add(ctx context.Context, name string) (*Result, error) {
	return c.do(ctx, http.MethodPost, studentsPath, nil, map[string]string{"name": name})
}

// Update calls PUT /students/{id}.
func (c *Client) Update(ctx context.Context, id, name string) (*Result, error) {
	return c.do(ctx, http.MethodPut, studentPath, map[string]any{"id": id},
		map[string]string{"name": name})
}

// Delete calls DELETE /students/{id}.
func (c *Client) Delete(ctx context.Context, id string) (*Result, error) {
	return c.do(ctx, http.MethodDelete, studentPath, map[string]any{"id": id}, nil)
}

// Search calls GET /search?name=.
func (c *Client) Search(ctx context.Context, name string) (*Result, error) {
	return c.do(ctx, http.MethodGet, searchPath, map[string]any{"name": name}, nil)
}

// Check calls GET /check/{id}.
func (c *Client) Check(ctx context.Context, id string) (*Result, error) {
	return c.do(ctx, http.MethodGet, checkPath, map[string]any{"id": id}, nil)
}
