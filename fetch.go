package main

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

	"github.com/pkg/errors"
)

type fetchErrorKind string

const (
	errNonJSON   fetchErrorKind = "NON_JSON"
	errBadJSON   fetchErrorKind = "BAD_JSON"
	errHTTPError fetchErrorKind = "HTTP_ERROR"
)

const bodyPreviewLimit = 200

// fetchError is returned by backendClient for every classified failure.
type fetchError struct {
	Kind        fetchErrorKind
	Status      int
	BodyPreview string
	Data        map[string]interface{}
	Message     string
}

func (e *fetchError) Error() string {
	return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, e.Message)
}

// backendClient performs credentialed JSON requests against the metrics
// backend. The cookie header is the browser's, captured by the page session.
type backendClient struct {
	baseURL string
	http    *http.Client
	cookie  func() string
	metrics *metrics
}

func newBackendClient(baseURL string, timeout time.Duration, cookie func() string, m *metrics) *backendClient {
	return &backendClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		cookie:  cookie,
		metrics: m,
	}
}

func (c *backendClient) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	return c.do(req, path, out)
}

func (c *backendClient) postJSON(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "encode request body")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path, out)
}

func (c *backendClient) do(req *http.Request, endpoint string, out interface{}) error {
	req.Header.Set("Accept", "application/json")
	if c.cookie != nil {
		if v := c.cookie(); v != "" {
			req.Header.Set("Cookie", v)
		}
	}

	err := c.roundTrip(req, out)
	c.metrics.observeFetch(endpoint, err)
	return err
}

func (c *backendClient) roundTrip(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", req.Method, req.URL.Path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "read %s", req.URL.Path)
	}

	// An HTML body here is usually the login page after a redirect.
	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		return &fetchError{Kind: errNonJSON, Status: resp.StatusCode, BodyPreview: preview(body), Message: "Non-JSON response"}
	}
	if !json.Valid(body) {
		return &fetchError{Kind: errBadJSON, Status: resp.StatusCode, BodyPreview: preview(body), Message: "Bad JSON"}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fe := &fetchError{Kind: errHTTPError, Status: resp.StatusCode, Message: "HTTP error"}
		var data map[string]interface{}
		if json.Unmarshal(body, &data) == nil {
			fe.Data = data
			if msg, ok := data["message"].(string); ok && msg != "" {
				fe.Message = msg
			}
		}
		return fe
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &fetchError{Kind: errBadJSON, Status: resp.StatusCode, BodyPreview: preview(body), Message: err.Error()}
	}
	return nil
}

func preview(body []byte) string {
	s := string(body)
	if len(s) > bodyPreviewLimit {
		return s[:bodyPreviewLimit]
	}
	return s
}
