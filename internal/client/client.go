// Package client is the terminal client's HTTP wrapper around the student
// REST resource. Every failure comes back as a *TransportError; callers never
// inspect raw response bodies.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aanand-mishra/students-roster/internal/types"
)

// Client talks to the student resource rooted at baseURL. There are no
// retries and no caching: every call is one HTTP request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a client for baseURL, e.g. "http://localhost:8082/api".
func New(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// List returns every student. A 204 No Content is an empty list.
func (c *Client) List(ctx context.Context) ([]types.Student, error) {
	var students []types.Student
	if err := c.do(ctx, http.MethodGet, "/students", nil, &students); err != nil {
		return nil, err
	}
	if students == nil {
		students = []types.Student{}
	}
	return students, nil
}

// Create stores a new student and returns it with its server-assigned ID.
func (c *Client) Create(ctx context.Context, draft types.StudentDraft) (types.Student, error) {
	var created types.Student
	if err := c.do(ctx, http.MethodPost, "/students", draft, &created); err != nil {
		return types.Student{}, err
	}
	return created, nil
}

// Update replaces the fields of the student with the given ID.
func (c *Client) Update(ctx context.Context, id int64, draft types.StudentDraft) (types.Student, error) {
	var updated types.Student
	if err := c.do(ctx, http.MethodPut, studentPath(id), draft, &updated); err != nil {
		return types.Student{}, err
	}
	return updated, nil
}

// Delete removes the student with the given ID.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, studentPath(id), nil, nil)
}

func studentPath(id int64) string {
	return "/students/" + strconv.FormatInt(id, 10)
}

// do executes one request. body, when non-nil, is sent as JSON; a 2xx
// response body is decoded into out when out is non-nil and the body is
// not empty.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	requestID := uuid.NewString()
	log := c.log.With(
		slog.String("method", method),
		slog.String("path", path),
		slog.String("request_id", requestID),
	)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Message: fmt.Sprintf("marshal request: %s", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &TransportError{Message: fmt.Sprintf("create request: %s", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(types.RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("request failed", slog.String("error", err.Error()))
		return &TransportError{Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Status: resp.StatusCode, Message: fmt.Sprintf("read response: %s", err)}
	}

	log.Debug("response",
		slog.Int("status", resp.StatusCode),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		terr := &TransportError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, respBody)}
		log.Warn("request rejected",
			slog.Int("status", terr.Status),
			slog.String("message", terr.Message))
		return terr
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &TransportError{Message: fmt.Sprintf("decode response: %s", err)}
	}
	return nil
}
