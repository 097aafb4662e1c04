// Package api is the HTTP client for the mentoring backend REST API.
//
// Every endpoint answers with a JSON envelope carrying a "success" flag.
// Non-2xx responses surface as *StatusError, a 2xx response with
// success=false as *RejectedError (errors.Is(err, ErrRejected)).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	appLog "github.com/franeklasinski/ai-mentors-llms/internal/log"
	"github.com/franeklasinski/ai-mentors-llms/internal/metrics"
	"github.com/franeklasinski/ai-mentors-llms/internal/model"
)

// Client talks to one backend base URL.
type Client struct {
	baseURL string
	http    *http.Client
	metrics *metrics.Recorder

	timeout    time.Duration
	hasTimeout bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets a per-request timeout. Zero means no timeout. It is
// applied to a copy of the http.Client, so a client passed with
// WithHTTPClient is never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
		c.hasTimeout = true
	}
}

// WithMetrics records each request on rec.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(c *Client) {
		c.metrics = rec
	}
}

// New creates a client for baseURL, e.g. "http://localhost:5000".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.hasTimeout {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// envelope is the union of all response bodies.
type envelope struct {
	Success  *bool         `json:"success"`
	Error    string        `json:"error"`
	Message  string        `json:"message"`
	Events   []model.Event `json:"events"`
	Tasks    []model.Task  `json:"tasks"`
	Notes    []model.Note  `json:"notes"`
	EventID  int64         `json:"event_id"`
	TaskID   int64         `json:"task_id"`
	NoteID   int64         `json:"note_id"`
	Imported int           `json:"imported"`

	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
}

func (e *envelope) reason() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

// ListEvents loads every calendar event.
func (c *Client) ListEvents(ctx context.Context) ([]model.Event, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/events", "/api/events", nil)
	if err != nil {
		return nil, err
	}
	return nonNil(env.Events), nil
}

// CreateEvent creates an event and returns its server-assigned ID.
func (c *Client) CreateEvent(ctx context.Context, in model.EventInput) (int64, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/events", "/api/events", in)
	if err != nil {
		return 0, err
	}
	return env.EventID, nil
}

// UpdateEvent replaces the editable fields of event id.
func (c *Client) UpdateEvent(ctx context.Context, id int64, in model.EventInput) error {
	_, err := c.do(ctx, http.MethodPut, "/api/events/"+itoa(id), "/api/events/{id}", in)
	return err
}

// DeleteEvent removes event id.
func (c *Client) DeleteEvent(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/events/"+itoa(id), "/api/events/{id}", nil)
	return err
}

// ListTasks loads every task.
func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/tasks", "/api/tasks", nil)
	if err != nil {
		return nil, err
	}
	return nonNil(env.Tasks), nil
}

// CreateTask creates a task and returns its ID.
func (c *Client) CreateTask(ctx context.Context, in model.TaskInput) (int64, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/tasks", "/api/tasks", in)
	if err != nil {
		return 0, err
	}
	return env.TaskID, nil
}

// CompleteTask marks task id as completed.
func (c *Client) CompleteTask(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodPut, "/api/tasks/"+itoa(id)+"/complete", "/api/tasks/{id}/complete", nil)
	return err
}

// DeleteTask removes task id.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/tasks/"+itoa(id), "/api/tasks/{id}", nil)
	return err
}

// ListNotes loads every note.
func (c *Client) ListNotes(ctx context.Context) ([]model.Note, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/notes", "/api/notes", nil)
	if err != nil {
		return nil, err
	}
	return nonNil(env.Notes), nil
}

// CreateNote creates a note and returns its ID.
func (c *Client) CreateNote(ctx context.Context, in model.NoteInput) (int64, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/notes", "/api/notes", in)
	if err != nil {
		return 0, err
	}
	return env.NoteID, nil
}

// UpdateNote replaces note id.
func (c *Client) UpdateNote(ctx context.Context, id int64, in model.NoteInput) error {
	_, err := c.do(ctx, http.MethodPut, "/api/notes/"+itoa(id), "/api/notes/{id}", in)
	return err
}

// DeleteNote removes note id.
func (c *Client) DeleteNote(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/notes/"+itoa(id), "/api/notes/{id}", nil)
	return err
}

// ImportNotes uploads notes in bulk and returns how many the backend stored.
func (c *Client) ImportNotes(ctx context.Context, notes []model.Note) (int, error) {
	body := struct {
		Notes []model.Note `json:"notes"`
	}{Notes: nonNil(notes)}
	env, err := c.do(ctx, http.MethodPost, "/api/notes/import", "/api/notes/import", body)
	if err != nil {
		return 0, err
	}
	return env.Imported, nil
}

// SendChat sends message to a mentor and returns the reply.
func (c *Client) SendChat(ctx context.Context, mentorID int64, message string) (model.ChatReply, error) {
	req := model.ChatRequest{MentorID: mentorID, Message: message}
	env, err := c.do(ctx, http.MethodPost, "/api/chat", "/api/chat", req)
	if err != nil {
		return model.ChatReply{}, err
	}
	return model.ChatReply{Response: env.Response, Timestamp: env.Timestamp}, nil
}

// Health returns the decoded body of GET /api/health.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	took, err := c.roundTrip(ctx, http.MethodGet, "/api/health", "/api/health", nil, &out)
	if err != nil {
		return nil, err
	}
	c.metrics.ObserveRequest(http.MethodGet, "/api/health", metrics.OutcomeOK, took)
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path, route string, in any) (*envelope, error) {
	var env envelope
	took, err := c.roundTrip(ctx, method, path, route, in, &env)
	if err != nil {
		return nil, err
	}
	if env.Success != nil && !*env.Success {
		c.metrics.ObserveRequest(method, route, metrics.OutcomeRejected, took)
		appLog.Warn("backend rejected request", "method", method, "path", path, "reason", env.reason())
		return nil, &RejectedError{Method: method, Path: path, Message: env.reason()}
	}
	c.metrics.ObserveRequest(method, route, metrics.OutcomeOK, took)
	return &env, nil
}

// roundTrip sends one request and decodes a 2xx body into out. Failures are
// recorded here; the caller records the outcome of a decoded response.
func (c *Client) roundTrip(ctx context.Context, method, path, route string, in, out any) (time.Duration, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(method, route, metrics.OutcomeError, time.Since(start))
		appLog.Error("backend request failed", err, "method", method, "path", path)
		return 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.ObserveRequest(method, route, metrics.OutcomeError, time.Since(start))
		return 0, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.ObserveRequest(method, route, metrics.OutcomeStatus, time.Since(start))
		serr := &StatusError{Method: method, Path: path, Code: resp.StatusCode, Message: errorMessage(data)}
		appLog.Error("backend non-2xx", serr, "method", method, "path", path, "status", resp.StatusCode)
		return 0, serr
	}

	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			c.metrics.ObserveRequest(method, route, metrics.OutcomeError, time.Since(start))
			return 0, fmt.Errorf("api: decode %s %s: %w", method, path, err)
		}
	}

	took := time.Since(start)
	appLog.Debug("backend request", "method", method, "path", path, "status", resp.StatusCode, "took", took)
	return took, nil
}

// errorMessage pulls "error" or "message" out of a failure body, if any.
func errorMessage(data []byte) string {
	var env envelope
	if err := json.Unmarshal(data, &env); err == nil {
		return env.reason()
	}
	return ""
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
