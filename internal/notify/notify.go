// Package notify holds transient user-facing notifications.
//
// A notification lives for the center's TTL and is then dropped by Active.
// In replace mode (the calendar page) a new notification removes all
// previous ones, so at most one is visible.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	appLog "github.com/franeklasinski/ai-mentors-llms/internal/log"
	"github.com/franeklasinski/ai-mentors-llms/internal/metrics"
)

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Info    Kind = "info"
)

// DefaultTTL is how long calendar notifications stay visible.
const DefaultTTL = 5 * time.Second

type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether n is no longer visible at now.
func (n Notification) Expired(now time.Time) bool {
	return !now.Before(n.ExpiresAt)
}

type Center struct {
	mu      sync.Mutex
	ttl     time.Duration
	replace bool
	now     func() time.Time
	metrics *metrics.Recorder
	items   []Notification
}

type Option func(*Center)

// WithReplace makes every new notification remove the previous ones.
func WithReplace() Option {
	return func(c *Center) { c.replace = true }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Center) {
		if now != nil {
			c.now = now
		}
	}
}

func WithMetrics(rec *metrics.Recorder) Option {
	return func(c *Center) { c.metrics = rec }
}

// New creates a center. A non-positive ttl falls back to DefaultTTL.
func New(ttl time.Duration, opts ...Option) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Center{ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Push adds a notification and returns it.
func (c *Center) Push(kind Kind, message string) Notification {
	now := c.now()
	n := Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}

	c.mu.Lock()
	if c.replace {
		c.items = c.items[:0]
	}
	c.items = append(c.items, n)
	c.mu.Unlock()

	c.metrics.Notified(string(kind))
	appLog.Debug("notification", "id", n.ID, "kind", kind, "message", message)
	return n
}

func (c *Center) Success(message string) Notification { return c.Push(Success, message) }
func (c *Center) Error(message string) Notification   { return c.Push(Error, message) }
func (c *Center) Info(message string) Notification    { return c.Push(Info, message) }

// Active returns the notifications still visible at now, oldest first, and
// forgets the expired ones.
func (c *Center) Active(now time.Time) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.items[:0]
	for _, n := range c.items {
		if !n.Expired(now) {
			kept = append(kept, n)
		}
	}
	c.items = kept

	out := make([]Notification, len(kept))
	copy(out, kept)
	return out
}

// Dismiss removes the notification with id. It reports whether it was found.
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear drops every notification.
func (c *Center) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}
