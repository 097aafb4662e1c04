// Package calendar turns a reference date, a view granularity and a snapshot
// of events into a grid of time buckets. Everything here is pure: no I/O,
// no clocks other than the "now" passed in, no shared state.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Granularity is the active view mode.
type Granularity string

const (
	Month Granularity = "month"
	Week  Granularity = "week"
	Day   Granularity = "day"
)

// ParseGranularity accepts "month", "week" or "day" (case-insensitive).
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case Month, Week, Day:
		return g, nil
	default:
		return "", fmt.Errorf("calendar: unknown view %q", s)
	}
}

// ViewState is the whole navigation state of the calendar page.
type ViewState struct {
	Reference   time.Time
	Granularity Granularity
}

// NewViewState returns the initial state: month view anchored on now.
func NewViewState(now time.Time) ViewState {
	return ViewState{Reference: now, Granularity: Month}
}

// Next moves the reference date one month forward. Day-of-month overflow
// normalizes forward (Jan 31 -> Mar 3 in a common year), the same way the
// calendar arithmetic of time.Date does.
//
// The step is a month for every granularity, including week and day views.
func (v ViewState) Next() ViewState {
	v.Reference = addMonths(v.Reference, 1)
	return v
}

// Prev moves the reference date one month back.
func (v ViewState) Prev() ViewState {
	v.Reference = addMonths(v.Reference, -1)
	return v
}

// Today resets the reference date to now and keeps the granularity.
func (v ViewState) Today(now time.Time) ViewState {
	v.Reference = now
	return v
}

// WithGranularity switches the view mode without touching the reference date.
func (v ViewState) WithGranularity(g Granularity) ViewState {
	v.Granularity = g
	return v
}

// Title is the header text, e.g. "Październik 2026".
func (v ViewState) Title() string {
	return MonthName(v.Reference.Month()) + " " + fmt.Sprint(v.Reference.Year())
}

func addMonths(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month()+time.Month(n), t.Day(),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// ActionKind enumerates navigation actions.
type ActionKind string

const (
	ActionNext  ActionKind = "next"
	ActionPrev  ActionKind = "prev"
	ActionToday ActionKind = "today"
	ActionView  ActionKind = "view"
)

// Action is a single navigation request. Granularity is only read for
// ActionView.
type Action struct {
	Kind        ActionKind
	Granularity Granularity
}

// Reduce applies a to v. now is only consulted by ActionToday.
func Reduce(v ViewState, a Action, now time.Time) (ViewState, error) {
	switch a.Kind {
	case ActionNext:
		return v.Next(), nil
	case ActionPrev:
		return v.Prev(), nil
	case ActionToday:
		return v.Today(now), nil
	case ActionView:
		g, err := ParseGranularity(string(a.Granularity))
		if err != nil {
			return v, err
		}
		return v.WithGranularity(g), nil
	default:
		return v, fmt.Errorf("calendar: unknown action %q", a.Kind)
	}
}

// DraftDate is the date prefilled in the "new event" form when a day cell
// of the month grid is clicked: the reference year and month with the
// clicked day number.
func DraftDate(v ViewState, day int) time.Time {
	r := v.Reference
	return time.Date(r.Year(), r.Month(), day, 0, 0, 0, 0, r.Location())
}
