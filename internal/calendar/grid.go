package calendar

import (
	"fmt"
	"time"

	"github.com/franeklasinski/ai-mentors-llms/internal/model"
)

// DefaultOverflowCap is how many events a month cell shows before the
// "+N więcej" marker.
const DefaultOverflowCap = 3

// Bucket is one rendered cell of the grid.
type Bucket struct {
	Slot

	Today bool

	// Events holds the displayed events in source order. In month view it is
	// capped; Overflow then counts the hidden remainder.
	Events   []model.Event
	Overflow int
}

// Total is the number of matching events, shown or not.
func (b Bucket) Total() int {
	return len(b.Events) + b.Overflow
}

// OverflowLabel is the marker text for hidden events, or "" when none are
// hidden.
func (b Bucket) OverflowLabel() string {
	if b.Overflow <= 0 {
		return ""
	}
	return fmt.Sprintf("+%d więcej", b.Overflow)
}

// Grid is the full render output for one ViewState.
type Grid struct {
	View    ViewState
	Title   string
	Buckets []Bucket
}

// Rows splits the buckets into rows of 7 (month, week) or 1 (day).
func (g Grid) Rows() [][]Bucket {
	width := daysPerWeek
	if g.View.Granularity == Day {
		width = 1
	}
	rows := make([][]Bucket, 0, len(g.Buckets)/width)
	for i := 0; i < len(g.Buckets); i += width {
		end := min(i+width, len(g.Buckets))
		rows = append(rows, g.Buckets[i:end])
	}
	return rows
}

// Options tunes Render.
type Options struct {
	// Now decides the Today flag. It is the wall clock at render time, not
	// the reference date.
	Now time.Time

	// OverflowCap applies to month view only; <= 0 means DefaultOverflowCap.
	OverflowCap int
}

// Render attaches matching events to every slot. It always builds a fresh
// bucket slice, so rendering the same inputs twice yields equal output.
func Render(view ViewState, slots []Slot, idx *Index, opts Options) Grid {
	limit := opts.OverflowCap
	if limit <= 0 {
		limit = DefaultOverflowCap
	}
	now := opts.Now.In(view.Reference.Location())

	buckets := make([]Bucket, 0, len(slots))
	for _, s := range slots {
		var matched []model.Event
		if s.Hourly {
			matched = idx.At(s.Date, s.Hour)
		} else {
			matched = idx.OnDate(s.Date)
		}

		b := Bucket{Slot: s, Today: sameDay(s.Date, now)}
		if view.Granularity == Month && len(matched) > limit {
			b.Events = append([]model.Event(nil), matched[:limit]...)
			b.Overflow = len(matched) - limit
		} else if len(matched) > 0 {
			b.Events = append([]model.Event(nil), matched...)
		}
		buckets = append(buckets, b)
	}

	return Grid{View: view, Title: view.Title(), Buckets: buckets}
}

// Build runs the whole pipeline: range, index, render.
func Build(view ViewState, events []model.Event, opts Options) Grid {
	slots := ComputeRange(view.Reference, view.Granularity)
	idx := NewIndex(events, view.Reference.Location())
	return Render(view, slots, idx, opts)
}
