package calendar

import (
	"time"

	"github.com/franeklasinski/ai-mentors-llms/internal/model"
)

// EventsOnDate returns the events whose calendar date equals date, ignoring
// time of day, in source order. date's location decides what "calendar
// date" means for the events.
func EventsOnDate(events []model.Event, date time.Time) []model.Event {
	var out []model.Event
	for _, ev := range events {
		d, err := ev.Day(date.Location())
		if err != nil {
			continue
		}
		if sameDay(d, date) {
			out = append(out, ev)
		}
	}
	return out
}

// EventsAt returns the events on date whose time falls in hour. Events
// without a parseable time never match an hourly slot.
func EventsAt(events []model.Event, date time.Time, hour int) []model.Event {
	var out []model.Event
	for _, ev := range EventsOnDate(events, date) {
		if h, ok := ev.Hour(); ok && h == hour {
			out = append(out, ev)
		}
	}
	return out
}

// Index groups an event snapshot by date key once so that rendering a grid
// costs O(events + buckets) instead of O(events * buckets). Lookups return
// exactly what EventsOnDate and EventsAt would.
type Index struct {
	loc    *time.Location
	byDate map[string][]model.Event
}

// NewIndex builds an index over events. Events with an unparseable date are
// left out, as the linear filters skip them too.
func NewIndex(events []model.Event, loc *time.Location) *Index {
	if loc == nil {
		loc = time.Local
	}
	idx := &Index{loc: loc, byDate: make(map[string][]model.Event)}
	for _, ev := range events {
		d, err := ev.Day(loc)
		if err != nil {
			continue
		}
		key := dateKey(d)
		idx.byDate[key] = append(idx.byDate[key], ev)
	}
	return idx
}

// OnDate returns the events on date's calendar day.
func (idx *Index) OnDate(date time.Time) []model.Event {
	return idx.byDate[dateKey(date)]
}

// At returns the events on date within hour.
func (idx *Index) At(date time.Time, hour int) []model.Event {
	var out []model.Event
	for _, ev := range idx.OnDate(date) {
		if h, ok := ev.Hour(); ok && h == hour {
			out = append(out, ev)
		}
	}
	return out
}

// Len is the number of indexed events.
func (idx *Index) Len() int {
	n := 0
	for _, evs := range idx.byDate {
		n += len(evs)
	}
	return n
}

func dateKey(d time.Time) string {
	return d.Format(model.DateLayout)
}
