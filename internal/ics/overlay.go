// Package ics merges read-only iCalendar subscriptions into the calendar and
// exports the event snapshot as an iCalendar document.
package ics

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	appLog "github.com/franeklasinski/ai-mentors-llms/internal/log"
	"github.com/franeklasinski/ai-mentors-llms/internal/model"
)

// Overlay loads every configured source and turns the occurrences inside a
// window into calendar events.
type Overlay struct {
	fetcher *Fetcher
	sources []Source
	loc     *time.Location
}

func NewOverlay(f *Fetcher, sources []Source, loc *time.Location) *Overlay {
	if loc == nil {
		loc = time.Local
	}
	return &Overlay{fetcher: f, sources: sources, loc: loc}
}

// Enabled reports whether any source is configured.
func (o *Overlay) Enabled() bool {
	return o != nil && len(o.sources) > 0
}

// Events returns the overlay events between from and to. Sources that fail
// are skipped; the joined error reports them while the rest still load.
func (o *Overlay) Events(ctx context.Context, from, to time.Time) ([]model.Event, error) {
	if !o.Enabled() {
		return nil, nil
	}
	results, errs := o.fetcher.FetchAll(ctx, o.sources)

	var parsed []ParsedEvent
	for _, res := range results {
		evs, err := ParseICS(res.Source, res.Body)
		if err != nil {
			appLog.Error("overlay parse failed", err, "id", res.Source.ID)
			errs = append(errs, fmt.Errorf("%s: %w", res.Source.ID, err))
			continue
		}
		parsed = append(parsed, evs...)
	}

	occ, err := ExpandOccurrences(parsed, ExpandConfig{Location: o.loc, RangeStart: from, RangeEnd: to})
	if err != nil {
		return nil, err
	}
	events := ToEvents(occ)
	appLog.Info("overlay loaded", "sources", len(o.sources), "events", len(events), "failed", len(errs))
	return events, errors.Join(errs...)
}

// ToEvents converts occurrences to read-only calendar events. IDs are
// negative and derived from source, UID and start, so they never collide
// with backend IDs and stay stable across reloads.
func ToEvents(occ []Occurrence) []model.Event {
	out := make([]model.Event, 0, len(occ))
	for _, o := range occ {
		ev := model.Event{
			ID:          syntheticID(o),
			Title:       o.Summary,
			Description: o.Description,
			Date:        o.Start.Format(model.DateLayout),
			Type:        model.EventPersonal,
		}
		if !o.AllDay {
			ev.Time = o.Start.Format("15:04")
		}
		out = append(out, ev)
	}
	return out
}

// IsOverlay reports whether ev came from a subscription rather than the backend.
func IsOverlay(ev model.Event) bool {
	return ev.ID < 0
}

func syntheticID(o Occurrence) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s\x00%s\x00%d", o.SourceID, o.UID, o.Start.Unix())
	return -int64(h.Sum64()>>1) - 1
}
