package ics

import (
	"errors"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	appLog "github.com/franeklasinski/ai-mentors-llms/internal/log"
)

const defaultMaxOccurrences = 5000

// Occurrence is one concrete instance of a (possibly recurring) VEVENT.
type Occurrence struct {
	SourceID    string
	UID         string
	Summary     string
	Description string
	AllDay      bool
	Start       time.Time
	End         time.Time
}

// ExpandConfig bounds recurrence expansion.
type ExpandConfig struct {
	// Location occurrences are converted to. Nil means time.Local.
	Location *time.Location
	// RangeStart and RangeEnd are inclusive.
	RangeStart time.Time
	RangeEnd   time.Time
	// MaxPerEvent caps runaway rules. Zero uses 5000.
	MaxPerEvent int
}

// ExpandOccurrences expands events into occurrences inside the configured
// window, applying RRULE, EXDATE and RECURRENCE-ID overrides. The result is
// sorted by start, then UID.
func ExpandOccurrences(events []ParsedEvent, cfg ExpandConfig) ([]Occurrence, error) {
	if cfg.RangeEnd.Before(cfg.RangeStart) {
		return nil, errors.New("expand: range end before start")
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.MaxPerEvent <= 0 {
		cfg.MaxPerEvent = defaultMaxOccurrences
	}

	bases := make(map[string][]ParsedEvent)
	overrides := make(map[string][]ParsedEvent)
	for _, ev := range events {
		if ev.IsOverride() {
			overrides[ev.UID] = append(overrides[ev.UID], ev)
		} else {
			bases[ev.UID] = append(bases[ev.UID], ev)
		}
	}

	var out []Occurrence
	for uid, evs := range bases {
		for _, ev := range evs {
			if ev.RRule == "" {
				out = append(out, expandSingle(ev, overrides[uid], cfg)...)
				continue
			}
			occ, capped := expandRecurring(ev, overrides[uid], cfg)
			if capped {
				appLog.Warn("overlay expansion capped", "uid", uid, "cap", cfg.MaxPerEvent)
			}
			out = append(out, occ...)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].UID < out[j].UID
	})
	return out, nil
}

func expandSingle(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) []Occurrence {
	if !overlaps(ev.Start, ev.End, cfg.RangeStart, cfg.RangeEnd) {
		return nil
	}
	if o, ok := overrideFor(overrides, ev.Start); ok {
		ev = o
	}
	return []Occurrence{occurrence(ev, ev.Start, ev.End, cfg.Location)}
}

func expandRecurring(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) ([]Occurrence, bool) {
	r, err := rrule.StrToRRule(ev.RRule)
	if err != nil {
		appLog.Error("overlay rrule invalid", err, "uid", ev.UID, "rrule", ev.RRule)
		return nil, false
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	loc := ev.Start.Location()
	starts := set.Between(cfg.RangeStart.In(loc), cfg.RangeEnd.In(loc), true)
	capped := false
	if len(starts) > cfg.MaxPerEvent {
		starts = starts[:cfg.MaxPerEvent]
		capped = true
	}

	dur := ev.End.Sub(ev.Start)
	out := make([]Occurrence, 0, len(starts))
	for _, s := range starts {
		inst, start, end := ev, s, s.Add(dur)
		if o, ok := overrideFor(overrides, s); ok {
			inst, start, end = o, o.Start, o.End
		}
		out = append(out, occurrence(inst, start, end, cfg.Location))
	}
	return out, capped
}

// overrideFor finds the override whose RECURRENCE-ID equals start.
func overrideFor(overrides []ParsedEvent, start time.Time) (ParsedEvent, bool) {
	for _, o := range overrides {
		if o.Recurrence != nil && o.Recurrence.Equal(start) {
			return o, true
		}
	}
	return ParsedEvent{}, false
}

// occurrence converts timed instances to loc. All-day instances keep their
// calendar date.
func occurrence(ev ParsedEvent, start, end time.Time, loc *time.Location) Occurrence {
	if !ev.AllDay {
		start, end = start.In(loc), end.In(loc)
	}
	return Occurrence{
		SourceID:    ev.Source.ID,
		UID:         ev.UID,
		Summary:     ev.Summary,
		Description: ev.Description,
		AllDay:      ev.AllDay,
		Start:       start,
		End:         end,
	}
}

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aEnd.Before(bStart) && !bEnd.Before(aStart)
}
