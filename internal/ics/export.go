package ics

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/franeklasinski/ai-mentors-llms/internal/model"
)

const productID = "-//mentorhub//calendar//PL"

// Export serializes backend events as a PUBLISH calendar. Overlay events and
// events with an unparsable date are left out. Timed events last one hour;
// a numeric reminder becomes a display alarm that many minutes before.
func Export(events []model.Event, loc *time.Location, now time.Time) string {
	if loc == nil {
		loc = time.Local
	}
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetName("Mentor Hub")

	for _, ev := range events {
		if IsOverlay(ev) {
			continue
		}
		day, err := ev.Day(loc)
		if err != nil {
			continue
		}

		ve := cal.AddEvent(fmt.Sprintf("event-%d@mentorhub", ev.ID))
		ve.SetDtStampTime(now.UTC())
		ve.SetSummary(ev.Title)
		if ev.Description != "" {
			ve.SetDescription(ev.Description)
		}
		ve.SetProperty(ical.ComponentPropertyCategories, ev.Type.Label())

		if start, ok := startOf(ev, day); ok {
			ve.SetStartAt(start.UTC())
			ve.SetEndAt(start.Add(time.Hour).UTC())
		} else {
			ve.SetAllDayStartAt(day)
			ve.SetAllDayEndAt(day.AddDate(0, 0, 1))
		}

		if mins, err := strconv.Atoi(strings.TrimSpace(ev.Reminder)); err == nil && mins > 0 {
			alarm := ve.AddAlarm()
			alarm.SetAction(ical.ActionDisplay)
			alarm.SetTrigger(fmt.Sprintf("-PT%dM", mins))
			alarm.SetProperty(ical.ComponentPropertyDescription, ev.Title)
		}
	}
	return cal.Serialize()
}

// startOf combines the event day with its HH:MM time.
func startOf(ev model.Event, day time.Time) (time.Time, bool) {
	hour, ok := ev.Hour()
	if !ok {
		return time.Time{}, false
	}
	min := 0
	if _, rest, found := strings.Cut(ev.Time, ":"); found {
		if len(rest) > 2 {
			rest = rest[:2]
		}
		min, _ = strconv.Atoi(rest)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, min, 0, 0, day.Location()), true
}
