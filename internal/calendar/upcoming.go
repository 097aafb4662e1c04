package calendar

import (
	"sort"
	"time"

	"github.com/franeklasinski/ai-mentors-llms/internal/model"
)

// DefaultUpcomingDays is the width of the upcoming events window.
const DefaultUpcomingDays = 7

// UpcomingItem is one row of the upcoming events side list.
type UpcomingItem struct {
	Event    model.Event
	Day      time.Time
	IsToday  bool
	DayLabel string
}

// Upcoming keeps events whose date is 0..days calendar days ahead of now's
// date: today counts as 0 even though its midnight has passed, yesterday
// counts as -1. Days are counted on the calendar, so 23h and 25h DST days
// still count as one. Result is sorted ascending by date, ties in source
// order.
func Upcoming(events []model.Event, now time.Time, days int) []UpcomingItem {
	if days < 0 {
		days = DefaultUpcomingDays
	}
	loc := now.Location()

	var out []UpcomingItem
	for _, ev := range events {
		d, err := ev.Day(loc)
		if err != nil {
			continue
		}
		diff := daysBetween(now, d)
		if diff < 0 || diff > days {
			continue
		}
		out = append(out, UpcomingItem{
			Event:    ev,
			Day:      d,
			IsToday:  sameDay(d, now),
			DayLabel: ShortDayLabel(d),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Day.Before(out[j].Day)
	})
	return out
}

// daysBetween counts calendar days from a's date to b's date. Both dates are
// moved to UTC midnight first so DST transitions do not skew the count.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
