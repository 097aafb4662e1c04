package calendar

import "time"

const (
	monthGridDays = 42 // six full weeks
	hoursPerDay   = 24
	daysPerWeek   = 7
)

// Slot is one bucket descriptor produced by ComputeRange. Date is always a
// local midnight in the reference date's location.
type Slot struct {
	Date time.Time

	// Hourly is set for week and day views; Hour is then 0-23.
	Hourly bool
	Hour   int

	// DayOffset is the grid column, 0 = Monday. Always 0 in day view.
	DayOffset int

	// InMonth is only meaningful for month view.
	InMonth bool
}

// ComputeRange lists the buckets to render for ref at granularity g.
//
//   - Month: 42 days starting on the Monday on or before the 1st of the
//     reference month.
//   - Week: 168 (day, hour) slots of the Monday-based week containing ref,
//     ordered row by row: hour 0 for Monday..Sunday, then hour 1, and so on.
//   - Day: 24 hourly slots of ref's date.
//
// An unknown granularity yields nil.
func ComputeRange(ref time.Time, g Granularity) []Slot {
	switch g {
	case Month:
		return monthRange(ref)
	case Week:
		return weekRange(ref)
	case Day:
		return dayRange(ref)
	default:
		return nil
	}
}

func monthRange(ref time.Time) []Slot {
	loc := ref.Location()
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, loc)
	// day 0 of the next month is the last day of this one
	last := time.Date(ref.Year(), ref.Month()+1, 0, 0, 0, 0, 0, loc)

	start := first.AddDate(0, 0, -daysSinceMonday(first.Weekday()))

	slots := make([]Slot, 0, monthGridDays)
	for i := 0; i < monthGridDays; i++ {
		d := time.Date(start.Year(), start.Month(), start.Day()+i, 0, 0, 0, 0, loc)
		slots = append(slots, Slot{
			Date:      d,
			DayOffset: i % daysPerWeek,
			InMonth:   !d.Before(first) && !d.After(last),
		})
	}
	return slots
}

func weekRange(ref time.Time) []Slot {
	monday := StartOfWeek(ref)

	slots := make([]Slot, 0, daysPerWeek*hoursPerDay)
	for hour := 0; hour < hoursPerDay; hour++ {
		for day := 0; day < daysPerWeek; day++ {
			slots = append(slots, Slot{
				Date:      time.Date(monday.Year(), monday.Month(), monday.Day()+day, 0, 0, 0, 0, monday.Location()),
				Hourly:    true,
				Hour:      hour,
				DayOffset: day,
			})
		}
	}
	return slots
}

func dayRange(ref time.Time) []Slot {
	d := midnight(ref)
	slots := make([]Slot, 0, hoursPerDay)
	for hour := 0; hour < hoursPerDay; hour++ {
		slots = append(slots, Slot{Date: d, Hourly: true, Hour: hour})
	}
	return slots
}

// StartOfWeek returns the Monday (at midnight) of the week containing t.
// Sunday belongs to the week that started six days earlier.
func StartOfWeek(t time.Time) time.Time {
	wd := int(t.Weekday())
	offset := 1
	if wd == 0 {
		offset = -6
	}
	return time.Date(t.Year(), t.Month(), t.Day()-wd+offset, 0, 0, 0, 0, t.Location())
}

func daysSinceMonday(wd time.Weekday) int {
	if wd == time.Sunday {
		return 6
	}
	return int(wd) - 1
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
