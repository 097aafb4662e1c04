package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/franeklasinski/ai-mentors-llms/internal/app"
	"github.com/franeklasinski/ai-mentors-llms/internal/calendar"
)

const cellWidth = 6

// printCalendar writes the month grid and the upcoming list as plain text.
// Days outside the month are dotted, today is bracketed and a cell with
// events carries an asterisk.
func printCalendar(w io.Writer, v app.CalendarView) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, v.Title)
	for _, h := range calendar.DayHeaders {
		fmt.Fprintf(bw, "%-*s", cellWidth, h)
	}
	fmt.Fprintln(bw)

	for _, row := range v.Grid.Rows() {
		var line strings.Builder
		for _, b := range row {
			cell := fmt.Sprintf("%2d", b.Date.Day())
			switch {
			case b.Today:
				cell = "[" + cell + "]"
			case !b.InMonth:
				cell = " ." + strings.TrimSpace(cell)
			default:
				cell = " " + cell
			}
			if b.Total() > 0 {
				cell += "*"
			}
			fmt.Fprintf(&line, "%-*s", cellWidth, cell)
		}
		fmt.Fprintln(bw, strings.TrimRight(line.String(), " "))
	}

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "Nadchodzące wydarzenia")
	if len(v.Upcoming) == 0 {
		fmt.Fprintln(bw, "  Brak nadchodzących wydarzeń")
	}
	for _, it := range v.Upcoming {
		when := it.DayLabel
		if it.Event.Time != "" {
			when += " " + it.Event.Time
		}
		fmt.Fprintf(bw, "  %s  %s (%s)\n", when, it.Event.Title, it.Event.Type.Label())
	}
	return bw.Flush()
}
