package web

import (
	"github.com/franeklasinski/ai-mentors-llms/internal/app"
	"github.com/franeklasinski/ai-mentors-llms/internal/calendar"
	"github.com/franeklasinski/ai-mentors-llms/internal/model"
	"github.com/franeklasinski/ai-mentors-llms/internal/notify"
)

// pageData feeds templates/calendar.html.
type pageData struct {
	Title         string
	View          calendar.Granularity
	Views         []calendar.Granularity
	Headers       []string
	Hourly        bool
	Rows          []rowData
	Upcoming      []calendar.UpcomingItem
	Notifications []notify.Notification
}

type rowData struct {
	// Label is the hour header of week and day rows.
	Label string
	Cells []cellData
}

type cellData struct {
	InMonth   bool
	Today     bool
	DayNumber int
	Events    []model.Event
	More      string
}

func newPageData(v app.CalendarView) pageData {
	pd := pageData{
		Title:         v.Title,
		View:          v.View.Granularity,
		Views:         []calendar.Granularity{calendar.Month, calendar.Week, calendar.Day},
		Upcoming:      v.Upcoming,
		Notifications: v.Notifications,
		Hourly:        v.View.Granularity != calendar.Month,
	}

	rows := v.Grid.Rows()
	if pd.Hourly {
		if len(rows) > 0 {
			for _, b := range rows[0] {
				pd.Headers = append(pd.Headers, calendar.ShortDayLabel(b.Date))
			}
		}
	} else {
		pd.Headers = calendar.DayHeaders[:]
	}

	for _, row := range rows {
		rd := rowData{Cells: make([]cellData, 0, len(row))}
		if pd.Hourly && len(row) > 0 {
			rd.Label = calendar.HourLabel(row[0].Hour)
		}
		for _, b := range row {
			c := cellData{
				InMonth: b.InMonth || b.Hourly,
				Today:   b.Today,
				Events:  b.Events,
				More:    b.OverflowLabel(),
			}
			if !b.Hourly {
				c.DayNumber = b.Date.Day()
			}
			rd.Cells = append(rd.Cells, c)
		}
		pd.Rows = append(pd.Rows, rd)
	}
	return pd
}
