package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/franeklasinski/ai-mentors-llms/internal/app"
	"github.com/franeklasinski/ai-mentors-llms/internal/calendar"
	"github.com/franeklasinski/ai-mentors-llms/internal/model"
)

func TestPrintCalendar(t *testing.T) {
	Convey("printCalendar renders the month and the upcoming list", t, func() {
		now := time.Date(2024, 10, 16, 10, 0, 0, 0, time.UTC)
		events := []model.Event{
			{ID: 1, Title: "Sesja", Date: "2024-10-16", Time: "09:00", Type: model.EventMeeting},
			{ID: 2, Title: "Cel", Date: "2024-10-20", Type: model.EventGoal},
		}
		view := calendar.NewViewState(now)
		v := app.CalendarView{
			Title:    view.Title(),
			View:     view,
			Grid:     calendar.Build(view, events, calendar.Options{Now: now}),
			Upcoming: calendar.Upcoming(events, now, calendar.DefaultUpcomingDays),
		}

		var buf bytes.Buffer
		So(printCalendar(&buf, v), ShouldBeNil)
		out := buf.String()
		lines := strings.Split(out, "\n")

		So(lines[0], ShouldEqual, "Październik 2024")
		So(lines[1], ShouldStartWith, "Pon")
		// six week rows
		So(lines[8], ShouldEqual, "")
		So(out, ShouldContainSubstring, "[16]*")
		So(out, ShouldContainSubstring, " 20*")
		So(out, ShouldContainSubstring, " .30")
		So(out, ShouldContainSubstring, "09:00  Sesja (Spotkanie)")
		So(out, ShouldContainSubstring, "Cel (Cel)")
	})

	Convey("An empty upcoming list says so", t, func() {
		now := time.Date(2024, 10, 16, 10, 0, 0, 0, time.UTC)
		view := calendar.NewViewState(now)
		v := app.CalendarView{Title: view.Title(), View: view, Grid: calendar.Build(view, nil, calendar.Options{Now: now})}

		var buf bytes.Buffer
		So(printCalendar(&buf, v), ShouldBeNil)
		So(buf.String(), ShouldContainSubstring, "Brak nadchodzących wydarzeń")
	})
}
