package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/franeklasinski/ai-mentors-llms/internal/api"
	"github.com/franeklasinski/ai-mentors-llms/internal/calendar"
	"github.com/franeklasinski/ai-mentors-llms/internal/chat"
	"github.com/franeklasinski/ai-mentors-llms/internal/model"
	"github.com/franeklasinski/ai-mentors-llms/internal/notify"
	"github.com/franeklasinski/ai-mentors-llms/internal/tasks"
)

var (
	warsaw = time.FixedZone("CEST", 2*3600)
	now    = time.Date(2024, 10, 16, 10, 0, 0, 0, warsaw)
	clock  = func() time.Time { return now }
)

func activeMessages(n *notify.Center) []string {
	var out []string
	for _, x := range n.Active(now) {
		out = append(out, string(x.Kind)+": "+x.Message)
	}
	return out
}

func TestCalendarPage(t *testing.T) {
	ctx := context.Background()

	Convey("Given a calendar page over a backend with three events", t, func() {
		be := newFake()
		be.events = []model.Event{
			{ID: 1, Title: "Sesja", Date: "2024-10-16", Time: "09:00", Type: model.EventMeeting},
			{ID: 2, Title: "Cel", Date: "2024-10-20", Type: model.EventGoal},
			{ID: 3, Title: "Stare", Date: "2024-09-01", Type: model.EventTask},
		}
		n := notify.New(5*time.Second, notify.WithReplace(), notify.WithClock(clock))
		p := NewCalendarPage(be, CalendarOptions{Location: warsaw, Now: clock, Notifier: n})
		So(p.Load(ctx), ShouldBeNil)

		Convey("The initial view is the current month", func() {
			v := p.View()
			So(v.Title, ShouldEqual, "Październik 2024")
			So(v.Grid.Buckets, ShouldHaveLength, 42)
			So(v.Upcoming, ShouldHaveLength, 2)
			So(v.Upcoming[0].IsToday, ShouldBeTrue)
		})

		Convey("Navigation changes the grid but not the snapshot", func() {
			So(p.Navigate(ctx, calendar.Action{Kind: calendar.ActionPrev}), ShouldBeNil)
			So(p.View().Title, ShouldEqual, "Wrzesień 2024")
			So(p.Navigate(ctx, calendar.Action{Kind: calendar.ActionView, Granularity: calendar.Week}), ShouldBeNil)
			So(p.View().Grid.Buckets, ShouldHaveLength, 168)
			So(p.Navigate(ctx, calendar.Action{Kind: "sideways"}), ShouldNotBeNil)
			So(p.State().Granularity, ShouldEqual, calendar.Week)
			So(p.Navigate(ctx, calendar.Action{Kind: calendar.ActionToday}), ShouldBeNil)
			So(p.State().Reference.Month(), ShouldEqual, time.October)
			So(p.Events(), ShouldHaveLength, 3)
		})

		Convey("A valid create posts, reloads and notifies success", func() {
			lists := be.lists
			id, err := p.CreateEvent(ctx, model.EventInput{Title: "  Nowe  ", Date: "2024-10-17"})
			So(err, ShouldBeNil)
			So(id, ShouldBeGreaterThan, int64(0))
			So(be.lists, ShouldEqual, lists+1)
			So(p.Events(), ShouldHaveLength, 4)
			ev, ok := p.Event(id)
			So(ok, ShouldBeTrue)
			So(ev.Title, ShouldEqual, "Nowe")
			So(ev.Type, ShouldEqual, model.EventMeeting)
			So(activeMessages(n), ShouldResemble, []string{"success: Wydarzenie zostało dodane!"})
		})

		Convey("A missing title never reaches the backend", func() {
			_, err := p.CreateEvent(ctx, model.EventInput{Title: " ", Date: "2024-10-17"})
			So(errors.Is(err, ErrValidation), ShouldBeTrue)
			var ve *ValidationError
			So(errors.As(err, &ve), ShouldBeTrue)
			So(ve.Field, ShouldEqual, "title")
			So(be.writes, ShouldEqual, 0)
			So(activeMessages(n), ShouldResemble, []string{"error: Proszę wypełnić wymagane pola"})
		})

		Convey("A rejected create leaves the cache unchanged with one error", func() {
			be.failWith = &api.RejectedError{Method: "POST", Path: "/api/events", Message: "db error"}
			before := p.Events()
			_, err := p.CreateEvent(ctx, model.EventInput{Title: "X", Date: "2024-10-17"})
			So(errors.Is(err, api.ErrRejected), ShouldBeTrue)
			So(p.Events(), ShouldResemble, before)
			So(activeMessages(n), ShouldResemble, []string{"error: Błąd podczas dodawania wydarzenia"})
		})

		Convey("A transport failure reports a connection error", func() {
			be.failWith = errDown
			err := p.DeleteEvent(ctx, 1)
			So(err, ShouldEqual, errDown)
			So(activeMessages(n), ShouldResemble, []string{"error: Błąd połączenia"})
			So(p.Events(), ShouldHaveLength, 3)
		})

		Convey("Update and delete reload the snapshot", func() {
			So(p.UpdateEvent(ctx, 2, model.EventInput{Title: "Cel (zmieniony)", Date: "2024-10-21", Type: model.EventGoal}), ShouldBeNil)
			ev, _ := p.Event(2)
			So(ev.Date, ShouldEqual, "2024-10-21")
			So(p.DeleteEvent(ctx, 3), ShouldBeNil)
			So(p.Events(), ShouldHaveLength, 2)
			So(activeMessages(n), ShouldResemble, []string{"success: Wydarzenie zostało usunięte!"})
		})

		Convey("Overlay events are read-only", func() {
			err := p.DeleteEvent(ctx, -42)
			So(errors.Is(err, ErrReadOnly), ShouldBeTrue)
			So(be.writes, ShouldEqual, 0)
		})

		Convey("A failed reload keeps the previous snapshot", func() {
			be.listErr = errDown
			So(p.Load(ctx), ShouldNotBeNil)
			So(p.Events(), ShouldHaveLength, 3)
		})

		Convey("A write that succeeds before a failed reload still reports success", func() {
			be.listErr = errDown
			id, err := p.CreateEvent(ctx, model.EventInput{Title: "Nowe", Date: "2024-10-17"})
			So(err, ShouldBeNil)
			So(id, ShouldBeGreaterThan, int64(0))
			So(be.writes, ShouldEqual, 1)
			So(p.Events(), ShouldHaveLength, 3)
			So(activeMessages(n), ShouldResemble, []string{"success: Wydarzenie zostało dodane!"})
		})

		Convey("Draft prefills the clicked day of the viewed month", func() {
			So(p.Draft(5).Date, ShouldEqual, "2024-10-05")
		})

		Convey("An invalid type or date is a validation error", func() {
			_, err := p.CreateEvent(ctx, model.EventInput{Title: "X", Date: "16.10.2024"})
			So(errors.Is(err, ErrValidation), ShouldBeTrue)
			_, err = p.CreateEvent(ctx, model.EventInput{Title: "X", Date: "2024-10-16", Type: "party"})
			So(errors.Is(err, ErrValidation), ShouldBeTrue)
		})
	})
}

func TestTaskPage(t *testing.T) {
	ctx := context.Background()

	Convey("Given a task page", t, func() {
		be := newFake()
		due := &model.Stamp{Time: now.Add(2 * time.Hour)}
		be.tasks = []model.Task{
			{ID: 1, Title: "Bieganie", CreatedAt: model.Stamp{Time: now.Add(-time.Hour)}},
			{ID: 2, Title: "Artykuł", DueDate: due, CreatedAt: model.Stamp{Time: now.Add(-2 * time.Hour)}},
			{ID: 3, Title: "Zrobione", IsCompleted: true, CreatedAt: model.Stamp{Time: now}},
		}
		n := notify.New(3*time.Second, notify.WithClock(clock))
		p := NewTaskPage(be, n, nil, clock)
		So(p.Load(ctx), ShouldBeNil)

		Convey("Filter and sort compose", func() {
			p.SetFilter(tasks.FilterPending)
			p.SetSort(tasks.SortTitle)
			vis := p.Visible()
			So(vis, ShouldHaveLength, 2)
			So(vis[0].Title, ShouldEqual, "Artykuł")
			So(p.Stats(), ShouldResemble, tasks.Stats{Total: 3, Pending: 2, Completed: 1, Urgent: 1})
		})

		Convey("Complete reloads and stacks notifications", func() {
			So(p.Complete(ctx, 1), ShouldBeNil)
			So(p.Stats().Completed, ShouldEqual, 2)
			So(p.Quick(), ShouldHaveLength, 1)
			So(activeMessages(n), ShouldResemble, []string{"success: Zadanie ukończone!"})

			id, err := p.Create(ctx, model.TaskInput{Title: "Nowe"})
			So(err, ShouldBeNil)
			So(id, ShouldBeGreaterThan, int64(0))
			So(p.All(), ShouldHaveLength, 4)
			So(activeMessages(n), ShouldHaveLength, 2)
		})

		Convey("Create requires a title", func() {
			_, err := p.Create(ctx, model.TaskInput{Title: ""})
			So(errors.Is(err, ErrValidation), ShouldBeTrue)
			So(be.writes, ShouldEqual, 0)
		})

		Convey("A failed delete notifies once and keeps the list", func() {
			be.failWith = errDown
			So(p.Delete(ctx, 1), ShouldNotBeNil)
			So(p.All(), ShouldHaveLength, 3)
			So(activeMessages(n), ShouldResemble, []string{"error: Błąd podczas usuwania zadania"})
		})

		Convey("A failed reload after a write keeps the old list", func() {
			be.listErr = errDown
			So(p.Complete(ctx, 1), ShouldBeNil)
			So(p.Stats().Completed, ShouldEqual, 1)
			So(activeMessages(n), ShouldResemble, []string{
				"success: Zadanie ukończone!",
				"error: Błąd podczas ładowania zadań",
			})
		})

		Convey("CSV export follows the visible list", func() {
			p.SetFilter(tasks.FilterCompleted)
			var buf bytes.Buffer
			So(p.ExportCSV(&buf), ShouldBeNil)
			So(strings.Count(buf.String(), "\n"), ShouldEqual, 2)
			So(buf.String(), ShouldContainSubstring, "Zrobione,,Ukończone")
		})
	})
}

func TestNotePage(t *testing.T) {
	ctx := context.Background()

	Convey("Given a note page", t, func() {
		be := newFake()
		be.notes = []model.Note{{ID: 1, Title: "Plan", Content: "Go", Category: "goals"}}
		n := notify.New(3*time.Second, notify.WithClock(clock))
		p := NewNotePage(be, n, nil, clock)
		So(p.Load(ctx), ShouldBeNil)

		Convey("Save creates with defaults then updates", func() {
			id, err := p.Save(ctx, 0, model.NoteInput{Title: "Nowa", Tags: " a,, b "})
			So(err, ShouldBeNil)
			So(p.All(), ShouldHaveLength, 2)
			created := p.All()[1]
			So(created.Category, ShouldEqual, "general")
			So(created.Tags, ShouldResemble, model.Tags{"a", "b"})

			_, err = p.Save(ctx, id, model.NoteInput{Title: "Nowa 2"})
			So(err, ShouldBeNil)
			So(p.All()[1].Title, ShouldEqual, "Nowa 2")
		})

		Convey("A blank title is rejected locally", func() {
			_, err := p.Save(ctx, 0, model.NoteInput{Title: "  "})
			So(errors.Is(err, ErrValidation), ShouldBeTrue)
			So(activeMessages(n), ShouldResemble, []string{"error: Proszę wprowadzić tytuł notatki"})
		})

		Convey("Search and category narrow the visible notes", func() {
			p.SetSearch("GO")
			So(p.Visible(), ShouldHaveLength, 1)
			p.SetCategory("mentor")
			So(p.Visible(), ShouldBeEmpty)
		})

		Convey("Export then import round-trips through the backend", func() {
			data, err := p.Export()
			So(err, ShouldBeNil)
			imported, err := p.Import(ctx, data)
			So(err, ShouldBeNil)
			So(imported, ShouldEqual, 1)
			So(p.Stats().Categories["goals"], ShouldEqual, 2)
			msgs := activeMessages(n)
			So(msgs[len(msgs)-1], ShouldEqual, "success: Zaimportowano 1 notatek!")
		})

		Convey("A file without notes is rejected before upload", func() {
			_, err := p.Import(ctx, []byte(`{"items": []}`))
			So(err, ShouldNotBeNil)
			So(be.writes, ShouldEqual, 0)
			So(activeMessages(n), ShouldResemble, []string{"error: Nieprawidłowy format pliku"})
		})
	})
}

func TestChatPage(t *testing.T) {
	ctx := context.Background()

	Convey("Given a chat page", t, func() {
		be := newFake()
		be.tasks = []model.Task{{ID: 1, Title: "A"}, {ID: 2, Title: "B", IsCompleted: true}}
		tp := NewTaskPage(be, nil, nil, clock)
		So(tp.Load(ctx), ShouldBeNil)
		p := NewChatPage(be, tp, nil, clock)

		Convey("A message gets a mentor reply", func() {
			msg, err := p.Send(ctx, 1, "  Pomocy  ")
			So(err, ShouldBeNil)
			So(msg.Role, ShouldEqual, chat.RoleMentor)
			tr, _ := p.Transcript(1)
			So(tr.Messages, ShouldHaveLength, 2)
			So(tr.Messages[0].Text, ShouldEqual, "Pomocy")
		})

		Convey("An empty message is rejected locally", func() {
			_, err := p.Send(ctx, 1, "   ")
			So(errors.Is(err, ErrValidation), ShouldBeTrue)
			tr, _ := p.Transcript(1)
			So(tr.Messages, ShouldBeEmpty)
		})

		Convey("A failure appends the apology", func() {
			be.failWith = errDown
			msg, err := p.Send(ctx, 2, "Hej")
			So(err, ShouldNotBeNil)
			So(msg.Role, ShouldEqual, chat.RoleError)
			So(msg.Text, ShouldEqual, chat.FailureReply)
		})

		Convey("Unknown mentors are not found", func() {
			_, err := p.Send(ctx, 99, "Hej")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})

		Convey("Export and quick tasks", func() {
			_, _ = p.Send(ctx, 4, "Motywacja")
			text, err := p.Export(4)
			So(err, ShouldBeNil)
			So(text, ShouldStartWith, "Rozmowa z David\n")
			So(p.QuickTasks(), ShouldHaveLength, 1)
			p.Clear(4)
			tr, _ := p.Transcript(4)
			So(tr.Messages, ShouldBeEmpty)
		})
	})
}

type countingLoader struct {
	n   atomic.Int32
	err error
}

func (c *countingLoader) Load(context.Context) error {
	c.n.Add(1)
	return c.err
}

func TestRefresher(t *testing.T) {
	Convey("RefreshNow runs every job and joins errors", t, func() {
		ok, bad := &countingLoader{}, &countingLoader{err: errDown}
		r := NewRefresher("@every 1h", time.UTC, time.Second, Job{"events", ok}, Job{"tasks", bad})
		err := r.RefreshNow(context.Background())
		So(errors.Is(err, errDown), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "tasks")
		So(ok.n.Load(), ShouldEqual, int32(1))
		So(bad.n.Load(), ShouldEqual, int32(1))
	})

	Convey("Start rejects an invalid schedule", t, func() {
		r := NewRefresher("not a cron", time.UTC, 0)
		So(r.Start(context.Background()), ShouldNotBeNil)
		So(r.Stop, ShouldNotPanic)
	})

	Convey("A frequent schedule fires the jobs", t, func() {
		l := &countingLoader{}
		r := NewRefresher("@every 1s", time.UTC, 0, Job{"events", l})
		So(r.Start(context.Background()), ShouldBeNil)
		deadline := time.Now().Add(5 * time.Second)
		for l.n.Load() == 0 && time.Now().Before(deadline) {
			time.Sleep(50 * time.Millisecond)
		}
		r.Stop()
		So(l.n.Load(), ShouldBeGreaterThan, int32(0))
	})
}
