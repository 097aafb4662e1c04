package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/franeklasinski/ai-mentors-llms/internal/calendar"
	"github.com/franeklasinski/ai-mentors-llms/internal/ics"
	appLog "github.com/franeklasinski/ai-mentors-llms/internal/log"
	"github.com/franeklasinski/ai-mentors-llms/internal/metrics"
	"github.com/franeklasinski/ai-mentors-llms/internal/model"
	"github.com/franeklasinski/ai-mentors-llms/internal/notify"
)

// CalendarOptions configures a CalendarPage. Zero values pick defaults.
type CalendarOptions struct {
	Location     *time.Location
	Now          func() time.Time
	UpcomingDays int
	OverflowCap  int
	Overlay      *ics.Overlay
	Notifier     *notify.Center
	Metrics      *metrics.Recorder
}

// CalendarView is everything the calendar page shows for one state.
type CalendarView struct {
	Title         string                  `json:"title"`
	View          calendar.ViewState      `json:"-"`
	Grid          calendar.Grid           `json:"-"`
	Upcoming      []calendar.UpcomingItem `json:"-"`
	Notifications []notify.Notification   `json:"notifications"`
}

// CalendarPage owns the navigation state and the cached event snapshot.
// The snapshot is only ever replaced by a full reload.
type CalendarPage struct {
	store    EventStore
	overlay  *ics.Overlay
	notifier *notify.Center
	metrics  *metrics.Recorder
	loc      *time.Location
	now      func() time.Time
	days     int
	maxCell  int

	mu         sync.RWMutex
	view       calendar.ViewState
	events     []model.Event
	subscribed []model.Event
}

func NewCalendarPage(store EventStore, opts CalendarOptions) *CalendarPage {
	p := &CalendarPage{
		store:    store,
		overlay:  opts.Overlay,
		notifier: opts.Notifier,
		metrics:  opts.Metrics,
		loc:      opts.Location,
		now:      opts.Now,
		days:     opts.UpcomingDays,
		maxCell:  opts.OverflowCap,
	}
	if p.loc == nil {
		p.loc = time.Local
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.days <= 0 {
		p.days = calendar.DefaultUpcomingDays
	}
	if p.maxCell <= 0 {
		p.maxCell = calendar.DefaultOverflowCap
	}
	if p.notifier == nil {
		p.notifier = notify.New(notify.DefaultTTL, notify.WithReplace(), notify.WithMetrics(opts.Metrics))
	}
	p.view = calendar.NewViewState(p.clock())
	return p
}

func (p *CalendarPage) clock() time.Time {
	return p.now().In(p.loc)
}

// Notifier exposes the page's notification center.
func (p *CalendarPage) Notifier() *notify.Center { return p.notifier }

// Load replaces the event snapshot with the backend's collection. A failed
// load keeps the previous snapshot and is only logged.
func (p *CalendarPage) Load(ctx context.Context) error {
	events, err := p.store.ListEvents(ctx)
	p.metrics.Refreshed("events", len(events), err)
	if err != nil {
		appLog.Error("events load failed", err)
		return err
	}

	p.mu.Lock()
	p.events = events
	view := p.view
	p.mu.Unlock()

	appLog.Debug("events loaded", "count", len(events))
	p.loadOverlay(ctx, view)
	return nil
}

// loadOverlay refreshes the subscription events for the window the page
// can show: the visible grid plus the upcoming list.
func (p *CalendarPage) loadOverlay(ctx context.Context, view calendar.ViewState) {
	if !p.overlay.Enabled() {
		return
	}
	from, to := p.window(view)
	evs, err := p.overlay.Events(ctx, from, to)
	if err != nil {
		appLog.Error("overlay load incomplete", err)
	}
	p.mu.Lock()
	p.subscribed = evs
	p.mu.Unlock()
}

func (p *CalendarPage) window(view calendar.ViewState) (time.Time, time.Time) {
	slots := calendar.ComputeRange(view.Reference, view.Granularity)
	now := p.clock()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, p.loc)
	from, to := today, today.AddDate(0, 0, p.days+1)
	if len(slots) > 0 {
		first := slots[0].Date
		last := slots[len(slots)-1].Date.AddDate(0, 0, 1)
		if first.Before(from) {
			from = first
		}
		if last.After(to) {
			to = last
		}
	}
	return from, to
}

// Navigate applies a navigation action and reloads the overlay for the new
// window. Unknown actions leave the state unchanged.
func (p *CalendarPage) Navigate(ctx context.Context, a calendar.Action) error {
	p.mu.Lock()
	next, err := calendar.Reduce(p.view, a, p.clock())
	if err != nil {
		p.mu.Unlock()
		return err
	}
	p.view = next
	p.mu.Unlock()

	p.loadOverlay(ctx, next)
	return nil
}

// SetView jumps to an explicit state, as used by URL query parameters.
func (p *CalendarPage) SetView(ctx context.Context, v calendar.ViewState) {
	v.Reference = v.Reference.In(p.loc)
	p.mu.Lock()
	p.view = v
	p.mu.Unlock()
	p.loadOverlay(ctx, v)
}

// State returns the current navigation state.
func (p *CalendarPage) State() calendar.ViewState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.view
}

// Events returns the merged snapshot: backend events then overlay events.
func (p *CalendarPage) Events() []model.Event {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]model.Event, 0, len(p.events)+len(p.subscribed))
	out = append(out, p.events...)
	return append(out, p.subscribed...)
}

// BackendEvents returns only the events stored by the backend.
func (p *CalendarPage) BackendEvents() []model.Event {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]model.Event(nil), p.events...)
}

// Event looks an event up in the merged snapshot.
func (p *CalendarPage) Event(id int64) (model.Event, bool) {
	for _, ev := range p.Events() {
		if ev.ID == id {
			return ev, true
		}
	}
	return model.Event{}, false
}

// View renders the current state. It is recomputed from scratch on every
// call.
func (p *CalendarPage) View() CalendarView {
	return p.ViewOf(p.State())
}

// ViewOf renders an arbitrary state against the current snapshot.
func (p *CalendarPage) ViewOf(v calendar.ViewState) CalendarView {
	now := p.clock()
	events := p.Events()
	grid := calendar.Build(v, events, calendar.Options{Now: now, OverflowCap: p.maxCell})
	return CalendarView{
		Title:         grid.Title,
		View:          v,
		Grid:          grid,
		Upcoming:      calendar.Upcoming(events, now, p.days),
		Notifications: p.notifier.Active(p.now()),
	}
}

// Draft returns a blank event prefilled with the clicked day of the month.
func (p *CalendarPage) Draft(day int) model.EventInput {
	d := calendar.DraftDate(p.State(), day)
	return model.EventInput{Date: d.Format(model.DateLayout), Type: model.EventMeeting}
}

// validateEvent normalizes in and checks the required fields.
func validateEvent(in model.EventInput) (model.EventInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Date = strings.TrimSpace(in.Date)
	if in.Title == "" {
		return in, required("title")
	}
	if in.Date == "" {
		return in, required("date")
	}
	if _, err := time.Parse(model.DateLayout, in.Date); err != nil {
		return in, &ValidationError{Field: "date", Reason: "expected YYYY-MM-DD"}
	}
	if in.Type == "" {
		in.Type = model.EventMeeting
	}
	if !in.Type.Valid() {
		return in, &ValidationError{Field: "type", Reason: "unknown event type"}
	}
	return in, nil
}

// CreateEvent validates in, posts it and reloads the snapshot. On any
// failure the snapshot is untouched and exactly one error is notified.
func (p *CalendarPage) CreateEvent(ctx context.Context, in model.EventInput) (int64, error) {
	in, err := validateEvent(in)
	if err != nil {
		p.notifier.Error(msgRequiredFields)
		return 0, err
	}
	id, err := p.store.CreateEvent(ctx, in)
	if err != nil {
		p.writeFailed(err, msgEventAddFailed)
		return 0, err
	}
	p.notifier.Success(msgEventAdded)
	appLog.Info("event created", "id", id, "date", in.Date)
	p.reload(ctx)
	return id, nil
}

// UpdateEvent validates in and replaces event id.
func (p *CalendarPage) UpdateEvent(ctx context.Context, id int64, in model.EventInput) error {
	if ics.IsOverlay(model.Event{ID: id}) {
		p.notifier.Error(msgReadOnly)
		return ErrReadOnly
	}
	in, err := validateEvent(in)
	if err != nil {
		p.notifier.Error(msgRequiredFields)
		return err
	}
	if err := p.store.UpdateEvent(ctx, id, in); err != nil {
		p.writeFailed(err, msgEventUpdateFailed)
		return err
	}
	p.notifier.Success(msgEventUpdated)
	appLog.Info("event updated", "id", id)
	p.reload(ctx)
	return nil
}

// DeleteEvent removes event id.
func (p *CalendarPage) DeleteEvent(ctx context.Context, id int64) error {
	if ics.IsOverlay(model.Event{ID: id}) {
		p.notifier.Error(msgReadOnly)
		return ErrReadOnly
	}
	if err := p.store.DeleteEvent(ctx, id); err != nil {
		p.writeFailed(err, msgEventDeleteFailed)
		return err
	}
	p.notifier.Success(msgEventDeleted)
	appLog.Info("event deleted", "id", id)
	p.reload(ctx)
	return nil
}

func (p *CalendarPage) writeFailed(err error, msg string) {
	if isTransport(err) {
		msg = msgConnection
	}
	p.notifier.Error(msg)
}

// reload refreshes the snapshot after a successful write. Load logs a
// failure and keeps the previous snapshot; the write itself went through,
// so the caller still gets nil.
func (p *CalendarPage) reload(ctx context.Context) {
	_ = p.Load(ctx)
}
