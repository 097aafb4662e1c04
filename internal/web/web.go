package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/franeklasinski/ai-mentors-llms/internal/app"
	"github.com/franeklasinski/ai-mentors-llms/internal/calendar"
	"github.com/franeklasinski/ai-mentors-llms/internal/config"
	"github.com/franeklasinski/ai-mentors-llms/internal/ics"
	appLog "github.com/franeklasinski/ai-mentors-llms/internal/log"
	"github.com/franeklasinski/ai-mentors-llms/internal/metrics"
	"github.com/franeklasinski/ai-mentors-llms/internal/model"
	"github.com/franeklasinski/ai-mentors-llms/internal/notes"
	"github.com/franeklasinski/ai-mentors-llms/internal/notify"
	"github.com/franeklasinski/ai-mentors-llms/internal/tasks"
)

//go:embed templates/*.html
var templateFS embed.FS

var calendarTmpl = template.Must(template.ParseFS(templateFS, "templates/calendar.html"))

// Pages are the controllers the server renders. Tasks and Notes may be nil;
// their download routes then answer 404.
type Pages struct {
	Calendar *app.CalendarPage
	Tasks    *app.TaskPage
	Notes    *app.NotePage
}

// Server renders the calendar page and exposes the download and JSON
// endpoints. Every request re-renders from the controllers' current state.
type Server struct {
	cfg     *config.Config
	pages   Pages
	metrics *metrics.Recorder
	loc     *time.Location
	now     func() time.Time
	mux     *http.ServeMux
}

// NewServer constructs a new Server.
func NewServer(cfg *config.Config, pages Pages, rec *metrics.Recorder) *Server {
	loc, err := cfg.Location()
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", cfg.Timezone)
	}
	s := &Server{
		cfg:     cfg,
		pages:   pages,
		metrics: rec,
		loc:     loc,
		now:     time.Now,
		mux:     http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run serves on cfg.Listen until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts on ln until ctx is cancelled. The listener is already bound,
// so requests can be made as soon as Serve is called.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	appLog.Info("shutting down HTTP server")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /calendar", s.handleCalendar)
	s.mux.HandleFunc("POST /calendar/nav", s.handleNavigate)
	s.mux.HandleFunc("GET /api/grid", s.handleGrid)
	s.mux.HandleFunc("GET /api/upcoming", s.handleUpcoming)
	s.mux.HandleFunc("GET /calendar.ics", s.handleICS)
	s.mux.HandleFunc("GET /tasks.csv", s.handleTasksCSV)
	s.mux.HandleFunc("GET /notes/export.json", s.handleNotesExport)
	s.mux.Handle("GET /metrics", s.metrics.Handler())
	s.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/calendar", http.StatusFound)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// viewFromQuery applies ?view= and ?date= on top of base. It reports
// whether either parameter was present.
func (s *Server) viewFromQuery(r *http.Request, base calendar.ViewState) (calendar.ViewState, bool, error) {
	q := r.URL.Query()
	view, date := q.Get("view"), q.Get("date")
	if view == "" && date == "" {
		return base, false, nil
	}
	if view != "" {
		g, err := calendar.ParseGranularity(view)
		if err != nil {
			return base, true, err
		}
		base.Granularity = g
	}
	if date != "" {
		d, err := time.ParseInLocation(model.DateLayout, date, s.loc)
		if err != nil {
			return base, true, errors.New("date must be YYYY-MM-DD")
		}
		base.Reference = d
	}
	return base, true, nil
}

// handleCalendar renders the HTML grid. Query parameters move the page
// state so that the navigation buttons continue from there.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	p := s.pages.Calendar
	v, ok, err := s.viewFromQuery(r, p.State())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if ok {
		p.SetView(r.Context(), v)
	}

	var buf bytes.Buffer
	if err := calendarTmpl.Execute(&buf, newPageData(p.View())); err != nil {
		appLog.Error("calendar template failed", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// handleNavigate applies one navigation button press.
//
//	POST /calendar/nav  action=next|prev|today|view  [view=month|week|day]
func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	a := calendar.Action{
		Kind:        calendar.ActionKind(strings.ToLower(r.FormValue("action"))),
		Granularity: calendar.Granularity(strings.ToLower(r.FormValue("view"))),
	}
	if err := s.pages.Calendar.Navigate(r.Context(), a); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	http.Redirect(w, r, "/calendar", http.StatusSeeOther)
}

// gridResponse is the JSON shape of /api/grid.
type gridResponse struct {
	Title         string                `json:"title"`
	View          string                `json:"view"`
	Reference     string                `json:"reference"`
	Buckets       []bucketDTO           `json:"buckets"`
	Upcoming      []upcomingDTO         `json:"upcoming"`
	Notifications []notify.Notification `json:"notifications"`
}

type bucketDTO struct {
	Date     string        `json:"date"`
	Hour     *int          `json:"hour,omitempty"`
	Column   int           `json:"column"`
	InMonth  bool          `json:"in_month"`
	Today    bool          `json:"today"`
	Events   []model.Event `json:"events"`
	Overflow int           `json:"overflow,omitempty"`
	More     string        `json:"more,omitempty"`
}

type upcomingDTO struct {
	Date    string      `json:"date"`
	Label   string      `json:"label"`
	IsToday bool        `json:"is_today"`
	Event   model.Event `json:"event"`
}

// handleGrid returns the grid for the page state, or for ?view=&date=
// without changing the page state.
func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	p := s.pages.Calendar
	v, _, err := s.viewFromQuery(r, p.State())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cv := p.ViewOf(v)

	resp := gridResponse{
		Title:         cv.Title,
		View:          string(v.Granularity),
		Reference:     v.Reference.Format(model.DateLayout),
		Buckets:       make([]bucketDTO, 0, len(cv.Grid.Buckets)),
		Upcoming:      toUpcomingDTOs(cv.Upcoming),
		Notifications: cv.Notifications,
	}
	for _, b := range cv.Grid.Buckets {
		dto := bucketDTO{
			Date:     b.Date.Format(model.DateLayout),
			Column:   b.DayOffset,
			InMonth:  b.InMonth,
			Today:    b.Today,
			Events:   b.Events,
			Overflow: b.Overflow,
			More:     b.OverflowLabel(),
		}
		if dto.Events == nil {
			dto.Events = []model.Event{}
		}
		if b.Hourly {
			h := b.Hour
			dto.Hour = &h
		}
		resp.Buckets = append(resp.Buckets, dto)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleUpcoming lists the next ?days= days (default from config).
func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	days := parseIntDefault(r.URL.Query().Get("days"), s.cfg.UpcomingDays)
	if days < 0 {
		days = calendar.DefaultUpcomingDays
	}
	items := calendar.Upcoming(s.pages.Calendar.Events(), s.now().In(s.loc), days)
	writeJSON(w, http.StatusOK, toUpcomingDTOs(items))
}

func toUpcomingDTOs(items []calendar.UpcomingItem) []upcomingDTO {
	out := make([]upcomingDTO, 0, len(items))
	for _, it := range items {
		out = append(out, upcomingDTO{
			Date:    it.Day.Format(model.DateLayout),
			Label:   it.DayLabel,
			IsToday: it.IsToday,
			Event:   it.Event,
		})
	}
	return out
}

func (s *Server) handleICS(w http.ResponseWriter, _ *http.Request) {
	body := ics.Export(s.pages.Calendar.BackendEvents(), s.loc, s.now())
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="kalendarz.ics"`)
	_, _ = w.Write([]byte(body))
}

func (s *Server) handleTasksCSV(w http.ResponseWriter, r *http.Request) {
	if s.pages.Tasks == nil {
		http.NotFound(w, r)
		return
	}
	var buf bytes.Buffer
	if err := s.pages.Tasks.ExportCSV(&buf); err != nil {
		appLog.Error("tasks export failed", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+tasks.ExportFilename(s.now())+`"`)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleNotesExport(w http.ResponseWriter, r *http.Request) {
	if s.pages.Notes == nil {
		http.NotFound(w, r)
		return
	}
	data, err := s.pages.Notes.Export()
	if err != nil {
		appLog.Error("notes export failed", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+notes.ExportFilename(s.now())+`"`)
	_, _ = w.Write(data)
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
