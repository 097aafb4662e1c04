package model

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format of Event.Date and of every date key used to
// group events by calendar day.
const DateLayout = "2006-01-02"

// EventType classifies calendar events. The set is closed; unknown values
// from the backend are kept verbatim and shown as-is.
type EventType string

const (
	EventMeeting  EventType = "meeting"
	EventTask     EventType = "task"
	EventReminder EventType = "reminder"
	EventGoal     EventType = "goal"
	EventPersonal EventType = "personal"
)

var eventTypeLabels = map[EventType]string{
	EventMeeting:  "Spotkanie",
	EventTask:     "Zadanie",
	EventReminder: "Przypomnienie",
	EventGoal:     "Cel",
	EventPersonal: "Osobiste",
}

// Label returns the Polish display label, or the raw value for unknown types.
func (t EventType) Label() string {
	if l, ok := eventTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// Valid reports whether t is one of the five known event types.
func (t EventType) Valid() bool {
	_, ok := eventTypeLabels[t]
	return ok
}

// Event is a calendar entry as returned by GET /api/events.
//
// ID is assigned by the backend and never changes. Date is always present;
// Time is optional ("HH:MM").
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        string    `json:"date"`
	Time        string    `json:"time,omitempty"`
	Type        EventType `json:"type"`
	Reminder    string    `json:"reminder,omitempty"`
}

// Day returns the event's calendar date at midnight in loc. A date-time value
// ("2025-01-02T10:00:00") is accepted and truncated to its date part.
func (e Event) Day(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s := strings.TrimSpace(e.Date)
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	if s == "" {
		return time.Time{}, errors.New("event has no date")
	}
	return time.ParseInLocation(DateLayout, s, loc)
}

// Hour returns the hour-of-day of Time. ok is false when the event has no
// time or it does not parse as HH:MM.
func (e Event) Hour() (hour int, ok bool) {
	s := strings.TrimSpace(e.Time)
	if s == "" {
		return 0, false
	}
	hh, rest, found := strings.Cut(s, ":")
	if !found || rest == "" {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	mm := rest
	if i := strings.IndexByte(mm, ':'); i >= 0 {
		mm = mm[:i]
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h, true
}

// Task is an item of GET /api/tasks.
type Task struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	IsCompleted bool   `json:"is_completed"`
	DueDate     *Stamp `json:"due_date"`
	CreatedAt   Stamp  `json:"created_at"`
	CompletedAt *Stamp `json:"completed_at"`
	MentorID    *int64 `json:"mentor_id"`
}

// Note is an item of GET /api/notes.
type Note struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Category  string `json:"category"`
	Tags      Tags   `json:"tags"`
	CreatedAt Stamp  `json:"created_at"`
	UpdatedAt *Stamp `json:"updated_at,omitempty"`
}

// Mentor is one of the chat personas shown in the home page carousel.
type Mentor struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Specialization string `json:"specialization"`
	Image          string `json:"image"`
}
