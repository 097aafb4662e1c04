// Package app holds the page controllers: explicit state objects that own a
// cached snapshot of one backend collection, validate input before any
// network call, reload the whole collection after every write and report
// outcomes through a notification center.
package app

import (
	"context"
	"errors"

	"github.com/franeklasinski/ai-mentors-llms/internal/api"
	"github.com/franeklasinski/ai-mentors-llms/internal/model"
)

// EventStore is the calendar slice of the backend.
type EventStore interface {
	ListEvents(ctx context.Context) ([]model.Event, error)
	CreateEvent(ctx context.Context, in model.EventInput) (int64, error)
	UpdateEvent(ctx context.Context, id int64, in model.EventInput) error
	DeleteEvent(ctx context.Context, id int64) error
}

// TaskStore is the tasks slice of the backend.
type TaskStore interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	CreateTask(ctx context.Context, in model.TaskInput) (int64, error)
	CompleteTask(ctx context.Context, id int64) error
	DeleteTask(ctx context.Context, id int64) error
}

// NoteStore is the notes slice of the backend.
type NoteStore interface {
	ListNotes(ctx context.Context) ([]model.Note, error)
	CreateNote(ctx context.Context, in model.NoteInput) (int64, error)
	UpdateNote(ctx context.Context, id int64, in model.NoteInput) error
	DeleteNote(ctx context.Context, id int64) error
	ImportNotes(ctx context.Context, notes []model.Note) (int, error)
}

// ChatService sends a message to a mentor.
type ChatService interface {
	SendChat(ctx context.Context, mentorID int64, message string) (model.ChatReply, error)
}

// Backend is everything the pages consume. *api.Client implements it.
type Backend interface {
	EventStore
	TaskStore
	NoteStore
	ChatService
}

var _ Backend = (*api.Client)(nil)

// isTransport reports whether err never got an answer from the backend, as
// opposed to a non-2xx status or a success=false payload.
func isTransport(err error) bool {
	var se *api.StatusError
	return !errors.Is(err, api.ErrRejected) && !errors.As(err, &se)
}
