package app

import (
	"context"
	"errors"
	"sync"

	"github.com/franeklasinski/ai-mentors-llms/internal/api"
	"github.com/franeklasinski/ai-mentors-llms/internal/model"
)

var errDown = errors.New("dial tcp: connection refused")

// fakeBackend is an in-memory Backend. Setting failWith makes every write
// return that error; listErr fails the list calls.
type fakeBackend struct {
	mu       sync.Mutex
	events   []model.Event
	tasks    []model.Task
	notes    []model.Note
	nextID   int64
	failWith error
	listErr  error
	writes   int
	lists    int
	reply    string
}

func newFake() *fakeBackend {
	return &fakeBackend{nextID: 100, reply: "Dasz radę!"}
}

func (f *fakeBackend) write() error {
	f.writes++
	return f.failWith
}

func (f *fakeBackend) ListEvents(context.Context) ([]model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.Event(nil), f.events...), nil
}

func (f *fakeBackend) CreateEvent(_ context.Context, in model.EventInput) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.write(); err != nil {
		return 0, err
	}
	f.nextID++
	f.events = append(f.events, model.Event{ID: f.nextID, Title: in.Title, Description: in.Description,
		Date: in.Date, Time: in.Time, Type: in.Type, Reminder: in.Reminder})
	return f.nextID, nil
}

func (f *fakeBackend) UpdateEvent(_ context.Context, id int64, in model.EventInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.write(); err != nil {
		return err
	}
	for i := range f.events {
		if f.events[i].ID == id {
			f.events[i] = model.Event{ID: id, Title: in.Title, Date: in.Date, Time: in.Time, Type: in.Type}
			return nil
		}
	}
	return &api.StatusError{Method: "PUT", Path: "/api/events", Code: 404}
}

func (f *fakeBackend) DeleteEvent(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.write(); err != nil {
		return err
	}
	for i := range f.events {
		if f.events[i].ID == id {
			f.events = append(f.events[:i], f.events[i+1:]...)
			return nil
		}
	}
	return &api.StatusError{Method: "DELETE", Path: "/api/events", Code: 404}
}

func (f *fakeBackend) ListTasks(context.Context) ([]model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.Task(nil), f.tasks...), nil
}

func (f *fakeBackend) CreateTask(_ context.Context, in model.TaskInput) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.write(); err != nil {
		return 0, err
	}
	f.nextID++
	f.tasks = append(f.tasks, model.Task{ID: f.nextID, Title: in.Title, Description: in.Description})
	return f.nextID, nil
}

func (f *fakeBackend) CompleteTask(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.write(); err != nil {
		return err
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].IsCompleted = true
		}
	}
	return nil
}

func (f *fakeBackend) DeleteTask(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.write(); err != nil {
		return err
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeBackend) ListNotes(context.Context) ([]model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.Note(nil), f.notes...), nil
}

func (f *fakeBackend) CreateNote(_ context.Context, in model.NoteInput) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.write(); err != nil {
		return 0, err
	}
	f.nextID++
	f.notes = append(f.notes, model.Note{ID: f.nextID, Title: in.Title, Content: in.Content,
		Category: in.Category, Tags: model.SplitTags(in.Tags)})
	return f.nextID, nil
}

func (f *fakeBackend) UpdateNote(_ context.Context, id int64, in model.NoteInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.write(); err != nil {
		return err
	}
	for i := range f.notes {
		if f.notes[i].ID == id {
			f.notes[i].Title = in.Title
			f.notes[i].Content = in.Content
		}
	}
	return nil
}

func (f *fakeBackend) DeleteNote(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.write(); err != nil {
		return err
	}
	for i := range f.notes {
		if f.notes[i].ID == id {
			f.notes = append(f.notes[:i], f.notes[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeBackend) ImportNotes(_ context.Context, ns []model.Note) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.write(); err != nil {
		return 0, err
	}
	for _, n := range ns {
		f.nextID++
		n.ID = f.nextID
		f.notes = append(f.notes, n)
	}
	return len(ns), nil
}

func (f *fakeBackend) SendChat(_ context.Context, _ int64, _ string) (model.ChatReply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return model.ChatReply{}, f.failWith
	}
	return model.ChatReply{Response: f.reply}, nil
}

var _ Backend = (*fakeBackend)(nil)
