package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	appLog "github.com/franeklasinski/ai-mentors-llms/internal/log"
	"github.com/franeklasinski/ai-mentors-llms/internal/metrics"
	"github.com/franeklasinski/ai-mentors-llms/internal/model"
	"github.com/franeklasinski/ai-mentors-llms/internal/notes"
	"github.com/franeklasinski/ai-mentors-llms/internal/notify"
)

// NotePage caches notes with the current search text and category.
type NotePage struct {
	store    NoteStore
	notifier *notify.Center
	metrics  *metrics.Recorder
	now      func() time.Time

	mu       sync.RWMutex
	notes    []model.Note
	search   string
	category string
}

func NewNotePage(store NoteStore, n *notify.Center, rec *metrics.Recorder, now func() time.Time) *NotePage {
	if now == nil {
		now = time.Now
	}
	if n == nil {
		n = notify.New(3*time.Second, notify.WithMetrics(rec))
	}
	return &NotePage{store: store, notifier: n, metrics: rec, now: now, category: notes.CategoryAll}
}

func (p *NotePage) Notifier() *notify.Center { return p.notifier }

// Load replaces the cached notes.
func (p *NotePage) Load(ctx context.Context) error {
	list, err := p.store.ListNotes(ctx)
	p.metrics.Refreshed("notes", len(list), err)
	if err != nil {
		appLog.Error("notes load failed", err)
		p.notifier.Error(msgNoteLoadFailed)
		return err
	}
	p.mu.Lock()
	p.notes = list
	p.mu.Unlock()
	return nil
}

func (p *NotePage) SetSearch(q string) {
	p.mu.Lock()
	p.search = q
	p.mu.Unlock()
}

func (p *NotePage) SetCategory(c string) {
	if c == "" {
		c = notes.CategoryAll
	}
	p.mu.Lock()
	p.category = c
	p.mu.Unlock()
}

func (p *NotePage) All() []model.Note {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]model.Note(nil), p.notes...)
}

// Visible returns the notes matching the search and category.
func (p *NotePage) Visible() []model.Note {
	p.mu.RLock()
	q, c := p.search, p.category
	p.mu.RUnlock()
	return notes.Filter(p.All(), q, c)
}

func (p *NotePage) Stats() notes.Stats {
	return notes.ComputeStats(p.All())
}

// Save creates a note when id is 0 and updates note id otherwise.
func (p *NotePage) Save(ctx context.Context, id int64, in model.NoteInput) (int64, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		p.notifier.Error(msgNoteTitleRequired)
		return 0, required("title")
	}
	if in.Category == "" {
		in.Category = notes.DefaultCategory
	}
	in.Tags = model.SplitTags(in.Tags).String()

	if id == 0 {
		newID, err := p.store.CreateNote(ctx, in)
		if err != nil {
			p.writeFailed(err, msgNoteAddFailed)
			return 0, err
		}
		p.notifier.Success(msgNoteAdded)
		p.reload(ctx)
		return newID, nil
	}

	if err := p.store.UpdateNote(ctx, id, in); err != nil {
		p.writeFailed(err, msgNoteUpdateFailed)
		return 0, err
	}
	p.notifier.Success(msgNoteUpdated)
	p.reload(ctx)
	return id, nil
}

// Delete removes note id, then reloads.
func (p *NotePage) Delete(ctx context.Context, id int64) error {
	if err := p.store.DeleteNote(ctx, id); err != nil {
		p.writeFailed(err, msgNoteDeleteFailed)
		return err
	}
	p.notifier.Success(msgNoteDeleted)
	p.reload(ctx)
	return nil
}

// Export encodes every cached note as an export document.
func (p *NotePage) Export() ([]byte, error) {
	data, err := notes.Export(p.All(), p.now())
	if err != nil {
		return nil, err
	}
	p.notifier.Success(msgNotesExported)
	return data, nil
}

// Import uploads the notes of an export file and reloads. It returns how
// many notes the backend stored.
func (p *NotePage) Import(ctx context.Context, file []byte) (int, error) {
	list, err := notes.ParseImport(file)
	if err != nil {
		if errors.Is(err, notes.ErrBadFormat) {
			p.notifier.Error(msgNotesBadFormat)
		} else {
			p.notifier.Error(msgNotesUnreadable)
		}
		appLog.Warn("notes import rejected", "reason", err.Error())
		return 0, err
	}
	n, err := p.store.ImportNotes(ctx, list)
	if err != nil {
		appLog.Error("notes import failed", err, "count", len(list))
		p.notifier.Error(msgNotesImportFailed)
		return 0, err
	}
	p.notifier.Success(msgNotesImported(n))
	p.reload(ctx)
	return n, nil
}

func (p *NotePage) writeFailed(err error, msg string) {
	if isTransport(err) {
		msg = msgConnection
	}
	p.notifier.Error(msg)
}

// reload refreshes the snapshot after a successful write. Load logs a
// failure and keeps the previous snapshot; the write itself went through,
// so the caller still gets nil.
func (p *NotePage) reload(ctx context.Context) {
	_ = p.Load(ctx)
}
