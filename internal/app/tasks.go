package app

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	appLog "github.com/franeklasinski/ai-mentors-llms/internal/log"
	"github.com/franeklasinski/ai-mentors-llms/internal/metrics"
	"github.com/franeklasinski/ai-mentors-llms/internal/model"
	"github.com/franeklasinski/ai-mentors-llms/internal/notify"
	"github.com/franeklasinski/ai-mentors-llms/internal/tasks"
)

// TaskPage caches the task list together with the active filter and sort.
type TaskPage struct {
	store    TaskStore
	notifier *notify.Center
	metrics  *metrics.Recorder
	now      func() time.Time

	mu      sync.RWMutex
	tasks   []model.Task
	filter  tasks.Filter
	sortKey tasks.SortKey
}

func NewTaskPage(store TaskStore, n *notify.Center, rec *metrics.Recorder, now func() time.Time) *TaskPage {
	if now == nil {
		now = time.Now
	}
	if n == nil {
		n = notify.New(3*time.Second, notify.WithMetrics(rec))
	}
	return &TaskPage{store: store, notifier: n, metrics: rec, now: now, filter: tasks.FilterAll}
}

func (p *TaskPage) Notifier() *notify.Center { return p.notifier }

// Load replaces the cached tasks.
func (p *TaskPage) Load(ctx context.Context) error {
	list, err := p.store.ListTasks(ctx)
	p.metrics.Refreshed("tasks", len(list), err)
	if err != nil {
		appLog.Error("tasks load failed", err)
		p.notifier.Error(msgTaskLoadFailed)
		return err
	}
	p.mu.Lock()
	p.tasks = list
	p.mu.Unlock()
	return nil
}

func (p *TaskPage) SetFilter(f tasks.Filter) {
	p.mu.Lock()
	p.filter = f
	p.mu.Unlock()
}

// SetSort picks the order of Visible. An empty key keeps backend order.
func (p *TaskPage) SetSort(k tasks.SortKey) {
	p.mu.Lock()
	p.sortKey = k
	p.mu.Unlock()
}

// All returns the cached tasks in backend order.
func (p *TaskPage) All() []model.Task {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]model.Task(nil), p.tasks...)
}

// Visible applies the filter, then the sort.
func (p *TaskPage) Visible() []model.Task {
	p.mu.RLock()
	f, k := p.filter, p.sortKey
	p.mu.RUnlock()

	now := p.now()
	out := tasks.Apply(p.All(), f, now)
	tasks.Sort(out, k, now)
	return out
}

func (p *TaskPage) Stats() tasks.Stats {
	return tasks.ComputeStats(p.All(), p.now())
}

// Quick lists the first pending tasks for the chat sidebar.
func (p *TaskPage) Quick() []model.Task {
	return tasks.Quick(p.All(), tasks.QuickLimit)
}

// ExportCSV writes the visible tasks.
func (p *TaskPage) ExportCSV(w io.Writer) error {
	return tasks.ExportCSV(w, p.Visible())
}

// Create validates and posts a new task, then reloads.
func (p *TaskPage) Create(ctx context.Context, in model.TaskInput) (int64, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		p.notifier.Error(msgTaskTitleRequired)
		return 0, required("title")
	}
	if in.DueDate != nil && strings.TrimSpace(*in.DueDate) == "" {
		in.DueDate = nil
	}
	id, err := p.store.CreateTask(ctx, in)
	if err != nil {
		p.notifier.Error(msgTaskCreateFailed)
		return 0, err
	}
	p.notifier.Success(msgTaskCreated)
	p.reload(ctx)
	return id, nil
}

// Complete marks task id done, then reloads.
func (p *TaskPage) Complete(ctx context.Context, id int64) error {
	if err := p.store.CompleteTask(ctx, id); err != nil {
		p.notifier.Error(msgTaskCompleteFailed)
		return err
	}
	p.notifier.Success(msgTaskCompleted)
	p.reload(ctx)
	return nil
}

// Delete removes task id, then reloads.
func (p *TaskPage) Delete(ctx context.Context, id int64) error {
	if err := p.store.DeleteTask(ctx, id); err != nil {
		p.notifier.Error(msgTaskDeleteFailed)
		return err
	}
	p.notifier.Success(msgTaskDeleted)
	p.reload(ctx)
	return nil
}

// reload refreshes the snapshot after a successful write. Load logs a
// failure and keeps the previous snapshot; the write itself went through,
// so the caller still gets nil.
func (p *TaskPage) reload(ctx context.Context) {
	_ = p.Load(ctx)
}
