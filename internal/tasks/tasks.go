// Package tasks implements task list filtering, priority derivation, sorting
// and CSV export for the tasks page.
package tasks

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/franeklasinski/ai-mentors-llms/internal/model"
)

// UrgentWindow is how far ahead a due date makes a pending task urgent.
const UrgentWindow = 24 * time.Hour

// QuickLimit is the size of the chat sidebar task list.
const QuickLimit = 5

type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
	FilterUrgent    Filter = "urgent"
)

// ParseFilter maps unknown values to FilterAll.
func ParseFilter(s string) Filter {
	switch f := Filter(s); f {
	case FilterPending, FilterCompleted, FilterUrgent:
		return f
	default:
		return FilterAll
	}
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var priorityLabels = map[Priority]string{
	PriorityLow:    "Niski",
	PriorityMedium: "Średni",
	PriorityHigh:   "Wysoki",
	PriorityUrgent: "Pilny",
}

var priorityRank = map[Priority]int{
	PriorityUrgent: 4,
	PriorityHigh:   3,
	PriorityMedium: 2,
	PriorityLow:    1,
}

// Label returns the Polish label; unknown priorities read as "Średni".
func (p Priority) Label() string {
	if l, ok := priorityLabels[p]; ok {
		return l
	}
	return priorityLabels[PriorityMedium]
}

// PriorityFromDue derives a priority from the number of days left, rounded
// up: overdue is urgent, up to one day high, up to three medium, otherwise
// low. Tasks without a due date are medium.
func PriorityFromDue(due *model.Stamp, now time.Time) Priority {
	if due == nil || due.IsZero() {
		return PriorityMedium
	}
	days := math.Ceil(float64(due.Sub(now)) / float64(24*time.Hour))
	switch {
	case days < 0:
		return PriorityUrgent
	case days <= 1:
		return PriorityHigh
	case days <= 3:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// IsUrgent reports whether t is pending and due within UrgentWindow of now
// (overdue included).
func IsUrgent(t model.Task, now time.Time) bool {
	if t.IsCompleted || t.DueDate == nil || t.DueDate.IsZero() {
		return false
	}
	return !t.DueDate.After(now.Add(UrgentWindow))
}

// Apply returns the tasks matching f in their original order.
func Apply(tasks []model.Task, f Filter, now time.Time) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		var keep bool
		switch f {
		case FilterPending:
			keep = !t.IsCompleted
		case FilterCompleted:
			keep = t.IsCompleted
		case FilterUrgent:
			keep = IsUrgent(t, now)
		default:
			keep = true
		}
		if keep {
			out = append(out, t)
		}
	}
	return out
}

type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Urgent    int `json:"urgent"`
}

func ComputeStats(tasks []model.Task, now time.Time) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.IsCompleted {
			s.Completed++
		} else {
			s.Pending++
		}
		if IsUrgent(t, now) {
			s.Urgent++
		}
	}
	return s
}

type SortKey string

const (
	SortDate     SortKey = "date"
	SortPriority SortKey = "priority"
	SortTitle    SortKey = "title"
)

// Sort orders tasks in place. Date puts the newest first, priority puts
// urgent first, title uses Polish collation. Unknown keys leave the order
// unchanged.
func Sort(tasks []model.Task, key SortKey, now time.Time) {
	switch key {
	case SortDate:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt.Time)
		})
	case SortPriority:
		sort.SliceStable(tasks, func(i, j int) bool {
			return priorityRank[PriorityFromDue(tasks[i].DueDate, now)] >
				priorityRank[PriorityFromDue(tasks[j].DueDate, now)]
		})
	case SortTitle:
		col := collate.New(language.Polish)
		sort.SliceStable(tasks, func(i, j int) bool {
			return col.CompareString(tasks[i].Title, tasks[j].Title) < 0
		})
	}
}

// Quick returns up to limit pending tasks in their original order.
func Quick(tasks []model.Task, limit int) []model.Task {
	out := make([]model.Task, 0, limit)
	for _, t := range tasks {
		if len(out) == limit {
			break
		}
		if !t.IsCompleted {
			out = append(out, t)
		}
	}
	return out
}

// FormatDate renders a date the way the pl-PL locale does ("16.10.2024",
// "5.01.2024").
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d.%02d.%d", t.Day(), int(t.Month()), t.Year())
}

// StatusLabel is the CSV status column.
func StatusLabel(t model.Task) string {
	if t.IsCompleted {
		return "Ukończone"
	}
	return "W trakcie"
}

// CSVHeader is the first row of ExportCSV.
var CSVHeader = []string{"Tytuł", "Opis", "Status", "Termin", "Utworzone"}

// ExportCSV writes tasks with a header row.
func ExportCSV(w io.Writer, tasks []model.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, t := range tasks {
		due := ""
		if t.DueDate != nil && !t.DueDate.IsZero() {
			due = FormatDate(t.DueDate.Time)
		}
		created := ""
		if !t.CreatedAt.IsZero() {
			created = FormatDate(t.CreatedAt.Time)
		}
		if err := cw.Write([]string{t.Title, t.Description, StatusLabel(t), due, created}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFilename is the download name for an export made at now.
func ExportFilename(now time.Time) string {
	return "zadania_" + now.UTC().Format(model.DateLayout) + ".csv"
}
