// Package notes implements the notes page logic: search and category
// filtering, the formatting toolbar, the content counter, previews and the
// JSON export/import file format.
package notes

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/franeklasinski/ai-mentors-llms/internal/model"
)

const (
	// MaxContent is the advisory content length shown by the counter.
	MaxContent = 10000
	// PreviewLength is the number of characters kept by Preview.
	PreviewLength = 150
	// CategoryAll disables category filtering.
	CategoryAll = "all"
	// DefaultCategory is used when a note is saved without one.
	DefaultCategory = "general"
)

var categoryLabels = map[string]string{
	"general":  "Ogólne",
	"goals":    "Cele",
	"progress": "Postęp",
	"insights": "Spostrzeżenia",
	"mentor":   "Mentor",
	"personal": "Osobiste",
}

// CategoryLabel returns the Polish label, or category itself when unknown.
func CategoryLabel(category string) string {
	if l, ok := categoryLabels[category]; ok {
		return l
	}
	return category
}

// Filter keeps notes whose title, content or any tag contains search
// (case-insensitive) and whose category matches. An empty search and
// CategoryAll match everything.
func Filter(notes []model.Note, search, category string) []model.Note {
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]model.Note, 0, len(notes))
	for _, n := range notes {
		if category != "" && category != CategoryAll && n.Category != category {
			continue
		}
		if search != "" && !matches(n, search) {
			continue
		}
		out = append(out, n)
	}
	return out
}

func matches(n model.Note, needle string) bool {
	if strings.Contains(strings.ToLower(n.Title), needle) ||
		strings.Contains(strings.ToLower(n.Content), needle) {
		return true
	}
	for _, tag := range n.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

type Command string

const (
	Bold      Command = "bold"
	Italic    Command = "italic"
	Underline Command = "underline"
	Heading   Command = "heading"
	Bullet    Command = "bullet"
	Number    Command = "number"
	Link      Command = "link"
)

// ApplyFormat wraps text[start:end] (rune offsets) for cmd and returns the
// new text with the caret placed right after the inserted markup. Link
// needs a url; without one, or for an unknown command, ok is false and the
// text is returned unchanged.
func ApplyFormat(text string, start, end int, cmd Command, url string) (out string, caret int, ok bool) {
	runes := []rune(text)
	start = clamp(start, 0, len(runes))
	end = clamp(end, start, len(runes))
	selected := string(runes[start:end])

	var formatted string
	switch cmd {
	case Bold:
		formatted = "**" + selected + "**"
	case Italic:
		formatted = "*" + selected + "*"
	case Underline:
		formatted = "<u>" + selected + "</u>"
	case Heading:
		formatted = "# " + selected
	case Bullet:
		formatted = "• " + selected
	case Number:
		formatted = "1. " + selected
	case Link:
		if strings.TrimSpace(url) == "" {
			return text, end, false
		}
		label := selected
		if label == "" {
			label = "Link"
		}
		formatted = "[" + label + "](" + url + ")"
	default:
		return text, end, false
	}

	out = string(runes[:start]) + formatted + string(runes[end:])
	return out, start + utf8.RuneCountInString(formatted), true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type Level string

const (
	LevelNormal  Level = "normal"
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
)

// Counter describes the content length indicator.
type Counter struct {
	Length int   `json:"length"`
	Max    int   `json:"max"`
	Level  Level `json:"level"`
}

// Text renders "123/10000 znaków".
func (c Counter) Text() string {
	return fmt.Sprintf("%d/%d znaków", c.Length, c.Max)
}

// Count measures content in characters. Above 90% of MaxContent the level is
// danger, above 70% warning.
func Count(content string) Counter {
	n := utf8.RuneCountInString(content)
	c := Counter{Length: n, Max: MaxContent, Level: LevelNormal}
	switch {
	case n*10 > MaxContent*9:
		c.Level = LevelDanger
	case n*10 > MaxContent*7:
		c.Level = LevelWarning
	}
	return c
}

var previewStripper = strings.NewReplacer("*", "", "_", "", "#", "", "[", "", "]", "", "(", "", ")", "")

// Preview shortens content to PreviewLength characters plus "..." and strips
// markdown punctuation.
func Preview(content string) string {
	runes := []rune(content)
	if len(runes) > PreviewLength {
		content = string(runes[:PreviewLength]) + "..."
	}
	return previewStripper.Replace(content)
}

// DateLine is the card footer: "Zaktualizowano dd.mm.yyyy" when the note was
// edited, "Utworzono dd.mm.yyyy" otherwise.
func DateLine(n model.Note) string {
	if n.UpdatedAt != nil && !n.UpdatedAt.IsZero() {
		return "Zaktualizowano " + formatDate(n.UpdatedAt.Time)
	}
	return "Utworzono " + formatDate(n.CreatedAt.Time)
}

func formatDate(t time.Time) string {
	return fmt.Sprintf("%d.%02d.%d", t.Day(), int(t.Month()), t.Year())
}

type Stats struct {
	Total      int            `json:"total"`
	Categories map[string]int `json:"categories"`
}

func ComputeStats(notes []model.Note) Stats {
	s := Stats{Total: len(notes), Categories: map[string]int{}}
	for _, n := range notes {
		s.Categories[n.Category]++
	}
	return s
}

// Categories returns the known category keys in display order.
func Categories() []string {
	keys := make([]string, 0, len(categoryLabels))
	for k := range categoryLabels {
		keys = append(keys, k)
	}
	order := map[string]int{"general": 0, "goals": 1, "progress": 2, "insights": 3, "mentor": 4, "personal": 5}
	sort.Slice(keys, func(i, j int) bool { return order[keys[i]] < order[keys[j]] })
	return keys
}

// ExportFile is the notes export document.
type ExportFile struct {
	ExportedAt time.Time    `json:"exported_at"`
	TotalNotes int          `json:"total_notes"`
	Notes      []model.Note `json:"notes"`
}

// Export encodes notes as an indented export document.
func Export(notes []model.Note, now time.Time) ([]byte, error) {
	if notes == nil {
		notes = []model.Note{}
	}
	return json.MarshalIndent(ExportFile{
		ExportedAt: now.UTC(),
		TotalNotes: len(notes),
		Notes:      notes,
	}, "", "  ")
}

// ExportFilename is the download name for an export made at now.
func ExportFilename(now time.Time) string {
	return "notatki_" + now.UTC().Format(model.DateLayout) + ".json"
}

var (
	// ErrUnreadable means the import file is not valid JSON.
	ErrUnreadable = errors.New("notes: import file is not valid JSON")
	// ErrBadFormat means the file has no "notes" array.
	ErrBadFormat = errors.New("notes: import file has no notes array")
)

// ParseImport reads an export document. Only the "notes" array is required.
func ParseImport(data []byte) ([]model.Note, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	body, ok := raw["notes"]
	if !ok || len(body) == 0 || body[0] != '[' {
		return nil, ErrBadFormat
	}
	var notes []model.Note
	if err := json.Unmarshal(body, &notes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return notes, nil
}
