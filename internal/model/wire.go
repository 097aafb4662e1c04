package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// stampLayouts lists the timestamp shapes the backend produces: Python
// isoformat() without zone (with or without microseconds), RFC3339, and a
// plain date for due dates entered through a date picker.
var stampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	DateLayout,
}

// Stamp is a backend timestamp. Zone-less values are read as local time.
type Stamp struct {
	time.Time
}

// ParseStamp parses any of the accepted backend timestamp layouts.
func ParseStamp(s string) (Stamp, error) {
	s = strings.TrimSpace(s)
	for _, layout := range stampLayouts {
		var (
			t   time.Time
			err error
		)
		if layout == time.RFC3339Nano {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return Stamp{Time: t}, nil
		}
	}
	return Stamp{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func (s *Stamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == "" {
		return nil
	}
	parsed, err := ParseStamp(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s Stamp) MarshalJSON() ([]byte, error) {
	if s.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(s.Format("2006-01-02T15:04:05"))
}

// Tags is the note tag list. The backend stores a comma separated string
// but exported files may carry a JSON array, so both are accepted.
type Tags []string

// SplitTags splits a comma separated tag string, trimming blanks.
func SplitTags(s string) Tags {
	var out Tags
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// String joins tags the way the backend stores them.
func (t Tags) String() string {
	return strings.Join(t, ", ")
}

func (t *Tags) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*t = nil
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*t = SplitTags(strings.Join(list, ","))
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("tags: %w", err)
	}
	*t = SplitTags(raw)
	return nil
}

func (t Tags) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}
