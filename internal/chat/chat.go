// Package chat holds the mentor conversation transcript, message validation
// and the plain-text export.
package chat

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxMessage is the longest message the input accepts, in characters.
const MaxMessage = 1000

// FailureReply is appended to the transcript when the backend call fails.
const FailureReply = "Przepraszam, wystąpił błąd. Spróbuj ponownie."

var (
	ErrEmpty   = errors.New("chat: message is empty")
	ErrTooLong = errors.New("chat: message is too long")
)

// ValidateMessage trims msg and checks it is non-empty and within MaxMessage.
func ValidateMessage(msg string) (string, error) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return "", ErrEmpty
	}
	if utf8.RuneCountInString(msg) > MaxMessage {
		return "", ErrTooLong
	}
	return msg, nil
}

type Level string

const (
	LevelNormal  Level = "normal"
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
)

// CounterLevel colors the input counter: above 900 characters danger, above
// 800 warning.
func CounterLevel(msg string) Level {
	switch n := utf8.RuneCountInString(msg); {
	case n > 900:
		return LevelDanger
	case n > 800:
		return LevelWarning
	default:
		return LevelNormal
	}
}

type Role string

const (
	RoleUser   Role = "user"
	RoleMentor Role = "mentor"
	RoleError  Role = "error"
)

type Message struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Clock renders the message time as HH:MM.
func (m Message) Clock() string {
	return m.At.Format("15:04")
}

// Transcript is one conversation with a mentor.
type Transcript struct {
	Mentor   string    `json:"mentor"`
	Messages []Message `json:"messages"`
}

func NewTranscript(mentor string) *Transcript {
	return &Transcript{Mentor: mentor}
}

func (t *Transcript) add(role Role, text string, at time.Time) Message {
	m := Message{Role: role, Text: text, At: at}
	t.Messages = append(t.Messages, m)
	return m
}

func (t *Transcript) AddUser(text string, at time.Time) Message {
	return t.add(RoleUser, text, at)
}

func (t *Transcript) AddMentor(text string, at time.Time) Message {
	return t.add(RoleMentor, text, at)
}

// AddFailure appends FailureReply as an error message.
func (t *Transcript) AddFailure(at time.Time) Message {
	return t.add(RoleError, FailureReply, at)
}

// Clear forgets every message.
func (t *Transcript) Clear() {
	t.Messages = nil
}

// ExportText renders the transcript as downloaded by the chat page:
//
//	Rozmowa z Anna
//	Data: 16.10.2024
//
//	[10:00] Ty: Cześć
//	[10:01] Anna: Witaj!
func (t *Transcript) ExportText(now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rozmowa z %s\n", t.Mentor)
	fmt.Fprintf(&b, "Data: %d.%02d.%d\n\n", now.Day(), int(now.Month()), now.Year())
	for _, m := range t.Messages {
		sender := t.Mentor
		if m.Role == RoleUser {
			sender = "Ty"
		}
		fmt.Fprintf(&b, "[%s] %s: %s\n", m.Clock(), sender, m.Text)
	}
	return b.String()
}

// ExportFilename is the download name for an export made at now.
func (t *Transcript) ExportFilename(now time.Time) string {
	return fmt.Sprintf("chat_%s_%s.txt", t.Mentor, now.UTC().Format("2006-01-02"))
}
