package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/franeklasinski/ai-mentors-llms/internal/chat"
	appLog "github.com/franeklasinski/ai-mentors-llms/internal/log"
	"github.com/franeklasinski/ai-mentors-llms/internal/model"
)

// ChatPage keeps one transcript per mentor.
type ChatPage struct {
	svc     ChatService
	tasks   *TaskPage
	mentors []model.Mentor
	now     func() time.Time

	mu          sync.Mutex
	transcripts map[int64]*chat.Transcript
}

// NewChatPage creates a chat page. tasks feeds the quick task sidebar and
// may be nil.
func NewChatPage(svc ChatService, tasks *TaskPage, mentors []model.Mentor, now func() time.Time) *ChatPage {
	if now == nil {
		now = time.Now
	}
	if len(mentors) == 0 {
		mentors = chat.DefaultMentors
	}
	return &ChatPage{
		svc:         svc,
		tasks:       tasks,
		mentors:     mentors,
		now:         now,
		transcripts: make(map[int64]*chat.Transcript),
	}
}

func (p *ChatPage) Mentors() []model.Mentor { return p.mentors }

// Transcript returns the conversation with mentorID, creating it if needed.
func (p *ChatPage) Transcript(mentorID int64) (*chat.Transcript, error) {
	m, ok := chat.MentorByID(p.mentors, mentorID)
	if !ok {
		return nil, fmt.Errorf("mentor %d: %w", mentorID, ErrNotFound)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.transcripts[mentorID]
	if !ok {
		t = chat.NewTranscript(m.Name)
		p.transcripts[mentorID] = t
	}
	return t, nil
}

// Send validates msg locally, records it and asks the backend for a reply.
// A failed call appends the apology message instead of a reply and returns
// the error.
func (p *ChatPage) Send(ctx context.Context, mentorID int64, msg string) (chat.Message, error) {
	text, err := chat.ValidateMessage(msg)
	if err != nil {
		return chat.Message{}, &ValidationError{Field: "message", Reason: err.Error()}
	}
	t, err := p.Transcript(mentorID)
	if err != nil {
		return chat.Message{}, err
	}

	p.mu.Lock()
	t.AddUser(text, p.now())
	p.mu.Unlock()

	reply, err := p.svc.SendChat(ctx, mentorID, text)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		appLog.Error("chat send failed", err, "mentor", mentorID)
		return t.AddFailure(p.now()), err
	}
	return t.AddMentor(reply.Response, p.now()), nil
}

// Clear forgets the conversation with mentorID.
func (p *ChatPage) Clear(mentorID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t, ok := p.transcripts[mentorID]; ok {
		t.Clear()
	}
}

// Export renders the conversation with mentorID as plain text.
func (p *ChatPage) Export(mentorID int64) (string, error) {
	t, err := p.Transcript(mentorID)
	if err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return t.ExportText(p.now()), nil
}

// QuickTasks lists the sidebar tasks, or nothing without a task page.
func (p *ChatPage) QuickTasks() []model.Task {
	if p.tasks == nil {
		return nil
	}
	return p.tasks.Quick()
}
