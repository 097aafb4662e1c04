package model

// EventInput is the request body of POST /api/events and PUT /api/events/{id}.
type EventInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Type        EventType `json:"type"`
	Reminder    string    `json:"reminder"`
}

// InputOf copies the editable fields of an existing event.
func (e Event) InputOf() EventInput {
	return EventInput{
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Time:        e.Time,
		Type:        e.Type,
		Reminder:    e.Reminder,
	}
}

// TaskInput is the request body of POST /api/tasks.
type TaskInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date"`
	MentorID    *int64  `json:"mentor_id"`
}

// NoteInput is the request body of POST /api/notes and PUT /api/notes/{id}.
type NoteInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Tags     string `json:"tags"`
}

// ChatRequest is the request body of POST /api/chat.
type ChatRequest struct {
	MentorID int64  `json:"mentor_id"`
	Message  string `json:"message"`
}

// ChatReply is the mentor's answer.
type ChatReply struct {
	Response  string `json:"response"`
	Timestamp string `json:"timestamp,omitempty"`
}
