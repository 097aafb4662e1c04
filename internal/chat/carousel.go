package chat

import "github.com/franeklasinski/ai-mentors-llms/internal/model"

const (
	// CardWidth and CardGap are the carousel card geometry in pixels.
	CardWidth = 350
	CardGap   = 30
)

// Carousel is the mentor picker on the home page. Next and Prev wrap around.
type Carousel struct {
	Mentors []model.Mentor
	index   int
}

func NewCarousel(mentors []model.Mentor) *Carousel {
	return &Carousel{Mentors: mentors}
}

func (c *Carousel) Index() int { return c.index }

// Current returns the selected mentor; ok is false for an empty carousel.
func (c *Carousel) Current() (model.Mentor, bool) {
	if len(c.Mentors) == 0 {
		return model.Mentor{}, false
	}
	return c.Mentors[c.index], true
}

func (c *Carousel) Next() {
	if n := len(c.Mentors); n > 0 {
		c.index = (c.index + 1) % n
	}
}

func (c *Carousel) Prev() {
	if n := len(c.Mentors); n > 0 {
		c.index = (c.index - 1 + n) % n
	}
}

// GoTo selects mentor i. Out-of-range indexes are ignored.
func (c *Carousel) GoTo(i int) bool {
	if i < 0 || i >= len(c.Mentors) {
		return false
	}
	c.index = i
	return true
}

// Offset is the horizontal translation of the card strip in pixels.
func (c *Carousel) Offset() int {
	return -c.index * (CardWidth + CardGap)
}

// DefaultMentors is the persona set the backend seeds on first start.
var DefaultMentors = []model.Mentor{
	{ID: 1, Name: "Anna", Image: "anna.jpg", Specialization: "Rozwój osobisty i well-being",
		Description: "Specjalistka od rozwoju osobistego i równowagi życiowej. Anna pomoże Ci znaleźć wewnętrzny spokój i harmonię."},
	{ID: 2, Name: "Marek", Image: "marek.jpg", Specialization: "Kariera i produktywność",
		Description: "Ekspert od produktywności i celów zawodowych. Marek pomoże Ci osiągnąć sukces w karierze."},
	{ID: 3, Name: "Kasia", Image: "kasia.jpg", Specialization: "Motywacja i przełamywanie barier",
		Description: "Coach życiowa pełna energii. Kasia zmotywuje Cię do działania i przełamania ograniczeń."},
	{ID: 4, Name: "David", Image: "david.jpg", Specialization: "Mental toughness i self-discipline",
		Description: "Hardcore motywator który nie przyjmuje wymówek. David pomoże Ci przekroczyć własne granice."},
}

// MentorByID looks a mentor up in mentors.
func MentorByID(mentors []model.Mentor, id int64) (model.Mentor, bool) {
	for _, m := range mentors {
		if m.ID == id {
			return m, true
		}
	}
	return model.Mentor{}, false
}
