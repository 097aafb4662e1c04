package chat

import (
	"errors"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestValidateMessage(t *testing.T) {
	Convey("Messages are trimmed and bounded", t, func() {
		msg, err := ValidateMessage("  Cześć  ")
		So(err, ShouldBeNil)
		So(msg, ShouldEqual, "Cześć")

		_, err = ValidateMessage(" \n\t ")
		So(errors.Is(err, ErrEmpty), ShouldBeTrue)

		_, err = ValidateMessage(strings.Repeat("ż", MaxMessage))
		So(err, ShouldBeNil)
		_, err = ValidateMessage(strings.Repeat("ż", MaxMessage+1))
		So(errors.Is(err, ErrTooLong), ShouldBeTrue)
	})

	Convey("The counter warns above 800 and 900 characters", t, func() {
		So(CounterLevel(strings.Repeat("a", 800)), ShouldEqual, LevelNormal)
		So(CounterLevel(strings.Repeat("a", 801)), ShouldEqual, LevelWarning)
		So(CounterLevel(strings.Repeat("a", 901)), ShouldEqual, LevelDanger)
	})
}

func TestTranscript(t *testing.T) {
	at := time.Date(2024, 10, 16, 10, 5, 0, 0, time.UTC)

	Convey("Given a conversation with Anna", t, func() {
		tr := NewTranscript("Anna")
		tr.AddUser("Jak zacząć?", at)
		tr.AddMentor("Małymi krokami.", at.Add(time.Minute))
		tr.AddFailure(at.Add(2 * time.Minute))

		Convey("Export lists every message with its sender", func() {
			So(tr.ExportText(at), ShouldEqual, "Rozmowa z Anna\n"+
				"Data: 16.10.2024\n\n"+
				"[10:05] Ty: Jak zacząć?\n"+
				"[10:06] Anna: Małymi krokami.\n"+
				"[10:07] Anna: "+FailureReply+"\n")
			So(tr.ExportFilename(at), ShouldEqual, "chat_Anna_2024-10-16.txt")
		})

		Convey("Single-digit days are not padded", func() {
			So(tr.ExportText(time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC)), ShouldStartWith, "Rozmowa z Anna\nData: 5.01.2024\n\n")
		})

		Convey("Clear empties the transcript", func() {
			tr.Clear()
			So(tr.Messages, ShouldBeEmpty)
		})
	})
}

func TestCarousel(t *testing.T) {
	Convey("Given the default mentors", t, func() {
		c := NewCarousel(DefaultMentors)

		Convey("Prev wraps to the last card", func() {
			c.Prev()
			So(c.Index(), ShouldEqual, 3)
			So(c.Offset(), ShouldEqual, -3*380)
			m, ok := c.Current()
			So(ok, ShouldBeTrue)
			So(m.Name, ShouldEqual, "David")
		})

		Convey("Next wraps to the first card", func() {
			for i := 0; i < 4; i++ {
				c.Next()
			}
			So(c.Index(), ShouldEqual, 0)
			So(c.Offset(), ShouldEqual, 0)
		})

		Convey("GoTo ignores out-of-range indexes", func() {
			So(c.GoTo(2), ShouldBeTrue)
			So(c.GoTo(9), ShouldBeFalse)
			So(c.Index(), ShouldEqual, 2)
		})
	})

	Convey("An empty carousel is inert", t, func() {
		c := NewCarousel(nil)
		c.Next()
		c.Prev()
		_, ok := c.Current()
		So(ok, ShouldBeFalse)
		So(c.Offset(), ShouldEqual, 0)
	})

	Convey("MentorByID finds seeded mentors", t, func() {
		m, ok := MentorByID(DefaultMentors, 2)
		So(ok, ShouldBeTrue)
		So(m.Name, ShouldEqual, "Marek")
	})
}
