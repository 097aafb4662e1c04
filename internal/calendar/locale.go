package calendar

import (
	"fmt"
	"time"
)

var monthNames = [...]string{
	"Styczeń", "Luty", "Marzec", "Kwiecień", "Maj", "Czerwiec",
	"Lipiec", "Sierpień", "Wrzesień", "Październik", "Listopad", "Grudzień",
}

var monthShort = [...]string{
	"sty", "lut", "mar", "kwi", "maj", "cze",
	"lip", "sie", "wrz", "paź", "lis", "gru",
}

// indexed by time.Weekday (Sunday = 0)
var weekdayShort = [...]string{"niedz.", "pon.", "wt.", "śr.", "czw.", "pt.", "sob."}

// DayHeaders are the month grid column headers, Monday first.
var DayHeaders = [...]string{"Pon", "Wt", "Śr", "Czw", "Pt", "Sob", "Nie"}

func MonthName(m time.Month) string {
	return monthNames[m-1]
}

// ShortDayLabel formats d like "pt., 16 paź" for the upcoming events list.
func ShortDayLabel(d time.Time) string {
	return fmt.Sprintf("%s, %d %s", weekdayShort[d.Weekday()], d.Day(), monthShort[d.Month()-1])
}

// HourLabel formats an hour row header, e.g. "07:00".
func HourLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}
