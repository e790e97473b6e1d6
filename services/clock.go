package services

import "time"

// DateLayout is the calendar-date form stored on daily records.
const DateLayout = "2006-01-02"

// Now is the clock every date computation reads. Tests replace it.
var Now = time.Now

// Today is the current UTC calendar date. Both the checklist write path and
// the streak read path use it so a day never shifts between the two.
func Today() string {
	return DateKey(Now())
}

func DateKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
