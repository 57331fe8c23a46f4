package date

import (
	"fmt"
	"sort"
	"time"
)

// TimeBeforeOrEquals returns whether t1 is before or equal t2
func TimeBeforeOrEquals(t1 time.Time, t2 time.Time) bool {
	ts := t1.UnixNano()
	us := t2.UnixNano()
	return ts <= us
}

// TimeAfterOrEquals returns whether t1 is after or equal t2
func TimeAfterOrEquals(t1 time.Time, t2 time.Time) bool {
	ts := t1.UnixNano()
	us := t2.UnixNano()
	return ts >= us
}

// Timespan is a simple timespan between two times/dates
type Timespan struct {
	Start time.Time `json:"start" bson:"start" validate:"required"`
	End   time.Time `json:"end" bson:"end"`
}

// Duration simply gets the duration of a Timespan
func (t *Timespan) Duration() time.Duration {
	return t.End.Sub(t.Start)
}

// IsStartBeforeEnd checks if start is earlier than end
func (t *Timespan) IsStartBeforeEnd() bool {
	return t.Start.Before(t.End)
}

// String prints a timespan string
func (t *Timespan) String() string {
	return fmt.Sprintf("%s - %s", t.Start, t.End)
}

// IntersectsWith checks if one timespan intersects with another.
// Timespans are half-open, a timespan ending exactly when another starts
// does not intersect.
func (t *Timespan) IntersectsWith(timespan Timespan) bool {
	if t.Start.Before(timespan.End) && t.End.After(timespan.Start) {
		return true
	}

	return false
}

// Contains checks if one timespan t contains another Timespan timespan
func (t *Timespan) Contains(timespan Timespan) bool {
	if TimeAfterOrEquals(timespan.Start, t.Start) &&
		TimeBeforeOrEquals(timespan.End, t.End) {
		return true
	}

	return false
}

func min(a, b time.Time) time.Time {
	if a.Unix() < b.Unix() {
		return a
	}
	return b
}

func max(a, b time.Time) time.Time {
	if a.Unix() > b.Unix() {
		return a
	}
	return b
}

// MergeTimespans merges Timespan structs together in case they overlap, they don't have to be presorted
func MergeTimespans(timespans []Timespan) []Timespan {
	if len(timespans) == 0 {
		return nil
	}

	sort.Slice(timespans, func(i, j int) bool {
		return timespans[i].Start.Before(timespans[j].Start)
	})

	index := 0

	for i := 1; i < len(timespans); i++ {
		if timespans[index].End.Unix() >= timespans[i].Start.Unix() {
			timespans[index].End = max(timespans[index].End, timespans[i].End)
			timespans[index].Start = min(timespans[index].Start, timespans[i].Start)
		} else {
			index++
			timespans[index] = timespans[i]
		}
	}

	var mergedTimespans []Timespan
	for i := 0; i <= index; i++ {
		mergedTimespans = append(mergedTimespans, timespans[i])
	}

	return mergedTimespans
}

// SumOfDurations adds up the durations of all given timespans
func SumOfDurations(timespans []Timespan) time.Duration {
	var sum time.Duration
	for _, timespan := range timespans {
		sum += timespan.Duration()
	}

	return sum
}

// DayKey formats a time as the canonical per-day cache and lock key
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// BeginningOfDay truncates a time to midnight in its location
func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// WeekOf returns the 7 days (starting Monday) of the week containing the given time
func WeekOf(t time.Time) []time.Time {
	day := BeginningOfDay(t)

	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}

	monday := day.AddDate(0, 0, -offset)

	days := make([]time.Time, 0, 7)
	for i := 0; i < 7; i++ {
		days = append(days, monday.AddDate(0, 0, i))
	}

	return days
}

// WindowForDay projects a clock-only window (e.g. 9:00 - 17:00) onto a concrete day
func WindowForDay(day time.Time, window Timespan) Timespan {
	year, month, dayOfMonth := day.Date()

	start := time.Date(year, month, dayOfMonth, window.Start.Hour(), window.Start.Minute(), 0, 0, day.Location())
	end := time.Date(year, month, dayOfMonth, window.End.Hour(), window.End.Minute(), 0, 0, day.Location())

	return Timespan{Start: start, End: end}
}
