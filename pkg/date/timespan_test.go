package date

import (
	"reflect"
	"testing"
	"time"
)

func timeDate(year int, month time.Month, day int, hour int, min int, seconds int) time.Time {
	loc, _ := time.LoadLocation("Local")
	return time.Date(year, month, day, hour, min, seconds, 0, loc)
}

func TestTimespan_IntersectsWith(t *testing.T) {
	var intersectTests = []struct {
		a   Timespan
		b   Timespan
		out bool
	}{
		{
			// Case overlapping
			Timespan{Start: timeDate(2021, 3, 1, 9, 0, 0), End: timeDate(2021, 3, 1, 11, 0, 0)},
			Timespan{Start: timeDate(2021, 3, 1, 10, 0, 0), End: timeDate(2021, 3, 1, 12, 0, 0)},
			true,
		},
		{
			// Case touching at the boundary does not intersect
			Timespan{Start: timeDate(2021, 3, 1, 9, 0, 0), End: timeDate(2021, 3, 1, 10, 0, 0)},
			Timespan{Start: timeDate(2021, 3, 1, 10, 0, 0), End: timeDate(2021, 3, 1, 11, 0, 0)},
			false,
		},
		{
			// Case disjoint
			Timespan{Start: timeDate(2021, 3, 1, 9, 0, 0), End: timeDate(2021, 3, 1, 10, 0, 0)},
			Timespan{Start: timeDate(2021, 3, 1, 14, 0, 0), End: timeDate(2021, 3, 1, 15, 0, 0)},
			false,
		},
		{
			// Case contained
			Timespan{Start: timeDate(2021, 3, 1, 9, 0, 0), End: timeDate(2021, 3, 1, 17, 0, 0)},
			Timespan{Start: timeDate(2021, 3, 1, 10, 0, 0), End: timeDate(2021, 3, 1, 11, 0, 0)},
			true,
		},
	}

	for _, tt := range intersectTests {
		got := tt.a.IntersectsWith(tt.b)
		if got != tt.out {
			t.Errorf("IntersectsWith(%s, %s) got %v, want %v", tt.a.String(), tt.b.String(), got, tt.out)
		}

		mirrored := tt.b.IntersectsWith(tt.a)
		if mirrored != tt.out {
			t.Errorf("IntersectsWith is not symmetric for %s and %s", tt.a.String(), tt.b.String())
		}
	}
}

func TestMergeTimespans(t *testing.T) {
	var mergeTests = []struct {
		in  []Timespan
		out []Timespan
	}{
		{
			// Case overlapping timespans collapse
			[]Timespan{
				{Start: timeDate(2021, 3, 1, 9, 0, 0), End: timeDate(2021, 3, 1, 11, 0, 0)},
				{Start: timeDate(2021, 3, 1, 10, 0, 0), End: timeDate(2021, 3, 1, 12, 0, 0)},
			},
			[]Timespan{
				{Start: timeDate(2021, 3, 1, 9, 0, 0), End: timeDate(2021, 3, 1, 12, 0, 0)},
			},
		},
		{
			// Case unsorted input gets sorted
			[]Timespan{
				{Start: timeDate(2021, 3, 1, 14, 0, 0), End: timeDate(2021, 3, 1, 15, 0, 0)},
				{Start: timeDate(2021, 3, 1, 9, 0, 0), End: timeDate(2021, 3, 1, 10, 0, 0)},
			},
			[]Timespan{
				{Start: timeDate(2021, 3, 1, 9, 0, 0), End: timeDate(2021, 3, 1, 10, 0, 0)},
				{Start: timeDate(2021, 3, 1, 14, 0, 0), End: timeDate(2021, 3, 1, 15, 0, 0)},
			},
		},
		{
			// Case empty
			nil,
			nil,
		},
	}

	for _, tt := range mergeTests {
		got := MergeTimespans(tt.in)
		if !reflect.DeepEqual(got, tt.out) {
			t.Errorf("MergeTimespans() got %v, want %v", got, tt.out)
		}
	}
}

func TestWeekOf(t *testing.T) {
	// A Wednesday
	week := WeekOf(timeDate(2021, 3, 3, 15, 30, 0))

	if len(week) != 7 {
		t.Fatalf("WeekOf() returned %d days, want 7", len(week))
	}

	if !week[0].Equal(timeDate(2021, 3, 1, 0, 0, 0)) {
		t.Errorf("WeekOf() starts at %s, want Monday 2021-03-01", week[0])
	}

	if !week[6].Equal(timeDate(2021, 3, 7, 0, 0, 0)) {
		t.Errorf("WeekOf() ends at %s, want Sunday 2021-03-07", week[6])
	}

	// A Sunday stays in the same week
	week = WeekOf(timeDate(2021, 3, 7, 8, 0, 0))
	if !week[0].Equal(timeDate(2021, 3, 1, 0, 0, 0)) {
		t.Errorf("WeekOf() for a Sunday starts at %s, want Monday 2021-03-01", week[0])
	}
}

func TestWindowForDay(t *testing.T) {
	clockWindow := Timespan{
		Start: time.Date(0, 0, 0, 9, 0, 0, 0, time.Local),
		End:   time.Date(0, 0, 0, 17, 0, 0, 0, time.Local),
	}

	window := WindowForDay(timeDate(2021, 3, 1, 0, 0, 0), clockWindow)

	want := Timespan{Start: timeDate(2021, 3, 1, 9, 0, 0), End: timeDate(2021, 3, 1, 17, 0, 0)}
	if !reflect.DeepEqual(window, want) {
		t.Errorf("WindowForDay() got %v, want %v", window, want)
	}

	if window.Duration() != 8*time.Hour {
		t.Errorf("WindowForDay() duration got %v, want 8h", window.Duration())
	}
}

func TestTimespan_Contains(t *testing.T) {
	window := Timespan{Start: timeDate(2021, 3, 1, 0, 0, 0), End: timeDate(2021, 3, 2, 0, 0, 0)}

	inside := Timespan{Start: timeDate(2021, 3, 1, 9, 0, 0), End: timeDate(2021, 3, 1, 10, 0, 0)}
	if !window.Contains(inside) {
		t.Errorf("Contains(%s) got false, want true", inside.String())
	}

	// Case matching boundaries count as contained
	if !window.Contains(window) {
		t.Error("a timespan must contain itself")
	}

	spanning := Timespan{Start: timeDate(2021, 2, 28, 23, 0, 0), End: timeDate(2021, 3, 1, 1, 0, 0)}
	if window.Contains(spanning) {
		t.Errorf("Contains(%s) got true, want false", spanning.String())
	}
}

func TestSumOfDurations(t *testing.T) {
	timespans := []Timespan{
		{Start: timeDate(2021, 3, 1, 9, 0, 0), End: timeDate(2021, 3, 1, 10, 30, 0)},
		{Start: timeDate(2021, 3, 1, 11, 0, 0), End: timeDate(2021, 3, 1, 12, 0, 0)},
	}

	if got := SumOfDurations(timespans); got != 2*time.Hour+30*time.Minute {
		t.Errorf("SumOfDurations() got %v, want 2h30m", got)
	}
}
