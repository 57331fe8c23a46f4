package scheduling

import (
	"time"

	"github.com/dayplan-app/dayplan-backend/pkg/date"
)

// NeutralScore is the score a slot carries before the scoring pass
const NeutralScore = 1.0

// TimeSlot is a candidate interval with a desirability score
type TimeSlot struct {
	date.Timespan
	Score float64 `json:"score"`
}

// FindFreeSlots sweeps the occupied intervals inside a working window and returns the
// complementary free slots of exactly the requested duration.
//
// Occupied intervals may overlap each other, they are merged before the sweep. A gap that
// is longer than the requested duration yields one slot at the gap start, callers that
// want more options re-invoke with the remaining gap.
func FindFreeSlots(window date.Timespan, duration time.Duration, occupied []date.Timespan) ([]TimeSlot, error) {
	if duration <= 0 {
		return nil, ErrInvalidInterval
	}

	if !window.IsStartBeforeEnd() {
		return nil, ErrInvalidInterval
	}

	merged := date.MergeTimespans(append([]date.Timespan{}, occupied...))

	var slots []TimeSlot
	cursor := window.Start

	for _, busy := range merged {
		if busy.End.Before(window.Start) || !busy.Start.Before(window.End) {
			continue
		}

		if cursor.Before(busy.Start) {
			gap := date.Timespan{Start: cursor, End: busy.Start}
			if gap.End.After(window.End) {
				gap.End = window.End
			}

			if gap.Duration() >= duration {
				slots = append(slots, TimeSlot{
					Timespan: date.Timespan{Start: gap.Start, End: gap.Start.Add(duration)},
					Score:    NeutralScore,
				})
			}
		}

		if busy.End.After(cursor) {
			cursor = busy.End
		}
	}

	if cursor.Before(window.End) {
		gap := date.Timespan{Start: cursor, End: window.End}
		if gap.Duration() >= duration {
			slots = append(slots, TimeSlot{
				Timespan: date.Timespan{Start: gap.Start, End: gap.Start.Add(duration)},
				Score:    NeutralScore,
			})
		}
	}

	return slots, nil
}
