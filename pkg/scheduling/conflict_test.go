package scheduling

import (
	"reflect"
	"testing"

	"github.com/dayplan-app/dayplan-backend/pkg/date"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFindConflicts(t *testing.T) {
	unitID := primitive.NewObjectID()

	units := WorkUnits{
		{ID: unitID, ScheduledAt: date.Timespan{Start: timeDate(2022, 5, 9, 10, 0), End: timeDate(2022, 5, 9, 11, 0)}},
		{ID: primitive.NewObjectID(), ScheduledAt: date.Timespan{Start: timeDate(2022, 5, 9, 14, 0), End: timeDate(2022, 5, 9, 15, 0)}},
	}
	busy := []date.Timespan{
		{Start: timeDate(2022, 5, 9, 12, 0), End: timeDate(2022, 5, 9, 13, 0)},
	}

	var conflictTests = []struct {
		name      string
		proposed  date.Timespan
		excludeID primitive.ObjectID
		out       []date.Timespan
	}{
		{
			// Case no overlap
			"free interval",
			date.Timespan{Start: timeDate(2022, 5, 9, 15, 0), End: timeDate(2022, 5, 9, 16, 0)},
			primitive.NilObjectID,
			nil,
		},
		{
			// Case overlapping a work unit
			"work unit overlap",
			date.Timespan{Start: timeDate(2022, 5, 9, 10, 30), End: timeDate(2022, 5, 9, 11, 30)},
			primitive.NilObjectID,
			[]date.Timespan{units[0].ScheduledAt},
		},
		{
			// Case overlapping an external busy interval
			"external overlap",
			date.Timespan{Start: timeDate(2022, 5, 9, 12, 30), End: timeDate(2022, 5, 9, 13, 30)},
			primitive.NilObjectID,
			busy,
		},
		{
			// Case touching boundaries do not conflict
			"adjacent interval",
			date.Timespan{Start: timeDate(2022, 5, 9, 11, 0), End: timeDate(2022, 5, 9, 12, 0)},
			primitive.NilObjectID,
			nil,
		},
		{
			// Case the excluded work unit never counts against itself
			"exclude self",
			date.Timespan{Start: timeDate(2022, 5, 9, 10, 15), End: timeDate(2022, 5, 9, 10, 45)},
			unitID,
			nil,
		},
		{
			// Case overlapping several occupied intervals at once
			"multiple overlaps",
			date.Timespan{Start: timeDate(2022, 5, 9, 10, 30), End: timeDate(2022, 5, 9, 14, 30)},
			primitive.NilObjectID,
			[]date.Timespan{units[0].ScheduledAt, units[1].ScheduledAt, busy[0]},
		},
	}

	for _, tt := range conflictTests {
		got, err := FindConflicts(tt.proposed, units, busy, tt.excludeID)
		if err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
			continue
		}

		if !reflect.DeepEqual(got, tt.out) {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.out)
		}
	}
}

func TestFindConflictsInvalidInterval(t *testing.T) {
	proposed := date.Timespan{Start: timeDate(2022, 5, 9, 11, 0), End: timeDate(2022, 5, 9, 10, 0)}

	_, err := FindConflicts(proposed, nil, nil, primitive.NilObjectID)
	if err != ErrInvalidInterval {
		t.Errorf("got %v, want ErrInvalidInterval", err)
	}
}

func TestScheduleConflictKindResolve(t *testing.T) {
	var resolveTests = []struct {
		kind ScheduleConflictKind
		out  Resolution
	}{
		{ConflictOverlappingDeadlines, Resolution{Strategy: ResolutionAdjustPriorities, Impact: ImpactMedium}},
		{ConflictResourceOverallocation, Resolution{Strategy: ResolutionRedistributeWork, Impact: ImpactHigh}},
		{ConflictDependencyViolation, Resolution{Strategy: ResolutionAdjustDependencies, Impact: ImpactLow}},
	}

	for _, tt := range resolveTests {
		got := tt.kind.Resolve()
		if got != tt.out {
			t.Errorf("Resolve(%v) got %v, want %v", tt.kind, got, tt.out)
		}
	}
}
