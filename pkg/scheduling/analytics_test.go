package scheduling

import (
	"testing"
	"time"

	"github.com/dayplan-app/dayplan-backend/pkg/date"
)

func TestGenerateReport(t *testing.T) {
	period := date.Timespan{Start: timeDate(2022, 5, 9, 0, 0), End: timeDate(2022, 5, 13, 0, 0)}

	units := WorkUnits{
		// Monday morning, done and rated high
		{
			Title:              "deep work",
			ScheduledAt:        date.Timespan{Start: timeDate(2022, 5, 9, 9, 0), End: timeDate(2022, 5, 9, 11, 0)},
			Category:           "focus",
			IsDone:             true,
			ProductivityRating: 5,
		},
		// Monday afternoon, done and rated low
		{
			Title:              "email",
			ScheduledAt:        date.Timespan{Start: timeDate(2022, 5, 9, 14, 0), End: timeDate(2022, 5, 9, 15, 0)},
			Category:           "admin",
			IsDone:             true,
			ProductivityRating: 2,
		},
		// Tuesday, done but unrated, stays out of the productivity mean
		{
			Title:       "meeting",
			ScheduledAt: date.Timespan{Start: timeDate(2022, 5, 10, 10, 0), End: timeDate(2022, 5, 10, 11, 0)},
			IsDone:      true,
		},
		// Wednesday, not done
		{
			Title:       "draft",
			ScheduledAt: date.Timespan{Start: timeDate(2022, 5, 11, 9, 0), End: timeDate(2022, 5, 11, 10, 0)},
			Category:    "focus",
		},
	}

	report := GenerateReport(period, units)

	if report.TotalWorkUnits != 4 {
		t.Errorf("total got %d, want 4", report.TotalWorkUnits)
	}

	if report.CompletedWorkUnits != 3 {
		t.Errorf("completed got %d, want 3", report.CompletedWorkUnits)
	}

	if report.CompletionRate != 0.75 {
		t.Errorf("completion rate got %v, want 0.75", report.CompletionRate)
	}

	// (5 + 2) / 2 rated units, the unrated unit is not part of the denominator
	if report.AverageProductivity != 3.5 {
		t.Errorf("average productivity got %v, want 3.5", report.AverageProductivity)
	}

	if report.RatedWorkUnits != 2 {
		t.Errorf("rated got %d, want 2", report.RatedWorkUnits)
	}

	if report.MostProductiveTimeOfDay != TimeOfDayMorning {
		t.Errorf("most productive got %v, want morning", report.MostProductiveTimeOfDay)
	}

	if report.TimeByCategory["focus"] != 3*time.Hour {
		t.Errorf("focus time got %v, want 3h", report.TimeByCategory["focus"])
	}

	if report.TimeByCategory["admin"] != time.Hour {
		t.Errorf("admin time got %v, want 1h", report.TimeByCategory["admin"])
	}

	// The unit without a category counts towards the uncategorized bucket
	if report.TimeByCategory[CategoryUncategorized] != time.Hour {
		t.Errorf("uncategorized time got %v, want 1h", report.TimeByCategory[CategoryUncategorized])
	}
}

func TestGenerateReportEmptyPeriod(t *testing.T) {
	period := date.Timespan{Start: timeDate(2022, 5, 9, 0, 0), End: timeDate(2022, 5, 13, 0, 0)}

	report := GenerateReport(period, nil)

	if report.TotalWorkUnits != 0 || report.CompletionRate != 0 || report.AverageProductivity != 0 {
		t.Errorf("empty period produced %+v", report)
	}

	if report.MostProductiveTimeOfDay != "" {
		t.Errorf("most productive got %q, want empty", report.MostProductiveTimeOfDay)
	}

	if report.WorkloadTrend != TrendStable {
		t.Errorf("trend got %v, want stable", report.WorkloadTrend)
	}
}

func TestGenerateReportWorkloadTrend(t *testing.T) {
	period := date.Timespan{Start: timeDate(2022, 5, 9, 0, 0), End: timeDate(2022, 5, 13, 0, 0)}

	// Two light days followed by two heavy days
	units := WorkUnits{
		{ScheduledAt: date.Timespan{Start: timeDate(2022, 5, 9, 9, 0), End: timeDate(2022, 5, 9, 10, 0)}},
		{ScheduledAt: date.Timespan{Start: timeDate(2022, 5, 10, 9, 0), End: timeDate(2022, 5, 10, 10, 0)}},
		{ScheduledAt: date.Timespan{Start: timeDate(2022, 5, 11, 9, 0), End: timeDate(2022, 5, 11, 15, 0)}},
		{ScheduledAt: date.Timespan{Start: timeDate(2022, 5, 12, 9, 0), End: timeDate(2022, 5, 12, 15, 0)}},
	}

	report := GenerateReport(period, units)

	if report.WorkloadTrend != TrendIncreasing {
		t.Errorf("trend got %v, want increasing", report.WorkloadTrend)
	}
}
