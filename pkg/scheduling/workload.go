package scheduling

import (
	"fmt"
	"time"

	"github.com/dayplan-app/dayplan-backend/pkg/date"
)

// Workload recommendation thresholds on the utilization ratio
const (
	utilizationHeavyOverload = 1.2
	utilizationOverload      = 1.0
	utilizationUnderload     = 0.4
	utilizationLightDay      = 0.6
)

// WorkloadInfo is the derived per-day workload summary. Utilization and the overbooked
// flag consider the scheduled and the external component together.
type WorkloadInfo struct {
	Date                 time.Time     `json:"date"`
	ScheduledDuration    time.Duration `json:"scheduledDuration"`
	ExternalBusyDuration time.Duration `json:"externalBusyDuration"`
	AvailableDuration    time.Duration `json:"availableDuration"`
	Utilization          float64       `json:"utilization"`
	Overbooked           bool          `json:"overbooked"`
	Recommendations      []string      `json:"recommendations,omitempty"`
}

// CalculateWorkload aggregates a day's committed time against the working-hours budget.
// External busy intervals count against the budget the same way work units do.
func CalculateWorkload(day time.Time, units WorkUnits, externalBusy []date.Timespan, budget time.Duration) WorkloadInfo {
	if budget <= 0 {
		budget = DefaultDailyBudget
	}

	scheduled := date.SumOfDurations(units.Timespans())
	external := date.SumOfDurations(externalBusy)
	committed := scheduled + external

	available := budget - committed
	if available < 0 {
		available = 0
	}

	utilization := float64(committed) / float64(budget)

	info := WorkloadInfo{
		Date:                 date.BeginningOfDay(day),
		ScheduledDuration:    scheduled,
		ExternalBusyDuration: external,
		AvailableDuration:    available,
		Utilization:          utilization,
		Overbooked:           utilization > 1.0,
	}

	switch {
	case utilization > utilizationHeavyOverload:
		info.Recommendations = append(info.Recommendations, "This day is heavily overloaded, move tasks to another day")
	case utilization > utilizationOverload:
		info.Recommendations = append(info.Recommendations, "This day is overloaded, there is a risk of delays")
	case utilization < utilizationUnderload:
		info.Recommendations = append(info.Recommendations, "This day is underloaded and can accept more work")
	}

	return info
}

// DistributionSuggestion proposes moving work between an over- and an underloaded day
type DistributionSuggestion struct {
	FromDates []time.Time `json:"fromDates"`
	ToDates   []time.Time `json:"toDates"`
	Message   string      `json:"message"`
}

// SuggestDistribution looks for at least one overbooked day and one day under 60%
// utilization. Per-task reassignment is left to a new auto-schedule run.
func SuggestDistribution(weekWorkloads []WorkloadInfo) *DistributionSuggestion {
	var fromDates []time.Time
	var toDates []time.Time

	for _, workload := range weekWorkloads {
		if workload.Overbooked {
			fromDates = append(fromDates, workload.Date)
		} else if workload.Utilization < utilizationLightDay {
			toDates = append(toDates, workload.Date)
		}
	}

	if len(fromDates) == 0 || len(toDates) == 0 {
		return nil
	}

	return &DistributionSuggestion{
		FromDates: fromDates,
		ToDates:   toDates,
		Message: fmt.Sprintf("Move work from %s to %s to balance the week",
			date.DayKey(fromDates[0]), date.DayKey(toDates[0])),
	}
}

// TrendDirection is the direction a day-ordered workload series is heading
type TrendDirection string

// The trend directions
const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

// WorkloadTrend compares the means of the first and second half of a day-ordered duration
// series. Changes inside the dead band count as stable to filter noise.
func WorkloadTrend(series []time.Duration) TrendDirection {
	if len(series) < 2 {
		return TrendStable
	}

	half := len(series) / 2
	firstMean := meanDuration(series[:half])
	secondMean := meanDuration(series[half:])

	if firstMean == 0 {
		if secondMean > 0 {
			return TrendIncreasing
		}

		return TrendStable
	}

	change := (float64(secondMean) - float64(firstMean)) / float64(firstMean)

	switch {
	case change > TrendDeadBand:
		return TrendIncreasing
	case change < -TrendDeadBand:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

func meanDuration(series []time.Duration) time.Duration {
	if len(series) == 0 {
		return 0
	}

	var sum time.Duration
	for _, value := range series {
		sum += value
	}

	return sum / time.Duration(len(series))
}
