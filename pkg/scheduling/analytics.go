package scheduling

import (
	"time"

	"github.com/dayplan-app/dayplan-backend/pkg/date"
)

// AnalyticsReport summarizes historical work units over a period
type AnalyticsReport struct {
	Period date.Timespan `json:"period"`

	TotalWorkUnits     int     `json:"totalWorkUnits"`
	CompletedWorkUnits int     `json:"completedWorkUnits"`
	CompletionRate     float64 `json:"completionRate"`

	// AverageProductivity is the mean over rated units only, unrated units are
	// excluded from the denominator
	AverageProductivity float64 `json:"averageProductivity"`
	RatedWorkUnits      int     `json:"ratedWorkUnits"`

	MostProductiveTimeOfDay TimeOfDay `json:"mostProductiveTimeOfDay,omitempty"`

	TimeByCategory map[string]time.Duration `json:"timeByCategory"`

	WorkloadTrend TrendDirection `json:"workloadTrend"`
}

// GenerateReport computes the analytics aggregate for the given period
func GenerateReport(period date.Timespan, units WorkUnits) *AnalyticsReport {
	report := &AnalyticsReport{
		Period:         period,
		TotalWorkUnits: len(units),
		TimeByCategory: map[string]time.Duration{},
	}

	ratingSum := 0
	bucketRatingSums := map[TimeOfDay]int{}
	bucketRatingCounts := map[TimeOfDay]int{}

	for _, unit := range units {
		if unit.IsDone {
			report.CompletedWorkUnits++
		}

		if unit.ProductivityRating > 0 {
			report.RatedWorkUnits++
			ratingSum += unit.ProductivityRating

			bucket := TimeOfDayForHour(unit.ScheduledAt.Start.Hour())
			bucketRatingSums[bucket] += unit.ProductivityRating
			bucketRatingCounts[bucket]++
		}

		report.TimeByCategory[unit.CategoryLabel()] += unit.Workload()
	}

	if report.TotalWorkUnits > 0 {
		report.CompletionRate = float64(report.CompletedWorkUnits) / float64(report.TotalWorkUnits)
	}

	if report.RatedWorkUnits > 0 {
		report.AverageProductivity = float64(ratingSum) / float64(report.RatedWorkUnits)
	}

	report.MostProductiveTimeOfDay = mostProductiveBucket(bucketRatingSums, bucketRatingCounts)
	report.WorkloadTrend = WorkloadTrend(dailyDurationSeries(period, units))

	return report
}

// mostProductiveBucket picks the bucket with the highest mean rating, iterating in the
// fixed bucket order so ties resolve deterministically
func mostProductiveBucket(sums map[TimeOfDay]int, counts map[TimeOfDay]int) TimeOfDay {
	var best TimeOfDay
	bestMean := 0.0

	for _, bucket := range TimeOfDayOrder {
		if counts[bucket] == 0 {
			continue
		}

		mean := float64(sums[bucket]) / float64(counts[bucket])
		if mean > bestMean {
			bestMean = mean
			best = bucket
		}
	}

	return best
}

// dailyDurationSeries maps the period to one total scheduled duration per day, ordered by day
func dailyDurationSeries(period date.Timespan, units WorkUnits) []time.Duration {
	if !period.IsStartBeforeEnd() {
		return nil
	}

	byDay := map[string]time.Duration{}
	for _, unit := range units {
		byDay[date.DayKey(unit.ScheduledAt.Start)] += unit.Workload()
	}

	var series []time.Duration
	for day := date.BeginningOfDay(period.Start); day.Before(period.End); day = day.AddDate(0, 0, 1) {
		series = append(series, byDay[date.DayKey(day)])
	}

	return series
}
