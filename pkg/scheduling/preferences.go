package scheduling

import (
	"fmt"
	"time"

	"github.com/dayplan-app/dayplan-backend/pkg/date"
)

// DefaultDailyBudget is the working-hours budget a day is measured against
const DefaultDailyBudget = 8 * time.Hour

// TrendDeadBand is the relative change below which a workload trend counts as stable.
// The same 10% convention is shared by every trend computation.
const TrendDeadBand = 0.10

// CategoryUncategorized groups work units without a category label
const CategoryUncategorized = "uncategorized"

// TimeOfDay is a broad bucket of the day
type TimeOfDay string

// The four time-of-day buckets
const (
	TimeOfDayMorning   TimeOfDay = "morning"
	TimeOfDayAfternoon TimeOfDay = "afternoon"
	TimeOfDayEvening   TimeOfDay = "evening"
	TimeOfDayNight     TimeOfDay = "night"
)

// TimeOfDayOrder fixes the iteration order for deterministic aggregation
var TimeOfDayOrder = []TimeOfDay{TimeOfDayMorning, TimeOfDayAfternoon, TimeOfDayEvening, TimeOfDayNight}

// TimeOfDayForHour buckets an hour of the day: morning [6,12), afternoon [12,17), evening [17,21), night otherwise
func TimeOfDayForHour(hour int) TimeOfDay {
	switch {
	case hour >= 6 && hour < 12:
		return TimeOfDayMorning
	case hour >= 12 && hour < 17:
		return TimeOfDayAfternoon
	case hour >= 17 && hour < 21:
		return TimeOfDayEvening
	default:
		return TimeOfDayNight
	}
}

// ParseTimeOfDay parses a bucket name, the empty string means no preference
func ParseTimeOfDay(value string) (*TimeOfDay, error) {
	if value == "" {
		return nil, nil
	}

	for _, timeOfDay := range TimeOfDayOrder {
		if string(timeOfDay) == value {
			return &timeOfDay, nil
		}
	}

	return nil, fmt.Errorf("unknown time of day %q", value)
}

// EnergyLevel is an ordinal biological energy level
type EnergyLevel int

// Energy levels ordered ascending
const (
	EnergyLevelLow EnergyLevel = iota + 1
	EnergyLevelMedium
	EnergyLevelHigh
)

// ParseEnergyLevel parses a level name, the empty string means no preference
func ParseEnergyLevel(value string) (*EnergyLevel, error) {
	var level EnergyLevel

	switch value {
	case "":
		return nil, nil
	case "low":
		level = EnergyLevelLow
	case "medium":
		level = EnergyLevelMedium
	case "high":
		level = EnergyLevelHigh
	default:
		return nil, fmt.Errorf("unknown energy level %q", value)
	}

	return &level, nil
}

// NominalEnergy is the fixed energy lookup per time of day
func NominalEnergy(timeOfDay TimeOfDay) EnergyLevel {
	switch timeOfDay {
	case TimeOfDayMorning:
		return EnergyLevelHigh
	case TimeOfDayAfternoon:
		return EnergyLevelMedium
	default:
		return EnergyLevelLow
	}
}

// SchedulingPreferences is the per-request configuration of the engine
type SchedulingPreferences struct {
	// WorkingHours is a clock-only timespan, e.g. 9:00 - 17:00
	WorkingHours date.Timespan `json:"workingHours"`

	OptimizeForEnergy bool `json:"optimizeForEnergy"`

	MinBreakBetweenUnits time.Duration `json:"minBreakBetweenUnits"`
	MaxContinuousWork    time.Duration `json:"maxContinuousWork"`

	PreferredTimesOfDay []TimeOfDay `json:"preferredTimesOfDay"`

	DailyBudget time.Duration `json:"dailyBudget"`

	// AllowCalendarFallback lets read paths proceed with empty external intervals
	// when the calendar collaborator is unavailable
	AllowCalendarFallback bool `json:"allowCalendarFallback"`
}

// DefaultPreferences is the documented fallback when a caller supplies no preferences
func DefaultPreferences() SchedulingPreferences {
	return SchedulingPreferences{
		WorkingHours: date.Timespan{
			Start: time.Date(0, 0, 0, 9, 0, 0, 0, time.UTC),
			End:   time.Date(0, 0, 0, 17, 0, 0, 0, time.UTC),
		},
		OptimizeForEnergy: true,
		DailyBudget:       DefaultDailyBudget,
	}
}

// Budget returns the configured daily budget or the default
func (p *SchedulingPreferences) Budget() time.Duration {
	if p.DailyBudget <= 0 {
		return DefaultDailyBudget
	}

	return p.DailyBudget
}

// WorkingWindowForDay projects the preferred working hours onto a concrete day
func (p *SchedulingPreferences) WorkingWindowForDay(day time.Time) date.Timespan {
	hours := p.WorkingHours
	if !hours.Start.Before(hours.End) {
		hours = DefaultPreferences().WorkingHours
	}

	return date.WindowForDay(day, hours)
}

// InWorkingHours checks whether an hour of the day falls inside the preferred working hours
func (p *SchedulingPreferences) InWorkingHours(hour int) bool {
	hours := p.WorkingHours
	if !hours.Start.Before(hours.End) {
		hours = DefaultPreferences().WorkingHours
	}

	return hour >= hours.Start.Hour() && hour < hours.End.Hour()
}
