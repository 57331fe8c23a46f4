package scheduling

import (
	"testing"

	"github.com/dayplan-app/dayplan-backend/pkg/date"
)

func energyLevelPtr(level EnergyLevel) *EnergyLevel {
	return &level
}

func timeOfDayPtr(timeOfDay TimeOfDay) *TimeOfDay {
	return &timeOfDay
}

func TestScoreSlot(t *testing.T) {
	preferences := DefaultPreferences()

	var scoreTests = []struct {
		name        string
		hour        int
		energyLevel *EnergyLevel
		timeOfDay   *TimeOfDay
		out         float64
	}{
		{
			// Case baseline outside working hours without preferences
			"night without preferences",
			22, nil, nil,
			ScoreBaseline,
		},
		{
			// Case inside working hours
			"working hours only",
			14, nil, nil,
			ScoreBaseline + ScoreBonusWorkingHours,
		},
		{
			// Case morning carries high nominal energy
			"morning high energy fit",
			10, energyLevelPtr(EnergyLevelHigh), nil,
			ScoreBaseline + ScoreBonusWorkingHours + ScoreBonusEnergyFit,
		},
		{
			// Case a high energy demand is not met in the afternoon
			"afternoon misses high energy",
			14, energyLevelPtr(EnergyLevelHigh), nil,
			ScoreBaseline + ScoreBonusWorkingHours,
		},
		{
			// Case a low energy demand is met everywhere
			"low energy always fits",
			14, energyLevelPtr(EnergyLevelLow), nil,
			ScoreBaseline + ScoreBonusWorkingHours + ScoreBonusEnergyFit,
		},
		{
			// Case all three bonuses stack
			"full score",
			10, energyLevelPtr(EnergyLevelHigh), timeOfDayPtr(TimeOfDayMorning),
			ScoreBaseline + ScoreBonusWorkingHours + ScoreBonusEnergyFit + ScoreBonusTimeOfDayFit,
		},
		{
			// Case the requested bucket does not match
			"wrong bucket",
			14, nil, timeOfDayPtr(TimeOfDayMorning),
			ScoreBaseline + ScoreBonusWorkingHours,
		},
	}

	for _, tt := range scoreTests {
		start := timeDate(2022, 5, 9, tt.hour, 0)

		got := ScoreSlot(start, tt.energyLevel, tt.timeOfDay, preferences)
		if got != tt.out {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.out)
		}
	}
}

func TestScoreSlotPreferredTimesOfDay(t *testing.T) {
	preferences := DefaultPreferences()
	preferences.PreferredTimesOfDay = []TimeOfDay{TimeOfDayMorning}

	// Case the profile preference applies when the call carries no bucket
	got := ScoreSlot(timeDate(2022, 5, 9, 10, 0), nil, nil, preferences)
	want := ScoreBaseline + ScoreBonusWorkingHours + ScoreBonusTimeOfDayFit
	if got != want {
		t.Errorf("profile preference: got %v, want %v", got, want)
	}

	// Case an explicit bucket overrides the profile preference
	got = ScoreSlot(timeDate(2022, 5, 9, 10, 0), nil, timeOfDayPtr(TimeOfDayAfternoon), preferences)
	want = ScoreBaseline + ScoreBonusWorkingHours
	if got != want {
		t.Errorf("explicit bucket: got %v, want %v", got, want)
	}
}

func TestScoreSlots(t *testing.T) {
	preferences := DefaultPreferences()

	slots := []TimeSlot{
		{Timespan: date.Timespan{Start: timeDate(2022, 5, 9, 18, 0), End: timeDate(2022, 5, 9, 19, 0)}},
		{Timespan: date.Timespan{Start: timeDate(2022, 5, 9, 14, 0), End: timeDate(2022, 5, 9, 15, 0)}},
		{Timespan: date.Timespan{Start: timeDate(2022, 5, 9, 10, 0), End: timeDate(2022, 5, 9, 11, 0)}},
	}

	ranked := ScoreSlots(slots, nil, nil, preferences)

	// Both working-hour slots outrank the evening slot, the tie resolves to the earlier start
	if !ranked[0].Start.Equal(timeDate(2022, 5, 9, 10, 0)) {
		t.Errorf("first slot starts at %v, want 10:00", ranked[0].Start)
	}
	if !ranked[1].Start.Equal(timeDate(2022, 5, 9, 14, 0)) {
		t.Errorf("second slot starts at %v, want 14:00", ranked[1].Start)
	}
	if !ranked[2].Start.Equal(timeDate(2022, 5, 9, 18, 0)) {
		t.Errorf("third slot starts at %v, want 18:00", ranked[2].Start)
	}

	if ranked[0].Score <= ranked[2].Score {
		t.Errorf("working hours slot should outscore the evening slot, got %v and %v", ranked[0].Score, ranked[2].Score)
	}
}
