package scheduling

import (
	"sort"
	"time"
)

// Score bonuses are additive so each factor stays independently explainable
const (
	ScoreBaseline          = 1.0
	ScoreBonusWorkingHours = 0.5
	ScoreBonusEnergyFit    = 0.3
	ScoreBonusTimeOfDayFit = 0.2
)

// ScoreSlot rates how desirable a candidate start time is. Absent preferences contribute
// zero, a bonus is never negative.
func ScoreSlot(candidateStart time.Time, energyLevel *EnergyLevel, timeOfDay *TimeOfDay, preferences SchedulingPreferences) float64 {
	score := ScoreBaseline
	hour := candidateStart.Hour()
	bucket := TimeOfDayForHour(hour)

	if preferences.InWorkingHours(hour) {
		score += ScoreBonusWorkingHours
	}

	if energyLevel != nil && NominalEnergy(bucket) >= *energyLevel {
		score += ScoreBonusEnergyFit
	}

	if timeOfDay != nil {
		if bucket == *timeOfDay {
			score += ScoreBonusTimeOfDayFit
		}
	} else {
		for _, preferred := range preferences.PreferredTimesOfDay {
			if bucket == preferred {
				score += ScoreBonusTimeOfDayFit
				break
			}
		}
	}

	return score
}

// ScoreSlots scores all slots and sorts them descending by score, ties broken by the
// earlier start time so the ordering stays deterministic.
func ScoreSlots(slots []TimeSlot, energyLevel *EnergyLevel, timeOfDay *TimeOfDay, preferences SchedulingPreferences) []TimeSlot {
	for i := range slots {
		slots[i].Score = ScoreSlot(slots[i].Start, energyLevel, timeOfDay, preferences)
	}

	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Score == slots[j].Score {
			return slots[i].Start.Before(slots[j].Start)
		}

		return slots[i].Score > slots[j].Score
	})

	return slots
}
