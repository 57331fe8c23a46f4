package scheduling

import (
	"github.com/dayplan-app/dayplan-backend/pkg/date"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FindConflicts returns every occupied interval of a day that overlaps the proposed timespan.
// A work unit matching excludeID is skipped, which is used when a work unit is validated
// against itself during a reschedule.
func FindConflicts(proposed date.Timespan, units WorkUnits, externalBusy []date.Timespan, excludeID primitive.ObjectID) ([]date.Timespan, error) {
	if !proposed.IsStartBeforeEnd() {
		return nil, ErrInvalidInterval
	}

	var conflicts []date.Timespan

	for _, unit := range units {
		if !excludeID.IsZero() && unit.ID == excludeID {
			continue
		}

		if unit.ScheduledAt.IntersectsWith(proposed) {
			conflicts = append(conflicts, unit.ScheduledAt)
		}
	}

	for _, busy := range externalBusy {
		if busy.IntersectsWith(proposed) {
			conflicts = append(conflicts, busy)
		}
	}

	return conflicts, nil
}

// ScheduleConflictKind classifies a schedule-level conflict
type ScheduleConflictKind int

// The known schedule-level conflict kinds
const (
	ConflictOverlappingDeadlines ScheduleConflictKind = iota
	ConflictResourceOverallocation
	ConflictDependencyViolation
)

// ResolutionStrategy is the suggested way out of a schedule conflict
type ResolutionStrategy string

// The resolution strategies a conflict kind maps to
const (
	ResolutionAdjustPriorities   ResolutionStrategy = "adjust_priorities"
	ResolutionRedistributeWork   ResolutionStrategy = "redistribute_resources"
	ResolutionAdjustDependencies ResolutionStrategy = "adjust_dependencies"
)

// ImpactTier estimates how disruptive applying a resolution would be
type ImpactTier string

// The impact tiers
const (
	ImpactLow    ImpactTier = "low"
	ImpactMedium ImpactTier = "medium"
	ImpactHigh   ImpactTier = "high"
)

// ScheduleConflict is a systemic scheduling issue, not a single interval clash
type ScheduleConflict struct {
	Kind        ScheduleConflictKind `json:"kind"`
	Description string               `json:"description"`
	Affected    []primitive.ObjectID `json:"affected,omitempty"`
}

// Resolution holds the suggested strategy and impact for a conflict kind
type Resolution struct {
	Strategy ResolutionStrategy `json:"strategy"`
	Impact   ImpactTier         `json:"impact"`
}

// Resolve maps a conflict kind deterministically to a resolution. The engine only labels
// the conflict, applying the strategy is left to the caller.
func (k ScheduleConflictKind) Resolve() Resolution {
	switch k {
	case ConflictOverlappingDeadlines:
		return Resolution{Strategy: ResolutionAdjustPriorities, Impact: ImpactMedium}
	case ConflictResourceOverallocation:
		return Resolution{Strategy: ResolutionRedistributeWork, Impact: ImpactHigh}
	case ConflictDependencyViolation:
		return Resolution{Strategy: ResolutionAdjustDependencies, Impact: ImpactLow}
	}

	// Unknown kinds are a programming error, fall back to the least invasive strategy
	return Resolution{Strategy: ResolutionAdjustPriorities, Impact: ImpactLow}
}
