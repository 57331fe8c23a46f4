package scheduling

import (
	"context"
	"sort"
	"time"

	"github.com/dayplan-app/dayplan-backend/pkg/date"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UnplacedReasonNoCapacity marks an item no remaining slot could hold
const UnplacedReasonNoCapacity = "no_capacity"

// UnplacedReasonCancelled marks an item that was skipped because the batch was cancelled
const UnplacedReasonCancelled = "cancelled"

// UnplacedItem names a pending item the auto-scheduler could not place and why
type UnplacedItem struct {
	ItemID primitive.ObjectID `json:"itemId"`
	Reason string             `json:"reason"`
}

// AutoScheduleResult is the outcome of an auto-schedule batch. Placed work units are not
// persisted, persistence stays with the caller.
type AutoScheduleResult struct {
	Placed   WorkUnits      `json:"placed"`
	Unplaced []UnplacedItem `json:"unplaced"`
}

// AutoSchedule greedily places pending items into the given slot pool. Items are handled
// by priority descending (stable for equal priority), each takes the best remaining slot
// whose duration fits. A consumed slot leaves the pool whole even when it is longer than
// the item, leftover capacity is not split back in.
//
// Cancellation between placements returns the partial result together with the context
// error, already placed units stay valid.
func AutoSchedule(ctx context.Context, items []PendingWorkItem, availableSlots []TimeSlot, preferences SchedulingPreferences) (*AutoScheduleResult, error) {
	ordered := append([]PendingWorkItem{}, items...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	pool := append([]TimeSlot{}, availableSlots...)
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].Score == pool[j].Score {
			return pool[i].Start.Before(pool[j].Start)
		}

		return pool[i].Score > pool[j].Score
	})

	result := &AutoScheduleResult{}

	for index, item := range ordered {
		if err := ctx.Err(); err != nil {
			for _, skipped := range ordered[index:] {
				result.Unplaced = append(result.Unplaced, UnplacedItem{ItemID: skipped.ID, Reason: UnplacedReasonCancelled})
			}

			return result, err
		}

		if item.Duration <= 0 {
			return result, ErrInvalidInterval
		}

		placedAt := -1
		for i, slot := range pool {
			if slot.Duration() >= item.Duration {
				placedAt = i
				break
			}
		}

		if placedAt < 0 {
			result.Unplaced = append(result.Unplaced, UnplacedItem{ItemID: item.ID, Reason: UnplacedReasonNoCapacity})
			continue
		}

		slot := pool[placedAt]
		pool = append(pool[:placedAt], pool[placedAt+1:]...)

		result.Placed = append(result.Placed, newAutoScheduledUnit(item, slot.Start))
	}

	return result, nil
}

func newAutoScheduledUnit(item PendingWorkItem, start time.Time) WorkUnit {
	createdAt := now()

	return WorkUnit{
		ID:              primitive.NewObjectID(),
		CreatedAt:       createdAt,
		LastModifiedAt:  createdAt,
		Title:           item.Title,
		ScheduledAt:     date.Timespan{Start: start, End: start.Add(item.Duration)},
		TaskID:          item.TaskID,
		ProjectID:       item.ProjectID,
		Category:        item.Category,
		IsAutoScheduled: true,
		SyncPending:     true,
	}
}
