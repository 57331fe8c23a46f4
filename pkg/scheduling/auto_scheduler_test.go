package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/dayplan-app/dayplan-backend/pkg/date"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func slotAt(start time.Time, duration time.Duration, score float64) TimeSlot {
	return TimeSlot{
		Timespan: date.Timespan{Start: start, End: start.Add(duration)},
		Score:    score,
	}
}

func TestAutoSchedulePriorityOrder(t *testing.T) {
	preferences := DefaultPreferences()

	low := PendingWorkItem{ID: primitive.NewObjectID(), Title: "low", Duration: time.Hour, Priority: 1}
	high := PendingWorkItem{ID: primitive.NewObjectID(), Title: "high", Duration: time.Hour, Priority: 5}

	slots := []TimeSlot{
		slotAt(timeDate(2022, 5, 9, 10, 0), time.Hour, 2.0),
		slotAt(timeDate(2022, 5, 9, 14, 0), time.Hour, 1.5),
	}

	result, err := AutoSchedule(context.Background(), []PendingWorkItem{low, high}, slots, preferences)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if len(result.Placed) != 2 || len(result.Unplaced) != 0 {
		t.Fatalf("got %d placed and %d unplaced, want 2 and 0", len(result.Placed), len(result.Unplaced))
	}

	// The higher priority item takes the better slot
	if result.Placed[0].Title != "high" || !result.Placed[0].ScheduledAt.Start.Equal(timeDate(2022, 5, 9, 10, 0)) {
		t.Errorf("high priority item got %s at %v", result.Placed[0].Title, result.Placed[0].ScheduledAt.Start)
	}

	if result.Placed[1].Title != "low" || !result.Placed[1].ScheduledAt.Start.Equal(timeDate(2022, 5, 9, 14, 0)) {
		t.Errorf("low priority item got %s at %v", result.Placed[1].Title, result.Placed[1].ScheduledAt.Start)
	}

	if !result.Placed[0].IsAutoScheduled || !result.Placed[0].SyncPending {
		t.Error("placed units must be flagged auto-scheduled and sync pending")
	}
}

func TestAutoScheduleStampsCreationTimestamps(t *testing.T) {
	preferences := DefaultPreferences()

	fixed := timeDate(2022, 5, 9, 8, 0)
	now = func() time.Time { return fixed }
	defer func() { now = time.Now }()

	item := PendingWorkItem{ID: primitive.NewObjectID(), Title: "stamped", Duration: time.Hour, Priority: 1}
	slots := []TimeSlot{slotAt(timeDate(2022, 5, 9, 10, 0), time.Hour, 1.0)}

	result, err := AutoSchedule(context.Background(), []PendingWorkItem{item}, slots, preferences)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if len(result.Placed) != 1 {
		t.Fatalf("got %d placed, want 1", len(result.Placed))
	}

	if !result.Placed[0].CreatedAt.Equal(fixed) || !result.Placed[0].LastModifiedAt.Equal(fixed) {
		t.Errorf("got created %v and modified %v, want both %v",
			result.Placed[0].CreatedAt, result.Placed[0].LastModifiedAt, fixed)
	}
}

func TestAutoScheduleEqualPriorityIsStable(t *testing.T) {
	preferences := DefaultPreferences()

	first := PendingWorkItem{ID: primitive.NewObjectID(), Title: "first", Duration: time.Hour, Priority: 3}
	second := PendingWorkItem{ID: primitive.NewObjectID(), Title: "second", Duration: time.Hour, Priority: 3}

	slots := []TimeSlot{
		slotAt(timeDate(2022, 5, 9, 10, 0), time.Hour, 2.0),
		slotAt(timeDate(2022, 5, 9, 14, 0), time.Hour, 1.5),
	}

	result, err := AutoSchedule(context.Background(), []PendingWorkItem{first, second}, slots, preferences)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if result.Placed[0].Title != "first" {
		t.Errorf("equal priority must keep input order, got %s first", result.Placed[0].Title)
	}
}

func TestAutoScheduleConsumesSlotsWhole(t *testing.T) {
	preferences := DefaultPreferences()

	items := []PendingWorkItem{
		{ID: primitive.NewObjectID(), Title: "a", Duration: time.Hour, Priority: 2},
		{ID: primitive.NewObjectID(), Title: "b", Duration: time.Hour, Priority: 1},
	}

	// One 4 hour slot, the leftover capacity is not reusable within the batch
	slots := []TimeSlot{
		slotAt(timeDate(2022, 5, 9, 9, 0), 4*time.Hour, 1.5),
	}

	result, err := AutoSchedule(context.Background(), items, slots, preferences)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if len(result.Placed) != 1 {
		t.Fatalf("got %d placed, want 1", len(result.Placed))
	}

	// The higher priority item wins the only slot
	if result.Placed[0].Title != "a" {
		t.Errorf("placed %s, want the higher priority item", result.Placed[0].Title)
	}

	if len(result.Unplaced) != 1 || result.Unplaced[0].Reason != UnplacedReasonNoCapacity {
		t.Errorf("second item must be unplaced with reason %q, got %v", UnplacedReasonNoCapacity, result.Unplaced)
	}
}

func TestAutoScheduleNoCapacity(t *testing.T) {
	preferences := DefaultPreferences()

	item := PendingWorkItem{ID: primitive.NewObjectID(), Title: "big", Duration: 3 * time.Hour, Priority: 1}

	slots := []TimeSlot{
		slotAt(timeDate(2022, 5, 9, 9, 0), time.Hour, 1.5),
	}

	result, err := AutoSchedule(context.Background(), []PendingWorkItem{item}, slots, preferences)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if len(result.Placed) != 0 {
		t.Errorf("got %d placed, want 0", len(result.Placed))
	}

	if len(result.Unplaced) != 1 || result.Unplaced[0].ItemID != item.ID || result.Unplaced[0].Reason != UnplacedReasonNoCapacity {
		t.Errorf("got %v, want the item unplaced with reason %q", result.Unplaced, UnplacedReasonNoCapacity)
	}
}

func TestAutoScheduleCancellation(t *testing.T) {
	preferences := DefaultPreferences()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := []PendingWorkItem{
		{ID: primitive.NewObjectID(), Title: "a", Duration: time.Hour, Priority: 1},
		{ID: primitive.NewObjectID(), Title: "b", Duration: time.Hour, Priority: 1},
	}

	slots := []TimeSlot{
		slotAt(timeDate(2022, 5, 9, 9, 0), time.Hour, 1.5),
		slotAt(timeDate(2022, 5, 9, 11, 0), time.Hour, 1.5),
	}

	result, err := AutoSchedule(ctx, items, slots, preferences)
	if err != context.Canceled {
		t.Fatalf("got %v, want context.Canceled", err)
	}

	if len(result.Placed) != 0 {
		t.Errorf("got %d placed, want 0", len(result.Placed))
	}

	if len(result.Unplaced) != 2 {
		t.Fatalf("got %d unplaced, want 2", len(result.Unplaced))
	}

	for _, unplaced := range result.Unplaced {
		if unplaced.Reason != UnplacedReasonCancelled {
			t.Errorf("got reason %q, want %q", unplaced.Reason, UnplacedReasonCancelled)
		}
	}
}

func TestAutoScheduleInvalidDuration(t *testing.T) {
	preferences := DefaultPreferences()

	item := PendingWorkItem{ID: primitive.NewObjectID(), Title: "broken", Duration: 0, Priority: 1}

	_, err := AutoSchedule(context.Background(), []PendingWorkItem{item}, nil, preferences)
	if err != ErrInvalidInterval {
		t.Errorf("got %v, want ErrInvalidInterval", err)
	}
}
