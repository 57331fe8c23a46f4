package scheduling

import (
	"sort"
	"time"

	"github.com/dayplan-app/dayplan-backend/pkg/date"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkUnit is a concrete scheduled span of time, optionally linked to a task or a project
type WorkUnit struct {
	ID             primitive.ObjectID `json:"id" bson:"_id"`
	UserID         primitive.ObjectID `json:"userId" bson:"userId"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	LastModifiedAt time.Time          `json:"lastModifiedAt" bson:"lastModifiedAt"`

	Title       string        `json:"title" bson:"title" validate:"required"`
	ScheduledAt date.Timespan `json:"scheduledAt" bson:"scheduledAt" validate:"required"`

	// A work unit references at most one of a task or a project, never both
	TaskID    *primitive.ObjectID `json:"taskId,omitempty" bson:"taskId,omitempty"`
	ProjectID *primitive.ObjectID `json:"projectId,omitempty" bson:"projectId,omitempty"`
	Category  string              `json:"category" bson:"category"`

	IsAutoScheduled bool   `json:"isAutoScheduled" bson:"isAutoScheduled"`
	CalendarEventID string `json:"calendarEventID,omitempty" bson:"calendarEventID,omitempty"`

	// ImportBatchID groups the work units created by one calendar import run
	ImportBatchID string `json:"importBatchId,omitempty" bson:"importBatchId,omitempty"`

	IsDone       bool      `json:"isDone" bson:"isDone"`
	MarkedDoneAt time.Time `json:"markedDoneAt,omitempty" bson:"markedDoneAt,omitempty"`

	// ProductivityRating is a 1-5 self assessment, 0 means unrated
	ProductivityRating int `json:"productivityRating" bson:"productivityRating" validate:"min=0,max=5"`

	// IsImmutable is set by the caller, e.g. when the linked project phase is frozen
	IsImmutable bool `json:"isImmutable" bson:"isImmutable"`

	SyncPending bool `json:"-" bson:"syncPending"`
}

// Workload is the duration the work unit occupies
func (w *WorkUnit) Workload() time.Duration {
	return w.ScheduledAt.Duration()
}

// HasValidLink checks that the work unit references at most one of task and project
func (w *WorkUnit) HasValidLink() bool {
	return w.TaskID == nil || w.ProjectID == nil
}

// CanBeRescheduled reports whether moving this work unit is allowed
func (w *WorkUnit) CanBeRescheduled() bool {
	return !w.IsDone && !w.IsImmutable
}

// CategoryLabel returns the category the work unit's time counts towards
func (w *WorkUnit) CategoryLabel() string {
	if w.Category == "" {
		return CategoryUncategorized
	}

	return w.Category
}

// WorkUnits is a collection of WorkUnit
type WorkUnits []WorkUnit

// Add adds a WorkUnit to the slice, keeping it sorted by start time
func (w WorkUnits) Add(unit *WorkUnit) WorkUnits {
	index := sort.Search(len(w), func(i int) bool {
		return w[i].ScheduledAt.Start.After(unit.ScheduledAt.Start)
	})

	units := append(w, WorkUnit{})
	copy(units[index+1:], units[index:])
	units[index] = *unit

	return units
}

// Sort sorts the work units by start time ascending
func (w WorkUnits) Sort() {
	sort.SliceStable(w, func(i, j int) bool {
		return w[i].ScheduledAt.Start.Before(w[j].ScheduledAt.Start)
	})
}

// FindByID finds a work unit by its id and returns its index or -1
func (w WorkUnits) FindByID(id primitive.ObjectID) (int, *WorkUnit) {
	for i, unit := range w {
		if unit.ID == id {
			return i, &w[i]
		}
	}

	return -1, nil
}

// RemoveByIndex removes a work unit by its index
func (w WorkUnits) RemoveByIndex(index int) WorkUnits {
	return append(w[:index], w[index+1:]...)
}

// Timespans maps the work units to their scheduled timespans
func (w WorkUnits) Timespans() []date.Timespan {
	var timespans []date.Timespan
	for _, unit := range w {
		timespans = append(timespans, unit.ScheduledAt)
	}

	return timespans
}
