package scheduling

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PendingWorkItem is the projection of a task waiting to be auto-scheduled. The engine
// does not own the task, it only needs the duration, priority and optional preferences.
type PendingWorkItem struct {
	ID       primitive.ObjectID `json:"id" bson:"_id"`
	Title    string             `json:"title" validate:"required"`
	Duration time.Duration      `json:"duration" validate:"required"`
	Priority int                `json:"priority"`

	TaskID    *primitive.ObjectID `json:"taskId,omitempty"`
	ProjectID *primitive.ObjectID `json:"projectId,omitempty"`
	Category  string              `json:"category,omitempty"`

	EnergyLevel        *EnergyLevel `json:"energyLevel,omitempty"`
	PreferredTimeOfDay *TimeOfDay   `json:"preferredTimeOfDay,omitempty"`
}
