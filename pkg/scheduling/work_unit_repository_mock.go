package scheduling

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockWorkUnitRepository is an in-memory WorkUnitRepositoryInterface for testing
type MockWorkUnitRepository struct {
	mutex sync.Mutex
	Units WorkUnits

	// Err simulates an unavailable upstream when set
	Err error
}

// Add adds a work unit
func (r *MockWorkUnitRepository) Add(_ context.Context, workUnit *WorkUnit) error {
	if r.Err != nil {
		return r.Err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if workUnit.ID.IsZero() {
		workUnit.ID = primitive.NewObjectID()
	}
	workUnit.CreatedAt = time.Now()
	workUnit.LastModifiedAt = time.Now()

	r.Units = r.Units.Add(workUnit)
	return nil
}

// AddMultiple adds multiple work units
func (r *MockWorkUnitRepository) AddMultiple(ctx context.Context, workUnits []WorkUnit, userID primitive.ObjectID) error {
	for i := range workUnits {
		workUnits[i].UserID = userID
		err := r.Add(ctx, &workUnits[i])
		if err != nil {
			return err
		}
	}

	return nil
}

// FindByID finds a work unit by id
func (r *MockWorkUnitRepository) FindByID(_ context.Context, workUnitID string, _ string) (*WorkUnit, error) {
	if r.Err != nil {
		return nil, r.Err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	id, err := primitive.ObjectIDFromHex(workUnitID)
	if err != nil {
		return nil, err
	}

	_, unit := r.Units.FindByID(id)
	if unit == nil {
		return nil, ErrNotFound
	}

	found := *unit
	return &found, nil
}

// FindByDateRange finds all work units starting in [from, to)
func (r *MockWorkUnitRepository) FindByDateRange(_ context.Context, _ string, from time.Time, to time.Time) (WorkUnits, error) {
	if r.Err != nil {
		return nil, r.Err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	var units WorkUnits
	for _, unit := range r.Units {
		if !unit.ScheduledAt.Start.Before(from) && unit.ScheduledAt.Start.Before(to) {
			units = append(units, unit)
		}
	}

	units.Sort()
	return units, nil
}

// FindByCalendarEventID finds the work unit imported from a calendar event
func (r *MockWorkUnitRepository) FindByCalendarEventID(_ context.Context, calendarEventID string, _ string) (*WorkUnit, error) {
	if r.Err != nil {
		return nil, r.Err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, unit := range r.Units {
		if unit.CalendarEventID == calendarEventID {
			found := r.Units[i]
			return &found, nil
		}
	}

	return nil, ErrNotFound
}

// FindSyncPending finds all work units with the sync pending flag set
func (r *MockWorkUnitRepository) FindSyncPending(_ context.Context, _ string) (WorkUnits, error) {
	if r.Err != nil {
		return nil, r.Err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	var units WorkUnits
	for _, unit := range r.Units {
		if unit.SyncPending {
			units = append(units, unit)
		}
	}

	return units, nil
}

// Update updates a work unit
func (r *MockWorkUnitRepository) Update(_ context.Context, workUnit *WorkUnit) error {
	if r.Err != nil {
		return r.Err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	index, unit := r.Units.FindByID(workUnit.ID)
	if unit == nil {
		return ErrNotFound
	}

	workUnit.LastModifiedAt = time.Now()
	r.Units[index] = *workUnit
	r.Units.Sort()

	return nil
}

// Delete deletes a work unit
func (r *MockWorkUnitRepository) Delete(_ context.Context, workUnitID string, _ string) error {
	if r.Err != nil {
		return r.Err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	id, err := primitive.ObjectIDFromHex(workUnitID)
	if err != nil {
		return err
	}

	index, unit := r.Units.FindByID(id)
	if unit == nil {
		return ErrNotFound
	}

	r.Units = r.Units.RemoveByIndex(index)
	return nil
}

// DeleteByTask deletes all work units linked to a task
func (r *MockWorkUnitRepository) DeleteByTask(_ context.Context, taskID string, _ string) error {
	if r.Err != nil {
		return r.Err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	id, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return err
	}

	var units WorkUnits
	for _, unit := range r.Units {
		if unit.TaskID != nil && *unit.TaskID == id {
			continue
		}
		units = append(units, unit)
	}

	r.Units = units
	return nil
}
