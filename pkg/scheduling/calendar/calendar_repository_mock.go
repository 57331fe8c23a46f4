package calendar

import (
	"context"

	"github.com/dayplan-app/dayplan-backend/pkg/date"
)

// MockCalendarRepository is a calendar repository for testing
type MockCalendarRepository struct {
	Busy       []date.Timespan
	EventsList []Event

	// Err simulates an unavailable upstream when set
	Err error
}

// BusyTimespans returns the prepared busy intervals that intersect the window
func (r *MockCalendarRepository) BusyTimespans(_ context.Context, window date.Timespan) ([]date.Timespan, error) {
	if r.Err != nil {
		return nil, r.Err
	}

	var busy []date.Timespan
	for _, timespan := range r.Busy {
		if timespan.IntersectsWith(window) {
			busy = append(busy, timespan)
		}
	}

	return busy, nil
}

// Events returns the prepared events that intersect the window
func (r *MockCalendarRepository) Events(_ context.Context, window date.Timespan) ([]Event, error) {
	if r.Err != nil {
		return nil, r.Err
	}

	var events []Event
	for _, event := range r.EventsList {
		if event.Date.IntersectsWith(window) {
			event.CalendarType = CalendarTypeMock
			events = append(events, event)
		}
	}

	return events, nil
}
