package calendar

import (
	"context"

	"github.com/dayplan-app/dayplan-backend/pkg/date"
)

// RepositoryInterface is the read-only interface for every external calendar
// implementation e.g. Google Calendar, Microsoft Calendar,...
type RepositoryInterface interface {
	// BusyTimespans lists the externally owned busy intervals intersecting the window
	BusyTimespans(ctx context.Context, window date.Timespan) ([]date.Timespan, error)

	// Events lists the events intersecting the window, used for one-way import
	Events(ctx context.Context, window date.Timespan) ([]Event, error)
}
