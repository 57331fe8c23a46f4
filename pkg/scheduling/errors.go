package scheduling

import "errors"

// ErrNoCapacity is returned when no interval of sufficient duration exists in the searched window
var ErrNoCapacity = errors.New("no free capacity of sufficient duration")

// ErrConflict is returned when a proposed interval overlaps an existing commitment
var ErrConflict = errors.New("interval conflicts with an existing commitment")

// ErrNotReschedulable is returned when a work unit may not be moved
var ErrNotReschedulable = errors.New("work unit can not be rescheduled")

// ErrInvalidInterval is returned when end <= start or a non-positive duration is requested
var ErrInvalidInterval = errors.New("invalid interval")

// ErrUpstreamUnavailable is returned when the persistence or calendar collaborator failed
var ErrUpstreamUnavailable = errors.New("upstream collaborator unavailable")

// ErrInvalidLink is returned when a work unit references both a task and a project
var ErrInvalidLink = errors.New("work unit can not be linked to both a task and a project")

// ErrNotFound is returned when a work unit does not exist
var ErrNotFound = errors.New("work unit not found")
