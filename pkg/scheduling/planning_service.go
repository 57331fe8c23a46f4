package scheduling

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dayplan-app/dayplan-backend/pkg/date"
	"github.com/dayplan-app/dayplan-backend/pkg/locking"
	"github.com/dayplan-app/dayplan-backend/pkg/logger"
	"github.com/dayplan-app/dayplan-backend/pkg/scheduling/calendar"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// now is the current time and is globally available to override it in tests
var now = time.Now

// dayLockTTL bounds how long a per-day write lock may be held
const dayLockTTL = 30 * time.Second

// The PlanningService combines the work unit store and the external calendar into the
// scheduling engine. Work unit mutation is serialized per date, reads recompute lazily.
type PlanningService struct {
	workUnitRepository WorkUnitRepositoryInterface
	calendarRepository calendar.RepositoryInterface
	workloadCache      WorkloadCacheInterface
	locker             locking.LockerInterface
	logger             logger.Interface
}

// NewPlanningService constructs a PlanningService. The calendar repository may be nil
// when no external calendar is connected, external intervals are then empty.
func NewPlanningService(workUnitRepository WorkUnitRepositoryInterface,
	calendarRepository calendar.RepositoryInterface,
	workloadCache WorkloadCacheInterface,
	locker locking.LockerInterface,
	logger logger.Interface) *PlanningService {
	service := PlanningService{}

	service.workUnitRepository = workUnitRepository
	service.calendarRepository = calendarRepository
	service.workloadCache = workloadCache
	service.locker = locker
	service.logger = logger

	return &service
}

func dayLockKey(day time.Time) string {
	return fmt.Sprintf("work-units-%s", date.DayKey(day))
}

// acquireDayLocks locks the given days in ascending key order so concurrent writers
// can never deadlock, and returns a function releasing all of them
func (s *PlanningService) acquireDayLocks(ctx context.Context, days ...time.Time) (func(), error) {
	keys := map[string]bool{}
	for _, day := range days {
		keys[dayLockKey(day)] = true
	}

	var ordered []string
	for key := range keys {
		ordered = append(ordered, key)
	}
	sort.Strings(ordered)

	var locks []locking.LockInterface
	release := func() {
		for i := len(locks) - 1; i >= 0; i-- {
			err := locks[i].Release(ctx)
			if err != nil {
				s.logger.Error("error releasing lock", errors.Wrap(err, "error releasing lock"))
			}
		}
	}

	for _, key := range ordered {
		lock, err := s.locker.Acquire(ctx, key, dayLockTTL)
		if err != nil {
			release()
			return nil, errors.Wrap(err, "error acquiring day lock")
		}

		locks = append(locks, lock)
	}

	return release, nil
}

// occupiedForDay loads a day's work units and external busy intervals. A calendar
// failure is surfaced unless the preferences allow the documented empty fallback.
func (s *PlanningService) occupiedForDay(ctx context.Context, userID string, day time.Time, preferences SchedulingPreferences) (WorkUnits, []date.Timespan, error) {
	dayStart := date.BeginningOfDay(day)
	dayEnd := dayStart.AddDate(0, 0, 1)

	units, err := s.workUnitRepository.FindByDateRange(ctx, userID, dayStart, dayEnd)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: fetching work units: %v", ErrUpstreamUnavailable, err)
	}

	if s.calendarRepository == nil {
		return units, nil, nil
	}

	busy, err := s.calendarRepository.BusyTimespans(ctx, date.Timespan{Start: dayStart, End: dayEnd})
	if err != nil {
		if preferences.AllowCalendarFallback {
			s.logger.Warning("calendar unavailable, continuing with empty external intervals", err)
			return units, nil, nil
		}

		return nil, nil, fmt.Errorf("%w: fetching external busy intervals: %v", ErrUpstreamUnavailable, err)
	}

	return units, busy, nil
}

func (s *PlanningService) invalidateDay(ctx context.Context, day time.Time) {
	err := s.workloadCache.Invalidate(ctx, date.DayKey(day))
	if err != nil {
		s.logger.Warning(fmt.Sprintf("could not invalidate workload cache for %s", date.DayKey(day)), err)
	}
}

// CreateWorkUnit validates and persists a new user placed work unit. A conflicting
// interval is rejected, the caller decides whether to pick a different time.
func (s *PlanningService) CreateWorkUnit(ctx context.Context, workUnit *WorkUnit, preferences SchedulingPreferences) (*WorkUnit, error) {
	if !workUnit.ScheduledAt.IsStartBeforeEnd() {
		return nil, ErrInvalidInterval
	}

	if !workUnit.HasValidLink() {
		return nil, ErrInvalidLink
	}

	release, err := s.acquireDayLocks(ctx, workUnit.ScheduledAt.Start)
	if err != nil {
		return nil, err
	}
	defer release()

	units, busy, err := s.occupiedForDay(ctx, workUnit.UserID.Hex(), workUnit.ScheduledAt.Start, preferences)
	if err != nil {
		return nil, err
	}

	conflicts, err := FindConflicts(workUnit.ScheduledAt, units, busy, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}

	if len(conflicts) > 0 {
		return nil, fmt.Errorf("%w: %d overlapping intervals", ErrConflict, len(conflicts))
	}

	if workUnit.ID.IsZero() {
		workUnit.ID = primitive.NewObjectID()
	}
	workUnit.SyncPending = true

	err = s.workUnitRepository.Add(ctx, workUnit)
	if err != nil {
		return nil, fmt.Errorf("%w: persisting work unit: %v", ErrUpstreamUnavailable, err)
	}

	s.invalidateDay(ctx, workUnit.ScheduledAt.Start)

	return workUnit, nil
}

// GetWorkUnit fetches a single work unit
func (s *PlanningService) GetWorkUnit(ctx context.Context, workUnitID string, userID string) (*WorkUnit, error) {
	return s.workUnitRepository.FindByID(ctx, workUnitID, userID)
}

// GetWorkUnitsByDateRange fetches the work units starting in [from, to)
func (s *PlanningService) GetWorkUnitsByDateRange(ctx context.Context, userID string, from time.Time, to time.Time) (WorkUnits, error) {
	return s.workUnitRepository.FindByDateRange(ctx, userID, from, to)
}

// UpdateWorkUnit persists changed fields of a work unit. A changed interval is validated
// like a reschedule, the unit's own stored interval never counts against it.
func (s *PlanningService) UpdateWorkUnit(ctx context.Context, workUnit *WorkUnit, preferences SchedulingPreferences) (*WorkUnit, error) {
	if !workUnit.ScheduledAt.IsStartBeforeEnd() {
		return nil, ErrInvalidInterval
	}

	if !workUnit.HasValidLink() {
		return nil, ErrInvalidLink
	}

	stored, err := s.workUnitRepository.FindByID(ctx, workUnit.ID.Hex(), workUnit.UserID.Hex())
	if err != nil {
		return nil, err
	}

	release, err := s.acquireDayLocks(ctx, stored.ScheduledAt.Start, workUnit.ScheduledAt.Start)
	if err != nil {
		return nil, err
	}
	defer release()

	units, busy, err := s.occupiedForDay(ctx, workUnit.UserID.Hex(), workUnit.ScheduledAt.Start, preferences)
	if err != nil {
		return nil, err
	}

	conflicts, err := FindConflicts(workUnit.ScheduledAt, units, busy, workUnit.ID)
	if err != nil {
		return nil, err
	}

	if len(conflicts) > 0 {
		return nil, fmt.Errorf("%w: %d overlapping intervals", ErrConflict, len(conflicts))
	}

	workUnit.SyncPending = true

	err = s.workUnitRepository.Update(ctx, workUnit)
	if err != nil {
		return nil, fmt.Errorf("%w: updating work unit: %v", ErrUpstreamUnavailable, err)
	}

	s.invalidateDay(ctx, stored.ScheduledAt.Start)
	s.invalidateDay(ctx, workUnit.ScheduledAt.Start)

	return workUnit, nil
}

// DeleteWorkUnit deletes a work unit and invalidates its day
func (s *PlanningService) DeleteWorkUnit(ctx context.Context, workUnitID string, userID string) error {
	workUnit, err := s.workUnitRepository.FindByID(ctx, workUnitID, userID)
	if err != nil {
		return err
	}

	release, err := s.acquireDayLocks(ctx, workUnit.ScheduledAt.Start)
	if err != nil {
		return err
	}
	defer release()

	err = s.workUnitRepository.Delete(ctx, workUnitID, userID)
	if err != nil {
		return fmt.Errorf("%w: deleting work unit: %v", ErrUpstreamUnavailable, err)
	}

	s.invalidateDay(ctx, workUnit.ScheduledAt.Start)

	return nil
}

// MarkWorkUnitDone completes a work unit with an optional productivity rating (0 keeps it unrated)
func (s *PlanningService) MarkWorkUnitDone(ctx context.Context, workUnitID string, userID string, productivityRating int) (*WorkUnit, error) {
	if productivityRating < 0 || productivityRating > 5 {
		return nil, fmt.Errorf("productivity rating %d is out of range", productivityRating)
	}

	workUnit, err := s.workUnitRepository.FindByID(ctx, workUnitID, userID)
	if err != nil {
		return nil, err
	}

	release, err := s.acquireDayLocks(ctx, workUnit.ScheduledAt.Start)
	if err != nil {
		return nil, err
	}
	defer release()

	workUnit.IsDone = true
	workUnit.MarkedDoneAt = now()
	workUnit.ProductivityRating = productivityRating
	workUnit.SyncPending = true

	err = s.workUnitRepository.Update(ctx, workUnit)
	if err != nil {
		return nil, fmt.Errorf("%w: updating work unit: %v", ErrUpstreamUnavailable, err)
	}

	s.invalidateDay(ctx, workUnit.ScheduledAt.Start)

	return workUnit, nil
}

// FindFreeSlotsForDay returns the free slots of the requested duration inside the
// preferred working window of a day, carrying the neutral score
func (s *PlanningService) FindFreeSlotsForDay(ctx context.Context, userID string, day time.Time, duration time.Duration, preferences SchedulingPreferences) ([]TimeSlot, error) {
	units, busy, err := s.occupiedForDay(ctx, userID, day, preferences)
	if err != nil {
		return nil, err
	}

	window := preferences.WorkingWindowForDay(day)
	occupied := append(units.Timespans(), busy...)

	return FindFreeSlots(window, duration, occupied)
}

// SuggestSlotsForDay returns the day's free slots ranked by desirability
func (s *PlanningService) SuggestSlotsForDay(ctx context.Context, userID string, day time.Time, duration time.Duration, energyLevel *EnergyLevel, timeOfDay *TimeOfDay, preferences SchedulingPreferences) ([]TimeSlot, error) {
	slots, err := s.FindFreeSlotsForDay(ctx, userID, day, duration, preferences)
	if err != nil {
		return nil, err
	}

	if !preferences.OptimizeForEnergy {
		energyLevel = nil
	}

	return ScoreSlots(slots, energyLevel, timeOfDay, preferences), nil
}

// SuggestOptimalSlot returns the single best slot for a day or ErrNoCapacity
func (s *PlanningService) SuggestOptimalSlot(ctx context.Context, userID string, day time.Time, duration time.Duration, energyLevel *EnergyLevel, timeOfDay *TimeOfDay, preferences SchedulingPreferences) (*TimeSlot, error) {
	slots, err := s.SuggestSlotsForDay(ctx, userID, day, duration, energyLevel, timeOfDay, preferences)
	if err != nil {
		return nil, err
	}

	if len(slots) == 0 {
		return nil, ErrNoCapacity
	}

	return &slots[0], nil
}

// AutoScheduleBatch places pending items into free capacity between from and to
// (inclusive days), highest priority first. Placements within the batch occupy time for
// the items after them, so the free slots are recomputed after every placement.
//
// The result always lists every unplaced item with a reason, placed units are persisted
// before returning. Cancellation keeps the units already placed.
func (s *PlanningService) AutoScheduleBatch(ctx context.Context, userID string, items []PendingWorkItem, from time.Time, to time.Time, preferences SchedulingPreferences) (*AutoScheduleResult, error) {
	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	firstDay := date.BeginningOfDay(from)
	lastDay := date.BeginningOfDay(to)
	if lastDay.Before(firstDay) {
		return nil, ErrInvalidInterval
	}

	var days []time.Time
	for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}

	release, err := s.acquireDayLocks(ctx, days...)
	if err != nil {
		return nil, err
	}
	defer release()

	ordered := append([]PendingWorkItem{}, items...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	result := &AutoScheduleResult{}
	placedByDay := map[string][]date.Timespan{}

	var cancelled error

	for index, item := range ordered {
		if err := ctx.Err(); err != nil {
			for _, skipped := range ordered[index:] {
				result.Unplaced = append(result.Unplaced, UnplacedItem{ItemID: skipped.ID, Reason: UnplacedReasonCancelled})
			}

			cancelled = err
			break
		}

		if item.Duration <= 0 {
			return result, ErrInvalidInterval
		}

		energyLevel := item.EnergyLevel
		if !preferences.OptimizeForEnergy {
			energyLevel = nil
		}

		var best *TimeSlot
		for _, day := range days {
			units, busy, err := s.occupiedForDay(ctx, userID, day, preferences)
			if err != nil {
				return result, err
			}

			occupied := append(units.Timespans(), busy...)
			occupied = append(occupied, placedByDay[date.DayKey(day)]...)

			window := preferences.WorkingWindowForDay(day)
			slots, err := FindFreeSlots(window, item.Duration, occupied)
			if err != nil {
				return result, err
			}

			slots = ScoreSlots(slots, energyLevel, item.PreferredTimeOfDay, preferences)

			if len(slots) > 0 && (best == nil || slots[0].Score > best.Score) {
				found := slots[0]
				best = &found
			}
		}

		if best == nil {
			result.Unplaced = append(result.Unplaced, UnplacedItem{ItemID: item.ID, Reason: UnplacedReasonNoCapacity})
			continue
		}

		unit := newAutoScheduledUnit(item, best.Start)
		unit.UserID = userObjectID

		result.Placed = append(result.Placed, unit)
		placedByDay[date.DayKey(unit.ScheduledAt.Start)] = append(placedByDay[date.DayKey(unit.ScheduledAt.Start)], unit.ScheduledAt)
	}

	if len(result.Placed) > 0 {
		err = s.workUnitRepository.AddMultiple(ctx, result.Placed, userObjectID)
		if err != nil {
			return nil, fmt.Errorf("%w: persisting auto-scheduled work units: %v", ErrUpstreamUnavailable, err)
		}

		for _, unit := range result.Placed {
			s.invalidateDay(ctx, unit.ScheduledAt.Start)
		}
	}

	return result, cancelled
}

// RescheduleWorkUnit validates that moving a work unit to a new time introduces no new
// conflict, the unit's own current interval never counts against it
func (s *PlanningService) RescheduleWorkUnit(ctx context.Context, workUnitID string, userID string, newTimespan date.Timespan, preferences SchedulingPreferences) (*WorkUnit, error) {
	if !newTimespan.IsStartBeforeEnd() {
		return nil, ErrInvalidInterval
	}

	workUnit, err := s.workUnitRepository.FindByID(ctx, workUnitID, userID)
	if err != nil {
		return nil, err
	}

	release, err := s.acquireDayLocks(ctx, workUnit.ScheduledAt.Start, newTimespan.Start)
	if err != nil {
		return nil, err
	}
	defer release()

	// Refresh after potential change while waiting on the lock
	workUnit, err = s.workUnitRepository.FindByID(ctx, workUnitID, userID)
	if err != nil {
		return nil, err
	}

	if !workUnit.CanBeRescheduled() {
		return nil, ErrNotReschedulable
	}

	units, busy, err := s.occupiedForDay(ctx, userID, newTimespan.Start, preferences)
	if err != nil {
		return nil, err
	}

	conflicts, err := FindConflicts(newTimespan, units, busy, workUnit.ID)
	if err != nil {
		return nil, err
	}

	if len(conflicts) > 0 {
		return nil, fmt.Errorf("%w: %d overlapping intervals", ErrConflict, len(conflicts))
	}

	oldDay := workUnit.ScheduledAt.Start

	workUnit.ScheduledAt = newTimespan
	workUnit.SyncPending = true

	err = s.workUnitRepository.Update(ctx, workUnit)
	if err != nil {
		return nil, fmt.Errorf("%w: updating work unit: %v", ErrUpstreamUnavailable, err)
	}

	s.invalidateDay(ctx, oldDay)
	s.invalidateDay(ctx, newTimespan.Start)

	return workUnit, nil
}

// CalculateDayWorkload returns the cached or freshly computed workload summary of a day
func (s *PlanningService) CalculateDayWorkload(ctx context.Context, userID string, day time.Time, preferences SchedulingPreferences) (*WorkloadInfo, error) {
	key := date.DayKey(day)

	cached, err := s.workloadCache.Get(ctx, key)
	if err == nil && cached != nil {
		return cached, nil
	}

	units, busy, err := s.occupiedForDay(ctx, userID, day, preferences)
	if err != nil {
		return nil, err
	}

	info := CalculateWorkload(day, units, busy, preferences.Budget())

	err = s.workloadCache.Add(ctx, key, &info)
	if err != nil {
		s.logger.Warning(fmt.Sprintf("could not cache workload for %s", key), err)
	}

	return &info, nil
}

// CalculateWeekWorkload computes the workload for all 7 days of the week containing the
// given day and proposes a redistribution if the week is unbalanced
func (s *PlanningService) CalculateWeekWorkload(ctx context.Context, userID string, dayInWeek time.Time, preferences SchedulingPreferences) ([]WorkloadInfo, *DistributionSuggestion, error) {
	days := date.WeekOf(dayInWeek)
	workloads := make([]WorkloadInfo, len(days))

	wg, ctx := errgroup.WithContext(ctx)

	for i, day := range days {
		i, day := i, day

		wg.Go(func() error {
			info, err := s.CalculateDayWorkload(ctx, userID, day, preferences)
			if err != nil {
				return err
			}

			workloads[i] = *info
			return nil
		})
	}

	err := wg.Wait()
	if err != nil {
		return nil, nil, err
	}

	return workloads, SuggestDistribution(workloads), nil
}

// GetSyncPendingWorkUnits returns the work units a sync worker still has to push out
func (s *PlanningService) GetSyncPendingWorkUnits(ctx context.Context, userID string) (WorkUnits, error) {
	return s.workUnitRepository.FindSyncPending(ctx, userID)
}

// DeleteWorkUnitsByTask removes every work unit linked to a task, used when the task
// itself goes away
func (s *PlanningService) DeleteWorkUnitsByTask(ctx context.Context, taskID string, userID string) error {
	err := s.workUnitRepository.DeleteByTask(ctx, taskID, userID)
	if err != nil {
		return fmt.Errorf("%w: deleting work units by task: %v", ErrUpstreamUnavailable, err)
	}

	return nil
}

// GenerateAnalytics summarizes the work units of a historical period
func (s *PlanningService) GenerateAnalytics(ctx context.Context, userID string, period date.Timespan) (*AnalyticsReport, error) {
	if !period.IsStartBeforeEnd() {
		return nil, ErrInvalidInterval
	}

	units, err := s.workUnitRepository.FindByDateRange(ctx, userID, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching work units: %v", ErrUpstreamUnavailable, err)
	}

	return GenerateReport(period, units), nil
}

// ImportCalendarEvents copies a day's external events into work units once. Events that
// were imported before are skipped, the external calendar is never written to.
func (s *PlanningService) ImportCalendarEvents(ctx context.Context, userID string, day time.Time) (WorkUnits, error) {
	if s.calendarRepository == nil {
		return nil, fmt.Errorf("%w: no external calendar connected", ErrUpstreamUnavailable)
	}

	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	dayStart := date.BeginningOfDay(day)
	window := date.Timespan{Start: dayStart, End: dayStart.AddDate(0, 0, 1)}

	// The event listing and the dedup check have to sit under the same lock, otherwise a
	// concurrent import of the same day can double-import an event
	release, err := s.acquireDayLocks(ctx, day)
	if err != nil {
		return nil, err
	}
	defer release()

	events, err := s.calendarRepository.Events(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("%w: listing calendar events: %v", ErrUpstreamUnavailable, err)
	}

	batchID := uuid.NewString()

	var imported WorkUnits
	for _, event := range events {
		// Events spanning outside the day (or several days) are not importable as day units
		if !window.Contains(event.Date) {
			continue
		}

		_, err := s.workUnitRepository.FindByCalendarEventID(ctx, event.CalendarEventID, userID)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: looking up imported event: %v", ErrUpstreamUnavailable, err)
		}

		imported = append(imported, WorkUnit{
			ID:              primitive.NewObjectID(),
			UserID:          userObjectID,
			Title:           event.Title,
			ScheduledAt:     event.Date,
			CalendarEventID: event.CalendarEventID,
			ImportBatchID:   batchID,
			SyncPending:     true,
		})
	}

	if len(imported) == 0 {
		return imported, nil
	}

	err = s.workUnitRepository.AddMultiple(ctx, imported, userObjectID)
	if err != nil {
		return nil, fmt.Errorf("%w: persisting imported work units: %v", ErrUpstreamUnavailable, err)
	}

	s.invalidateDay(ctx, day)
	s.logger.Info(fmt.Sprintf("imported %d calendar events for %s (batch %s)", len(imported), date.DayKey(day), batchID))

	return imported, nil
}
