package scheduling

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/dayplan-app/dayplan-backend/pkg/communication"
	"github.com/dayplan-app/dayplan-backend/pkg/date"
	"github.com/dayplan-app/dayplan-backend/pkg/logger"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// PlanningHandler handles the slot, scheduling, workload and analytics API calls
type PlanningHandler struct {
	PlanningService *PlanningService
	Preferences     SchedulingPreferences
	Logger          logger.Interface
	ResponseManager *communication.ResponseManager
}

func parseDuration(query string) (time.Duration, error) {
	minutes, err := strconv.Atoi(query)
	if err != nil {
		return 0, err
	}

	return time.Duration(minutes) * time.Minute, nil
}

// SuggestSlots is the route for finding ranked free slots on a day
func (handler *PlanningHandler) SuggestSlots(writer http.ResponseWriter, request *http.Request) {
	userID := mux.Vars(request)["userID"]

	day, err := parseDay(request.URL.Query().Get("date"))
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Bad date", err)
		return
	}

	duration, err := parseDuration(request.URL.Query().Get("duration"))
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Bad duration", err)
		return
	}

	energyLevel, err := ParseEnergyLevel(request.URL.Query().Get("energy"))
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Bad energy level", err)
		return
	}

	timeOfDay, err := ParseTimeOfDay(request.URL.Query().Get("timeOfDay"))
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Bad time of day", err)
		return
	}

	slots, err := handler.PlanningService.SuggestSlotsForDay(request.Context(), userID, day, duration, energyLevel, timeOfDay, handler.Preferences)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, statusForError(err), "Could not find free slots", err)
		return
	}

	if slots == nil {
		slots = []TimeSlot{}
	}

	handler.ResponseManager.Respond(writer, slots)
}

// autoScheduleRequest is the body of the auto-schedule route
type autoScheduleRequest struct {
	Items []PendingWorkItem `json:"items" validate:"required,min=1,dive"`
	From  string            `json:"from" validate:"required"`
	To    string            `json:"to" validate:"required"`
}

// AutoSchedule is the route for placing pending items into free capacity
func (handler *PlanningHandler) AutoSchedule(writer http.ResponseWriter, request *http.Request) {
	userID := mux.Vars(request)["userID"]

	body := autoScheduleRequest{}

	err := json.NewDecoder(request.Body).Decode(&body)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	v := validator.New()
	err = v.Struct(body)
	if err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, e.Error(), e)
			return
		}
	}

	from, err := time.Parse("2006-01-02", body.From)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Bad from date", err)
		return
	}

	to, err := time.Parse("2006-01-02", body.To)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Bad to date", err)
		return
	}

	result, err := handler.PlanningService.AutoScheduleBatch(request.Context(), userID, body.Items, from, to, handler.Preferences)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, statusForError(err), "Could not auto-schedule", err)
		return
	}

	handler.ResponseManager.Respond(writer, result)
}

// DayWorkload is the route for a single day's workload summary
func (handler *PlanningHandler) DayWorkload(writer http.ResponseWriter, request *http.Request) {
	userID := mux.Vars(request)["userID"]

	day, err := parseDay(request.URL.Query().Get("date"))
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Bad date", err)
		return
	}

	workload, err := handler.PlanningService.CalculateDayWorkload(request.Context(), userID, day, handler.Preferences)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, statusForError(err), "Could not calculate workload", err)
		return
	}

	handler.ResponseManager.Respond(writer, workload)
}

// weekWorkloadResponse pairs the per-day workloads with an optional redistribution proposal
type weekWorkloadResponse struct {
	Days       []WorkloadInfo          `json:"days"`
	Suggestion *DistributionSuggestion `json:"suggestion,omitempty"`
}

// WeekWorkload is the route for the workload of a whole week
func (handler *PlanningHandler) WeekWorkload(writer http.ResponseWriter, request *http.Request) {
	userID := mux.Vars(request)["userID"]

	day, err := parseDay(request.URL.Query().Get("date"))
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Bad date", err)
		return
	}

	workloads, suggestion, err := handler.PlanningService.CalculateWeekWorkload(request.Context(), userID, day, handler.Preferences)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, statusForError(err), "Could not calculate workload", err)
		return
	}

	handler.ResponseManager.Respond(writer, weekWorkloadResponse{Days: workloads, Suggestion: suggestion})
}

// Analytics is the route for the historical analytics report
func (handler *PlanningHandler) Analytics(writer http.ResponseWriter, request *http.Request) {
	userID := mux.Vars(request)["userID"]

	from, err := parseDay(request.URL.Query().Get("from"))
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Bad from date", err)
		return
	}

	to, err := parseDay(request.URL.Query().Get("to"))
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Bad to date", err)
		return
	}

	report, err := handler.PlanningService.GenerateAnalytics(request.Context(), userID, date.Timespan{Start: from, End: to})
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, statusForError(err), "Could not generate analytics", err)
		return
	}

	handler.ResponseManager.Respond(writer, report)
}

// CalendarImport is the route for importing a day's external events as work units
func (handler *PlanningHandler) CalendarImport(writer http.ResponseWriter, request *http.Request) {
	userID := mux.Vars(request)["userID"]

	day, err := parseDay(request.URL.Query().Get("date"))
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Bad date", err)
		return
	}

	imported, err := handler.PlanningService.ImportCalendarEvents(request.Context(), userID, day)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, statusForError(err), "Could not import calendar events", err)
		return
	}

	if imported == nil {
		imported = WorkUnits{}
	}

	handler.ResponseManager.Respond(writer, imported)
}
