package scheduling

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dayplan-app/dayplan-backend/pkg/communication"
	"github.com/dayplan-app/dayplan-backend/pkg/date"
	"github.com/dayplan-app/dayplan-backend/pkg/logger"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Handler handles all scheduling related API calls
type Handler struct {
	PlanningService *PlanningService
	Preferences     SchedulingPreferences
	Logger          logger.Interface
	ResponseManager *communication.ResponseManager
}

// statusForError maps the scheduling error taxonomy onto HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrNotReschedulable):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInterval), errors.Is(err, ErrInvalidLink):
		return http.StatusBadRequest
	case errors.Is(err, ErrNoCapacity):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrUpstreamUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func parseDay(query string) (time.Time, error) {
	if query == "" {
		return date.BeginningOfDay(time.Now().UTC()), nil
	}

	return time.Parse("2006-01-02", query)
}

// WorkUnitAdd is the route for creating a work unit
func (handler *Handler) WorkUnitAdd(writer http.ResponseWriter, request *http.Request) {
	userID := mux.Vars(request)["userID"]

	workUnit := WorkUnit{}

	err := json.NewDecoder(request.Body).Decode(&workUnit)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "UserID malformed", err)
		return
	}
	workUnit.UserID = userObjectID

	v := validator.New()
	err = v.Struct(workUnit)
	if err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, e.Error(), e)
			return
		}
	}

	created, err := handler.PlanningService.CreateWorkUnit(request.Context(), &workUnit, handler.Preferences)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, statusForError(err), "Could not create work unit", err)
		return
	}

	handler.ResponseManager.Respond(writer, created)
}

// WorkUnitGet is the route for fetching a single work unit
func (handler *Handler) WorkUnitGet(writer http.ResponseWriter, request *http.Request) {
	userID := mux.Vars(request)["userID"]
	workUnitID := mux.Vars(request)["workUnitID"]

	workUnit, err := handler.PlanningService.GetWorkUnit(request.Context(), workUnitID, userID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, statusForError(err), "Couldn't find work unit", err)
		return
	}

	handler.ResponseManager.Respond(writer, workUnit)
}

// WorkUnitsGet is the route for listing work units starting in a date range
func (handler *Handler) WorkUnitsGet(writer http.ResponseWriter, request *http.Request) {
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

	if request.URL.Query().Get("to") == "" {
		to = from.AddDate(0, 0, 1)
	}

	workUnits, err := handler.PlanningService.GetWorkUnitsByDateRange(request.Context(), userID, from, to)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, statusForError(err), "Could not fetch work units", err)
		return
	}

	if workUnits == nil {
		workUnits = WorkUnits{}
	}

	handler.ResponseManager.Respond(writer, workUnits)
}

// WorkUnitUpdate is the route for updating a work unit
func (handler *Handler) WorkUnitUpdate(writer http.ResponseWriter, request *http.Request) {
	userID := mux.Vars(request)["userID"]
	workUnitID := mux.Vars(request)["workUnitID"]

	workUnit, err := handler.PlanningService.GetWorkUnit(request.Context(), workUnitID, userID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, statusForError(err), "Couldn't find work unit", err)
		return
	}

	originalID := workUnit.ID
	originalUserID := workUnit.UserID

	err = json.NewDecoder(request.Body).Decode(workUnit)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	// The path owns the identity, the body only carries field changes
	workUnit.ID = originalID
	workUnit.UserID = originalUserID

	v := validator.New()
	err = v.Struct(workUnit)
	if err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, e.Error(), e)
			return
		}
	}

	updated, err := handler.PlanningService.UpdateWorkUnit(request.Context(), workUnit, handler.Preferences)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, statusForError(err), "Could not update work unit", err)
		return
	}

	handler.ResponseManager.Respond(writer, updated)
}

// WorkUnitDelete is the route for deleting a work unit
func (handler *Handler) WorkUnitDelete(writer http.ResponseWriter, request *http.Request) {
	userID := mux.Vars(request)["userID"]
	workUnitID := mux.Vars(request)["workUnitID"]

	err := handler.PlanningService.DeleteWorkUnit(request.Context(), workUnitID, userID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, statusForError(err), "Could not delete work unit", err)
		return
	}

	handler.ResponseManager.RespondWithNoContent(writer)
}

// WorkUnitDone is the route for completing a work unit
func (handler *Handler) WorkUnitDone(writer http.ResponseWriter, request *http.Request) {
	userID := mux.Vars(request)["userID"]
	workUnitID := mux.Vars(request)["workUnitID"]

	body := struct {
		ProductivityRating int `json:"productivityRating" validate:"min=0,max=5"`
	}{}

	err := json.NewDecoder(request.Body).Decode(&body)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	workUnit, err := handler.PlanningService.MarkWorkUnitDone(request.Context(), workUnitID, userID, body.ProductivityRating)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, statusForError(err), "Could not complete work unit", err)
		return
	}

	handler.ResponseManager.Respond(writer, workUnit)
}

// WorkUnitReschedule is the route for moving a work unit to a new interval
func (handler *Handler) WorkUnitReschedule(writer http.ResponseWriter, request *http.Request) {
	userID := mux.Vars(request)["userID"]
	workUnitID := mux.Vars(request)["workUnitID"]

	timespan := date.Timespan{}

	err := json.NewDecoder(request.Body).Decode(&timespan)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	workUnit, err := handler.PlanningService.RescheduleWorkUnit(request.Context(), workUnitID, userID, timespan, handler.Preferences)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, statusForError(err), "Could not reschedule work unit", err)
		return
	}

	handler.ResponseManager.Respond(writer, workUnit)
}

// WorkUnitsSyncPending is the route for listing work units that still need an external sync
func (handler *Handler) WorkUnitsSyncPending(writer http.ResponseWriter, request *http.Request) {
	userID := mux.Vars(request)["userID"]

	workUnits, err := handler.PlanningService.GetSyncPendingWorkUnits(request.Context(), userID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, statusForError(err), "Could not fetch work units", err)
		return
	}

	if workUnits == nil {
		workUnits = WorkUnits{}
	}

	handler.ResponseManager.Respond(writer, workUnits)
}

// WorkUnitsDeleteByTask is the route for removing all work units of a task
func (handler *Handler) WorkUnitsDeleteByTask(writer http.ResponseWriter, request *http.Request) {
	userID := mux.Vars(request)["userID"]
	taskID := mux.Vars(request)["taskID"]

	err := handler.PlanningService.DeleteWorkUnitsByTask(request.Context(), taskID, userID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, statusForError(err), "Could not delete work units", err)
		return
	}

	handler.ResponseManager.RespondWithNoContent(writer)
}
