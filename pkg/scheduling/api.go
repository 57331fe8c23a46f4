package scheduling

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes wires the scheduling API onto a router
func RegisterRoutes(router *mux.Router, workUnitHandler *Handler, planningHandler *PlanningHandler) {
	router.HandleFunc("/v1/users/{userID}/work-units", workUnitHandler.WorkUnitAdd).Methods(http.MethodPost)
	router.HandleFunc("/v1/users/{userID}/work-units", workUnitHandler.WorkUnitsGet).Methods(http.MethodGet)
	router.HandleFunc("/v1/users/{userID}/work-units/sync-pending", workUnitHandler.WorkUnitsSyncPending).Methods(http.MethodGet)
	router.HandleFunc("/v1/users/{userID}/work-units/{workUnitID}", workUnitHandler.WorkUnitGet).Methods(http.MethodGet)
	router.HandleFunc("/v1/users/{userID}/work-units/{workUnitID}", workUnitHandler.WorkUnitUpdate).Methods(http.MethodPut)
	router.HandleFunc("/v1/users/{userID}/work-units/{workUnitID}", workUnitHandler.WorkUnitDelete).Methods(http.MethodDelete)
	router.HandleFunc("/v1/users/{userID}/work-units/{workUnitID}/done", workUnitHandler.WorkUnitDone).Methods(http.MethodPost)
	router.HandleFunc("/v1/users/{userID}/work-units/{workUnitID}/reschedule", workUnitHandler.WorkUnitReschedule).Methods(http.MethodPatch)
	router.HandleFunc("/v1/users/{userID}/tasks/{taskID}/work-units", workUnitHandler.WorkUnitsDeleteByTask).Methods(http.MethodDelete)

	router.HandleFunc("/v1/users/{userID}/slots", planningHandler.SuggestSlots).Methods(http.MethodGet)
	router.HandleFunc("/v1/users/{userID}/schedule", planningHandler.AutoSchedule).Methods(http.MethodPost)
	router.HandleFunc("/v1/users/{userID}/workload", planningHandler.DayWorkload).Methods(http.MethodGet)
	router.HandleFunc("/v1/users/{userID}/workload/week", planningHandler.WeekWorkload).Methods(http.MethodGet)
	router.HandleFunc("/v1/users/{userID}/analytics", planningHandler.Analytics).Methods(http.MethodGet)
	router.HandleFunc("/v1/users/{userID}/calendar/import", planningHandler.CalendarImport).Methods(http.MethodPost)
}
