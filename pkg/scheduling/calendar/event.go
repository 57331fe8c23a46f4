package calendar

import (
	"github.com/dayplan-app/dayplan-backend/pkg/date"
)

// Type declares in which calendar implementation an event lives
type Type string

const (
	// CalendarTypeGoogleCalendar is the Google Calendar implementation
	CalendarTypeGoogleCalendar Type = "google_calendar"

	// CalendarTypeMock is the in-memory test implementation
	CalendarTypeMock Type = "mock_calendar"
)

// Event represents a simple externally owned calendar event. The engine never writes
// these back, it only reads them as busy time or imports them once.
type Event struct {
	Date  date.Timespan `json:"date"`
	Title string        `json:"title"`

	CalendarType    Type   `json:"calendarType"`
	CalendarEventID string `json:"calendarEventID"`
}
