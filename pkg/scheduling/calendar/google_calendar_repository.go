package calendar

import (
	"context"
	"time"

	"github.com/dayplan-app/dayplan-backend/pkg/date"
	"github.com/dayplan-app/dayplan-backend/pkg/logger"
	"golang.org/x/oauth2"
	gcalendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GoogleCalendarRepository reads busy time and events from a single Google calendar
type GoogleCalendarRepository struct {
	Config     *oauth2.Config
	Logger     logger.Interface
	Service    *gcalendar.Service
	calendarID string
}

// NewGoogleCalendarRepository constructs a GoogleCalendarRepository for one calendar
func NewGoogleCalendarRepository(ctx context.Context, config *oauth2.Config, token *oauth2.Token, calendarID string, logger logger.Interface) (*GoogleCalendarRepository, error) {
	newRepo := GoogleCalendarRepository{}
	newRepo.Config = config

	if token.Expiry.Before(time.Now()) {
		source := config.TokenSource(ctx, token)
		newToken, err := source.Token()
		if err != nil {
			return nil, err
		}
		token = newToken
	}

	client := config.Client(ctx, token)

	srv, err := gcalendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, err
	}

	newRepo.Service = srv
	newRepo.Logger = logger
	newRepo.calendarID = calendarID

	return &newRepo, nil
}

// BusyTimespans reads the busy intervals in the window via a freebusy query
func (c *GoogleCalendarRepository) BusyTimespans(_ context.Context, window date.Timespan) ([]date.Timespan, error) {
	response, err := c.Service.Freebusy.Query(&gcalendar.FreeBusyRequest{
		TimeMin: window.Start.Format(time.RFC3339),
		TimeMax: window.End.Format(time.RFC3339),
		Items:   []*gcalendar.FreeBusyRequestItem{{Id: c.calendarID}},
	}).Do()
	if err != nil {
		return nil, err
	}

	var busy []date.Timespan
	for _, entry := range response.Calendars {
		for _, period := range entry.Busy {
			start, err := time.Parse(time.RFC3339, period.Start)
			if err != nil {
				return nil, err
			}

			end, err := time.Parse(time.RFC3339, period.End)
			if err != nil {
				return nil, err
			}

			busy = append(busy, date.Timespan{Start: start.UTC(), End: end.UTC()})
		}
	}

	return busy, nil
}

// Events lists the events in the window for one-way import
func (c *GoogleCalendarRepository) Events(_ context.Context, window date.Timespan) ([]Event, error) {
	request := c.Service.Events.List(c.calendarID).SingleEvents(true)
	request = request.TimeMin(window.Start.Format(time.RFC3339))
	request = request.TimeMax(window.End.Format(time.RFC3339))

	response, err := request.Do()
	if err != nil {
		if googleError, ok := err.(*googleapi.Error); ok && googleError.Code == 410 {
			return nil, nil
		}

		return nil, err
	}

	var events []Event
	for _, item := range response.Items {
		if item.Status == "cancelled" {
			continue
		}

		if item.Start == nil || item.End == nil || item.Start.DateTime == "" || item.End.DateTime == "" {
			// All-day events carry no clock time and don't block scheduling
			continue
		}

		start, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			return nil, err
		}

		end, err := time.Parse(time.RFC3339, item.End.DateTime)
		if err != nil {
			return nil, err
		}

		events = append(events, Event{
			Date:            date.Timespan{Start: start.UTC(), End: end.UTC()},
			Title:           item.Summary,
			CalendarType:    CalendarTypeGoogleCalendar,
			CalendarEventID: item.Id,
		})
	}

	return events, nil
}
