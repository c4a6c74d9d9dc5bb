package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/coach-calendar/internal/application"
	"github.com/example/coach-calendar/internal/ics"
)

type calendarService interface {
	DayView(ctx context.Context, date time.Time) (application.DaySchedule, error)
	EffectiveBookings(ctx context.Context, date time.Time) ([]application.Booking, error)
}

type CalendarHandler struct {
	service   calendarService
	location  *time.Location
	responder responder
	logger    *slog.Logger
}

func NewCalendarHandler(service calendarService, location *time.Location, logger *slog.Logger) *CalendarHandler {
	if location == nil {
		location = time.Local
	}
	return &CalendarHandler{
		service:   service,
		location:  location,
		responder: newResponder(logger),
		logger:    defaultLogger(logger),
	}
}

// Day renders the full slot grid for the date taken from the request path,
// marking which slots are free and which booking occupies the rest.
func (h *CalendarHandler) Day(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	date, ok := h.requestDate(r)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
		return
	}

	schedule, err := h.service.DayView(r.Context(), date)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toDayScheduleDTO(schedule))
}

// DayICS exports the bookings effective on the date as an iCalendar
// document.
func (h *CalendarHandler) DayICS(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	date, ok := h.requestDate(r)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
		return
	}

	bookings, err := h.service.EffectiveBookings(r.Context(), date)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	calendar, err := ics.BuildDayCalendar(date, bookings, h.location)
	if err != nil {
		handlerLogger(r.Context(), h.logger, "calendar", "day_ics", "date", date.Format(dayFormat)).
			ErrorContext(r.Context(), "failed to build calendar export", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=\"schedule-"+date.Format(dayFormat)+".ics\"")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(calendar.Serialize())); err != nil {
		handlerLogger(r.Context(), h.logger, "calendar", "day_ics").
			ErrorContext(r.Context(), "failed to write calendar export", "error", err)
	}
}

func (h *CalendarHandler) requestDate(r *http.Request) (time.Time, bool) {
	value, ok := DateFromContext(r.Context())
	if !ok || strings.TrimSpace(value) == "" {
		return time.Time{}, false
	}
	date, err := time.ParseInLocation(dayFormat, strings.TrimSpace(value), h.location)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

type dayScheduleDTO struct {
	Date  string       `json:"date"`
	Slots []daySlotDTO `json:"slots"`
}

type daySlotDTO struct {
	Time      string      `json:"time"`
	Display   string      `json:"display"`
	Available bool        `json:"available"`
	Booking   *bookingDTO `json:"booking,omitempty"`
}

func toDayScheduleDTO(schedule application.DaySchedule) dayScheduleDTO {
	slots := make([]daySlotDTO, 0, len(schedule.Slots))
	for _, slot := range schedule.Slots {
		dto := daySlotDTO{
			Time:      slot.Time,
			Display:   slot.Display,
			Available: slot.Available,
		}
		if slot.Booking != nil {
			booking := toBookingDTO(*slot.Booking)
			dto.Booking = &booking
		}
		slots = append(slots, dto)
	}
	return dayScheduleDTO{
		Date:  schedule.Date.Format(dayFormat),
		Slots: slots,
	}
}
