package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/coach-calendar/internal/application"
)

const dayFormat = "2006-01-02"

const defaultOccurrenceCount = 4

type bookingService interface {
	Book(ctx context.Context, params application.BookParams) (application.Booking, error)
	Cancel(ctx context.Context, bookingID string) error
	EffectiveBookings(ctx context.Context, date time.Time) ([]application.Booking, error)
	UpcomingOccurrences(ctx context.Context, bookingID string, count int) ([]time.Time, error)
}

type BookingHandler struct {
	service   bookingService
	location  *time.Location
	responder responder
	logger    *slog.Logger
}

func NewBookingHandler(service bookingService, location *time.Location, logger *slog.Logger) *BookingHandler {
	if location == nil {
		location = time.Local
	}
	return &BookingHandler{
		service:   service,
		location:  location,
		responder: newResponder(logger),
		logger:    defaultLogger(logger),
	}
}

// List renders the bookings effective on the date given by the required
// date query parameter, recurring series expanded onto that day.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	date, err := h.parseDay(r.URL.Query().Get("date"))
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
		return
	}

	bookings, err := h.service.EffectiveBookings(r.Context(), date)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listBookingsResponse{
		Date:     date.Format(dayFormat),
		Bookings: toBookingDTOs(bookings),
	})
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	params := application.BookParams{
		ClientID: strings.TrimSpace(req.ClientID),
		CallType: application.CallType(strings.TrimSpace(req.CallType)),
		Slot:     strings.TrimSpace(req.Slot),
	}
	if date, err := h.parseDay(req.Date); err == nil {
		params.Date = date
	}

	booking, err := h.service.Book(r.Context(), params)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	handlerLogger(r.Context(), h.logger, "bookings", "create", "booking_id", booking.ID).
		InfoContext(r.Context(), "booking created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, bookingResponse{Booking: toBookingDTO(booking)})
}

// Delete cancels the booking; for a recurring booking this removes the
// entire weekly series.
func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID, ok := BookingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(bookingID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingID)
		return
	}

	if err := h.service.Cancel(r.Context(), bookingID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Occurrences previews the next dates the booking applies to.
func (h *BookingHandler) Occurrences(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID, ok := BookingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(bookingID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingID)
		return
	}

	count := defaultOccurrenceCount
	if countValue := strings.TrimSpace(r.URL.Query().Get("count")); countValue != "" {
		parsed, err := strconv.Atoi(countValue)
		if err != nil || parsed <= 0 {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidCount)
			return
		}
		count = parsed
	}

	occurrences, err := h.service.UpcomingOccurrences(r.Context(), bookingID, count)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dates := make([]string, 0, len(occurrences))
	for _, occurrence := range occurrences {
		dates = append(dates, occurrence.Format(dayFormat))
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, occurrencesResponse{
		BookingID: bookingID,
		Dates:     dates,
	})
}

func (h *BookingHandler) parseDay(value string) (time.Time, error) {
	return time.ParseInLocation(dayFormat, strings.TrimSpace(value), h.location)
}

type bookingRequest struct {
	ClientID string `json:"client_id"`
	CallType string `json:"call_type"`
	Date     string `json:"date"`
	Slot     string `json:"slot"`
}

type bookingResponse struct {
	Booking bookingDTO `json:"booking"`
}

type listBookingsResponse struct {
	Date     string       `json:"date"`
	Bookings []bookingDTO `json:"bookings"`
}

type occurrencesResponse struct {
	BookingID string   `json:"booking_id"`
	Dates     []string `json:"dates"`
}

type bookingDTO struct {
	ID          string `json:"id"`
	ClientID    string `json:"client_id"`
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`
	CallType    string `json:"call_type"`
	Date        string `json:"date"`
	Slot        string `json:"slot"`
	IsRecurring bool   `json:"is_recurring"`
	CreatedAt   string `json:"created_at"`
}

func toBookingDTO(booking application.Booking) bookingDTO {
	return bookingDTO{
		ID:          booking.ID,
		ClientID:    booking.ClientID,
		ClientName:  booking.ClientName,
		ClientPhone: booking.ClientPhone,
		CallType:    string(booking.CallType),
		Date:        booking.AnchorAt.Format(dayFormat),
		Slot:        booking.SlotTime,
		IsRecurring: booking.IsRecurring,
		CreatedAt:   booking.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toBookingDTOs(bookings []application.Booking) []bookingDTO {
	if len(bookings) == 0 {
		return nil
	}
	out := make([]bookingDTO, 0, len(bookings))
	for _, booking := range bookings {
		out = append(out, toBookingDTO(booking))
	}
	return out
}
