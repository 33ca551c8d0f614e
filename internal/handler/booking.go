package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/artyokhov/seatbook-bot/internal/calendar"
	"github.com/artyokhov/seatbook-bot/internal/model"
	"github.com/artyokhov/seatbook-bot/internal/queue"
	"github.com/artyokhov/seatbook-bot/internal/repository"
	"github.com/artyokhov/seatbook-bot/internal/service"
)

// BookingHandler exposes the booking engine over HTTP: availability
// listings, reservation create/delete and the caller's own schedule.
// The JWT middleware has already resolved the caller to an employee id
// before any of these run.
type BookingHandler struct {
	Availability *service.AvailabilityService
	Bookings     *service.BookingService
	Cal          *calendar.Calendar
}

// NewBookingHandler constructs a BookingHandler.  All dependencies must
// be non-nil.
func NewBookingHandler(availability *service.AvailabilityService, bookings *service.BookingService, cal *calendar.Calendar) *BookingHandler {
	if availability == nil || bookings == nil || cal == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Availability: availability, Bookings: bookings, Cal: cal}
}

// datesJSON renders a date list in the wire format.
func datesJSON(dates []time.Time) []string {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format(calendar.ISODate))
	}
	return out
}

// bookingJSON renders one booking.
func bookingJSON(b *model.Booking) echo.Map {
	m := echo.Map{
		"id":           b.ID,
		"employee_id":  b.EmployeeID,
		"booking_date": b.BookingDate.Format(calendar.ISODate),
		"kind":         string(b.Kind),
		"created_at":   b.CreatedAt.UTC().Format(time.RFC3339),
	}
	if b.SeatLabel != nil {
		m["seat_label"] = *b.SeatLabel
	}
	if b.GuestFullName != nil {
		m["guest_full_name"] = *b.GuestFullName
	}
	return m
}

// PersonalDates handles GET /v1/dates/personal.  It returns the dates
// on which the caller can book a desk for themselves.
func (h *BookingHandler) PersonalDates(c echo.Context) error {
	id, err := getEmployeeID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	dates, err := h.Availability.PersonalDates(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"dates": datesJSON(dates)})
}

// SeatlessDates handles GET /v1/dates/seatless.  It returns the dates
// on which the caller can announce a visit without a desk.
func (h *BookingHandler) SeatlessDates(c echo.Context) error {
	id, err := getEmployeeID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	dates, err := h.Availability.DatesWithoutSeat(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"dates": datesJSON(dates)})
}

// GuestDates handles GET /v1/dates/guest.  It returns the dates with
// room for a guest desk, regardless of the caller's own bookings.
func (h *BookingHandler) GuestDates(c echo.Context) error {
	dates, err := h.Availability.GuestDates(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"dates": datesJSON(dates)})
}

// FreeSeats handles GET /v1/dates/:date/seats.  It returns the desks
// still free on the date, in inventory order.  A fully booked date
// yields 409; the date filters normally keep full dates out of the
// offered lists, so reaching it means the caller's view was stale.
func (h *BookingHandler) FreeSeats(c echo.Context) error {
	date, err := h.Cal.ParseDate(c.Param("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}
	seats, err := h.Availability.FreeSeats(c.Request().Context(), date)
	if err != nil {
		if errors.Is(err, repository.ErrNoFreeSeats) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "no free seats on this date"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"seats": seats})
}

// Create handles POST /v1/bookings.  The body carries the date, the
// kind, an optional seat label and an optional guest name.  A taken
// seat yields 409 whether the pre-check or the unique index caught it,
// so the client can re-offer seat selection either way.
func (h *BookingHandler) Create(c echo.Context) error {
	id, err := getEmployeeID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Date          string  `json:"date"`
		SeatLabel     *string `json:"seat_label"`
		Kind          string  `json:"kind"`
		GuestFullName *string `json:"guest_full_name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	date, err := h.Cal.ParseDate(body.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}
	b, err := h.Bookings.Create(c.Request().Context(), service.CreateBookingInput{
		EmployeeID:    id,
		Date:          date,
		SeatLabel:     body.SeatLabel,
		Kind:          model.Kind(body.Kind),
		GuestFullName: body.GuestFullName,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat already taken on this date"})
		case errors.Is(err, repository.ErrInvalidState):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking parameters"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	_ = queue.PublishBookingEvent(c.Request().Context(), bookingEvent(queue.ActionCreated, b))
	return c.JSON(http.StatusCreated, bookingJSON(b))
}

// Delete handles DELETE /v1/bookings/:id.  Employees may cancel only
// their own bookings; admins may cancel any.  Deleting a missing id
// yields 404 rather than silently succeeding.
func (h *BookingHandler) Delete(c echo.Context) error {
	id, err := getEmployeeID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	owner := &id
	if isAdmin(c) {
		owner = nil
	}
	b, err := h.Bookings.Delete(c.Request().Context(), bookingID, owner)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	_ = queue.PublishBookingEvent(c.Request().Context(), bookingEvent(queue.ActionDeleted, b))
	return c.JSON(http.StatusOK, bookingJSON(b))
}

// My handles GET /v1/bookings/my.  It returns the caller's future
// bookings ascending by date.
func (h *BookingHandler) My(c echo.Context) error {
	id, err := getEmployeeID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := h.Bookings.ListFutureForEmployee(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, 0, len(list))
	for i := range list {
		out = append(out, bookingJSON(&list[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

// bookingEvent builds the broker payload for a committed or cancelled
// booking.
func bookingEvent(action string, b *model.Booking) queue.BookingEvent {
	ev := queue.BookingEvent{
		Action:      action,
		BookingID:   b.ID,
		EmployeeID:  b.EmployeeID,
		BookingDate: b.BookingDate.Format(calendar.ISODate),
		Kind:        string(b.Kind),
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if b.SeatLabel != nil {
		ev.SeatLabel = *b.SeatLabel
	}
	if b.GuestFullName != nil {
		ev.GuestFullName = *b.GuestFullName
	}
	return ev
}
