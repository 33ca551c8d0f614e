package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/artyokhov/seatbook-bot/internal/calendar"
	"github.com/artyokhov/seatbook-bot/internal/repository"
	"github.com/artyokhov/seatbook-bot/internal/service"
)

// AdminHandler exposes the employee directory and office-wide booking
// views.  All endpoints require the ADMIN role; the middleware enforces
// that before any of these run.
type AdminHandler struct {
	Directory *service.DirectoryService
	Bookings  *service.BookingService
	Retention *service.RetentionService
	Cal       *calendar.Calendar
}

// NewAdminHandler constructs an AdminHandler.  All dependencies must be
// non-nil.
func NewAdminHandler(directory *service.DirectoryService, bookings *service.BookingService, retention *service.RetentionService, cal *calendar.Calendar) *AdminHandler {
	if directory == nil || bookings == nil || retention == nil || cal == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{Directory: directory, Bookings: bookings, Retention: retention, Cal: cal}
}

// AllBookings handles GET /v1/admin/bookings.  It returns every future
// booking ascending by date, with the effective display name: the
// guest's name for guest bookings, otherwise the owner's.
func (h *AdminHandler) AllBookings(c echo.Context) error {
	list, err := h.Bookings.ListAllFuture(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, 0, len(list))
	for i := range list {
		b := &list[i]
		m := echo.Map{
			"id":           b.ID,
			"booking_date": b.BookingDate.Format(calendar.ISODate),
			"kind":         string(b.Kind),
			"full_name":    b.DisplayName(b.OwnerName),
		}
		if b.SeatLabel != nil {
			m["seat_label"] = *b.SeatLabel
		}
		out = append(out, m)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

// VisitorDates handles GET /v1/admin/visitors/dates.  It returns the
// distinct future dates with at least one booking.
func (h *AdminHandler) VisitorDates(c echo.Context) error {
	dates, err := h.Bookings.DatesWithVisitors(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"dates": datesJSON(dates)})
}

// VisitorsOnDate handles GET /v1/admin/visitors/:date.  It returns all
// bookings on the date ordered by seat label, seatless visits first.
func (h *AdminHandler) VisitorsOnDate(c echo.Context) error {
	date, err := h.Cal.ParseDate(c.Param("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}
	visitors, err := h.Bookings.VisitorsOnDate(c.Request().Context(), date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, 0, len(visitors))
	for _, v := range visitors {
		m := echo.Map{
			"kind":      string(v.Kind),
			"full_name": v.FullName,
		}
		if v.SeatLabel != nil {
			m["seat_label"] = *v.SeatLabel
		}
		out = append(out, m)
	}
	return c.JSON(http.StatusOK, echo.Map{"visitors": out})
}

// Employees handles GET /v1/admin/employees.  The claimed query
// parameter selects between records linked to an account and records
// still waiting to be claimed; page selects the directory page.
func (h *AdminHandler) Employees(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	ctx := c.Request().Context()
	var (
		res *repository.EmployeePage
		err error
	)
	if c.QueryParam("claimed") == "true" {
		res, err = h.Directory.ListClaimed(ctx, page)
	} else {
		res, err = h.Directory.ListUnclaimed(ctx, page)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, res)
}

// CreateEmployee handles POST /v1/admin/employees.  It seeds a new
// directory record with only the full name set; a duplicate name
// yields 409.
func (h *AdminHandler) CreateEmployee(c echo.Context) error {
	var body struct {
		FullName string `json:"full_name"`
	}
	if err := c.Bind(&body); err != nil || body.FullName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "full_name is required"})
	}
	emp, err := h.Directory.Create(c.Request().Context(), body.FullName)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "full name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": emp.ID, "full_name": emp.FullName})
}

// DeleteEmployee handles DELETE /v1/admin/employees/:id.  The record
// and every booking it owns are removed together.
func (h *AdminHandler) DeleteEmployee(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid employee id"})
	}
	if err := h.Directory.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "employee not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.NoContent(http.StatusNoContent)
}

// UnclaimEmployee handles POST /v1/admin/employees/:id/unclaim.  The
// account linkage is reset and the employee's bookings are removed; the
// name stays available for a future claim.
func (h *AdminHandler) UnclaimEmployee(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid employee id"})
	}
	if err := h.Directory.Unclaim(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "employee not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Purge handles POST /v1/admin/maintenance/purge.  It deletes bookings
// older than the requested number of days and reports the count and the
// cutoff date used.  Running it again immediately deletes nothing.
func (h *AdminHandler) Purge(c echo.Context) error {
	var body struct {
		Days int `json:"days"`
	}
	if err := c.Bind(&body); err != nil || body.Days <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "days must be positive"})
	}
	deleted, cutoff, err := h.Retention.PurgeOlderThan(c.Request().Context(), body.Days)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"deleted": deleted,
		"cutoff":  cutoff.Format(calendar.ISODate),
	})
}
