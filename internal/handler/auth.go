package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/artyokhov/seatbook-bot/internal/config"
	"github.com/artyokhov/seatbook-bot/internal/repository"
	"github.com/artyokhov/seatbook-bot/internal/service"
	"github.com/artyokhov/seatbook-bot/internal/utils"
)

// AuthHandler implements registration.  There is no password flow: an
// employee registers by claiming one of the pre-seeded name records
// with their external messaging account, and receives a long-lived
// access token in return.  The record stays claimed until an admin
// unlinks it.
type AuthHandler struct {
	Directory *service.DirectoryService
	Cfg       config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(directory *service.DirectoryService, cfg config.Config) *AuthHandler {
	if directory == nil {
		panic("nil directory passed to NewAuthHandler")
	}
	return &AuthHandler{Directory: directory, Cfg: cfg}
}

// Unclaimed handles GET /v1/auth/unclaimed.  It lists the name records
// still available for registration, paged, so a new employee can find
// and claim their own name.  No authentication is required: the list
// contains nothing but names.
func (h *AuthHandler) Unclaimed(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	res, err := h.Directory.ListUnclaimed(c.Request().Context(), page)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	names := make([]echo.Map, 0, len(res.Employees))
	for _, e := range res.Employees {
		names = append(names, echo.Map{"id": e.ID, "full_name": e.FullName})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"employees":   names,
		"page":        res.Page,
		"page_size":   res.PageSize,
		"total_pages": res.TotalPages,
	})
}

// Claim handles POST /v1/auth/claim.  The body names the record to
// claim and the claimant's external account.  On success the record is
// linked and an access token is returned; the role is ADMIN when the
// handle is on the configured admin list.  Claiming an already linked
// record, or reusing an account that claimed another record, yields
// 409.
func (h *AuthHandler) Claim(c echo.Context) error {
	var body struct {
		EmployeeID uint64 `json:"employee_id"`
		AccountID  int64  `json:"account_id"`
		Handle     string `json:"handle"`
		ChatID     int64  `json:"chat_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.EmployeeID == 0 || body.AccountID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "employee_id and account_id are required"})
	}
	handle := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(body.Handle), "@"))

	emp, err := h.Directory.Claim(c.Request().Context(), body.EmployeeID, body.AccountID, handle, body.ChatID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "employee not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "record already claimed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	role := RoleEmployee
	if h.Cfg.IsAdminHandle(handle) {
		role = RoleAdmin
	}
	tok, err := utils.NewAccessToken(h.Cfg.JWTSecret, emp.ID, role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue token"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"access_token": tok.Token,
		"expires_at":   tok.Exp.Format(time.RFC3339),
		"role":         role,
		"employee": echo.Map{
			"id":        emp.ID,
			"full_name": emp.FullName,
		},
	})
}

// Me handles GET /v1/me.  It returns the authenticated employee's
// directory record.
func (h *AuthHandler) Me(c echo.Context) error {
	id, err := getEmployeeID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	emp, err := h.Directory.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "employee not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":        emp.ID,
		"full_name": emp.FullName,
		"handle":    emp.Handle,
		"claimed":   emp.Claimed(),
	})
}
