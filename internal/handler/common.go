package handler // handler defines the HTTP handlers of the booking API

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

// RoleAdmin and RoleEmployee are the values carried in the JWT "role"
// claim.
const (
	RoleAdmin    = "ADMIN"
	RoleEmployee = "EMPLOYEE"
)

// getEmployeeID extracts the employee id placed into the context by the
// JWT middleware and converts it to uint64.  JWT numeric claims come
// back as float64 after parsing, so several representations are
// accepted.
func getEmployeeID(c echo.Context) (uint64, error) {
	switch t := c.Get("employee_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid employee_id in context")
}

// isAdmin reports whether the request carries the ADMIN role.
func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == RoleAdmin
}
