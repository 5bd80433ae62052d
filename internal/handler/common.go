// Package handler exposes the HTTP layer: authentication, the public
// stall catalog, vendor selection and checkout, reservation management
// and the organizer console.  Handlers validate input, run repository
// calls (transactional where several rows must move together) and shape
// JSON responses.  JWT parsing and role checks happen in middleware.
package handler

import (
    "errors"
    "strconv"

    "github.com/labstack/echo/v4"
)

// getUserID extracts the user_id placed in context by the JWT middleware
// and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
    switch t := c.Get("user_id").(type) {
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
    return 0, errors.New("invalid user_id in context")
}
