package middleware

// identity.go holds the helper that derives a stable client identifier
// for rate-limit keys: the JWT subject when the request is
// authenticated, otherwise the remote IP.

import (
    "fmt"

    "github.com/labstack/echo/v4"
)

// clientID returns the user id placed in context by JWTAuth, or the
// client IP for anonymous requests.
func clientID(c echo.Context) string {
    switch v := c.Get("user_id").(type) {
    case string:
        if v != "" {
            return "u:" + v
        }
    case float64:
        return fmt.Sprintf("u:%d", uint64(v))
    }
    return "ip:" + c.RealIP()
}
