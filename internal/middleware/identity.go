package middleware

import "github.com/labstack/echo/v4"

// Context keys set by JWTAuth.
const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// UserID returns the authenticated user's id, or "" when the request is
// anonymous.
func UserID(c echo.Context) string {
	s, _ := c.Get(ctxUserID).(string)
	return s
}

// Role returns the authenticated user's role claim.
func Role(c echo.Context) string {
	s, _ := c.Get(ctxRole).(string)
	return s
}

// identity is the rate limiter's view of the caller: the user id when
// authenticated, "anon" otherwise.
func identity(c echo.Context) string {
	if id := UserID(c); id != "" {
		return id
	}
	return "anon"
}
