package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gala-seating/internal/handler"
	"github.com/iliyamo/gala-seating/internal/middleware"
	"github.com/iliyamo/gala-seating/internal/model"
)

// Admin bundles the handlers mounted under /v1/admin.
type Admin struct {
	Registrations *handler.RegistrationHandler
	Settings      *handler.SettingsHandler
	Seating       *handler.SeatingHandler
}

// RegisterAdmin mounts the back-office API.  Every route requires an
// ADMIN access token; limiter runs after authentication so buckets can
// be keyed by user.
func RegisterAdmin(e *echo.Echo, h Admin, jwtSecret string, limiter echo.MiddlewareFunc) {
	mw := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	}
	if limiter != nil {
		mw = append(mw, limiter)
	}
	g := e.Group("/v1/admin", mw...)

	g.GET("/registrations", h.Registrations.List)
	g.PUT("/registrations/:id/table", h.Seating.SetTable)
	g.DELETE("/registrations/:id/table", h.Seating.ClearTable)

	g.GET("/settings/seating", h.Settings.Get)
	g.PUT("/settings/seating", h.Settings.Put)

	g.POST("/seating/auto-assign", h.Seating.AutoAssign)
	g.POST("/seating/reset", h.Seating.Reset)
	g.GET("/seating/tables", h.Seating.Tables)
	g.GET("/seating/grid", h.Seating.Grid)
	g.GET("/seating/overview", h.Seating.Overview)
}
