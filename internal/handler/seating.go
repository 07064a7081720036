package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gala-seating/internal/middleware"
	"github.com/iliyamo/gala-seating/internal/seating"
)

// SeatingHandler exposes the seating actions and the read-only views.
type SeatingHandler struct {
	Svc *seating.Service
}

func NewSeatingHandler(svc *seating.Service) *SeatingHandler {
	if svc == nil {
		panic("nil seating service passed to NewSeatingHandler")
	}
	return &SeatingHandler{Svc: svc}
}

// actionCtx returns the request context tagged with the caller for the
// audit trail.
func actionCtx(c echo.Context) echo.Context {
	req := c.Request()
	c.SetRequest(req.WithContext(seating.WithActor(req.Context(), middleware.UserID(c))))
	return c
}

func outcome(c echo.Context, o seating.Outcome, err error) error {
	if err != nil {
		return seatingError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

// AutoAssign runs the seating algorithm over all active registrations.
func (h *SeatingHandler) AutoAssign(c echo.Context) error {
	c = actionCtx(c)
	o, err := h.Svc.AutoAssign(c.Request().Context())
	return outcome(c, o, err)
}

// Reset clears every active registration's table.
func (h *SeatingHandler) Reset(c echo.Context) error {
	c = actionCtx(c)
	o, err := h.Svc.Reset(c.Request().Context())
	return outcome(c, o, err)
}

func (h *SeatingHandler) SetTable(c echo.Context) error {
	var req struct {
		TableNo *int `json:"table_no"`
	}
	if err := c.Bind(&req); err != nil || req.TableNo == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_no required"})
	}
	id := strings.TrimSpace(c.Param("id"))
	c = actionCtx(c)
	o, err := h.Svc.SetTable(c.Request().Context(), id, *req.TableNo)
	return outcome(c, o, err)
}

func (h *SeatingHandler) ClearTable(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	c = actionCtx(c)
	o, err := h.Svc.ClearTable(c.Request().Context(), id)
	return outcome(c, o, err)
}

// Tables is the per-table view with an unassigned bucket.
func (h *SeatingHandler) Tables(c echo.Context) error {
	ctx := c.Request().Context()
	regs, err := h.Svc.Active(ctx)
	if err != nil {
		return seatingError(c, err)
	}
	set, err := h.Svc.Layout(ctx)
	if err != nil {
		return seatingError(c, err)
	}
	return c.JSON(http.StatusOK, seating.ByTable(regs, set))
}

// Grid groups tables into zone bands.
func (h *SeatingHandler) Grid(c echo.Context) error {
	ctx := c.Request().Context()
	regs, err := h.Svc.Active(ctx)
	if err != nil {
		return seatingError(c, err)
	}
	set, err := h.Svc.Layout(ctx)
	if err != nil {
		return seatingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"rows": seating.ZoneGrid(regs, set)})
}

// Overview lists one row per table with guest counts and names.
func (h *SeatingHandler) Overview(c echo.Context) error {
	ctx := c.Request().Context()
	regs, err := h.Svc.Active(ctx)
	if err != nil {
		return seatingError(c, err)
	}
	set, err := h.Svc.Layout(ctx)
	if err != nil {
		return seatingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tables": seating.Overview(regs, set)})
}
