package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gala-seating/internal/model"
)

// SettingsStore is satisfied by repository.SettingsRepo.
type SettingsStore interface {
	GetSeatingSettings(ctx context.Context) (model.SeatingSettings, error)
	UpdateSeatingSettings(ctx context.Context, s model.SeatingSettings) error
}

type SettingsHandler struct {
	Settings SettingsStore
}

func NewSettingsHandler(s SettingsStore) *SettingsHandler {
	return &SettingsHandler{Settings: s}
}

type seatingSettingsResp struct {
	TotalTables   int `json:"total_tables"`
	SeatsPerTable int `json:"seats_per_table"`
	Capacity      int `json:"capacity"`
}

func settingsResp(s model.SeatingSettings) seatingSettingsResp {
	return seatingSettingsResp{TotalTables: s.TotalTables, SeatsPerTable: s.SeatsPerTable, Capacity: s.Capacity()}
}

func (h *SettingsHandler) Get(c echo.Context) error {
	s, err := h.Settings.GetSeatingSettings(c.Request().Context())
	if err != nil {
		return seatingError(c, err)
	}
	return c.JSON(http.StatusOK, settingsResp(s))
}

// Put replaces the venue layout.  Both values must be positive.
func (h *SettingsHandler) Put(c echo.Context) error {
	var req struct {
		TotalTables   int `json:"total_tables"`
		SeatsPerTable int `json:"seats_per_table"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.TotalTables < 1 || req.SeatsPerTable < 1 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "total_tables and seats_per_table must be at least 1"})
	}
	s := model.SeatingSettings{TotalTables: req.TotalTables, SeatsPerTable: req.SeatsPerTable}
	if err := h.Settings.UpdateSeatingSettings(c.Request().Context(), s); err != nil {
		return seatingError(c, err)
	}
	return c.JSON(http.StatusOK, settingsResp(s))
}
