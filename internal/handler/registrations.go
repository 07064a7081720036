package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gala-seating/internal/model"
	"github.com/iliyamo/gala-seating/internal/seating"
)

// RegistrationLister is the read side of repository.RegistrationRepo.
type RegistrationLister interface {
	List(ctx context.Context) ([]model.Registration, error)
}

type RegistrationHandler struct {
	Regs RegistrationLister
}

func NewRegistrationHandler(regs RegistrationLister) *RegistrationHandler {
	return &RegistrationHandler{Regs: regs}
}

type registrationItem struct {
	model.Registration
	Duplicate bool `json:"duplicate"`
}

// List returns registrations with a duplicate flag on each row.
//
//	?status=open|closed|waitlist  filter by status
//	?duplicates=only              keep flagged rows only
//
// Duplicates are detected across all registrations regardless of the
// status filter.
func (h *RegistrationHandler) List(c echo.Context) error {
	status := model.RegistrationStatus(strings.ToLower(strings.TrimSpace(c.QueryParam("status"))))
	switch status {
	case "", model.StatusOpen, model.StatusClosed, model.StatusWaitlist:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	onlyDup := c.QueryParam("duplicates") == "only"

	all, err := h.Regs.List(c.Request().Context())
	if err != nil {
		return seatingError(c, err)
	}
	dups := seating.DetectDuplicates(all)

	items := make([]registrationItem, 0, len(all))
	for _, r := range all {
		_, dup := dups[r.ID]
		if status != "" && r.Status != status {
			continue
		}
		if onlyDup && !dup {
			continue
		}
		items = append(items, registrationItem{Registration: r, Duplicate: dup})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":            items,
		"count":            len(items),
		"duplicate_groups": seating.DuplicateGroups(all),
	})
}
