package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/bookfair-stall-reservation/internal/model"
    "github.com/iliyamo/bookfair-stall-reservation/internal/repository"
    "github.com/iliyamo/bookfair-stall-reservation/internal/selection"
)

// ToggleSelection handles POST /v1/selection/toggle.  Body carries the
// stall id; a selected stall is removed, an unselected one is added.
// Adding fails with 409 when the stall is unavailable or when three
// stalls are already selected.  Removal always succeeds, even for a
// stall whose availability flipped after it was picked.
func (h *VendorHandler) ToggleSelection(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body struct {
        StallID uint64 `json:"stall_id"`
    }
    if err := c.Bind(&body); err != nil || body.StallID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "stall_id is required"})
    }

    st, err := h.Stalls.GetByID(c.Request().Context(), body.StallID)
    if err != nil {
        if err == repository.ErrStallNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "stall not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    var selected bool
    var members []model.Stall
    var total uint32
    err = h.Selections.With(userID, func(set *selection.Set) error {
        var terr error
        selected, terr = set.Toggle(st)
        if terr != nil {
            return terr
        }
        members = set.Members()
        total = set.Total()
        return nil
    })
    if err != nil {
        switch {
        case errors.Is(err, selection.ErrLimitReached):
            return c.JSON(http.StatusConflict, echo.Map{"error": "you can select at most 3 stalls"})
        case errors.Is(err, selection.ErrStallNotSelectable):
            return c.JSON(http.StatusConflict, echo.Map{"error": "stall is no longer available"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "selection update failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "selected": selected,
        "items":    toStallViews(members),
        "count":    len(members),
        "total":    total,
    })
}

// GetSelection handles GET /v1/selection and returns the vendor's
// current picks with the running total.
func (h *VendorHandler) GetSelection(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    set := h.Selections.Snapshot(userID)
    return c.JSON(http.StatusOK, echo.Map{
        "items": toStallViews(set.Members()),
        "count": set.Len(),
        "total": set.Total(),
        "limit": selection.Limit,
    })
}

// ClearSelection handles DELETE /v1/selection.
func (h *VendorHandler) ClearSelection(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    h.Selections.Clear(userID)
    return c.NoContent(http.StatusNoContent)
}
