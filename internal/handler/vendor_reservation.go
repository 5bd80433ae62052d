package handler

import (
    "database/sql"
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/bookfair-stall-reservation/internal/model"
    "github.com/iliyamo/bookfair-stall-reservation/internal/repository"
)

// ListMyReservations handles GET /v1/my-reservations.  It returns the
// vendor's reservations with stall details, newest first.  No
// reservations yields an empty array.
func (h *VendorHandler) ListMyReservations(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    details, err := h.Reservations.ListByUser(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// GetReservation handles GET /v1/reservations/:id.  Ownership is
// enforced in the query, so someone else's reservation looks exactly
// like a missing one.
func (h *VendorHandler) GetReservation(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || resID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    detail, err := h.Reservations.GetByIDForUser(c.Request().Context(), resID, userID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reservation"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": detail})
}

// CancelReservation handles POST /v1/reservations/:id/cancel.  Only a
// CONFIRMED reservation may be cancelled; the row is kept with status
// CANCELLED and the stall goes back on the market.  Both writes happen
// in one transaction so the stall can never be free while the booking
// still counts it.
func (h *VendorHandler) CancelReservation(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || resID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }

    ctx := c.Request().Context()
    tx, err := h.Reservations.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    stallID, status, err := h.Reservations.GetForCancelTx(ctx, tx, resID, userID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        if errors.Is(err, repository.ErrForbidden) {
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
    }
    if !model.Cancellable(status) {
        return c.JSON(http.StatusConflict, echo.Map{"error": "reservation cannot be cancelled", "status": status})
    }
    if err := h.Reservations.MarkCancelledTx(ctx, tx, resID); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel reservation"})
    }
    if err := h.Stalls.SetAvailabilityBulkTx(ctx, tx, []uint64{stallID}, true); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release stall"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true
    return c.JSON(http.StatusOK, echo.Map{"id": resID, "status": model.StatusCancelled})
}
