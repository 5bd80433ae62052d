package handler

import (
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/bookfair-stall-reservation/internal/model"
    "github.com/iliyamo/bookfair-stall-reservation/internal/repository"
)

// OrganizerHandler serves the organizer console: the full reservation
// list and stall catalog management.
type OrganizerHandler struct {
    Stalls       *repository.StallRepo
    Reservations *repository.ReservationRepo
}

func NewOrganizerHandler(stalls *repository.StallRepo, reservations *repository.ReservationRepo) *OrganizerHandler {
    if stalls == nil || reservations == nil {
        panic("nil repository passed to NewOrganizerHandler")
    }
    return &OrganizerHandler{Stalls: stalls, Reservations: reservations}
}

// ListReservations handles GET /v1/organizer/reservations and returns
// every reservation across all vendors, newest first.
func (h *OrganizerHandler) ListReservations(c echo.Context) error {
    details, err := h.Reservations.ListAll(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": details, "count": len(details)})
}

// CreateStall handles POST /v1/organizer/stalls.  New stalls default to
// available unless the body says otherwise.
func (h *OrganizerHandler) CreateStall(c echo.Context) error {
    var body struct {
        Label     string `json:"label"`
        Size      string `json:"size"`
        Price     uint32 `json:"price"`
        Area      string `json:"area"`
        Available *bool  `json:"available"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    body.Label = strings.TrimSpace(body.Label)
    if body.Label == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "label is required"})
    }
    if !model.ValidSize(body.Size) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown size"})
    }
    if !model.ValidArea(body.Area) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown area"})
    }
    if body.Price == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must be positive"})
    }

    s := model.Stall{
        Label:     body.Label,
        Size:      body.Size,
        Price:     body.Price,
        Area:      body.Area,
        Available: true,
    }
    if body.Available != nil {
        s.Available = *body.Available
    }
    if err := h.Stalls.Create(c.Request().Context(), &s); err != nil {
        if err == repository.ErrLabelExists {
            return c.JSON(http.StatusConflict, echo.Map{"error": "a stall with this label already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create stall failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"item": toStallView(s)})
}

// SetStallAvailability handles PATCH /v1/organizer/stalls/:id/availability.
// Taking a stall off the market does not touch existing reservations or
// in-memory selections; vendors holding it in a selection find out at
// submit time, when availability is re-checked under lock.
func (h *OrganizerHandler) SetStallAvailability(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid stall id"})
    }
    var body struct {
        Available *bool `json:"available"`
    }
    if err := c.Bind(&body); err != nil || body.Available == nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "available is required"})
    }
    s, err := h.Stalls.SetAvailability(c.Request().Context(), id, *body.Available)
    if err != nil {
        if err == repository.ErrStallNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "stall not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update stall failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": toStallView(s)})
}
