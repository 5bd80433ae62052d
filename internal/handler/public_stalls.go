package handler

import (
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/bookfair-stall-reservation/internal/catalog"
    "github.com/iliyamo/bookfair-stall-reservation/internal/model"
    "github.com/iliyamo/bookfair-stall-reservation/internal/repository"
)

// PublicHandler serves the unauthenticated stall catalog.  Browsing and
// filtering require no session; only selecting and reserving do.
type PublicHandler struct {
    Stalls *repository.StallRepo
}

func NewPublicHandler(stalls *repository.StallRepo) *PublicHandler {
    return &PublicHandler{Stalls: stalls}
}

// stallView is the JSON shape for a catalog stall.
type stallView struct {
    ID        uint64 `json:"id"`
    Label     string `json:"label"`
    Size      string `json:"size"`
    Price     uint32 `json:"price"`
    Available bool   `json:"available"`
    Area      string `json:"area"`
}

func toStallView(s model.Stall) stallView {
    return stallView{ID: s.ID, Label: s.Label, Size: s.Size, Price: s.Price, Available: s.Available, Area: s.Area}
}

func toStallViews(stalls []model.Stall) []stallView {
    out := make([]stallView, 0, len(stalls))
    for _, s := range stalls {
        out = append(out, toStallView(s))
    }
    return out
}

// ListStalls handles GET /v1/stalls.  Optional query parameters narrow
// the catalog: size and area accept a known value or "All", q matches
// the stall label case-insensitively.  Filters combine with AND.  An
// unknown size or area value is a client error rather than an empty
// result, so typos surface immediately.
func (h *PublicHandler) ListStalls(c echo.Context) error {
    cr := catalog.Criteria{
        Size:  c.QueryParam("size"),
        Area:  c.QueryParam("area"),
        Query: c.QueryParam("q"),
    }
    if cr.Size != "" && !strings.EqualFold(cr.Size, catalog.FilterAll) && !model.ValidSize(cr.Size) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown size filter"})
    }
    if cr.Area != "" && !strings.EqualFold(cr.Area, catalog.FilterAll) && !model.ValidArea(cr.Area) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown area filter"})
    }

    stalls, err := h.Stalls.ListAll(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    items := catalog.Filter(stalls, cr)
    return c.JSON(http.StatusOK, echo.Map{
        "items": toStallViews(items),
        "count": len(items),
        "total": len(stalls),
    })
}

// GetStall handles GET /v1/stalls/:id and returns one stall.
func (h *PublicHandler) GetStall(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid stall id"})
    }
    s, err := h.Stalls.GetByID(c.Request().Context(), id)
    if err != nil {
        if err == repository.ErrStallNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "stall not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": toStallView(s)})
}
