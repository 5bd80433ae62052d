// Package catalog implements read-only views over the stall catalog.
// Filtering is pure: it never mutates the input slice and applying the
// same criteria twice yields the same result.
package catalog

import (
    "strings"

    "github.com/iliyamo/bookfair-stall-reservation/internal/model"
)

// FilterAll is the sentinel meaning "no restriction" for the size and
// area criteria.  An empty string is treated the same way.
const FilterAll = "All"

// Criteria holds the three independent stall filters.  Each filter
// defaults to no restriction; when several are set they compose
// conjunctively.
type Criteria struct {
    Size  string // size tier, matched exactly against Stall.Size
    Area  string // venue area, matched exactly against Stall.Area
    Query string // case-insensitive substring matched against Stall.Label
}

// isAll reports whether a size/area criterion places no restriction.
func isAll(v string) bool {
    return v == "" || strings.EqualFold(v, FilterAll)
}

// Matches reports whether a single stall satisfies every criterion.
func (cr Criteria) Matches(s model.Stall) bool {
    if !isAll(cr.Size) && !strings.EqualFold(cr.Size, s.Size) {
        return false
    }
    if !isAll(cr.Area) && !strings.EqualFold(cr.Area, s.Area) {
        return false
    }
    if cr.Query != "" && !strings.Contains(strings.ToLower(s.Label), strings.ToLower(cr.Query)) {
        return false
    }
    return true
}

// Filter returns the stalls satisfying all criteria, preserving catalog
// order.  The result is always a freshly allocated slice; an empty (never
// nil) slice is returned when nothing matches so that handlers encode it
// as a JSON array.
func Filter(stalls []model.Stall, cr Criteria) []model.Stall {
    out := make([]model.Stall, 0, len(stalls))
    for _, s := range stalls {
        if cr.Matches(s) {
            out = append(out, s)
        }
    }
    return out
}
