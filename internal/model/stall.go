package model

import "time"

// Stall sizes as stored in the stalls.size column.  Prices are set per
// size tier when the organizer creates the stall; the catalog row is the
// source of truth afterwards.
const (
    SizeSmall  = "SMALL"
    SizeMedium = "MEDIUM"
    SizeLarge  = "LARGE"
)

// Venue areas a stall can be placed in.  The set is fixed for the event.
const (
    AreaHallA   = "Hall A"
    AreaHallB   = "Hall B"
    AreaOutdoor = "Outdoor"
)

// Stall describes a bookable unit at the venue.  Labels are unique
// within the catalog (e.g. "A1").  Available flips to false when a
// reservation is confirmed and back to true when it is cancelled; the
// organizer may also toggle it directly.  Stalls are never deleted.
//
// Fields:
//  ID        – primary key identifier.
//  Label     – unique display label.
//  Size      – size tier (SMALL, MEDIUM, LARGE).
//  Price     – price in whole currency units.
//  Available – whether the stall can currently be reserved.
//  Area      – venue zone ("Hall A", "Hall B", "Outdoor").
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Stall struct {
    ID        uint64    // stalls.id
    Label     string    // stalls.label
    Size      string    // stalls.size
    Price     uint32    // stalls.price
    Available bool      // stalls.available
    Area      string    // stalls.area
    CreatedAt time.Time // stalls.created_at
    UpdatedAt time.Time // stalls.updated_at
}

// ValidSize reports whether s is one of the known size tiers.
func ValidSize(s string) bool {
    return s == SizeSmall || s == SizeMedium || s == SizeLarge
}

// ValidArea reports whether a is one of the known venue areas.
func ValidArea(a string) bool {
    return a == AreaHallA || a == AreaHallB || a == AreaOutdoor
}
