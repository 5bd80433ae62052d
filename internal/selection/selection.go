// Package selection tracks the stalls a vendor has tentatively chosen
// before checkout.  A set lives in process memory for the duration of a
// browsing session: it is created empty, bounded at three members, and
// cleared on successful submission.  Nothing here is durable.
package selection

import (
    "errors"

    "github.com/iliyamo/bookfair-stall-reservation/internal/model"
)

// Limit is the maximum number of stalls a vendor may select at once.
const Limit = 3

// ErrLimitReached is returned when a vendor tries to select a fourth
// stall.  The set is left unchanged.
var ErrLimitReached = errors.New("selection limit reached")

// ErrStallNotSelectable is returned when the stall being added is not
// available.  Removing an already selected stall is always allowed, even
// if its availability flipped after selection.
var ErrStallNotSelectable = errors.New("stall is not available")

// Set is one vendor's in-progress selection.  Members keep selection
// order for display and are keyed by stall identity, so duplicates are
// impossible.  Set is not safe for concurrent use; Store serializes
// access per vendor.
type Set struct {
    members []model.Stall
}

// Contains reports whether the stall with the given id is selected.
func (s *Set) Contains(stallID uint64) bool {
    for _, m := range s.members {
        if m.ID == stallID {
            return true
        }
    }
    return false
}

// Toggle flips membership for the given stall.  If the stall is already
// selected it is removed regardless of its current availability.  Adding
// fails with ErrStallNotSelectable when the stall is unavailable and
// with ErrLimitReached when the set already has Limit members; in both
// cases the set is unchanged.  The returned flag is true when the stall
// ended up selected.
func (s *Set) Toggle(st model.Stall) (bool, error) {
    for i, m := range s.members {
        if m.ID == st.ID {
            s.members = append(s.members[:i], s.members[i+1:]...)
            return false, nil
        }
    }
    if !st.Available {
        return false, ErrStallNotSelectable
    }
    if len(s.members) >= Limit {
        return false, ErrLimitReached
    }
    s.members = append(s.members, st)
    return true, nil
}

// Members returns the selected stalls in selection order.  The slice is
// a copy; mutating it does not affect the set.
func (s *Set) Members() []model.Stall {
    out := make([]model.Stall, len(s.members))
    copy(out, s.members)
    return out
}

// StallIDs returns the ids of the selected stalls in selection order.
func (s *Set) StallIDs() []uint64 {
    out := make([]uint64, 0, len(s.members))
    for _, m := range s.members {
        out = append(out, m.ID)
    }
    return out
}

// Len returns the number of selected stalls.
func (s *Set) Len() int { return len(s.members) }

// Total sums the prices of the selected stalls.  An empty set totals 0.
func (s *Set) Total() uint32 {
    var total uint32
    for _, m := range s.members {
        total += m.Price
    }
    return total
}

// Clear empties the set.
func (s *Set) Clear() { s.members = nil }
