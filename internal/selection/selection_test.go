package selection

import (
    "errors"
    "reflect"
    "testing"

    "github.com/iliyamo/bookfair-stall-reservation/internal/model"
)

func stall(id uint64, label string, price uint32, available bool) model.Stall {
    return model.Stall{ID: id, Label: label, Size: model.SizeSmall, Price: price, Available: available, Area: model.AreaHallA}
}

func TestToggleAddAndRemove(t *testing.T) {
    s := &Set{}
    a1 := stall(1, "A1", 15000, true)

    added, err := s.Toggle(a1)
    if err != nil || !added {
        t.Fatalf("Toggle add: added=%v err=%v", added, err)
    }
    if !s.Contains(1) || s.Len() != 1 {
        t.Fatalf("expected A1 selected, got %v", s.StallIDs())
    }

    added, err = s.Toggle(a1)
    if err != nil || added {
        t.Fatalf("Toggle remove: added=%v err=%v", added, err)
    }
    if s.Len() != 0 {
        t.Fatalf("expected empty set, got %v", s.StallIDs())
    }
}

// Toggling the same stall twice returns the set to its prior state.
func TestToggleSelfInverse(t *testing.T) {
    s := &Set{}
    if _, err := s.Toggle(stall(1, "A1", 15000, true)); err != nil {
        t.Fatal(err)
    }
    if _, err := s.Toggle(stall(2, "A2", 25000, true)); err != nil {
        t.Fatal(err)
    }
    before := s.StallIDs()

    x := stall(3, "A3", 40000, true)
    if _, err := s.Toggle(x); err != nil {
        t.Fatal(err)
    }
    if _, err := s.Toggle(x); err != nil {
        t.Fatal(err)
    }
    if !reflect.DeepEqual(s.StallIDs(), before) {
        t.Errorf("toggle twice changed set: %v -> %v", before, s.StallIDs())
    }
}

func TestCapacityLimit(t *testing.T) {
    s := &Set{}
    for i := uint64(1); i <= 3; i++ {
        if _, err := s.Toggle(stall(i, "A", 10000, true)); err != nil {
            t.Fatalf("selecting stall %d: %v", i, err)
        }
    }
    _, err := s.Toggle(stall(4, "A4", 10000, true))
    if !errors.Is(err, ErrLimitReached) {
        t.Fatalf("expected ErrLimitReached, got %v", err)
    }
    if !reflect.DeepEqual(s.StallIDs(), []uint64{1, 2, 3}) {
        t.Errorf("set changed by rejected add: %v", s.StallIDs())
    }
}

func TestUnavailableStallRejected(t *testing.T) {
    s := &Set{}
    _, err := s.Toggle(stall(9, "B9", 10000, false))
    if !errors.Is(err, ErrStallNotSelectable) {
        t.Fatalf("expected ErrStallNotSelectable, got %v", err)
    }
    if s.Len() != 0 {
        t.Errorf("unavailable stall was added: %v", s.StallIDs())
    }
}

// A stall whose availability flipped after it was selected can still be
// removed; the set never auto-evicts it.
func TestRemoveAfterAvailabilityFlip(t *testing.T) {
    s := &Set{}
    if _, err := s.Toggle(stall(1, "A1", 15000, true)); err != nil {
        t.Fatal(err)
    }
    taken := stall(1, "A1", 15000, false)
    added, err := s.Toggle(taken)
    if err != nil || added {
        t.Fatalf("removal after flip: added=%v err=%v", added, err)
    }
    if s.Len() != 0 {
        t.Errorf("stall not removed: %v", s.StallIDs())
    }
}

func TestTotal(t *testing.T) {
    s := &Set{}
    if s.Total() != 0 {
        t.Fatalf("empty set total = %d, want 0", s.Total())
    }
    a1 := stall(1, "A1", 15000, true)
    a2 := stall(2, "A2", 25000, true)
    s.Toggle(a1)
    s.Toggle(a2)
    if s.Total() != 40000 {
        t.Fatalf("total = %d, want 40000", s.Total())
    }
    // removing a member decreases the total by exactly its price
    s.Toggle(a2)
    if s.Total() != 15000 {
        t.Fatalf("total after removal = %d, want 15000", s.Total())
    }
}

func TestSelectionOrderPreserved(t *testing.T) {
    s := &Set{}
    s.Toggle(stall(3, "C1", 10000, true))
    s.Toggle(stall(1, "A1", 10000, true))
    s.Toggle(stall(2, "B1", 10000, true))
    if !reflect.DeepEqual(s.StallIDs(), []uint64{3, 1, 2}) {
        t.Errorf("selection order not preserved: %v", s.StallIDs())
    }
}

func TestClear(t *testing.T) {
    s := &Set{}
    s.Toggle(stall(1, "A1", 15000, true))
    s.Clear()
    if s.Len() != 0 || s.Total() != 0 {
        t.Errorf("Clear left members behind: %v", s.StallIDs())
    }
}

func TestStoreIsolatesVendors(t *testing.T) {
    st := NewStore()
    err := st.With(7, func(s *Set) error {
        _, err := s.Toggle(stall(1, "A1", 15000, true))
        return err
    })
    if err != nil {
        t.Fatal(err)
    }
    if got := st.Snapshot(8).Len(); got != 0 {
        t.Errorf("vendor 8 sees vendor 7's selection (%d members)", got)
    }
    if got := st.Snapshot(7).Len(); got != 1 {
        t.Errorf("vendor 7 selection lost, len = %d", got)
    }
    st.Clear(7)
    if got := st.Snapshot(7).Len(); got != 0 {
        t.Errorf("Clear did not empty selection, len = %d", got)
    }
}
