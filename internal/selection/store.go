package selection

import "sync"

// Store keeps one selection Set per vendor, keyed by user id.  Echo
// serves requests on separate goroutines, so all access goes through a
// mutex.  Sets are created lazily and dropped when cleared so idle
// sessions do not accumulate.
type Store struct {
    mu   sync.Mutex
    sets map[uint64]*Set
}

// NewStore returns an empty selection store.
func NewStore() *Store {
    return &Store{sets: make(map[uint64]*Set)}
}

// With runs fn against the vendor's set under the store lock, creating
// an empty set on first use.  Callers must not retain the *Set beyond fn.
func (st *Store) With(userID uint64, fn func(*Set) error) error {
    st.mu.Lock()
    defer st.mu.Unlock()
    set, ok := st.sets[userID]
    if !ok {
        set = &Set{}
        st.sets[userID] = set
    }
    err := fn(set)
    if set.Len() == 0 {
        delete(st.sets, userID)
    }
    return err
}

// Snapshot returns a copy of the vendor's current selection, or an empty
// set when none exists.
func (st *Store) Snapshot(userID uint64) *Set {
    st.mu.Lock()
    defer st.mu.Unlock()
    set, ok := st.sets[userID]
    if !ok {
        return &Set{}
    }
    return &Set{members: set.Members()}
}

// Clear discards the vendor's selection.
func (st *Store) Clear(userID uint64) {
    st.mu.Lock()
    defer st.mu.Unlock()
    delete(st.sets, userID)
}
