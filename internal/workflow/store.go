package workflow

import (
    "errors"
    "sync"

    "github.com/iliyamo/bookfair-stall-reservation/internal/model"
)

// ErrNoCheckout is returned when a vendor acts on a checkout that does
// not exist (or already finished and was dropped).
var ErrNoCheckout = errors.New("no checkout in progress")

// Store holds at most one live Checkout per vendor.  Each Checkout
// guards its own state; the store only guards the map.
type Store struct {
    mu    sync.Mutex
    items map[uint64]*Checkout
}

// NewStore returns an empty checkout store.
func NewStore() *Store {
    return &Store{items: make(map[uint64]*Checkout)}
}

// Begin opens a new checkout for the vendor over the given selection
// snapshot.  An existing checkout is replaced unless it is mid-submission,
// in which case ErrSubmitInFlight is returned.
func (st *Store) Begin(userID uint64, stalls []model.Stall) (*Checkout, error) {
    st.mu.Lock()
    defer st.mu.Unlock()
    if cur, ok := st.items[userID]; ok && cur.State() == StateSubmitting {
        return nil, ErrSubmitInFlight
    }
    co, err := Begin(userID, stalls)
    if err != nil {
        return nil, err
    }
    st.items[userID] = co
    return co, nil
}

// Get returns the vendor's live checkout.
func (st *Store) Get(userID uint64) (*Checkout, error) {
    st.mu.Lock()
    defer st.mu.Unlock()
    co, ok := st.items[userID]
    if !ok {
        return nil, ErrNoCheckout
    }
    return co, nil
}

// Drop discards the vendor's checkout, typically after it reaches a
// terminal state.
func (st *Store) Drop(userID uint64) {
    st.mu.Lock()
    defer st.mu.Unlock()
    delete(st.items, userID)
}
