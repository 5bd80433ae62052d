// Package workflow drives a vendor's checkout from detail entry through
// payment and submission.  One Checkout instance exists per vendor and
// is discarded once it reaches a terminal state.  The package owns no
// persistence: submission is delegated to a SubmitFunc so the database
// transaction stays with the handler layer.
package workflow

import (
    "context"
    "errors"
    "fmt"
    "sync"

    "github.com/google/uuid"

    "github.com/iliyamo/bookfair-stall-reservation/internal/model"
    "github.com/iliyamo/bookfair-stall-reservation/internal/validator"
)

// State identifies where a checkout currently is.
type State string

const (
    // StateIdle means no checkout has begun for the vendor.
    StateIdle State = "IDLE"
    // StateDetailsEntry means the vendor is filling in contact details.
    StateDetailsEntry State = "DETAILS_ENTRY"
    // StatePaymentPending means details were validated and captured; the
    // checkout is waiting for payment confirmation.
    StatePaymentPending State = "PAYMENT_PENDING"
    // StateSubmitting means a submission is in flight.  A second pay
    // request in this state is rejected rather than queued.
    StateSubmitting State = "SUBMITTING"
    // StateConfirmed is terminal: the booking store accepted the request.
    StateConfirmed State = "CONFIRMED"
    // StateFailed means the store rejected the submission.  Captured
    // details are preserved and the vendor may correct and resubmit them
    // under the same idempotency key, or cancel.
    StateFailed State = "FAILED"
    // StateCancelled is terminal: the vendor abandoned the checkout
    // before submission.  No backend call was made.
    StateCancelled State = "CANCELLED"
)

var (
    // ErrEmptySelection is returned when a checkout is begun without any
    // selected stalls.
    ErrEmptySelection = errors.New("selection is empty")
    // ErrInvalidState is returned when an operation is not allowed from
    // the checkout's current state.
    ErrInvalidState = errors.New("operation not allowed in current checkout state")
    // ErrSubmitInFlight is returned when a pay or cancel request arrives
    // while a submission is already running.
    ErrSubmitInFlight = errors.New("submission already in progress")
)

// Submission is everything the booking store needs to create one
// reservation row per selected stall.  The idempotency key is minted
// once when details are first accepted and reused across retries so a
// timeout-then-retry cannot double-book.
type Submission struct {
    UserID         uint64
    StallIDs       []uint64
    StallLabels    []string // parallel to StallIDs, for naming conflicts
    BusinessName   string
    Email          string
    Phone          string
    ReferenceCode  string
    IdempotencyKey string
}

// SubmitResult reports what the store actually recorded.  On an
// idempotent replay the reference code comes from the rows created by
// the first attempt, not from the retry.
type SubmitResult struct {
    ReferenceCode string
    StallLabels   []string
    Total         uint32
}

// SubmitFunc performs the booking transaction.  Implementations must be
// safe to retry with the same idempotency key.
type SubmitFunc func(ctx context.Context, sub Submission) (SubmitResult, error)

// Result is handed back to the vendor on confirmation and carries the
// fields shown on the confirmation screen.
type Result struct {
    ReferenceCode string   `json:"reference_code"`
    StallLabels   []string `json:"stall_labels"`
    BusinessName  string   `json:"business_name"`
    Email         string   `json:"email"`
    Total         uint32   `json:"total"`
}

// Checkout is one vendor's reservation workflow instance.  It snapshots
// the selection at begin time; the stalls' authoritative availability is
// re-checked inside the submission transaction.  Methods are safe for
// concurrent use.
type Checkout struct {
    mu      sync.Mutex
    userID  uint64
    stalls  []model.Stall
    state   State
    details validator.ContactDetails
    idemKey string
    refCode string
}

// Begin opens a checkout over the given selection snapshot.  It refuses
// an empty selection.
func Begin(userID uint64, stalls []model.Stall) (*Checkout, error) {
    if len(stalls) == 0 {
        return nil, ErrEmptySelection
    }
    snap := make([]model.Stall, len(stalls))
    copy(snap, stalls)
    return &Checkout{userID: userID, stalls: snap, state: StateDetailsEntry}, nil
}

// State returns the current state.
func (w *Checkout) State() State {
    w.mu.Lock()
    defer w.mu.Unlock()
    return w.state
}

// Details returns the captured contact details.  Meaningful once the
// checkout has passed details entry at least once; after a failed
// submission they are preserved for the retry form.
func (w *Checkout) Details() validator.ContactDetails {
    w.mu.Lock()
    defer w.mu.Unlock()
    return w.details
}

// IdempotencyKey returns the key minted when details were first
// accepted, or "" before that.
func (w *Checkout) IdempotencyKey() string {
    w.mu.Lock()
    defer w.mu.Unlock()
    return w.idemKey
}

// StallIDs returns the ids in the selection snapshot.
func (w *Checkout) StallIDs() []uint64 {
    w.mu.Lock()
    defer w.mu.Unlock()
    out := make([]uint64, 0, len(w.stalls))
    for _, s := range w.stalls {
        out = append(out, s.ID)
    }
    return out
}

// EnterDetails validates the payload and, on success, captures it and
// moves the checkout to PaymentPending.  Allowed from DetailsEntry,
// from PaymentPending (the vendor stepped back to edit) and from Failed
// (retry after a rejected submission).  The idempotency key is minted on
// the first successful entry and never changes afterwards, so retried
// submissions deduplicate server-side.  Validation failures leave the
// state untouched and are returned as validator.FieldErrors.
func (w *Checkout) EnterDetails(dv *validator.DetailsValidator, d validator.ContactDetails) error {
    w.mu.Lock()
    defer w.mu.Unlock()
    switch w.state {
    case StateDetailsEntry, StatePaymentPending, StateFailed:
    default:
        return fmt.Errorf("%w: enter details from %s", ErrInvalidState, w.state)
    }
    if err := dv.Validate(&d); err != nil {
        return err
    }
    w.details = d
    if w.idemKey == "" {
        w.idemKey = uuid.NewString()
    }
    w.state = StatePaymentPending
    return nil
}

// Pay confirms payment and submits the reservation.  From
// PaymentPending it captures payment through the gate, moves to
// Submitting, and runs the submit function.  On store acceptance the
// checkout is Confirmed and the Result carries the reference code,
// labels and total actually recorded.  On rejection the checkout moves
// to Failed with details preserved; the caller surfaces the error and
// the vendor may resubmit under the same idempotency key.  A concurrent
// Pay while one is in flight returns ErrSubmitInFlight.
func (w *Checkout) Pay(ctx context.Context, gate PaymentGate, submit SubmitFunc) (Result, error) {
    w.mu.Lock()
    switch w.state {
    case StateSubmitting:
        w.mu.Unlock()
        return Result{}, ErrSubmitInFlight
    case StatePaymentPending:
    default:
        st := w.state
        w.mu.Unlock()
        return Result{}, fmt.Errorf("%w: pay from %s", ErrInvalidState, st)
    }
    w.state = StateSubmitting
    var amount uint32
    for _, s := range w.stalls {
        amount += s.Price
    }
    sub := Submission{
        UserID:         w.userID,
        StallIDs:       make([]uint64, 0, len(w.stalls)),
        StallLabels:    make([]string, 0, len(w.stalls)),
        BusinessName:   w.details.BusinessName,
        Email:          w.details.Email,
        Phone:          w.details.Phone,
        ReferenceCode:  NewReferenceCode(),
        IdempotencyKey: w.idemKey,
    }
    for _, s := range w.stalls {
        sub.StallIDs = append(sub.StallIDs, s.ID)
        sub.StallLabels = append(sub.StallLabels, s.Label)
    }
    w.mu.Unlock()

    if err := gate.Capture(ctx, sub.ReferenceCode, amount); err != nil {
        w.mu.Lock()
        w.state = StatePaymentPending
        w.mu.Unlock()
        return Result{}, fmt.Errorf("payment capture: %w", err)
    }

    res, err := submit(ctx, sub)

    w.mu.Lock()
    defer w.mu.Unlock()
    if err != nil {
        w.state = StateFailed
        return Result{}, err
    }
    w.state = StateConfirmed
    w.refCode = res.ReferenceCode
    return Result{
        ReferenceCode: res.ReferenceCode,
        StallLabels:   res.StallLabels,
        BusinessName:  w.details.BusinessName,
        Email:         w.details.Email,
        Total:         res.Total,
    }, nil
}

// Cancel abandons the checkout before submission, discarding captured
// workflow data.  The vendor's selection set is untouched; that is the
// caller's to keep.  Cancelling during an in-flight submission returns
// ErrSubmitInFlight; terminal states reject the call.
func (w *Checkout) Cancel() error {
    w.mu.Lock()
    defer w.mu.Unlock()
    switch w.state {
    case StateDetailsEntry, StatePaymentPending, StateFailed:
        w.state = StateCancelled
        w.details = validator.ContactDetails{}
        w.idemKey = ""
        return nil
    case StateSubmitting:
        return ErrSubmitInFlight
    default:
        return fmt.Errorf("%w: cancel from %s", ErrInvalidState, w.state)
    }
}

// Terminal reports whether the checkout reached an end state.
func (w *Checkout) Terminal() bool {
    st := w.State()
    return st == StateConfirmed || st == StateCancelled
}
