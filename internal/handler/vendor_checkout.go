package handler

import (
    "context"
    "database/sql"
    "errors"
    "log"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/bookfair-stall-reservation/internal/model"
    "github.com/iliyamo/bookfair-stall-reservation/internal/queue"
    "github.com/iliyamo/bookfair-stall-reservation/internal/repository"
    "github.com/iliyamo/bookfair-stall-reservation/internal/selection"
    queuepublisher "github.com/iliyamo/bookfair-stall-reservation/internal/service"
    "github.com/iliyamo/bookfair-stall-reservation/internal/validator"
    "github.com/iliyamo/bookfair-stall-reservation/internal/workflow"
)

// VendorHandler groups everything a vendor session touches: the stall
// catalog, the in-memory selection and checkout stores, the details
// validator, the payment gate and the reservations table.
type VendorHandler struct {
    Stalls       *repository.StallRepo
    Reservations *repository.ReservationRepo
    Selections   *selection.Store
    Checkouts    *workflow.Store
    Details      *validator.DetailsValidator
    Gate         workflow.PaymentGate

    // submit runs the booking transaction; defaults to
    // submitReservation.
    submit workflow.SubmitFunc
}

// NewVendorHandler constructs a VendorHandler.  All dependencies must be
// non-nil.
func NewVendorHandler(stalls *repository.StallRepo, reservations *repository.ReservationRepo,
    selections *selection.Store, checkouts *workflow.Store,
    details *validator.DetailsValidator, gate workflow.PaymentGate) *VendorHandler {
    if stalls == nil || reservations == nil || selections == nil || checkouts == nil || details == nil || gate == nil {
        panic("nil dependency passed to NewVendorHandler")
    }
    h := &VendorHandler{
        Stalls:       stalls,
        Reservations: reservations,
        Selections:   selections,
        Checkouts:    checkouts,
        Details:      details,
        Gate:         gate,
    }
    h.submit = h.submitReservation
    return h
}

// BeginCheckout handles POST /v1/checkout.  It snapshots the vendor's
// selection into a fresh checkout.  An empty selection and a checkout
// mid-submission both return 409.
func (h *VendorHandler) BeginCheckout(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    set := h.Selections.Snapshot(userID)
    co, err := h.Checkouts.Begin(userID, set.Members())
    if err != nil {
        switch {
        case errors.Is(err, workflow.ErrEmptySelection):
            return c.JSON(http.StatusConflict, echo.Map{"error": "select at least one stall first"})
        case errors.Is(err, workflow.ErrSubmitInFlight):
            return c.JSON(http.StatusConflict, echo.Map{"error": "a submission is already in progress"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin checkout failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "state": co.State(),
        "items": toStallViews(set.Members()),
        "count": set.Len(),
        "total": set.Total(),
    })
}

// GetCheckout handles GET /v1/checkout and reports the current state.
func (h *VendorHandler) GetCheckout(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    co, err := h.Checkouts.Get(userID)
    if err != nil {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "no checkout in progress"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "state":     co.State(),
        "stall_ids": co.StallIDs(),
        "details":   co.Details(),
    })
}

// EnterDetails handles POST /v1/checkout/details.  The payload is
// validated locally; failures return every broken rule so the form can
// annotate each field in one round trip.  On first acceptance the
// checkout mints its idempotency key.
func (h *VendorHandler) EnterDetails(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    co, err := h.Checkouts.Get(userID)
    if err != nil {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "no checkout in progress"})
    }
    var d validator.ContactDetails
    if err := c.Bind(&d); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if err := co.EnterDetails(h.Details, d); err != nil {
        var fieldErrs validator.FieldErrors
        if errors.As(err, &fieldErrs) {
            return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "validation failed", "fields": fieldErrs})
        }
        if errors.Is(err, workflow.ErrInvalidState) {
            return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "enter details failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"state": co.State()})
}

// Pay handles POST /v1/checkout/pay.  Payment is captured through the
// gate and the reservation is written in one database transaction: the
// selected stalls are locked, availability is re-checked, one CONFIRMED
// row per stall is inserted and the stalls are flipped to unavailable.
// A retry after a timeout replays the rows recorded under the same
// idempotency key instead of booking twice.  On success the selection
// is cleared and a confirmation event is published.
func (h *VendorHandler) Pay(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    co, err := h.Checkouts.Get(userID)
    if err != nil {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "no checkout in progress"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    res, err := co.Pay(ctx, h.Gate, h.submit)
    if err != nil {
        var unavailable *repository.StallsUnavailableError
        switch {
        case errors.As(err, &unavailable):
            return c.JSON(http.StatusConflict, echo.Map{
                "error":       "some stalls were reserved by someone else",
                "unavailable": unavailable.Labels,
            })
        case errors.Is(err, workflow.ErrSubmitInFlight):
            return c.JSON(http.StatusConflict, echo.Map{"error": "a submission is already in progress"})
        case errors.Is(err, workflow.ErrInvalidState):
            return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "submission failed, you may retry"})
    }

    h.Selections.Clear(userID)
    h.Checkouts.Drop(userID)

    ev := queue.ReservationConfirmedEvent{
        ReferenceCode: res.ReferenceCode,
        UserID:        userID,
        BusinessName:  res.BusinessName,
        Email:         res.Email,
        StallLabels:   res.StallLabels,
        Total:         res.Total,
        ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
    }
    go func() {
        pctx, pcancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer pcancel()
        if err := queuepublisher.PublishReservationConfirmed(pctx, ev); err != nil {
            log.Printf("reservation %s: confirmation event not published: %v", ev.ReferenceCode, err)
        }
    }()

    return c.JSON(http.StatusCreated, res)
}

// CancelCheckout handles DELETE /v1/checkout.  Abandoning is allowed any
// time before submission; the selection survives so the vendor can come
// back to it.
func (h *VendorHandler) CancelCheckout(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    co, err := h.Checkouts.Get(userID)
    if err != nil {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "no checkout in progress"})
    }
    if err := co.Cancel(); err != nil {
        if errors.Is(err, workflow.ErrSubmitInFlight) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "a submission is in progress"})
        }
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    }
    h.Checkouts.Drop(userID)
    return c.NoContent(http.StatusNoContent)
}

// submitReservation is the SubmitFunc wired into every checkout.  It
// runs the booking transaction: lock the stalls, re-check availability,
// insert the reservation rows and flip the stalls.  When rows already
// exist under the submission's idempotency key the previous attempt won
// the race against the retry, so the recorded outcome is returned as-is.
func (h *VendorHandler) submitReservation(ctx context.Context, sub workflow.Submission) (workflow.SubmitResult, error) {
    tx, err := h.Stalls.DB().BeginTx(ctx, nil)
    if err != nil {
        return workflow.SubmitResult{}, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    existing, err := h.Reservations.ListByIdempotencyKeyTx(ctx, tx, sub.IdempotencyKey)
    if err != nil {
        return workflow.SubmitResult{}, err
    }
    if len(existing) > 0 {
        res, err := replayResult(ctx, tx, h.Stalls, existing)
        if err != nil {
            return workflow.SubmitResult{}, err
        }
        if err := tx.Commit(); err != nil {
            return workflow.SubmitResult{}, err
        }
        committed = true
        return res, nil
    }

    locked, err := h.Stalls.LockByIDsTx(ctx, tx, sub.StallIDs)
    if err != nil {
        return workflow.SubmitResult{}, err
    }
    lockedByID := make(map[uint64]model.Stall, len(locked))
    for _, s := range locked {
        lockedByID[s.ID] = s
    }
    if unavailable := unavailableLabels(sub, lockedByID); len(unavailable) > 0 {
        return workflow.SubmitResult{}, &repository.StallsUnavailableError{Labels: unavailable}
    }

    var total uint32
    labels := make([]string, 0, len(locked))
    recs := make([]model.Reservation, 0, len(locked))
    for _, s := range locked {
        total += s.Price
        labels = append(labels, s.Label)
        recs = append(recs, model.Reservation{
            UserID:         sub.UserID,
            StallID:        s.ID,
            BusinessName:   sub.BusinessName,
            Email:          sub.Email,
            PhoneNumber:    sub.Phone,
            Status:         model.StatusConfirmed,
            Price:          s.Price,
            ReferenceCode:  sub.ReferenceCode,
            IdempotencyKey: sub.IdempotencyKey,
        })
    }
    if err := h.Reservations.CreateBulkTx(ctx, tx, recs); err != nil {
        return workflow.SubmitResult{}, err
    }
    if err := h.Stalls.SetAvailabilityBulkTx(ctx, tx, sub.StallIDs, false); err != nil {
        return workflow.SubmitResult{}, err
    }
    if err := tx.Commit(); err != nil {
        return workflow.SubmitResult{}, err
    }
    committed = true
    return workflow.SubmitResult{ReferenceCode: sub.ReferenceCode, StallLabels: labels, Total: total}, nil
}

// unavailableLabels names every snapshot stall that cannot be booked:
// locked rows whose availability flipped, and ids that vanished from
// the catalog since the snapshot (named by their snapshot label).  The
// result follows selection order so the 409 reads like the vendor's
// own list.
func unavailableLabels(sub workflow.Submission, lockedByID map[uint64]model.Stall) []string {
    out := make([]string, 0)
    for i, id := range sub.StallIDs {
        s, ok := lockedByID[id]
        if !ok {
            if i < len(sub.StallLabels) {
                out = append(out, sub.StallLabels[i])
            }
            continue
        }
        if !s.Available {
            out = append(out, s.Label)
        }
    }
    return out
}

// replayResult rebuilds a SubmitResult from the rows an earlier attempt
// wrote.  The reference code comes from those rows, not the retry.
func replayResult(ctx context.Context, tx *sql.Tx, stalls *repository.StallRepo, rows []model.Reservation) (workflow.SubmitResult, error) {
    ids := make([]uint64, 0, len(rows))
    var total uint32
    for _, m := range rows {
        ids = append(ids, m.StallID)
        total += m.Price
    }
    found, err := stalls.LockByIDsTx(ctx, tx, ids)
    if err != nil {
        return workflow.SubmitResult{}, err
    }
    labelByID := make(map[uint64]string, len(found))
    for _, s := range found {
        labelByID[s.ID] = s.Label
    }
    labels := make([]string, 0, len(rows))
    for _, m := range rows {
        labels = append(labels, labelByID[m.StallID])
    }
    return workflow.SubmitResult{ReferenceCode: rows[0].ReferenceCode, StallLabels: labels, Total: total}, nil
}
