package handler

import (
    "context"
    "errors"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/bookfair-stall-reservation/internal/model"
    "github.com/iliyamo/bookfair-stall-reservation/internal/repository"
    "github.com/iliyamo/bookfair-stall-reservation/internal/selection"
    "github.com/iliyamo/bookfair-stall-reservation/internal/validator"
    "github.com/iliyamo/bookfair-stall-reservation/internal/workflow"
)

func newTestVendorHandler(t *testing.T) *VendorHandler {
    t.Helper()
    return NewVendorHandler(
        repository.NewStallRepo(nil),
        repository.NewReservationRepo(nil),
        selection.NewStore(),
        workflow.NewStore(),
        validator.New(),
        workflow.SimulatedPaymentGate{},
    )
}

func payCtx(t *testing.T, userID uint64) (echo.Context, *httptest.ResponseRecorder) {
    t.Helper()
    req := httptest.NewRequest(http.MethodPost, "/v1/checkout/pay", nil)
    rec := httptest.NewRecorder()
    c := echo.New().NewContext(req, rec)
    c.Set("user_id", userID)
    return c, rec
}

// paymentReady opens a checkout for the user and walks it to
// PaymentPending.
func paymentReady(t *testing.T, h *VendorHandler, userID uint64) *workflow.Checkout {
    t.Helper()
    co, err := h.Checkouts.Begin(userID, []model.Stall{
        {ID: 1, Label: "A1", Size: model.SizeSmall, Price: 15000, Available: true, Area: model.AreaHallA},
    })
    if err != nil {
        t.Fatal(err)
    }
    err = co.EnterDetails(h.Details, validator.ContactDetails{
        BusinessName: "Acme Books",
        Email:        "a@b.com",
        Phone:        "+94771234567",
        AcceptTerms:  true,
    })
    if err != nil {
        t.Fatal(err)
    }
    return co
}

// A submission rejected because the stalls were taken is a conflict, not
// a server error: 409 with the contested labels in the body.
func TestPayStallsTakenReturnsConflict(t *testing.T) {
    h := newTestVendorHandler(t)
    co := paymentReady(t, h, 7)
    h.submit = func(context.Context, workflow.Submission) (workflow.SubmitResult, error) {
        return workflow.SubmitResult{}, &repository.StallsUnavailableError{Labels: []string{"A1"}}
    }

    c, rec := payCtx(t, 7)
    if err := h.Pay(c); err != nil {
        t.Fatal(err)
    }
    if rec.Code != http.StatusConflict {
        t.Fatalf("status = %d, want %d (%s)", rec.Code, http.StatusConflict, rec.Body.String())
    }
    if !strings.Contains(rec.Body.String(), `"A1"`) {
        t.Errorf("conflict body does not name the taken stall: %s", rec.Body.String())
    }
    if co.State() != workflow.StateFailed {
        t.Errorf("state = %s, want %s", co.State(), workflow.StateFailed)
    }
}

func TestPayStoreErrorReturnsServerError(t *testing.T) {
    h := newTestVendorHandler(t)
    co := paymentReady(t, h, 7)
    h.submit = func(context.Context, workflow.Submission) (workflow.SubmitResult, error) {
        return workflow.SubmitResult{}, errors.New("store unreachable")
    }

    c, rec := payCtx(t, 7)
    if err := h.Pay(c); err != nil {
        t.Fatal(err)
    }
    if rec.Code != http.StatusInternalServerError {
        t.Fatalf("status = %d, want %d (%s)", rec.Code, http.StatusInternalServerError, rec.Body.String())
    }
    if co.State() != workflow.StateFailed {
        t.Errorf("state = %s, want %s", co.State(), workflow.StateFailed)
    }
}

func TestPayAcceptedClearsSelectionAndCheckout(t *testing.T) {
    h := newTestVendorHandler(t)
    paymentReady(t, h, 7)
    h.submit = func(_ context.Context, sub workflow.Submission) (workflow.SubmitResult, error) {
        return workflow.SubmitResult{ReferenceCode: sub.ReferenceCode, StallLabels: sub.StallLabels, Total: 15000}, nil
    }

    c, rec := payCtx(t, 7)
    if err := h.Pay(c); err != nil {
        t.Fatal(err)
    }
    if rec.Code != http.StatusCreated {
        t.Fatalf("status = %d, want %d (%s)", rec.Code, http.StatusCreated, rec.Body.String())
    }
    if _, err := h.Checkouts.Get(7); !errors.Is(err, workflow.ErrNoCheckout) {
        t.Errorf("checkout not dropped after confirmation: %v", err)
    }
    if h.Selections.Snapshot(7).Len() != 0 {
        t.Error("selection not cleared after confirmation")
    }
}

// unavailableLabels must name stalls that flipped to unavailable and
// stalls that disappeared from the catalog since the checkout snapshot.
func TestUnavailableLabels(t *testing.T) {
    sub := workflow.Submission{
        StallIDs:    []uint64{1, 2, 3},
        StallLabels: []string{"A1", "A2", "A3"},
    }
    lockedByID := map[uint64]model.Stall{
        1: {ID: 1, Label: "A1", Available: true},
        2: {ID: 2, Label: "A2", Available: false},
        // 3 deleted from the catalog
    }

    got := unavailableLabels(sub, lockedByID)
    want := []string{"A2", "A3"}
    if len(got) != len(want) {
        t.Fatalf("unavailableLabels = %v, want %v", got, want)
    }
    for i := range want {
        if got[i] != want[i] {
            t.Fatalf("unavailableLabels = %v, want %v", got, want)
        }
    }

    if labels := unavailableLabels(sub, map[uint64]model.Stall{
        1: {ID: 1, Label: "A1", Available: true},
        2: {ID: 2, Label: "A2", Available: true},
        3: {ID: 3, Label: "A3", Available: true},
    }); len(labels) != 0 {
        t.Errorf("all stalls bookable but got %v", labels)
    }
}
