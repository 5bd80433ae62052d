package workflow

import (
    "context"
    "errors"
    "regexp"
    "testing"

    "github.com/iliyamo/bookfair-stall-reservation/internal/model"
    "github.com/iliyamo/bookfair-stall-reservation/internal/validator"
)

var refPattern = regexp.MustCompile(`^CBF-[0-9A-Z]+-[0-9A-Z]{4}$`)

type stubGate struct{ err error }

func (g stubGate) Capture(context.Context, string, uint32) error { return g.err }

func okDetails() validator.ContactDetails {
    return validator.ContactDetails{
        BusinessName: "Acme Books",
        Email:        "a@b.com",
        Phone:        "+94771234567",
        AcceptTerms:  true,
    }
}

func snapshot() []model.Stall {
    return []model.Stall{
        {ID: 1, Label: "A1", Size: model.SizeSmall, Price: 15000, Available: true, Area: model.AreaHallA},
    }
}

// acceptAll returns a submit func that records submissions and accepts
// them, echoing the reference code and computing labels/total from the
// given stalls.
func acceptAll(t *testing.T, stalls []model.Stall, calls *[]Submission) SubmitFunc {
    t.Helper()
    return func(_ context.Context, sub Submission) (SubmitResult, error) {
        *calls = append(*calls, sub)
        res := SubmitResult{ReferenceCode: sub.ReferenceCode}
        for _, s := range stalls {
            res.StallLabels = append(res.StallLabels, s.Label)
            res.Total += s.Price
        }
        return res, nil
    }
}

func TestBeginRequiresSelection(t *testing.T) {
    if _, err := Begin(1, nil); !errors.Is(err, ErrEmptySelection) {
        t.Fatalf("expected ErrEmptySelection, got %v", err)
    }
}

func TestInvalidDetailsKeepState(t *testing.T) {
    dv := validator.New()
    co, err := Begin(1, snapshot())
    if err != nil {
        t.Fatal(err)
    }
    bad := okDetails()
    bad.Email = "nope"
    err = co.EnterDetails(dv, bad)
    if err == nil {
        t.Fatal("expected validation error")
    }
    if _, ok := err.(validator.FieldErrors); !ok {
        t.Fatalf("expected FieldErrors, got %T", err)
    }
    if co.State() != StateDetailsEntry {
        t.Errorf("state = %s, want %s", co.State(), StateDetailsEntry)
    }
    if co.IdempotencyKey() != "" {
        t.Error("idempotency key minted for invalid details")
    }
}

func TestHappyPath(t *testing.T) {
    dv := validator.New()
    co, err := Begin(1, snapshot())
    if err != nil {
        t.Fatal(err)
    }
    if err := co.EnterDetails(dv, okDetails()); err != nil {
        t.Fatal(err)
    }
    if co.State() != StatePaymentPending {
        t.Fatalf("state = %s, want %s", co.State(), StatePaymentPending)
    }
    if co.IdempotencyKey() == "" {
        t.Fatal("idempotency key not minted at details acceptance")
    }

    var calls []Submission
    res, err := co.Pay(context.Background(), stubGate{}, acceptAll(t, snapshot(), &calls))
    if err != nil {
        t.Fatal(err)
    }
    if co.State() != StateConfirmed {
        t.Fatalf("state = %s, want %s", co.State(), StateConfirmed)
    }
    if !refPattern.MatchString(res.ReferenceCode) {
        t.Errorf("reference code %q does not match %s", res.ReferenceCode, refPattern)
    }
    if res.Total != 15000 || len(res.StallLabels) != 1 || res.StallLabels[0] != "A1" {
        t.Errorf("unexpected result: %+v", res)
    }
    if res.BusinessName != "Acme Books" || res.Email != "a@b.com" {
        t.Errorf("contact fields missing from result: %+v", res)
    }
    if len(calls) != 1 || calls[0].IdempotencyKey != co.IdempotencyKey() {
        t.Errorf("submission did not carry the checkout idempotency key")
    }
}

func TestPayBeforeDetailsRejected(t *testing.T) {
    co, err := Begin(1, snapshot())
    if err != nil {
        t.Fatal(err)
    }
    _, err = co.Pay(context.Background(), stubGate{}, func(context.Context, Submission) (SubmitResult, error) {
        t.Fatal("submit must not run")
        return SubmitResult{}, nil
    })
    if !errors.Is(err, ErrInvalidState) {
        t.Fatalf("expected ErrInvalidState, got %v", err)
    }
}

func TestGateFailureReturnsToPaymentPending(t *testing.T) {
    dv := validator.New()
    co, _ := Begin(1, snapshot())
    if err := co.EnterDetails(dv, okDetails()); err != nil {
        t.Fatal(err)
    }
    _, err := co.Pay(context.Background(), stubGate{err: errors.New("declined")}, func(context.Context, Submission) (SubmitResult, error) {
        t.Fatal("submit must not run on capture failure")
        return SubmitResult{}, nil
    })
    if err == nil {
        t.Fatal("expected capture error")
    }
    if co.State() != StatePaymentPending {
        t.Errorf("state = %s, want %s", co.State(), StatePaymentPending)
    }
}

// A rejected submission fails the checkout, preserves details, and the
// retry reuses the same idempotency key.
func TestFailedSubmissionRetrySameKey(t *testing.T) {
    dv := validator.New()
    co, _ := Begin(1, snapshot())
    if err := co.EnterDetails(dv, okDetails()); err != nil {
        t.Fatal(err)
    }
    key := co.IdempotencyKey()

    conflict := errors.New("stall no longer available")
    _, err := co.Pay(context.Background(), stubGate{}, func(context.Context, Submission) (SubmitResult, error) {
        return SubmitResult{}, conflict
    })
    if !errors.Is(err, conflict) {
        t.Fatalf("expected submit error back, got %v", err)
    }
    if co.State() != StateFailed {
        t.Fatalf("state = %s, want %s", co.State(), StateFailed)
    }
    if co.Details().BusinessName != "Acme Books" {
        t.Error("details not preserved across failure")
    }

    // retry: re-enter details, pay again
    if err := co.EnterDetails(dv, co.Details()); err != nil {
        t.Fatal(err)
    }
    if co.IdempotencyKey() != key {
        t.Errorf("idempotency key changed across retry: %q -> %q", key, co.IdempotencyKey())
    }
    var calls []Submission
    if _, err := co.Pay(context.Background(), stubGate{}, acceptAll(t, snapshot(), &calls)); err != nil {
        t.Fatal(err)
    }
    if len(calls) != 1 || calls[0].IdempotencyKey != key {
        t.Errorf("retry did not reuse key %q: %+v", key, calls)
    }
    if co.State() != StateConfirmed {
        t.Errorf("state = %s, want %s", co.State(), StateConfirmed)
    }
}

func TestConcurrentPayRejected(t *testing.T) {
    dv := validator.New()
    co, _ := Begin(1, snapshot())
    if err := co.EnterDetails(dv, okDetails()); err != nil {
        t.Fatal(err)
    }

    entered := make(chan struct{})
    release := make(chan struct{})
    done := make(chan error, 1)
    go func() {
        _, err := co.Pay(context.Background(), stubGate{}, func(context.Context, Submission) (SubmitResult, error) {
            close(entered)
            <-release
            return SubmitResult{ReferenceCode: NewReferenceCode(), StallLabels: []string{"A1"}, Total: 15000}, nil
        })
        done <- err
    }()

    <-entered
    if _, err := co.Pay(context.Background(), stubGate{}, nil); !errors.Is(err, ErrSubmitInFlight) {
        t.Errorf("expected ErrSubmitInFlight, got %v", err)
    }
    close(release)
    if err := <-done; err != nil {
        t.Fatalf("first pay failed: %v", err)
    }
}

func TestCancelBeforeSubmitting(t *testing.T) {
    dv := validator.New()

    co, _ := Begin(1, snapshot())
    if err := co.Cancel(); err != nil {
        t.Fatalf("cancel from details entry: %v", err)
    }
    if co.State() != StateCancelled {
        t.Errorf("state = %s, want %s", co.State(), StateCancelled)
    }

    co, _ = Begin(1, snapshot())
    if err := co.EnterDetails(dv, okDetails()); err != nil {
        t.Fatal(err)
    }
    if err := co.Cancel(); err != nil {
        t.Fatalf("cancel from payment pending: %v", err)
    }
    if co.Details().BusinessName != "" {
        t.Error("captured details not discarded on cancel")
    }
}

func TestCancelAfterConfirmedRejected(t *testing.T) {
    dv := validator.New()
    co, _ := Begin(1, snapshot())
    if err := co.EnterDetails(dv, okDetails()); err != nil {
        t.Fatal(err)
    }
    var calls []Submission
    if _, err := co.Pay(context.Background(), stubGate{}, acceptAll(t, snapshot(), &calls)); err != nil {
        t.Fatal(err)
    }
    if err := co.Cancel(); !errors.Is(err, ErrInvalidState) {
        t.Fatalf("expected ErrInvalidState, got %v", err)
    }
}

func TestNewReferenceCodeFormat(t *testing.T) {
    seen := make(map[string]bool)
    for i := 0; i < 50; i++ {
        code := NewReferenceCode()
        if !refPattern.MatchString(code) {
            t.Fatalf("reference code %q does not match %s", code, refPattern)
        }
        seen[code] = true
    }
    if len(seen) < 2 {
        t.Error("reference codes do not vary")
    }
}

func TestStore(t *testing.T) {
    st := NewStore()
    if _, err := st.Get(1); !errors.Is(err, ErrNoCheckout) {
        t.Fatalf("expected ErrNoCheckout, got %v", err)
    }
    if _, err := st.Begin(1, nil); !errors.Is(err, ErrEmptySelection) {
        t.Fatalf("expected ErrEmptySelection, got %v", err)
    }
    co, err := st.Begin(1, snapshot())
    if err != nil {
        t.Fatal(err)
    }
    got, err := st.Get(1)
    if err != nil || got != co {
        t.Fatalf("Get returned %v, %v", got, err)
    }
    // beginning again replaces the old checkout
    co2, err := st.Begin(1, snapshot())
    if err != nil {
        t.Fatal(err)
    }
    if co2 == co {
        t.Error("Begin did not replace the existing checkout")
    }
    st.Drop(1)
    if _, err := st.Get(1); !errors.Is(err, ErrNoCheckout) {
        t.Errorf("expected ErrNoCheckout after Drop, got %v", err)
    }
}
