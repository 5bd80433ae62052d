package workflow

import (
    "context"
    "log"
)

// PaymentGate captures payment for a checkout before the reservation is
// submitted.  The submission only proceeds when Capture returns nil.
type PaymentGate interface {
    Capture(ctx context.Context, reference string, amount uint32) error
}

// SimulatedPaymentGate approves every capture.  It stands in for a real
// payment provider; swapping in an actual capture call means replacing
// this one implementation, nothing in the workflow changes.
type SimulatedPaymentGate struct{}

// Capture logs the simulated capture and approves it.
func (SimulatedPaymentGate) Capture(_ context.Context, reference string, amount uint32) error {
    log.Printf("payment: simulated capture approved | reference=%s amount=%d", reference, amount)
    return nil
}
