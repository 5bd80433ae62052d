// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published when a checkout is accepted by
// the booking store.  It carries everything downstream consumers (the
// notification log today, email/QR-pass delivery eventually) need
// without querying the primary database.
type ReservationConfirmedEvent struct {
    ReferenceCode string   `json:"reference_code"`
    UserID        uint64   `json:"user_id"`
    BusinessName  string   `json:"business_name"`
    Email         string   `json:"email"`
    StallLabels   []string `json:"stalls"`
    Total         uint32   `json:"total"`
    ConfirmedAt   string   `json:"confirmed_at"`
}
