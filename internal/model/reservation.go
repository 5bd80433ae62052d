package model

import "time"

// Reservation statuses.  CONFIRMED is set when the booking transaction
// commits; CANCELLED only via an explicit cancel request.  PENDING is
// reserved for flows where payment capture completes asynchronously.
const (
    StatusPending   = "PENDING"
    StatusConfirmed = "CONFIRMED"
    StatusCancelled = "CANCELLED"
)

// Reservation records one stall booked by one vendor.  A multi-stall
// checkout produces several rows sharing the same contact fields,
// reference code and idempotency key.
//
// Fields:
//  ID             – primary key identifier.
//  UserID         – vendor who made the reservation.
//  StallID        – stall being reserved.
//  BusinessName   – vendor business name captured at checkout.
//  Email          – contact email captured at checkout.
//  PhoneNumber    – contact phone captured at checkout.
//  Status         – PENDING, CONFIRMED or CANCELLED.
//  Price          – stall price copied from the catalog at submit time.
//  ReferenceCode  – human-shareable code shown on the confirmation.
//  IdempotencyKey – checkout-scoped key deduplicating retried submissions.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Reservation struct {
    ID             uint64    // reservations.id
    UserID         uint64    // reservations.user_id
    StallID        uint64    // reservations.stall_id
    BusinessName   string    // reservations.business_name
    Email          string    // reservations.email
    PhoneNumber    string    // reservations.phone_number
    Status         string    // reservations.status
    Price          uint32    // reservations.price
    ReferenceCode  string    // reservations.reference_code
    IdempotencyKey string    // reservations.idempotency_key
    CreatedAt      time.Time // reservations.created_at
    UpdatedAt      time.Time // reservations.updated_at
}

// Cancellable reports whether a reservation in the given status may be
// cancelled.  Only CONFIRMED reservations qualify; cancelling an already
// cancelled booking is rejected rather than silently succeeding.
func Cancellable(status string) bool {
    return status == StatusConfirmed
}
