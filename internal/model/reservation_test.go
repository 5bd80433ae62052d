package model

import "testing"

func TestCancellable(t *testing.T) {
    tests := []struct {
        name   string
        status string
        want   bool
    }{
        {name: "confirmed booking can be cancelled", status: StatusConfirmed, want: true},
        {name: "cancelled booking cannot be cancelled again", status: StatusCancelled, want: false},
        {name: "pending booking cannot be cancelled", status: StatusPending, want: false},
        {name: "unknown status is rejected", status: "REFUNDED", want: false},
        {name: "empty status is rejected", status: "", want: false},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            if got := Cancellable(tt.status); got != tt.want {
                t.Errorf("Cancellable(%q) = %v, want %v", tt.status, got, tt.want)
            }
        })
    }
}
