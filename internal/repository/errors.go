// Package repository implements persistence for stalls, reservations,
// users and refresh tokens on MySQL.  This file defines the sentinel
// errors shared across repositories so handlers can translate failures
// into distinct HTTP responses with errors.Is/errors.As instead of
// matching driver error strings.
package repository

import (
    "errors"
    "fmt"
    "strings"
)

// ErrStallNotFound indicates the requested stall does not exist.
var ErrStallNotFound = errors.New("stall not found")

// ErrLabelExists indicates a stall create collided with an existing
// label; labels are unique within the catalog.
var ErrLabelExists = errors.New("stall label already exists")

// ErrEmailExists indicates a registration collided with an existing
// account email.
var ErrEmailExists = errors.New("email already exists")

// ErrForbidden is returned when the caller attempts an operation on a
// resource owned by someone else.  Handlers translate it into 403.
var ErrForbidden = errors.New("forbidden")

// StallsUnavailableError reports which stalls were taken between
// selection and submission.  It is a legitimate, expected outcome of two
// vendors racing for the same stall and must be surfaced distinctly from
// a generic failure so the client can flag the conflicting stalls for
// re-selection.
type StallsUnavailableError struct {
    Labels []string
}

func (e *StallsUnavailableError) Error() string {
    return fmt.Sprintf("stalls no longer available: %s", strings.Join(e.Labels, ", "))
}

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (code 1062).
func isDuplicateKey(err error) bool {
    return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
