package model

import "time"

// User roles.  Vendors browse and reserve stalls; organizers inspect all
// reservations and maintain the catalog.
const (
    RoleVendor    = "VENDOR"
    RoleOrganizer = "ORGANIZER"
)

// User mirrors the 'users' table.  Business fields are collected at
// registration so that reservation forms can be pre-filled.
type User struct {
    ID            uint64    // users.id
    Email         string    // users.email (unique, lower-cased)
    PasswordHash  string    // users.password_hash (bcrypt)
    Role          string    // users.role (VENDOR, ORGANIZER)
    BusinessName  string    // users.business_name
    ContactPerson string    // users.contact_person
    Phone         string    // users.phone
    IsActive      bool      // users.is_active
    CreatedAt     time.Time // users.created_at
    UpdatedAt     time.Time // users.updated_at
}
