package validator

import (
    "strings"
    "testing"
)

func valid() ContactDetails {
    return ContactDetails{
        BusinessName: "Acme Books",
        Email:        "a@b.com",
        Phone:        "+94771234567",
        AcceptTerms:  true,
    }
}

func TestValidateContactDetails(t *testing.T) {
    dv := New()

    tests := []struct {
        name      string
        mutate    func(*ContactDetails)
        wantError bool
        wantField string
    }{
        {name: "valid payload", mutate: func(d *ContactDetails) {}, wantError: false},
        {name: "business name length 1 rejected", mutate: func(d *ContactDetails) { d.BusinessName = "A" }, wantError: true, wantField: "business_name"},
        {name: "business name length 2 accepted", mutate: func(d *ContactDetails) { d.BusinessName = "AB" }, wantError: false},
        {name: "business name length 100 accepted", mutate: func(d *ContactDetails) { d.BusinessName = strings.Repeat("a", 100) }, wantError: false},
        {name: "business name length 101 rejected", mutate: func(d *ContactDetails) { d.BusinessName = strings.Repeat("a", 101) }, wantError: true, wantField: "business_name"},
        {name: "business name required", mutate: func(d *ContactDetails) { d.BusinessName = "" }, wantError: true, wantField: "business_name"},
        {name: "whitespace-only business name rejected", mutate: func(d *ContactDetails) { d.BusinessName = "   " }, wantError: true, wantField: "business_name"},
        {name: "email without at sign rejected", mutate: func(d *ContactDetails) { d.Email = "not-an-email" }, wantError: true, wantField: "email"},
        {name: "email over 255 rejected", mutate: func(d *ContactDetails) { d.Email = strings.Repeat("a", 250) + "@b.com" }, wantError: true, wantField: "email"},
        {name: "phone with 9 digits rejected", mutate: func(d *ContactDetails) { d.Phone = "123456789" }, wantError: true, wantField: "phone"},
        {name: "phone with 10 digits accepted", mutate: func(d *ContactDetails) { d.Phone = "1234567890" }, wantError: false},
        {name: "phone with separators accepted", mutate: func(d *ContactDetails) { d.Phone = "+94 (77) 123-4567" }, wantError: false},
        {name: "phone with letters rejected", mutate: func(d *ContactDetails) { d.Phone = "12345abcde" }, wantError: true, wantField: "phone"},
        {name: "phone over 20 chars rejected", mutate: func(d *ContactDetails) { d.Phone = strings.Repeat("1", 21) }, wantError: true, wantField: "phone"},
        {name: "terms not accepted rejected", mutate: func(d *ContactDetails) { d.AcceptTerms = false }, wantError: true, wantField: "accept_terms"},
    }

    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            d := valid()
            tt.mutate(&d)
            err := dv.Validate(&d)
            if !tt.wantError {
                if err != nil {
                    t.Fatalf("unexpected error: %v", err)
                }
                return
            }
            if err == nil {
                t.Fatal("expected validation error, got nil")
            }
            ferrs, ok := err.(FieldErrors)
            if !ok {
                t.Fatalf("expected FieldErrors, got %T", err)
            }
            found := false
            for _, fe := range ferrs {
                if fe.Field == tt.wantField {
                    found = true
                }
            }
            if !found {
                t.Errorf("expected error on field %q, got %v", tt.wantField, ferrs)
            }
        })
    }
}

// Validation reports every failed field at once.
func TestValidateCollectsAllErrors(t *testing.T) {
    dv := New()
    d := ContactDetails{BusinessName: "X", Email: "bad", Phone: "123", AcceptTerms: false}
    err := dv.Validate(&d)
    ferrs, ok := err.(FieldErrors)
    if !ok {
        t.Fatalf("expected FieldErrors, got %T", err)
    }
    if len(ferrs) != 4 {
        t.Errorf("expected 4 field errors, got %d: %v", len(ferrs), ferrs)
    }
}

func TestValidateTrimsFields(t *testing.T) {
    dv := New()
    d := valid()
    d.BusinessName = "  Acme Books  "
    d.Email = " a@b.com "
    if err := dv.Validate(&d); err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if d.BusinessName != "Acme Books" || d.Email != "a@b.com" {
        t.Errorf("fields not trimmed: %q %q", d.BusinessName, d.Email)
    }
}
