// Package validator checks the contact details a vendor submits during
// checkout.  All rules are resolved locally; a payload that fails here is
// never sent to the booking store.
package validator

import (
    "fmt"
    "regexp"
    "strings"

    "github.com/go-playground/validator/v10"
)

// phonePattern accepts digits plus the separators people actually type
// into phone fields.  Length is validated separately.
var phonePattern = regexp.MustCompile(`^[0-9+\-\s()]+$`)

// ContactDetails is the validated payload captured at the details step of
// checkout.  The same fields are shared by every reservation row the
// checkout produces.
type ContactDetails struct {
    BusinessName string `json:"business_name" validate:"required,min=2,max=100"`
    Email        string `json:"email" validate:"required,email,max=255"`
    Phone        string `json:"phone" validate:"required,phone"`
    AcceptTerms  bool   `json:"accept_terms" validate:"eq=true"`
}

// FieldError describes a single failed rule, suitable for inline display
// next to the offending form field.
type FieldError struct {
    Field   string `json:"field"`
    Message string `json:"message"`
}

func (e FieldError) Error() string {
    return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FieldErrors aggregates every failed rule for one payload.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
    if len(e) == 0 {
        return ""
    }
    msgs := make([]string, 0, len(e))
    for _, fe := range e {
        msgs = append(msgs, fe.Error())
    }
    return fmt.Sprintf("validation failed: %d error(s): [%s]", len(e), strings.Join(msgs, "; "))
}

// DetailsValidator wraps a validator.Validate instance with the custom
// phone rule registered.
type DetailsValidator struct {
    validate *validator.Validate
}

// New constructs a DetailsValidator.  Registration of the phone rule can
// only fail on a programming error, so it panics.
func New() *DetailsValidator {
    v := validator.New()
    if err := v.RegisterValidation("phone", validatePhone); err != nil {
        panic(fmt.Sprintf("register phone validation: %v", err))
    }
    return &DetailsValidator{validate: v}
}

// validatePhone enforces the allowed character set and a trimmed length
// of 10 to 20 characters.
func validatePhone(fl validator.FieldLevel) bool {
    phone := strings.TrimSpace(fl.Field().String())
    if len(phone) < 10 || len(phone) > 20 {
        return false
    }
    return phonePattern.MatchString(phone)
}

// Validate trims the payload in place and checks every rule, returning
// nil when the payload is acceptable.  On failure it returns FieldErrors
// with one entry per failed field.
func (dv *DetailsValidator) Validate(d *ContactDetails) error {
    d.BusinessName = strings.TrimSpace(d.BusinessName)
    d.Email = strings.TrimSpace(d.Email)
    d.Phone = strings.TrimSpace(d.Phone)

    err := dv.validate.Struct(d)
    if err == nil {
        return nil
    }
    verrs, ok := err.(validator.ValidationErrors)
    if !ok {
        return FieldErrors{{Field: "payload", Message: "invalid payload"}}
    }
    out := make(FieldErrors, 0, len(verrs))
    for _, fe := range verrs {
        out = append(out, FieldError{Field: fieldName(fe.Field()), Message: message(fe)})
    }
    return out
}

// fieldName maps struct field names to their JSON names.
func fieldName(structField string) string {
    switch structField {
    case "BusinessName":
        return "business_name"
    case "Email":
        return "email"
    case "Phone":
        return "phone"
    case "AcceptTerms":
        return "accept_terms"
    }
    return strings.ToLower(structField)
}

// message renders a human-readable message per failed rule.
func message(fe validator.FieldError) string {
    switch fe.Field() {
    case "BusinessName":
        switch fe.Tag() {
        case "required":
            return "business name is required"
        case "min":
            return "business name must be at least 2 characters"
        case "max":
            return "business name must be less than 100 characters"
        }
    case "Email":
        switch fe.Tag() {
        case "required":
            return "email is required"
        case "email":
            return "please enter a valid email address"
        case "max":
            return "email must be less than 255 characters"
        }
    case "Phone":
        if fe.Tag() == "required" {
            return "phone number is required"
        }
        return "please enter a valid phone number (10-20 characters)"
    case "AcceptTerms":
        return "you must accept the terms and conditions"
    }
    return "invalid value"
}
