package orders

import (
	"errors"
	"net/mail"
	"strings"
)

// OrderInput is the order-creation request body.
type OrderInput struct {
	CustomerName     string `json:"customer_name"`
	CustomerPhone    string `json:"customer_phone"`
	CustomerEmail    string `json:"customer_email"`
	CustomerIDNumber string `json:"customer_id_number"`
	IntendedUse      string `json:"intended_use"`
	Notes            string `json:"notes"`
}

var validUses = map[string]struct{}{
	UseResidential:  {},
	UseCommercial:   {},
	UseAgricultural: {},
	UseIndustrial:   {},
	UseMixed:        {},
}

var validStatuses = map[string]struct{}{
	StatusPending:  {},
	StatusApproved: {},
	StatusRejected: {},
}

func ValidStatus(s string) bool {
	_, ok := validStatuses[s]
	return ok
}

// Validate checks the input and normalizes it in place: name and ID number
// are trimmed, the phone number has spaces and dashes stripped.
func (in *OrderInput) Validate() error {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	if len(in.CustomerName) < 2 {
		return errors.New("customer name must be at least 2 characters long")
	}

	phone := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(in.CustomerPhone))
	if len(phone) < 10 {
		return errors.New("customer phone must be at least 10 characters long")
	}
	if !strings.HasPrefix(phone, "+255") && !strings.HasPrefix(phone, "255") && !strings.HasPrefix(phone, "0") {
		return errors.New("phone number must be a valid Tanzania number")
	}
	in.CustomerPhone = phone

	in.CustomerIDNumber = strings.TrimSpace(in.CustomerIDNumber)
	if len(in.CustomerIDNumber) < 5 {
		return errors.New("customer ID number must be at least 5 characters long")
	}

	if _, ok := validUses[in.IntendedUse]; !ok {
		return errors.New("intended use must be one of: residential, commercial, agricultural, industrial, mixed")
	}

	if in.CustomerEmail != "" {
		if _, err := mail.ParseAddress(in.CustomerEmail); err != nil {
			return errors.New("customer email is not a valid address")
		}
	}

	return nil
}
