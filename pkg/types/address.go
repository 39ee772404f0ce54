package types

import "strings"

// Address is stored as jsonb on orders.
type Address struct {
	FullName   string  `json:"full_name,omitempty"`
	Line1      string  `json:"line1" validate:"required"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city" validate:"required"`
	State      string  `json:"state,omitempty"`
	PostalCode string  `json:"postal_code" validate:"required"`
	Country    string  `json:"country,omitempty"`
	Phone      string  `json:"phone,omitempty"`
}

// IsZero reports whether no address was supplied.
func (a *Address) IsZero() bool {
	if a == nil {
		return true
	}
	return strings.TrimSpace(a.Line1) == "" &&
		strings.TrimSpace(a.City) == "" &&
		strings.TrimSpace(a.PostalCode) == ""
}
