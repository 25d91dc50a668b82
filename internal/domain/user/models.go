package user

import (
	"time"
)

// User is the local profile record. Identity (credentials, sessions) lives at
// the identity provider; the payment-rail customer lives at Dwolla. This
// record stitches the two together and is immutable after sign-up.
type User struct {
	ID                string    `json:"id"`
	IdentityID        string    `json:"-"` // identity-provider account id
	Email             string    `json:"email"`
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	Address           string    `json:"address"`
	City              string    `json:"city"`
	State             string    `json:"state"`
	PostalCode        string    `json:"postalCode"`
	DateOfBirth       string    `json:"dateOfBirth"`
	SSN               string    `json:"-"` // national identifier, never serialized
	DwollaCustomerID  string    `json:"-"`
	DwollaCustomerURL string    `json:"-"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Name returns the display name used for the identity account and link widget.
func (u *User) Name() string {
	return u.FirstName + " " + u.LastName
}

type CreateParams struct {
	IdentityID        string
	Email             string
	FirstName         string
	LastName          string
	Address           string
	City              string
	State             string
	PostalCode        string
	DateOfBirth       string
	SSN               string
	DwollaCustomerID  string
	DwollaCustomerURL string
}
