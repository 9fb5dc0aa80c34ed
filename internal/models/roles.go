package models

// Roles carried in access tokens. Admins are not stored in the document.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// AccountType is an informational tag chosen at signup.
type AccountType string

const (
	Saving  AccountType = "Saving"
	Current AccountType = "Current"
)

// Valid reports whether t is one of the supported account types.
func (t AccountType) Valid() bool {
	return t == Saving || t == Current
}
