package models

import "github.com/shopspring/decimal"

// User is a customer record keyed by its case-sensitive username.
type User struct {
	Username       string          `json:"username"`
	PasswordDigest string          `json:"-"`
	AccountType    AccountType     `json:"account_type"`
	Balance        decimal.Decimal `json:"balance"`
	Transactions   []Transaction   `json:"transactions"`
}

// Document maps usernames to their records. It is the unit of persistence.
type Document map[string]*User

// Equal compares two documents by value, treating decimals numerically.
func (d Document) Equal(other Document) bool {
	if len(d) != len(other) {
		return false
	}
	for name, a := range d {
		b, ok := other[name]
		if !ok || !a.equal(b) {
			return false
		}
	}
	return true
}

func (u *User) equal(o *User) bool {
	if u.Username != o.Username || u.PasswordDigest != o.PasswordDigest || u.AccountType != o.AccountType {
		return false
	}
	if !u.Balance.Equal(o.Balance) || len(u.Transactions) != len(o.Transactions) {
		return false
	}
	for i := range u.Transactions {
		if !u.Transactions[i].Equal(o.Transactions[i]) {
			return false
		}
	}
	return true
}
