package model

import "time"

// Account mirrors the 'account' table: the credential record looked up at
// login. Exactly one of CustomerID / StaffID is set depending on the role.
type Account struct {
	ID           uint64
	Username     string
	PasswordHash string
	Role         Role
	CustomerID   *uint64
	StaffID      *uint64
	CreatedAt    time.Time
}

// Principal derives the session principal from the account row. The
// principal ID is the domain row (customer or staff), not the credential
// row: everything downstream of login keys on it.
func (a Account) Principal() Principal {
	p := Principal{ID: a.ID, Username: a.Username, Role: a.Role}
	switch {
	case a.CustomerID != nil:
		p.ID = *a.CustomerID
	case a.StaffID != nil:
		p.ID = *a.StaffID
	}
	return p
}

// Customer mirrors the 'customer' table.
type Customer struct {
	ID        uint64    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Staff mirrors the 'staff' table.
type Staff struct {
	ID        uint64 `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Active    bool   `json:"active"`
}
