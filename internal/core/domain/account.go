package domain

import "time"

const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// Account is a user identity plus its mutable balance and status. Balance is
// stored in minor units and must never be negative after a committed
// operation. Blocking is one-way: there is no unblock path.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name,omitempty"`
	Balance      int64     `json:"balance"`
	Role         string    `json:"-"`
	Blocked      bool      `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
