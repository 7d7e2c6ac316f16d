package domain

import "time"

// User is the owner of accounts and notifications. Identity lives with the
// external token issuer; rows here are provisioned lazily from validated
// token claims so foreign keys resolve.
type User struct {
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
