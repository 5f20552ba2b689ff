package domain

import "time"

// User is a staff account that signs in to the dashboard. Users are not
// relationally linked to customers or orders.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
