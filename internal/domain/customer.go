package domain

import "time"

// Customer owns zero or more orders. Deleting a customer cascades to its
// orders at the storage layer (ON DELETE CASCADE).
type Customer struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
