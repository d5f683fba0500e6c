package protocol

import "time"

// Customer status values used by the seeded data. The column itself is
// free-form text; these are conventions, not an enum.
const (
	CustomerActive   = "active"
	CustomerDisabled = "disabled"
)

// Customer is a customer record as stored and as returned over the wire.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
