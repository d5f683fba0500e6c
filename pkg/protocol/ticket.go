package protocol

import "time"

// Conventional ticket status and priority values. Both columns are free-form
// text; queries that filter on them match these strings literally.
const (
	TicketOpen     = "open"
	TicketResolved = "resolved"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Ticket is a support ticket owned by a customer. The customer reference is
// not enforced by the store; callers are expected to validate it upstream.
type Ticket struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customer_id"`
	Issue      string    `json:"issue"`
	Status     string    `json:"status"`
	Priority   string    `json:"priority"`
	CreatedAt  time.Time `json:"created_at"`
}
