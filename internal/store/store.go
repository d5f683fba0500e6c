package store

import "github.com/deskhive-io/deskhive/pkg/protocol"

// Store is the persistence interface for customers and tickets.
//
// Absence of a row is a normal result: GetCustomer returns (nil, nil) for an
// unknown id and list operations return empty slices. An error means the
// store itself failed (unreachable file, malformed query).
type Store interface {
	// GetCustomer returns the customer with the given id, or nil if absent.
	GetCustomer(id int64) (*protocol.Customer, error)
	// ListCustomers returns customers newest first, optionally filtered by
	// exact status match. limit caps the result count.
	ListCustomers(status string, limit int) ([]*protocol.Customer, error)
	// ListActiveCustomers returns customers with status "active", newest first.
	ListActiveCustomers(limit int) ([]*protocol.Customer, error)
	// ListPremiumCustomers returns customers whose name contains the
	// substring "Premium" (case-sensitive), ordered by id. The schema has no
	// tier column; this matches the seeded premium records.
	ListPremiumCustomers(limit int) ([]*protocol.Customer, error)
	// UpdateCustomer applies the whitelisted fields (name, email, phone,
	// status) from fields, stamps updated_at, and returns the post-update
	// record. With no whitelisted fields it returns the current record
	// unchanged. Returns (nil, nil) if the customer does not exist.
	UpdateCustomer(id int64, fields map[string]any) (*protocol.Customer, error)
	// CreateTicket inserts a ticket and returns the stored row including its
	// assigned id and creation time. The customer id is not validated.
	CreateTicket(customerID int64, issue, priority, status string) (*protocol.Ticket, error)
	// CustomerHistory returns all tickets for a customer, newest first.
	CustomerHistory(customerID int64) ([]*protocol.Ticket, error)
	// ListOpenTickets returns all non-resolved tickets ordered by priority
	// descending then creation time descending. Priority ordering is lexical
	// on the text column, not a severity rank.
	ListOpenTickets() ([]*protocol.Ticket, error)
	// OpenTicketsForCustomer returns non-resolved tickets for one customer,
	// with the same ordering as ListOpenTickets.
	OpenTicketsForCustomer(customerID int64) ([]*protocol.Ticket, error)
	// HighPriorityTicketsForCustomers returns non-resolved priority="high"
	// tickets, restricted to the given customer ids when the set is
	// non-empty, newest first.
	HighPriorityTicketsForCustomers(customerIDs []int64) ([]*protocol.Ticket, error)
	// BillingTicketsForCustomer returns the customer's tickets whose issue
	// text mentions billing, charge, payment or invoice (case-insensitive),
	// newest first.
	BillingTicketsForCustomer(customerID int64) ([]*protocol.Ticket, error)
	// ActiveCustomersWithOpenTickets returns distinct active customers owning
	// at least one non-resolved ticket, ordered by customer id.
	ActiveCustomersWithOpenTickets() ([]*protocol.Customer, error)
	// Ping verifies the store is reachable.
	Ping() error
}
