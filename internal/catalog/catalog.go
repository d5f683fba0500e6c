// Package catalog exposes the store as a fixed set of named, parameterized
// operations. Every operation returns a protocol.Result envelope: storage
// faults are caught here and become {"success": false, "error": ...} results,
// so the transport's error path stays reserved for protocol-level problems.
package catalog

import (
	"github.com/deskhive-io/deskhive/internal/store"
	"github.com/deskhive-io/deskhive/pkg/protocol"
)

// Default result caps, matching the callers' expectations: general listing is
// short, convenience listings are generous.
const (
	defaultListLimit     = 10
	defaultWideListLimit = 100
)

// Catalog wraps a Store in the uniform Result envelope.
type Catalog struct {
	store store.Store
}

// New creates a catalog over the given store.
func New(s store.Store) *Catalog {
	return &Catalog{store: s}
}

// GetCustomer returns a single customer by id. An unknown id is a domain
// failure (success=false), not a fault.
func (c *Catalog) GetCustomer(customerID int64) *protocol.Result {
	record, err := c.store.GetCustomer(customerID)
	if err != nil {
		return protocol.Errorf("get_customer: %v", err)
	}
	if record == nil {
		return protocol.Errorf("Customer %d not found.", customerID)
	}
	return protocol.CustomerResult(record)
}

// ListCustomers lists customers, optionally filtered by status.
func (c *Catalog) ListCustomers(status string, limit int) *protocol.Result {
	records, err := c.store.ListCustomers(status, limit)
	if err != nil {
		return protocol.Errorf("list_customers: %v", err)
	}
	return protocol.CustomersResult(records)
}

// ListActiveCustomers lists all active customers.
func (c *Catalog) ListActiveCustomers(limit int) *protocol.Result {
	records, err := c.store.ListActiveCustomers(limit)
	if err != nil {
		return protocol.Errorf("list_active_customers: %v", err)
	}
	return protocol.CustomersResult(records)
}

// ListPremiumCustomers lists premium-tier customers (name-based heuristic,
// see store.ListPremiumCustomers).
func (c *Catalog) ListPremiumCustomers(limit int) *protocol.Result {
	records, err := c.store.ListPremiumCustomers(limit)
	if err != nil {
		return protocol.Errorf("list_premium_customers: %v", err)
	}
	return protocol.CustomersResult(records)
}

// UpdateCustomer applies whitelisted fields to a customer and returns the
// updated record.
func (c *Catalog) UpdateCustomer(customerID int64, fields map[string]any) *protocol.Result {
	record, err := c.store.UpdateCustomer(customerID, fields)
	if err != nil {
		return protocol.Errorf("update_customer: %v", err)
	}
	if record == nil {
		return protocol.Errorf("Customer %d not found or update failed.", customerID)
	}
	return protocol.CustomerResult(record)
}

// UpdateCustomerEmail updates only the email field.
func (c *Catalog) UpdateCustomerEmail(customerID int64, newEmail string) *protocol.Result {
	record, err := c.store.UpdateCustomer(customerID, map[string]any{"email": newEmail})
	if err != nil {
		return protocol.Errorf("update_customer_email: %v", err)
	}
	if record == nil {
		return protocol.Errorf("Customer %d not found or update failed.", customerID)
	}
	return protocol.CustomerResult(record)
}

// CreateTicket inserts a ticket for a customer. The customer id is not
// validated here; upstream callers resolve it first.
func (c *Catalog) CreateTicket(customerID int64, issue, priority, status string) *protocol.Result {
	ticket, err := c.store.CreateTicket(customerID, issue, priority, status)
	if err != nil {
		return protocol.Errorf("create_ticket: %v", err)
	}
	return protocol.TicketResult(ticket)
}

// CustomerHistory returns all tickets for a customer, newest first. Exposed
// under two method names (get_customer_history and customer_ticket_history)
// because different callers expect different names for the same operation.
func (c *Catalog) CustomerHistory(customerID int64) *protocol.Result {
	tickets, err := c.store.CustomerHistory(customerID)
	if err != nil {
		return protocol.Errorf("get_customer_history: %v", err)
	}
	return protocol.TicketsResult(tickets)
}

// ListOpenTickets lists all non-resolved tickets.
func (c *Catalog) ListOpenTickets() *protocol.Result {
	tickets, err := c.store.ListOpenTickets()
	if err != nil {
		return protocol.Errorf("list_open_tickets: %v", err)
	}
	return protocol.TicketsResult(tickets)
}

// OpenTicketsForCustomer lists non-resolved tickets for one customer.
func (c *Catalog) OpenTicketsForCustomer(customerID int64) *protocol.Result {
	tickets, err := c.store.OpenTicketsForCustomer(customerID)
	if err != nil {
		return protocol.Errorf("open_tickets_for_customer: %v", err)
	}
	return protocol.TicketsResult(tickets)
}

// HighPriorityTicketsForCustomers lists high-priority non-resolved tickets,
// restricted to the given customers when the id set is non-empty.
func (c *Catalog) HighPriorityTicketsForCustomers(customerIDs []int64) *protocol.Result {
	tickets, err := c.store.HighPriorityTicketsForCustomers(customerIDs)
	if err != nil {
		return protocol.Errorf("high_priority_tickets_for_customers: %v", err)
	}
	return protocol.TicketsResult(tickets)
}

// BillingContextForCustomer approximates a billing context as the customer's
// tickets whose issue text mentions billing keywords.
func (c *Catalog) BillingContextForCustomer(customerID int64) *protocol.Result {
	tickets, err := c.store.BillingTicketsForCustomer(customerID)
	if err != nil {
		return protocol.Errorf("billing_context_for_customer: %v", err)
	}
	return protocol.TicketsResult(tickets)
}

// ActiveCustomersWithOpenTickets lists distinct active customers owning at
// least one non-resolved ticket.
func (c *Catalog) ActiveCustomersWithOpenTickets() *protocol.Result {
	records, err := c.store.ActiveCustomersWithOpenTickets()
	if err != nil {
		return protocol.Errorf("list_active_customers_with_open_tickets: %v", err)
	}
	return protocol.CustomersResult(records)
}

// HealthCheck verifies that the backing database is reachable.
func (c *Catalog) HealthCheck() *protocol.Result {
	if err := c.store.Ping(); err != nil {
		return protocol.Errorf("health_check: %v", err)
	}
	return &protocol.Result{Success: true}
}
