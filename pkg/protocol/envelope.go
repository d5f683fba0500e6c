package protocol

import "fmt"

// Result is the uniform envelope returned by every catalog operation.
// On success exactly one payload field is populated; the payload key for a
// given operation never changes, so callers can branch on Success alone.
// On failure only Error is set.
//
// List payloads use omitzero so an empty (non-nil) slice still serializes as
// its key with [], keeping the payload shape stable for empty results.
type Result struct {
	Success   bool        `json:"success"`
	Customer  *Customer   `json:"customer,omitempty"`
	Customers []*Customer `json:"customers,omitzero"`
	Ticket    *Ticket     `json:"ticket,omitempty"`
	Tickets   []*Ticket   `json:"tickets,omitzero"`
	Error     string      `json:"error,omitempty"`
}

// CustomerResult wraps a single customer record in a success envelope.
func CustomerResult(c *Customer) *Result {
	return &Result{Success: true, Customer: c}
}

// CustomersResult wraps a customer list in a success envelope.
func CustomersResult(cs []*Customer) *Result {
	if cs == nil {
		cs = []*Customer{}
	}
	return &Result{Success: true, Customers: cs}
}

// TicketResult wraps a single ticket record in a success envelope.
func TicketResult(t *Ticket) *Result {
	return &Result{Success: true, Ticket: t}
}

// TicketsResult wraps a ticket list in a success envelope.
func TicketsResult(ts []*Ticket) *Result {
	if ts == nil {
		ts = []*Ticket{}
	}
	return &Result{Success: true, Tickets: ts}
}

// Errorf builds a failure envelope with a formatted message.
func Errorf(format string, args ...any) *Result {
	return &Result{Success: false, Error: fmt.Sprintf(format, args...)}
}
