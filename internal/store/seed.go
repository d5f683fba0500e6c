package store

import (
	"fmt"
	"time"

	"github.com/deskhive-io/deskhive/pkg/protocol"
)

// InsertCustomer inserts a customer row for bootstrap or tests. A non-zero ID
// is honored; with ID 0 the database assigns one. Zero timestamps default to
// now. Returns the stored record.
func (s *SQLiteStore) InsertCustomer(c *protocol.Customer) (*protocol.Customer, error) {
	now := time.Now().UTC()
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := c.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	var id any
	if c.ID != 0 {
		id = c.ID
	}
	res, err := s.db.Exec(`
		INSERT INTO customers (id, name, email, phone, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, c.Name, c.Email, c.Phone, c.Status,
		createdAt.Format(timeFormat), updatedAt.Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("store: insert customer: %w", err)
	}

	assigned := c.ID
	if assigned == 0 {
		assigned, err = res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("store: insert customer: last insert id: %w", err)
		}
	}
	return s.GetCustomer(assigned)
}

// InsertTicket inserts a ticket row for bootstrap or tests, honoring a
// provided ID and creation time like InsertCustomer does.
func (s *SQLiteStore) InsertTicket(t *protocol.Ticket) (*protocol.Ticket, error) {
	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var id any
	if t.ID != 0 {
		id = t.ID
	}
	res, err := s.db.Exec(`
		INSERT INTO tickets (id, customer_id, issue, status, priority, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, t.CustomerID, t.Issue, t.Status, t.Priority, createdAt.Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("store: insert ticket: %w", err)
	}

	assigned := t.ID
	if assigned == 0 {
		assigned, err = res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("store: insert ticket: last insert id: %w", err)
		}
	}

	row := s.db.QueryRow(`SELECT `+ticketColumns+` FROM tickets WHERE id = ?`, assigned)
	stored, err := scanTicket(row)
	if err != nil {
		return nil, fmt.Errorf("store: insert ticket: read back: %w", err)
	}
	return stored, nil
}

// Seed populates an empty database with the demo dataset: a few regular
// customers, one premium-tier customer (detected by name, see
// ListPremiumCustomers) and a spread of open/resolved tickets. Idempotent:
// it does nothing when customers already exist.
func (s *SQLiteStore) Seed() error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM customers`).Scan(&count); err != nil {
		return fmt.Errorf("store: seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	base := time.Now().UTC().Add(-30 * 24 * time.Hour)
	customers := []*protocol.Customer{
		{ID: 101, Name: "Alice Johnson", Email: "alice@example.com", Phone: "+1-555-0101", Status: "active", CreatedAt: base},
		{ID: 102, Name: "Bob Martinez", Email: "bob@example.com", Phone: "+1-555-0102", Status: "active", CreatedAt: base.Add(24 * time.Hour)},
		{ID: 103, Name: "Carol Nguyen", Email: "carol@example.com", Phone: "+1-555-0103", Status: "disabled", CreatedAt: base.Add(48 * time.Hour)},
		{ID: 12345, Name: "Pat Premium", Email: "pat@example.com", Phone: "+1-555-0199", Status: "active", CreatedAt: base.Add(72 * time.Hour)},
	}
	for _, c := range customers {
		if _, err := s.InsertCustomer(c); err != nil {
			return err
		}
	}

	tickets := []*protocol.Ticket{
		{CustomerID: 101, Issue: "Cannot log in after password reset", Status: "open", Priority: "medium", CreatedAt: base.Add(5 * 24 * time.Hour)},
		{CustomerID: 101, Issue: "Double charge on last invoice", Status: "open", Priority: "high", CreatedAt: base.Add(6 * 24 * time.Hour)},
		{CustomerID: 102, Issue: "App crashes on startup", Status: "resolved", Priority: "high", CreatedAt: base.Add(7 * 24 * time.Hour)},
		{CustomerID: 102, Issue: "Question about payment methods", Status: "open", Priority: "low", CreatedAt: base.Add(8 * 24 * time.Hour)},
		{CustomerID: 12345, Issue: "Billing statement missing line items", Status: "open", Priority: "high", CreatedAt: base.Add(9 * 24 * time.Hour)},
	}
	for _, t := range tickets {
		if _, err := s.InsertTicket(t); err != nil {
			return err
		}
	}
	return nil
}
