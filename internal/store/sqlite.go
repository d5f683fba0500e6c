package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/deskhive-io/deskhive/pkg/protocol"
)

// timeFormat is the TEXT encoding for timestamp columns. RFC3339Nano keeps
// sub-second precision so ORDER BY created_at stays stable for rows created
// in the same second.
const timeFormat = time.RFC3339Nano

// updatableFields are the customer columns UpdateCustomer will touch.
// Order matters only for deterministic SQL generation.
var updatableFields = []string{"name", "email", "phone", "status"}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database and runs migrations. The parent
// directory is created if needed.
func Open(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}

	// Enable WAL mode for better concurrent reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: wal: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS customers (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL,
			phone      TEXT NOT NULL DEFAULT '',
			status     TEXT NOT NULL DEFAULT 'active',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS tickets (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			customer_id INTEGER NOT NULL,
			issue       TEXT NOT NULL,
			status      TEXT NOT NULL DEFAULT 'open',
			priority    TEXT NOT NULL DEFAULT 'medium',
			created_at  TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_tickets_customer ON tickets(customer_id);
		CREATE INDEX IF NOT EXISTS idx_tickets_status ON tickets(status);
		CREATE INDEX IF NOT EXISTS idx_customers_status ON customers(status);
	`)
	if err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping() error {
	if err := s.db.Ping(); err != nil {
		return fmt.Errorf("store: ping: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection (for testing or direct access).
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

const customerColumns = "id, name, email, phone, status, created_at, updated_at"
const ticketColumns = "id, customer_id, issue, status, priority, created_at"

func (s *SQLiteStore) GetCustomer(id int64) (*protocol.Customer, error) {
	row := s.db.QueryRow(`SELECT `+customerColumns+` FROM customers WHERE id = ?`, id)
	c, err := scanCustomer(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("store: get customer: %w", err)
	}
	return c, nil
}

func (s *SQLiteStore) ListCustomers(status string, limit int) ([]*protocol.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list customers: %w", err)
	}
	return collectCustomers(rows, "list customers")
}

func (s *SQLiteStore) ListActiveCustomers(limit int) ([]*protocol.Customer, error) {
	return s.ListCustomers(protocol.CustomerActive, limit)
}

func (s *SQLiteStore) ListPremiumCustomers(limit int) ([]*protocol.Customer, error) {
	// instr() is case-sensitive, unlike LIKE. Premium detection is a
	// placeholder for a real tier column; it matches the seeded names.
	rows, err := s.db.Query(`
		SELECT `+customerColumns+` FROM customers
		WHERE instr(name, 'Premium') > 0
		ORDER BY id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list premium customers: %w", err)
	}
	return collectCustomers(rows, "list premium customers")
}

func (s *SQLiteStore) UpdateCustomer(id int64, fields map[string]any) (*protocol.Customer, error) {
	var setClauses []string
	var args []any
	for _, f := range updatableFields {
		if v, ok := fields[f]; ok {
			setClauses = append(setClauses, f+" = ?")
			args = append(args, v)
		}
	}
	if len(setClauses) == 0 {
		return s.GetCustomer(id)
	}

	args = append(args, time.Now().UTC().Format(timeFormat), id)
	query := `UPDATE customers SET ` + strings.Join(setClauses, ", ") + `, updated_at = ? WHERE id = ?`
	if _, err := s.db.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("store: update customer: %w", err)
	}
	return s.GetCustomer(id)
}

func (s *SQLiteStore) CreateTicket(customerID int64, issue, priority, status string) (*protocol.Ticket, error) {
	now := time.Now().UTC().Format(timeFormat)
	res, err := s.db.Exec(`
		INSERT INTO tickets (customer_id, issue, status, priority, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		customerID, issue, status, priority, now)
	if err != nil {
		return nil, fmt.Errorf("store: create ticket: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("store: create ticket: last insert id: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+ticketColumns+` FROM tickets WHERE id = ?`, id)
	t, err := scanTicket(row)
	if err != nil {
		return nil, fmt.Errorf("store: create ticket: read back: %w", err)
	}
	return t, nil
}

func (s *SQLiteStore) CustomerHistory(customerID int64) ([]*protocol.Ticket, error) {
	rows, err := s.db.Query(`
		SELECT `+ticketColumns+` FROM tickets
		WHERE customer_id = ?
		ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, fmt.Errorf("store: customer history: %w", err)
	}
	return collectTickets(rows, "customer history")
}

func (s *SQLiteStore) ListOpenTickets() ([]*protocol.Ticket, error) {
	// Priority ordering is lexical on the text column ("medium" sorts before
	// "low" descending); preserved as-is pending a real severity rank.
	rows, err := s.db.Query(`
		SELECT ` + ticketColumns + ` FROM tickets
		WHERE status != 'resolved'
		ORDER BY priority DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list open tickets: %w", err)
	}
	return collectTickets(rows, "list open tickets")
}

func (s *SQLiteStore) OpenTicketsForCustomer(customerID int64) ([]*protocol.Ticket, error) {
	rows, err := s.db.Query(`
		SELECT `+ticketColumns+` FROM tickets
		WHERE customer_id = ?
		  AND status != 'resolved'
		ORDER BY priority DESC, created_at DESC`, customerID)
	if err != nil {
		return nil, fmt.Errorf("store: open tickets for customer: %w", err)
	}
	return collectTickets(rows, "open tickets for customer")
}

func (s *SQLiteStore) HighPriorityTicketsForCustomers(customerIDs []int64) ([]*protocol.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets
		WHERE status != 'resolved'
		  AND priority = 'high'`
	var args []any
	if len(customerIDs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(customerIDs)), ", ")
		query += ` AND customer_id IN (` + placeholders + `)`
		for _, id := range customerIDs {
			args = append(args, id)
		}
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: high priority tickets: %w", err)
	}
	return collectTickets(rows, "high priority tickets")
}

// billingKeywords approximate a billing subsystem that does not exist:
// a ticket is billing-related when its issue text mentions any of these.
var billingKeywords = []string{"billing", "charge", "payment", "invoice"}

func (s *SQLiteStore) BillingTicketsForCustomer(customerID int64) ([]*protocol.Ticket, error) {
	conditions := make([]string, len(billingKeywords))
	args := []any{customerID}
	for i, kw := range billingKeywords {
		conditions[i] = "instr(lower(issue), ?) > 0"
		args = append(args, kw)
	}

	rows, err := s.db.Query(`
		SELECT `+ticketColumns+` FROM tickets
		WHERE customer_id = ?
		  AND (`+strings.Join(conditions, " OR ")+`)
		ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("store: billing tickets: %w", err)
	}
	return collectTickets(rows, "billing tickets")
}

func (s *SQLiteStore) ActiveCustomersWithOpenTickets() ([]*protocol.Customer, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT c.id, c.name, c.email, c.phone, c.status, c.created_at, c.updated_at
		FROM customers c
		JOIN tickets t ON t.customer_id = c.id
		WHERE c.status = 'active'
		  AND t.status != 'resolved'
		ORDER BY c.id`)
	if err != nil {
		return nil, fmt.Errorf("store: active customers with open tickets: %w", err)
	}
	return collectCustomers(rows, "active customers with open tickets")
}

// --- helpers ---

type scannable interface {
	Scan(dest ...any) error
}

func scanCustomer(row scannable) (*protocol.Customer, error) {
	var c protocol.Customer
	var createdAt, updatedAt string
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	c.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	c.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)
	return &c, nil
}

func scanTicket(row scannable) (*protocol.Ticket, error) {
	var t protocol.Ticket
	var createdAt string
	if err := row.Scan(&t.ID, &t.CustomerID, &t.Issue, &t.Status, &t.Priority, &createdAt); err != nil {
		return nil, err
	}
	t.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	return &t, nil
}

func collectCustomers(rows *sql.Rows, op string) ([]*protocol.Customer, error) {
	defer rows.Close()
	customers := []*protocol.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("store: %s: scan: %w", op, err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: %s: %w", op, err)
	}
	return customers, nil
}

func collectTickets(rows *sql.Rows, op string) ([]*protocol.Ticket, error) {
	defer rows.Close()
	tickets := []*protocol.Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("store: %s: scan: %w", op, err)
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: %s: %w", op, err)
	}
	return tickets, nil
}
