package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/deskhive-io/deskhive/pkg/protocol"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustInsertCustomer(t *testing.T, s *SQLiteStore, c *protocol.Customer) *protocol.Customer {
	t.Helper()
	stored, err := s.InsertCustomer(c)
	if err != nil {
		t.Fatalf("insert customer: %v", err)
	}
	return stored
}

func mustInsertTicket(t *testing.T, s *SQLiteStore, tk *protocol.Ticket) *protocol.Ticket {
	t.Helper()
	stored, err := s.InsertTicket(tk)
	if err != nil {
		t.Fatalf("insert ticket: %v", err)
	}
	return stored
}

func TestOpen_InMemory(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	defer s.Close()

	if err := s.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	mustInsertCustomer(t, s, &protocol.Customer{Name: "A", Email: "a@x.com", Status: "active"})
	got, err := s.GetCustomer(1)
	if err != nil || got == nil {
		t.Fatalf("expected migrated, usable store, got customer %v err %v", got, err)
	}
}

func TestGetCustomer(t *testing.T) {
	s := newTestStore(t)
	mustInsertCustomer(t, s, &protocol.Customer{ID: 5, Name: "A", Email: "a@x.com", Status: "active"})

	got, err := s.GetCustomer(5)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected customer, got nil")
	}
	if got.Name != "A" || got.Email != "a@x.com" || got.Status != "active" {
		t.Errorf("unexpected record: %+v", got)
	}
}

func TestGetCustomer_AbsenceIsNotAnError(t *testing.T) {
	s := newTestStore(t)
	got, err := s.GetCustomer(999)
	if err != nil {
		t.Fatalf("expected no error for missing customer, got %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing customer, got %+v", got)
	}
}

func TestListCustomers_FilterAndLimit(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mustInsertCustomer(t, s, &protocol.Customer{ID: 1, Name: "One", Email: "1@x.com", Status: "active", CreatedAt: base})
	mustInsertCustomer(t, s, &protocol.Customer{ID: 2, Name: "Two", Email: "2@x.com", Status: "active", CreatedAt: base.Add(time.Hour)})
	mustInsertCustomer(t, s, &protocol.Customer{ID: 3, Name: "Three", Email: "3@x.com", Status: "disabled", CreatedAt: base.Add(2 * time.Hour)})
	mustInsertCustomer(t, s, &protocol.Customer{ID: 4, Name: "Four", Email: "4@x.com", Status: "active", CreatedAt: base.Add(3 * time.Hour)})

	got, err := s.ListCustomers("active", 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(got))
	}
	for _, c := range got {
		if c.Status != "active" {
			t.Errorf("expected status active, got %q", c.Status)
		}
	}
	// Newest first
	if got[0].ID != 4 || got[1].ID != 2 {
		t.Errorf("expected ids [4 2], got [%d %d]", got[0].ID, got[1].ID)
	}
}

func TestListCustomers_NoFilter(t *testing.T) {
	s := newTestStore(t)
	mustInsertCustomer(t, s, &protocol.Customer{ID: 1, Name: "One", Email: "1@x.com", Status: "active"})
	mustInsertCustomer(t, s, &protocol.Customer{ID: 2, Name: "Two", Email: "2@x.com", Status: "disabled"})

	got, err := s.ListCustomers("", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 customers, got %d", len(got))
	}
}

func TestUpdateCustomer_Whitelist(t *testing.T) {
	s := newTestStore(t)
	mustInsertCustomer(t, s, &protocol.Customer{ID: 7, Name: "Old", Email: "old@x.com", Status: "active"})

	got, err := s.UpdateCustomer(7, map[string]any{
		"email": "new@x.com",
		"name":  "New",
		"id":    999,        // not whitelisted
		"tier":  "platinum", // unknown column
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Email != "new@x.com" || got.Name != "New" {
		t.Errorf("expected updated fields, got %+v", got)
	}
	if got.ID != 7 {
		t.Errorf("id must be immutable, got %d", got.ID)
	}
}

func TestUpdateCustomer_NoWhitelistedFields(t *testing.T) {
	s := newTestStore(t)
	orig := mustInsertCustomer(t, s, &protocol.Customer{ID: 8, Name: "Keep", Email: "keep@x.com", Status: "active"})

	got, err := s.UpdateCustomer(8, map[string]any{"tier": "gold"})
	if err != nil {
		t.Fatalf("update with no valid fields must not error: %v", err)
	}
	if got.Email != orig.Email || got.Name != orig.Name {
		t.Errorf("record must be unchanged, got %+v", got)
	}
	if !got.UpdatedAt.Equal(orig.UpdatedAt) {
		t.Errorf("updated_at must not be stamped when nothing changes")
	}
}

func TestUpdateCustomer_Missing(t *testing.T) {
	s := newTestStore(t)
	got, err := s.UpdateCustomer(404, map[string]any{"email": "x@x.com"})
	if err != nil {
		t.Fatalf("update of missing customer must not error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing customer, got %+v", got)
	}
}

func TestCreateTicket(t *testing.T) {
	s := newTestStore(t)

	tk, err := s.CreateTicket(42, "printer on fire", "high", "open")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tk.ID == 0 {
		t.Error("expected assigned id")
	}
	if tk.CustomerID != 42 || tk.Issue != "printer on fire" || tk.Priority != "high" || tk.Status != "open" {
		t.Errorf("unexpected ticket: %+v", tk)
	}
	if tk.CreatedAt.IsZero() {
		t.Error("expected stamped creation time")
	}
}

func TestCreateTicket_DoesNotValidateCustomer(t *testing.T) {
	s := newTestStore(t)
	// No customer rows exist at all; insert must still succeed.
	if _, err := s.CreateTicket(31337, "ghost customer", "low", "open"); err != nil {
		t.Fatalf("create for unknown customer must succeed: %v", err)
	}
}

func TestCustomerHistory_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	mustInsertTicket(t, s, &protocol.Ticket{CustomerID: 1, Issue: "first", Status: "resolved", Priority: "low", CreatedAt: base})
	mustInsertTicket(t, s, &protocol.Ticket{CustomerID: 1, Issue: "second", Status: "open", Priority: "high", CreatedAt: base.Add(time.Hour)})
	mustInsertTicket(t, s, &protocol.Ticket{CustomerID: 2, Issue: "other customer", Status: "open", Priority: "low", CreatedAt: base.Add(2 * time.Hour)})

	got, err := s.CustomerHistory(1)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 tickets, got %d", len(got))
	}
	if got[0].Issue != "second" || got[1].Issue != "first" {
		t.Errorf("expected newest first, got [%s %s]", got[0].Issue, got[1].Issue)
	}
}

func TestListOpenTickets_LexicalPriorityOrder(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mustInsertTicket(t, s, &protocol.Ticket{CustomerID: 1, Issue: "h", Status: "open", Priority: "high", CreatedAt: base})
	mustInsertTicket(t, s, &protocol.Ticket{CustomerID: 1, Issue: "l", Status: "open", Priority: "low", CreatedAt: base.Add(time.Minute)})
	mustInsertTicket(t, s, &protocol.Ticket{CustomerID: 1, Issue: "m", Status: "open", Priority: "medium", CreatedAt: base.Add(2 * time.Minute)})
	mustInsertTicket(t, s, &protocol.Ticket{CustomerID: 1, Issue: "gone", Status: "resolved", Priority: "high", CreatedAt: base.Add(3 * time.Minute)})

	got, err := s.ListOpenTickets()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 open tickets, got %d", len(got))
	}
	// Lexical DESC on the text column: "medium" > "low" > "high".
	want := []string{"medium", "low", "high"}
	for i, w := range want {
		if got[i].Priority != w {
			t.Errorf("position %d: expected priority %q, got %q", i, w, got[i].Priority)
		}
	}
}

func TestOpenTicketsForCustomer(t *testing.T) {
	s := newTestStore(t)
	mustInsertTicket(t, s, &protocol.Ticket{CustomerID: 1, Issue: "mine open", Status: "open", Priority: "low"})
	mustInsertTicket(t, s, &protocol.Ticket{CustomerID: 1, Issue: "mine resolved", Status: "resolved", Priority: "low"})
	mustInsertTicket(t, s, &protocol.Ticket{CustomerID: 2, Issue: "not mine", Status: "open", Priority: "low"})

	got, err := s.OpenTicketsForCustomer(1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Issue != "mine open" {
		t.Errorf("expected only the customer's open ticket, got %+v", got)
	}
}

func TestHighPriorityTicketsForCustomers(t *testing.T) {
	s := newTestStore(t)
	mustInsertTicket(t, s, &protocol.Ticket{CustomerID: 1, Issue: "a", Status: "open", Priority: "high"})
	mustInsertTicket(t, s, &protocol.Ticket{CustomerID: 2, Issue: "b", Status: "open", Priority: "high"})
	mustInsertTicket(t, s, &protocol.Ticket{CustomerID: 2, Issue: "c", Status: "resolved", Priority: "high"})
	mustInsertTicket(t, s, &protocol.Ticket{CustomerID: 3, Issue: "d", Status: "open", Priority: "medium"})

	got, err := s.HighPriorityTicketsForCustomers([]int64{2, 3})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Issue != "b" {
		t.Errorf("expected only customer 2's open high ticket, got %+v", got)
	}

	// Empty id set means no customer filter.
	all, err := s.HighPriorityTicketsForCustomers(nil)
	if err != nil {
		t.Fatalf("list unfiltered: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 unfiltered high tickets, got %d", len(all))
	}
}

func TestBillingTicketsForCustomer(t *testing.T) {
	s := newTestStore(t)
	mustInsertTicket(t, s, &protocol.Ticket{CustomerID: 5, Issue: "Double CHARGE this month", Status: "open", Priority: "high"})
	mustInsertTicket(t, s, &protocol.Ticket{CustomerID: 5, Issue: "Missing invoice copy", Status: "resolved", Priority: "low"})
	mustInsertTicket(t, s, &protocol.Ticket{CustomerID: 5, Issue: "App is slow", Status: "open", Priority: "medium"})
	mustInsertTicket(t, s, &protocol.Ticket{CustomerID: 6, Issue: "payment declined", Status: "open", Priority: "high"})

	got, err := s.BillingTicketsForCustomer(5)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 billing tickets, got %d", len(got))
	}
	for _, tk := range got {
		if tk.CustomerID != 5 {
			t.Errorf("wrong customer: %+v", tk)
		}
	}
}

func TestListPremiumCustomers_CaseSensitive(t *testing.T) {
	s := newTestStore(t)
	mustInsertCustomer(t, s, &protocol.Customer{ID: 12345, Name: "Pat Premium", Email: "p@x.com", Status: "active"})
	mustInsertCustomer(t, s, &protocol.Customer{ID: 2, Name: "premium pete", Email: "q@x.com", Status: "active"})
	mustInsertCustomer(t, s, &protocol.Customer{ID: 3, Name: "Regular Rita", Email: "r@x.com", Status: "active"})

	got, err := s.ListPremiumCustomers(100)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != 12345 {
		t.Errorf("expected only 'Pat Premium', got %+v", got)
	}
}

func TestActiveCustomersWithOpenTickets(t *testing.T) {
	s := newTestStore(t)
	mustInsertCustomer(t, s, &protocol.Customer{ID: 1, Name: "ActiveOpen", Email: "1@x.com", Status: "active"})
	mustInsertCustomer(t, s, &protocol.Customer{ID: 2, Name: "ActiveResolved", Email: "2@x.com", Status: "active"})
	mustInsertCustomer(t, s, &protocol.Customer{ID: 3, Name: "DisabledOpen", Email: "3@x.com", Status: "disabled"})
	mustInsertCustomer(t, s, &protocol.Customer{ID: 4, Name: "ActiveNoTickets", Email: "4@x.com", Status: "active"})

	// Two open tickets for customer 1: the join must still return it once.
	mustInsertTicket(t, s, &protocol.Ticket{CustomerID: 1, Issue: "a", Status: "open", Priority: "low"})
	mustInsertTicket(t, s, &protocol.Ticket{CustomerID: 1, Issue: "b", Status: "open", Priority: "high"})
	mustInsertTicket(t, s, &protocol.Ticket{CustomerID: 2, Issue: "c", Status: "resolved", Priority: "low"})
	mustInsertTicket(t, s, &protocol.Ticket{CustomerID: 3, Issue: "d", Status: "open", Priority: "low"})

	got, err := s.ActiveCustomersWithOpenTickets()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 customer (no duplicates), got %d", len(got))
	}
	if got[0].ID != 1 {
		t.Errorf("expected customer 1, got %d", got[0].ID)
	}
}

func TestSeed_Idempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.Seed(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	first, err := s.ListCustomers("", 1000)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(first) == 0 {
		t.Fatal("seed inserted no customers")
	}

	if err := s.Seed(); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	second, _ := s.ListCustomers("", 1000)
	if len(second) != len(first) {
		t.Errorf("seed must be idempotent: %d then %d customers", len(first), len(second))
	}

	premium, err := s.ListPremiumCustomers(100)
	if err != nil {
		t.Fatalf("premium: %v", err)
	}
	if len(premium) != 1 || premium[0].Name != "Pat Premium" {
		t.Errorf("expected seeded premium customer, got %+v", premium)
	}
}
