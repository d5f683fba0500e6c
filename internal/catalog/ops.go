package catalog

import "context"

// op binds a method name and JSON schema to a catalog call. Parameter binding
// errors surface as errors (the transport turns them into RPC errors); domain
// failures come back inside the Result envelope.
type op struct {
	name        string
	description string
	parameters  map[string]any
	call        func(ctx context.Context, params Params) (any, error)
}

func (o *op) Name() string               { return o.name }
func (o *op) Description() string        { return o.description }
func (o *op) Parameters() map[string]any { return o.parameters }
func (o *op) Call(ctx context.Context, params Params) (any, error) {
	return o.call(ctx, params)
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func intProp(description string) map[string]any {
	return map[string]any{"type": "integer", "description": description}
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

// RegisterAll registers every catalog operation (and the
// customer_ticket_history alias) in the given registry.
func RegisterAll(r *Registry, c *Catalog) {
	r.Register(&op{
		name:        "health_check",
		description: "Verify that the customer database is reachable",
		parameters:  objectSchema(map[string]any{}),
		call: func(ctx context.Context, params Params) (any, error) {
			return c.HealthCheck(), nil
		},
	})

	r.Register(&op{
		name:        "get_customer",
		description: "Fetch a single customer by ID",
		parameters: objectSchema(map[string]any{
			"customer_id": intProp("Customer ID"),
		}, "customer_id"),
		call: func(ctx context.Context, params Params) (any, error) {
			id, err := params.Int64("customer_id")
			if err != nil {
				return nil, err
			}
			return c.GetCustomer(id), nil
		},
	})

	r.Register(&op{
		name:        "list_customers",
		description: "List customers newest first, optionally filtered by status",
		parameters: objectSchema(map[string]any{
			"status": stringProp("Optional status filter, e.g. 'active'"),
			"limit":  intProp("Maximum number of customers to return"),
		}),
		call: func(ctx context.Context, params Params) (any, error) {
			status, err := params.OptString("status", "")
			if err != nil {
				return nil, err
			}
			limit, err := params.OptInt("limit", defaultListLimit)
			if err != nil {
				return nil, err
			}
			return c.ListCustomers(status, limit), nil
		},
	})

	r.Register(&op{
		name:        "list_active_customers",
		description: "List all active customers",
		parameters:  objectSchema(map[string]any{}),
		call: func(ctx context.Context, params Params) (any, error) {
			limit, err := params.OptInt("limit", defaultWideListLimit)
			if err != nil {
				return nil, err
			}
			return c.ListActiveCustomers(limit), nil
		},
	})

	r.Register(&op{
		name:        "list_premium_customers",
		description: "List premium-tier customers",
		parameters:  objectSchema(map[string]any{}),
		call: func(ctx context.Context, params Params) (any, error) {
			limit, err := params.OptInt("limit", defaultWideListLimit)
			if err != nil {
				return nil, err
			}
			return c.ListPremiumCustomers(limit), nil
		},
	})

	r.Register(&op{
		name:        "update_customer",
		description: "Update basic customer fields (name, email, phone, status)",
		parameters: objectSchema(map[string]any{
			"customer_id": intProp("Customer ID"),
			"data":        map[string]any{"type": "object", "description": "Fields to update"},
		}, "customer_id", "data"),
		call: func(ctx context.Context, params Params) (any, error) {
			id, err := params.Int64("customer_id")
			if err != nil {
				return nil, err
			}
			data, err := params.Map("data")
			if err != nil {
				return nil, err
			}
			return c.UpdateCustomer(id, data), nil
		},
	})

	r.Register(&op{
		name:        "update_customer_email",
		description: "Update only the email address of a customer",
		parameters: objectSchema(map[string]any{
			"customer_id": intProp("Customer ID"),
			"new_email":   stringProp("New email address"),
		}, "customer_id", "new_email"),
		call: func(ctx context.Context, params Params) (any, error) {
			id, err := params.Int64("customer_id")
			if err != nil {
				return nil, err
			}
			email, err := params.String("new_email")
			if err != nil {
				return nil, err
			}
			return c.UpdateCustomerEmail(id, email), nil
		},
	})

	r.Register(&op{
		name:        "create_ticket",
		description: "Create a new support ticket for a customer",
		parameters: objectSchema(map[string]any{
			"customer_id": intProp("Customer ID the ticket belongs to"),
			"issue":       stringProp("Issue description"),
			"priority":    stringProp("Ticket priority (low, medium, high); defaults to medium"),
			"status":      stringProp("Initial status; defaults to open"),
		}, "customer_id", "issue"),
		call: func(ctx context.Context, params Params) (any, error) {
			id, err := params.Int64("customer_id")
			if err != nil {
				return nil, err
			}
			issue, err := params.String("issue")
			if err != nil {
				return nil, err
			}
			priority, err := params.OptString("priority", "medium")
			if err != nil {
				return nil, err
			}
			status, err := params.OptString("status", "open")
			if err != nil {
				return nil, err
			}
			return c.CreateTicket(id, issue, priority, status), nil
		},
	})

	r.Register(&op{
		name:        "get_customer_history",
		description: "Return the full ticket history for a customer, newest first",
		parameters: objectSchema(map[string]any{
			"customer_id": intProp("Customer ID"),
		}, "customer_id"),
		call: func(ctx context.Context, params Params) (any, error) {
			id, err := params.Int64("customer_id")
			if err != nil {
				return nil, err
			}
			return c.CustomerHistory(id), nil
		},
	})

	r.Register(&op{
		name:        "list_open_tickets",
		description: "List all non-resolved tickets ordered by priority and recency",
		parameters:  objectSchema(map[string]any{}),
		call: func(ctx context.Context, params Params) (any, error) {
			return c.ListOpenTickets(), nil
		},
	})

	r.Register(&op{
		name:        "open_tickets_for_customer",
		description: "List all non-resolved tickets for one customer",
		parameters: objectSchema(map[string]any{
			"customer_id": intProp("Customer ID"),
		}, "customer_id"),
		call: func(ctx context.Context, params Params) (any, error) {
			id, err := params.Int64("customer_id")
			if err != nil {
				return nil, err
			}
			return c.OpenTicketsForCustomer(id), nil
		},
	})

	r.Register(&op{
		name:        "high_priority_tickets_for_customers",
		description: "List high-priority non-resolved tickets, optionally restricted to a set of customers",
		parameters: objectSchema(map[string]any{
			"customer_ids": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "integer"},
				"description": "Customer IDs to restrict to; omit for all customers",
			},
		}),
		call: func(ctx context.Context, params Params) (any, error) {
			ids, err := params.OptInt64Slice("customer_ids")
			if err != nil {
				return nil, err
			}
			return c.HighPriorityTicketsForCustomers(ids), nil
		},
	})

	r.Register(&op{
		name:        "billing_context_for_customer",
		description: "Return billing-related tickets for a customer",
		parameters: objectSchema(map[string]any{
			"customer_id": intProp("Customer ID"),
		}, "customer_id"),
		call: func(ctx context.Context, params Params) (any, error) {
			id, err := params.Int64("customer_id")
			if err != nil {
				return nil, err
			}
			return c.BillingContextForCustomer(id), nil
		},
	})

	r.Register(&op{
		name:        "list_active_customers_with_open_tickets",
		description: "List active customers who have at least one non-resolved ticket",
		parameters:  objectSchema(map[string]any{}),
		call: func(ctx context.Context, params Params) (any, error) {
			return c.ActiveCustomersWithOpenTickets(), nil
		},
	})

	// Some callers expect this name for get_customer_history.
	r.RegisterAlias("customer_ticket_history", "get_customer_history")
}
