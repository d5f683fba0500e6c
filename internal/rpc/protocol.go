// Package rpc implements the JSON-RPC 2.0 surface over which the query
// catalog is exposed: a line-oriented server loop for pipe/stdio channels, an
// equivalent HTTP POST handler, and the caller-side client.
package rpc

import "fmt"

// Version is the protocol marker carried by every request and response.
const Version = "2.0"

// JSON-RPC error codes used by the dispatcher.
const (
	// CodeMethodNotFound is returned for unknown method names.
	CodeMethodNotFound = -32601
	// CodeServerError is returned when dispatch of a known method faults
	// (missing or ill-typed parameters).
	CodeServerError = -32000
)

// Request is one incoming call. The ID is any JSON scalar, opaque to the
// transport; it is echoed back on the response.
type Request struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      any            `json:"id"`
	Method  string         `json:"method"`
	Params  map[string]any `json:"params,omitempty"`
}

// Response is one outgoing reply. Exactly one of Result and Error is set.
type Response struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id"`
	Result  any    `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

// Error is a JSON-RPC error object. It implements error so the client can
// return it directly.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}
