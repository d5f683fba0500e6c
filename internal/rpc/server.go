package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/deskhive-io/deskhive/internal/catalog"
)

// Server reads one request per line from an input stream, dispatches to the
// catalog registry, and writes exactly one response line per request. It is
// stateless per request and strictly sequential: a request is fully answered
// before the next line is read.
type Server struct {
	reader *bufio.Reader
	writer io.Writer
	reg    *catalog.Registry
	log    *slog.Logger
}

// NewServer creates a server over the given byte streams. logger may be nil.
func NewServer(r io.Reader, w io.Writer, reg *catalog.Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		reader: bufio.NewReader(r),
		writer: w,
		reg:    reg,
		log:    logger,
	}
}

// Run processes requests until the input stream is closed or the context is
// cancelled. EOF is a normal shutdown, not an error.
func (s *Server) Run(ctx context.Context) error {
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("rpc server: read: %w", err)
		}

		if trimmed := strings.TrimSpace(line); trimmed != "" {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if werr := s.handleLine(ctx, trimmed); werr != nil {
				return werr
			}
		}

		if err == io.EOF {
			s.log.Info("rpc server: input closed, shutting down")
			return nil
		}
	}
}

func (s *Server) handleLine(ctx context.Context, line string) error {
	var req Request
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		// No correlation identifier to reply to; drop the line.
		s.log.Debug("rpc server: skipping malformed line", "error", err)
		return nil
	}

	resp := Dispatch(ctx, s.reg, &req)
	return s.writeResponse(resp)
}

func (s *Server) writeResponse(resp *Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("rpc server: marshal response: %w", err)
	}
	if _, err := s.writer.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("rpc server: write: %w", err)
	}
	return nil
}

// Dispatch resolves and invokes one request against the registry. Storage
// faults never reach this layer (the catalog converts them into
// success=false results); errors here are protocol-level: an unknown method
// or a parameter-binding fault.
func Dispatch(ctx context.Context, reg *catalog.Registry, req *Request) *Response {
	op, ok := reg.Get(req.Method)
	if !ok {
		return &Response{
			JSONRPC: Version,
			ID:      req.ID,
			Error:   &Error{Code: CodeMethodNotFound, Message: "Method not found"},
		}
	}

	result, err := op.Call(ctx, catalog.Params(req.Params))
	if err != nil {
		return &Response{
			JSONRPC: Version,
			ID:      req.ID,
			Error:   &Error{Code: CodeServerError, Message: err.Error()},
		}
	}

	return &Response{JSONRPC: Version, ID: req.ID, Result: result}
}
