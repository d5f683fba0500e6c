package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/deskhive-io/deskhive/internal/catalog"
	"github.com/deskhive-io/deskhive/internal/logbuf"
)

// LogQuerier abstracts log entry querying to avoid coupling to logbuf directly.
type LogQuerier interface {
	Query(since time.Time, minLevel slog.Level, limit int) []logbuf.Entry
}

// HTTPConfig holds the HTTP listener settings.
type HTTPConfig struct {
	Host string
	Port int
}

// HTTPServer exposes the same dispatch as the line-oriented server over
// HTTP: one JSON-RPC request per POST /rpc body, one response per reply.
type HTTPServer struct {
	reg    *catalog.Registry
	logger *slog.Logger
	logs   LogQuerier
	srv    *http.Server
}

// NewHTTPServer creates the HTTP surface. logs may be nil.
func NewHTTPServer(reg *catalog.Registry, cfg HTTPConfig, logger *slog.Logger, logs LogQuerier) *HTTPServer {
	if logger == nil {
		logger = slog.Default()
	}
	s := &HTTPServer{
		reg:    reg,
		logger: logger,
		logs:   logs,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /rpc", s.handleRPC)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/logs", s.handleGetLogs)

	s.srv = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start begins listening. Blocks until context is cancelled.
func (s *HTTPServer) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.srv.Shutdown(shutCtx)
	}()

	s.logger.Info("rpc http server starting", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("rpc http server: %w", err)
	}
	return nil
}

// Handler returns the underlying http.Handler for testing.
func (s *HTTPServer) Handler() http.Handler {
	return s.srv.Handler
}

// --- Handlers ---

func (s *HTTPServer) handleRPC(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.NewString()

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Unlike the pipe transport there is a reply channel here, so a
		// malformed body gets a 400 instead of silence.
		s.logger.Debug("rpc http: malformed request body", "request_id", reqID, "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed JSON-RPC request"})
		return
	}

	s.logger.Debug("rpc http: dispatch", "request_id", reqID, "method", req.Method)
	resp := Dispatch(r.Context(), s.reg, &req)
	writeJSON(w, http.StatusOK, resp)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleGetLogs(w http.ResponseWriter, r *http.Request) {
	if s.logs == nil {
		writeJSON(w, http.StatusOK, []logbuf.Entry{})
		return
	}

	limit := 200
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	minLevel := slog.LevelDebug
	if lv := r.URL.Query().Get("level"); lv != "" {
		var parsed slog.Level
		if err := parsed.UnmarshalText([]byte(lv)); err == nil {
			minLevel = parsed
		}
	}

	writeJSON(w, http.StatusOK, s.logs.Query(time.Time{}, minLevel, limit))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// --- HTTP client ---

// HTTPClient issues JSON-RPC calls by POSTing to a server's /rpc endpoint.
// It carries the same correlation discipline as the pipe client even though
// HTTP already pairs request and response.
type HTTPClient struct {
	url    string
	client *http.Client

	muID   sync.Mutex
	nextID int64
}

// NewHTTPClient creates a client for the given /rpc endpoint URL.
func NewHTTPClient(url string) *HTTPClient {
	return &HTTPClient{
		url:    url,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// Call issues one request and returns the raw result, or the server's *Error.
func (c *HTTPClient) Call(ctx context.Context, method string, params map[string]any) (json.RawMessage, error) {
	c.muID.Lock()
	c.nextID++
	reqID := c.nextID
	c.muID.Unlock()

	body, err := json.Marshal(Request{
		JSONRPC: Version,
		ID:      reqID,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("rpc http client: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("rpc http client: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("rpc http client: request: %w", err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("rpc http client: read response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rpc http client: status %d: %s", httpResp.StatusCode, data)
	}

	var resp struct {
		ID     any             `json:"id"`
		Result json.RawMessage `json:"result"`
		Error  *Error          `json:"error"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("rpc http client: unmarshal response: %w", err)
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.Result, nil
}
