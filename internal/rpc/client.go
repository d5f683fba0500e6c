package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"
)

// ErrChannelTerminated reports that the response stream ended before a
// matching response arrived. It is fatal to the call and never retried here;
// retry policy belongs to the caller.
var ErrChannelTerminated = errors.New("rpc client: channel terminated")

// closeGracePeriod is how long Close waits for a spawned server process to
// exit after its stdin is closed before killing it.
const closeGracePeriod = 2 * time.Second

// Client is the caller-side half of the transport. It mints fresh correlation
// identifiers under a lock, issues one request per Call, and blocks reading
// response lines until the line bearing the matching identifier arrives.
// Responses for other identifiers and malformed lines are discarded, so
// interleaved delivery on a shared stream is handled even though the default
// usage pattern is one outstanding call at a time.
type Client struct {
	mu     sync.Mutex // serializes identifier minting and the write/read exchange
	nextID int64
	writer io.WriteCloser
	reader *bufio.Reader
	cmd    *exec.Cmd // nil unless this client spawned the server process

	closeOnce sync.Once
	closeErr  error
}

// NewPipeClient creates a client over an existing byte channel, e.g. an
// io.Pipe pair or a socket. The client takes ownership of w and closes it on
// Close.
func NewPipeClient(r io.Reader, w io.WriteCloser) *Client {
	return &Client{
		writer: w,
		reader: bufio.NewReader(r),
	}
}

// NewProcessClient spawns a server process and connects to its stdin/stdout.
func NewProcessClient(ctx context.Context, command string, args ...string) (*Client, error) {
	cmd := exec.CommandContext(ctx, command, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("rpc client: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return nil, fmt.Errorf("rpc client: stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		return nil, fmt.Errorf("rpc client: start %q: %w", command, err)
	}

	return &Client{
		writer: stdin,
		reader: bufio.NewReader(stdout),
		cmd:    cmd,
	}, nil
}

// Call issues one request and blocks until the matching response arrives.
// A protocol-level error response comes back as *Error; a dead channel comes
// back as ErrChannelTerminated. Domain failures are inside the result value.
func (c *Client) Call(ctx context.Context, method string, params map[string]any) (json.RawMessage, error) {
	// One lock covers identifier minting and the write/read exchange: line
	// delivery on the channel is synchronous, so concurrent callers take
	// strict turns.
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	reqID := c.nextID

	req := Request{
		JSONRPC: Version,
		ID:      reqID,
		Method:  method,
		Params:  params,
	}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("rpc client: marshal request: %w", err)
	}
	if _, err := c.writer.Write(append(data, '\n')); err != nil {
		return nil, fmt.Errorf("rpc client: write: %w", err)
	}

	// Read lines until the response with our identifier shows up.
	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		line, err := c.reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				return nil, ErrChannelTerminated
			}
			return nil, fmt.Errorf("rpc client: read: %w", err)
		}

		var resp struct {
			ID     any             `json:"id"`
			Result json.RawMessage `json:"result"`
			Error  *Error          `json:"error"`
		}
		if err := json.Unmarshal(line, &resp); err != nil {
			continue // not a response line
		}
		if !idMatches(resp.ID, reqID) {
			continue // response for another in-flight call
		}
		if resp.Error != nil {
			return nil, resp.Error
		}
		return resp.Result, nil
	}
}

// Close tears down the channel. For a spawned process it closes stdin to
// request graceful termination and kills the process if it does not exit
// within the grace period.
//
// Close deliberately does not take c.mu: a Call blocked in its response read
// holds that mutex, and Close must still be able to end the channel so the
// read terminates with EOF and the call fails with ErrChannelTerminated.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		werr := c.writer.Close()
		if c.cmd == nil {
			c.closeErr = werr
			return
		}

		done := make(chan error, 1)
		go func() { done <- c.cmd.Wait() }()

		select {
		case err := <-done:
			c.closeErr = err
		case <-time.After(closeGracePeriod):
			c.cmd.Process.Kill()
			c.closeErr = <-done
		}
	})
	return c.closeErr
}

// idMatches compares a decoded response identifier with the minted request
// identifier. JSON decoding yields float64 for numbers.
func idMatches(got any, want int64) bool {
	switch v := got.(type) {
	case float64:
		return v == float64(want)
	case int64:
		return v == want
	case json.Number:
		n, err := v.Int64()
		return err == nil && n == want
	default:
		return false
	}
}
