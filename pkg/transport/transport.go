// Package transport owns the byte stream to the VPP CLI Unix socket.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"
)

// DefaultSocket is where VPP listens for CLI sessions by default.
const DefaultSocket = "/run/vpp/cli.sock"

// DefaultTimeout bounds a single dial attempt when none is configured.
const DefaultTimeout = 5 * time.Second

// ErrClosed is returned by Read and Write after Close.
var ErrClosed = errors.New("transport closed")

// Transport is a connected CLI stream. Reads block until bytes arrive and
// return io.EOF once the peer has closed its end. Writes send every byte or
// fail.
type Transport struct {
	conn net.Conn
	path string

	mu     sync.Mutex
	closed bool
}

// Dial connects to the Unix stream socket at path. timeout <= 0 means
// DefaultTimeout; ctx cancellation aborts the attempt early.
func Dial(ctx context.Context, path string, timeout time.Duration) (*Transport, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("dial: empty socket path")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", path, err)
	}
	return &Transport{conn: conn, path: path}, nil
}

// Path returns the socket path this transport is connected to.
func (t *Transport) Path() string { return t.path }

// Read reads the next available bytes from the peer.
func (t *Transport) Read(p []byte) (int, error) {
	if t.isClosed() {
		return 0, ErrClosed
	}
	n, err := t.conn.Read(p)
	if err != nil && t.isClosed() {
		return n, ErrClosed
	}
	return n, err
}

// Write writes all of p, looping over short writes.
func (t *Transport) Write(p []byte) (int, error) {
	if t.isClosed() {
		return 0, ErrClosed
	}
	written := 0
	for written < len(p) {
		n, err := t.conn.Write(p[written:])
		written += n
		if err != nil {
			return written, fmt.Errorf("write %s: %w", t.path, err)
		}
		if n == 0 {
			return written, fmt.Errorf("write %s: %w", t.path, io.ErrShortWrite)
		}
	}
	return written, nil
}

// SetReadDeadline bounds pending and future reads; the zero time clears it.
func (t *Transport) SetReadDeadline(deadline time.Time) error {
	return t.conn.SetReadDeadline(deadline)
}

// Close releases the socket. It is safe to call more than once.
func (t *Transport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()
	return t.conn.Close()
}

func (t *Transport) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}
