// Package testutil provides test helpers for integration testing the
// gomoku server over real TCP connections.
package testutil

import (
	"bufio"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/JSW0303/Gomoku/internal/protocol"
)

// Client is a newline-delimited JSON test client.
type Client struct {
	conn   net.Conn
	reader *bufio.Reader
	t      *testing.T
}

// NewClient dials the given address and returns a test client.
//
// Precondition: addr must be a valid "host:port" string with a listening
// server.
// Postcondition: Returns a connected Client or fails the test.
func NewClient(t *testing.T, addr string) *Client {
	t.Helper()

	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		t.Fatalf("connecting to %s: %v", addr, err)
	}

	t.Cleanup(func() {
		conn.Close()
	})

	return &Client{
		conn:   conn,
		reader: bufio.NewReader(conn),
		t:      t,
	}
}

// Send encodes the request and writes it as one line.
//
// Postcondition: The encoded request plus \n is written, or the test fails.
func (c *Client) Send(req protocol.Request) {
	c.t.Helper()
	data, err := protocol.EncodeRequest(req)
	if err != nil {
		c.t.Fatalf("encoding %#v: %v", req, err)
	}
	c.SendRaw(string(data))
}

// SendRaw writes an arbitrary line, for exercising malformed input.
func (c *Client) SendRaw(line string) {
	c.t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if _, err := c.conn.Write([]byte(line + "\n")); err != nil {
		c.t.Fatalf("sending %q: %v", line, err)
	}
}

// ReadMessage reads and decodes the next server message within the timeout.
//
// Postcondition: Returns the decoded message as a map, or fails the test.
func (c *Client) ReadMessage(timeout time.Duration) map[string]any {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))

	line, err := c.reader.ReadBytes('\n')
	if err != nil {
		c.t.Fatalf("reading message: %v", err)
	}
	var msg map[string]any
	if err := json.Unmarshal(line, &msg); err != nil {
		c.t.Fatalf("decoding %q: %v", line, err)
	}
	return msg
}

// ReadUntilType reads messages, discarding them, until one of the given
// type arrives or the timeout elapses.
//
// Precondition: msgType must be non-empty.
// Postcondition: Returns the first matching message, or fails the test.
func (c *Client) ReadUntilType(msgType string, timeout time.Duration) map[string]any {
	c.t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			c.t.Fatalf("no %s message within %s", msgType, timeout)
		}
		msg := c.ReadMessage(remaining)
		if msg["type"] == msgType {
			return msg
		}
	}
}

// Close closes the underlying connection, simulating a disconnect.
func (c *Client) Close() {
	c.conn.Close()
}
