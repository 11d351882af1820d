// Package transport provides the TCP listener and newline-delimited JSON
// message framing for client connections.
package transport

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net"
	"sync"
	"time"
)

// Conn wraps a TCP connection with line-based message framing. Reads
// buffer partial lines, so messages split across TCP segments or packed
// several to a segment are reassembled correctly. Writes are serialized by
// a mutex so concurrent broadcasts never interleave bytes.
type Conn struct {
	raw    net.Conn
	reader *bufio.Reader
	mu     sync.Mutex

	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewConn wraps a raw TCP connection with message framing.
//
// Precondition: raw must be a valid, open network connection. Zero
// timeouts disable the corresponding deadline.
// Postcondition: Returns a Conn ready for reading and writing.
func NewConn(raw net.Conn, readTimeout, writeTimeout time.Duration) *Conn {
	return &Conn{
		raw:          raw,
		reader:       bufio.NewReaderSize(raw, 4096),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// ReadLine reads the next newline-terminated message. The returned bytes
// exclude the trailing \n and any \r before it.
//
// Postcondition: Returns the next line, or an error (including io.EOF when
// the peer closed the connection).
func (c *Conn) ReadLine() ([]byte, error) {
	if c.readTimeout > 0 {
		_ = c.raw.SetReadDeadline(time.Now().Add(c.readTimeout))
	} else {
		_ = c.raw.SetReadDeadline(time.Time{})
	}

	line, err := c.reader.ReadBytes('\n')
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(line, "\r\n"), nil
}

// WriteMessage serializes v as JSON and sends it as one newline-terminated
// line.
//
// Postcondition: The encoded message plus \n is written to the connection,
// or an error is returned.
func (c *Conn) WriteMessage(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.writeTimeout > 0 {
		_ = c.raw.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	_, err = c.raw.Write(append(data, '\n'))
	return err
}

// Close closes the underlying TCP connection.
//
// Postcondition: The connection is closed and no longer usable.
func (c *Conn) Close() error {
	return c.raw.Close()
}

// RemoteAddr returns the remote network address of the client.
func (c *Conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}
