package transport

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipeConn(t *testing.T) (*Conn, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	return NewConn(server, 0, time.Second), client
}

func TestReadLineSplitAcrossWrites(t *testing.T) {
	conn, client := pipeConn(t)

	go func() {
		_, _ = client.Write([]byte(`{"type":"LIS`))
		time.Sleep(20 * time.Millisecond)
		_, _ = client.Write([]byte("T_ROOMS\"}\n"))
	}()

	line, err := conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, `{"type":"LIST_ROOMS"}`, string(line))
}

func TestReadLineMultipleMessagesPerWrite(t *testing.T) {
	conn, client := pipeConn(t)

	go func() {
		_, _ = client.Write([]byte("{\"a\":1}\n{\"b\":2}\r\n{\"c\":3}\n"))
	}()

	for _, want := range []string{`{"a":1}`, `{"b":2}`, `{"c":3}`} {
		line, err := conn.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, want, string(line))
	}
}

func TestReadLineStripsCarriageReturn(t *testing.T) {
	conn, client := pipeConn(t)

	go func() {
		_, _ = client.Write([]byte("hello\r\n"))
	}()

	line, err := conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(line))
}

func TestReadLinePeerClose(t *testing.T) {
	conn, client := pipeConn(t)
	go client.Close()

	_, err := conn.ReadLine()
	assert.Error(t, err)
}

func TestWriteMessageAppendsNewline(t *testing.T) {
	conn, client := pipeConn(t)

	type payload struct {
		Type string `json:"type"`
		Msg  string `json:"msg"`
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		require.NoError(t, conn.WriteMessage(payload{Type: "STATUS", Msg: "hi"}))
	}()

	buf := make([]byte, 256)
	_ = client.SetReadDeadline(time.Now().Add(time.Second))
	n, err := client.Read(buf)
	require.NoError(t, err)
	<-done

	data := buf[:n]
	require.Equal(t, byte('\n'), data[len(data)-1])

	var got payload
	require.NoError(t, json.Unmarshal(data[:len(data)-1], &got))
	assert.Equal(t, payload{Type: "STATUS", Msg: "hi"}, got)
}

func TestWriteMessageUnmarshalableValue(t *testing.T) {
	conn, _ := pipeConn(t)
	assert.Error(t, conn.WriteMessage(make(chan int)))
}
