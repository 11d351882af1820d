package transport

import (
	"bufio"
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/JSW0303/Gomoku/internal/config"
)

// echoHandler is a test SessionHandler that echoes each line back as a
// STATUS message.
type echoHandler struct {
	sessionCount atomic.Int32
}

func (h *echoHandler) HandleSession(_ context.Context, conn *Conn) error {
	h.sessionCount.Add(1)
	for {
		line, err := conn.ReadLine()
		if err != nil {
			return err
		}
		if err := conn.WriteMessage(map[string]string{"echo": string(line)}); err != nil {
			return err
		}
	}
}

func startAcceptor(t *testing.T, handler SessionHandler) *Acceptor {
	t.Helper()
	cfg := config.ServerConfig{
		Host:         "127.0.0.1",
		Port:         0, // random port
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	acc := NewAcceptor(cfg, handler, zaptest.NewLogger(t))

	go func() {
		_ = acc.ListenAndServe()
	}()

	deadline := time.After(2 * time.Second)
	for {
		if acc.IsRunning() && acc.Addr() != "" {
			return acc
		}
		select {
		case <-deadline:
			t.Fatal("acceptor did not start in time")
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func TestAcceptorServesClients(t *testing.T) {
	handler := &echoHandler{}
	acc := startAcceptor(t, handler)
	defer acc.Stop()

	conn, err := net.DialTimeout("tcp", acc.Addr(), 2*time.Second)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("hello\n"))
	require.NoError(t, err)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, `"echo":"hello"`)
}

func TestAcceptorMultipleClients(t *testing.T) {
	handler := &echoHandler{}
	acc := startAcceptor(t, handler)
	defer acc.Stop()

	for i := 0; i < 3; i++ {
		conn, err := net.DialTimeout("tcp", acc.Addr(), 2*time.Second)
		require.NoError(t, err)

		_, err = conn.Write([]byte("ping\n"))
		require.NoError(t, err)

		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, err = bufio.NewReader(conn).ReadString('\n')
		require.NoError(t, err)
		conn.Close()
	}

	deadline := time.After(2 * time.Second)
	for handler.sessionCount.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected 3 sessions, got %d", handler.sessionCount.Load())
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func TestAcceptorStopClosesActiveSessions(t *testing.T) {
	handler := &echoHandler{}
	acc := startAcceptor(t, handler)

	// A client that never sends anything keeps its session blocked on read.
	conn, err := net.DialTimeout("tcp", acc.Addr(), 2*time.Second)
	require.NoError(t, err)
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		acc.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not terminate with an idle session open")
	}
	assert.False(t, acc.IsRunning())
}

func TestAcceptorStopIsIdempotent(t *testing.T) {
	acc := startAcceptor(t, &echoHandler{})
	acc.Stop()
	acc.Stop()
	assert.False(t, acc.IsRunning())
}
