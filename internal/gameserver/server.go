// Package gameserver implements the per-connection session protocol on top
// of the room registry: request dispatch, validation, and the fan-out
// broadcasts that keep every occupant's view of a room consistent.
package gameserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JSW0303/Gomoku/internal/game/room"
	"github.com/JSW0303/Gomoku/internal/protocol"
	"github.com/JSW0303/Gomoku/internal/transport"
)

// session is the per-connection state: the identity used as the registry
// key plus the room and role assigned by CREATE_ROOM/JOIN_ROOM. Neither is
// unset again until disconnect.
type session struct {
	id     string
	conn   *transport.Conn
	roomID int64
	role   room.Role
}

// Server dispatches client sessions into the room registry. It implements
// transport.SessionHandler; one HandleSession goroutine runs per
// connection.
type Server struct {
	registry *room.Registry
	logger   *zap.Logger

	mu    sync.RWMutex
	conns map[string]*transport.Conn // session ID → connection
}

// NewServer creates a Server backed by the given registry.
//
// Precondition: registry and logger must be non-nil.
func NewServer(registry *room.Registry, logger *zap.Logger) *Server {
	return &Server{
		registry: registry,
		logger:   logger,
		conns:    make(map[string]*transport.Conn),
	}
}

// HandleSession implements transport.SessionHandler. It reads framed
// messages until the peer disconnects, dispatching each decoded request
// synchronously. Undecodable lines are dropped without a reply. A panic
// while processing is contained to this session: it is logged, the
// session is cleaned up as a disconnect, and other connections are
// unaffected.
//
// Postcondition: The session's room slot is released and its departure
// announced before this method returns.
func (s *Server) HandleSession(ctx context.Context, conn *transport.Conn) (err error) {
	sess := &session{
		id:   uuid.New().String(),
		conn: conn,
	}

	s.mu.Lock()
	s.conns[sess.id] = conn
	s.mu.Unlock()

	defer s.cleanup(sess)
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("session panicked",
				zap.String("session_id", sess.id),
				zap.Any("panic", r),
			)
			err = fmt.Errorf("session panic: %v", r)
		}
	}()

	s.logger.Info("session started",
		zap.String("session_id", sess.id),
		zap.String("remote_addr", conn.RemoteAddr().String()),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := conn.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("reading message: %w", err)
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		req, err := protocol.DecodeRequest(line)
		if err != nil {
			// Malformed lines are discarded silently; later lines on the
			// same connection are still processed.
			s.logger.Debug("dropping malformed line",
				zap.String("session_id", sess.id),
				zap.Error(err),
			)
			continue
		}

		s.dispatch(sess, req)
	}
}

// cleanup releases the session's room slot and announces the departure.
// Called exactly once per session, on disconnect.
func (s *Server) cleanup(sess *session) {
	s.mu.Lock()
	delete(s.conns, sess.id)
	s.mu.Unlock()

	if sess.roomID != 0 {
		res := s.registry.Leave(sess.roomID, sess.id)
		if res.GameOver {
			s.broadcast(res.Occupants, protocol.NewStatus(
				fmt.Sprintf("player %s left, the game is over", res.Role)))
		}
	}

	s.logger.Info("session closed",
		zap.String("session_id", sess.id),
	)
}

// send delivers a message to one connection, best-effort.
func (s *Server) send(conn *transport.Conn, msg any) {
	if err := conn.WriteMessage(msg); err != nil {
		s.logger.Debug("send failed", zap.Error(err))
	}
}

// sendError reports a recoverable protocol error to the offending
// connection only.
func (s *Server) sendError(sess *session, msg string) {
	s.send(sess.conn, protocol.NewError(msg))
}

// broadcast delivers a message to every listed session. Sends are
// best-effort: a dead peer neither aborts delivery to the others nor rolls
// back the state change being announced.
func (s *Server) broadcast(sessionIDs []string, msg any) {
	s.mu.RLock()
	targets := make([]*transport.Conn, 0, len(sessionIDs))
	for _, id := range sessionIDs {
		if conn, ok := s.conns[id]; ok {
			targets = append(targets, conn)
		}
	}
	s.mu.RUnlock()

	for _, conn := range targets {
		s.send(conn, msg)
	}
}
