package gameserver

import (
	"fmt"

	"github.com/JSW0303/Gomoku/internal/game/room"
	"github.com/JSW0303/Gomoku/internal/protocol"
)

// dispatch routes one decoded request. Each branch is a synchronous call
// into the registry followed by zero or more broadcasts.
func (s *Server) dispatch(sess *session, req protocol.Request) {
	switch req := req.(type) {
	case protocol.ListRoomsRequest:
		s.handleListRooms(sess)
	case protocol.CreateRoomRequest:
		s.handleCreateRoom(sess)
	case protocol.JoinRoomRequest:
		s.handleJoinRoom(sess, req)
	case protocol.PlaceStoneRequest:
		s.handlePlaceStone(sess, req)
	case protocol.ChatRequest:
		s.handleChat(sess, req)
	}
}

func (s *Server) handleListRooms(sess *session) {
	summaries := s.registry.ListRooms()
	rooms := make([]protocol.RoomInfo, 0, len(summaries))
	for _, sum := range summaries {
		rooms = append(rooms, protocol.RoomInfo{
			ID:     sum.ID,
			Status: sum.Status.String(),
			Count:  sum.PlayerCount,
		})
	}
	s.send(sess.conn, protocol.NewRoomList(rooms))
}

func (s *Server) handleCreateRoom(sess *session) {
	if sess.roomID != 0 {
		s.sendError(sess, "already in a room")
		return
	}

	res := s.registry.CreateRoom(sess.id)
	sess.roomID = res.RoomID
	sess.role = res.Role

	s.send(sess.conn, protocol.NewRoomJoined(res.RoomID, res.Role.String()))
	s.send(sess.conn, protocol.NewGameStateUpdate(res.Board, res.Turn.String()))
	s.broadcast(res.Occupants, protocol.NewStatus("room created, waiting for an opponent"))
}

func (s *Server) handleJoinRoom(sess *session, req protocol.JoinRoomRequest) {
	if sess.roomID != 0 {
		s.sendError(sess, "already in a room")
		return
	}

	res, err := s.registry.Join(req.RoomID, sess.id)
	if err != nil {
		s.sendError(sess, err.Error())
		return
	}
	sess.roomID = res.RoomID
	sess.role = res.Role

	s.send(sess.conn, protocol.NewRoomJoined(res.RoomID, res.Role.String()))
	s.send(sess.conn, protocol.NewGameStateUpdate(res.Board, res.Turn.String()))

	if res.Started {
		s.broadcast(res.Occupants, protocol.NewStatus("game started: black moves first"))
	} else {
		s.broadcast(res.Occupants, protocol.NewStatus(
			fmt.Sprintf("%s joined the room", res.Role)))
	}
}

func (s *Server) handlePlaceStone(sess *session, req protocol.PlaceStoneRequest) {
	if sess.roomID == 0 || !sess.role.IsPlayer() {
		s.sendError(sess, room.ErrNotAPlayer.Error())
		return
	}

	res, err := s.registry.PlaceStone(sess.roomID, sess.id, sess.role, req.X, req.Y)
	if err != nil {
		s.sendError(sess, err.Error())
		return
	}

	s.broadcast(res.Occupants, protocol.NewMoveMade(res.X, res.Y, res.Role.String()))
	if res.Won {
		s.broadcast(res.Occupants, protocol.NewStatus(
			fmt.Sprintf("game over: %s wins", res.Role)))
	} else {
		s.broadcast(res.Occupants, protocol.NewTurnChange(res.Turn.String()))
	}
}

func (s *Server) handleChat(sess *session, req protocol.ChatRequest) {
	if sess.roomID == 0 {
		s.sendError(sess, "chat is only available inside a room")
		return
	}

	occupants, role, ok := s.registry.Occupants(sess.roomID, sess.id)
	if !ok {
		s.sendError(sess, "chat is only available inside a room")
		return
	}
	s.broadcast(occupants, protocol.NewChatMessage(role.String(), req.Text))
}
