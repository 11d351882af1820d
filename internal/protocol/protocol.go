// Package protocol defines the newline-delimited JSON wire protocol spoken
// between the gomoku server and its clients. Requests decode into a closed
// set of tagged variants; responses are built through one constructor per
// message kind.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Message type tags, client to server.
const (
	TypeListRooms  = "LIST_ROOMS"
	TypeCreateRoom = "CREATE_ROOM"
	TypeJoinRoom   = "JOIN_ROOM"
	TypePlaceStone = "PLACE_STONE"
	TypeChat       = "CHAT"
)

// Message type tags, server to client.
const (
	TypeRoomList        = "ROOM_LIST"
	TypeRoomJoined      = "ROOM_JOINED"
	TypeGameStateUpdate = "GAME_STATE_UPDATE"
	TypeStatus          = "STATUS"
	TypeMoveMade        = "MOVE_MADE"
	TypeTurnChange      = "TURN_CHANGE"
	TypeChatMessage     = "CHAT_MESSAGE"
	TypeError           = "ERROR"
)

// ErrMalformed is returned for lines that do not decode into a known,
// complete request. Callers drop such lines silently; the connection
// stays open.
var ErrMalformed = errors.New("malformed message")

// Request is a decoded client-to-server message. The concrete type is one
// of ListRoomsRequest, CreateRoomRequest, JoinRoomRequest,
// PlaceStoneRequest, or ChatRequest.
type Request interface {
	requestTag() string
}

// ListRoomsRequest asks for a snapshot of all rooms.
type ListRoomsRequest struct{}

// CreateRoomRequest creates a new room with the sender seated as black.
type CreateRoomRequest struct{}

// JoinRoomRequest joins an existing room.
type JoinRoomRequest struct {
	RoomID int64
}

// PlaceStoneRequest places a stone at board coordinates (X, Y).
type PlaceStoneRequest struct {
	X, Y int
}

// ChatRequest sends a chat line to the sender's room.
type ChatRequest struct {
	Text string
}

func (ListRoomsRequest) requestTag() string  { return TypeListRooms }
func (CreateRoomRequest) requestTag() string { return TypeCreateRoom }
func (JoinRoomRequest) requestTag() string   { return TypeJoinRoom }
func (PlaceStoneRequest) requestTag() string { return TypePlaceStone }
func (ChatRequest) requestTag() string       { return TypeChat }

// requestEnvelope is the raw wire shape of every client request. Payload
// fields are pointers so that absent fields are distinguishable from zero
// values.
type requestEnvelope struct {
	Type   string  `json:"type"`
	RoomID *int64  `json:"room_id"`
	X      *int    `json:"x"`
	Y      *int    `json:"y"`
	Text   *string `json:"text"`
}

// DecodeRequest parses one wire line into a typed request. Unknown message
// types and payloads with missing or mistyped fields yield ErrMalformed.
//
// Postcondition: Returns a non-nil Request or an error wrapping ErrMalformed.
func DecodeRequest(line []byte) (Request, error) {
	var env requestEnvelope
	if err := json.Unmarshal(line, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch env.Type {
	case TypeListRooms:
		return ListRoomsRequest{}, nil
	case TypeCreateRoom:
		return CreateRoomRequest{}, nil
	case TypeJoinRoom:
		if env.RoomID == nil {
			return nil, fmt.Errorf("%w: JOIN_ROOM missing room_id", ErrMalformed)
		}
		return JoinRoomRequest{RoomID: *env.RoomID}, nil
	case TypePlaceStone:
		if env.X == nil || env.Y == nil {
			return nil, fmt.Errorf("%w: PLACE_STONE missing coordinates", ErrMalformed)
		}
		return PlaceStoneRequest{X: *env.X, Y: *env.Y}, nil
	case TypeChat:
		if env.Text == nil {
			return nil, fmt.Errorf("%w: CHAT missing text", ErrMalformed)
		}
		return ChatRequest{Text: *env.Text}, nil
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrMalformed, env.Type)
	}
}

// EncodeRequest serializes a client request to its wire form, without the
// trailing newline. Used by clients and tests.
func EncodeRequest(req Request) ([]byte, error) {
	env := requestEnvelope{Type: req.requestTag()}
	switch r := req.(type) {
	case JoinRoomRequest:
		env.RoomID = &r.RoomID
	case PlaceStoneRequest:
		env.X, env.Y = &r.X, &r.Y
	case ChatRequest:
		env.Text = &r.Text
	}
	return json.Marshal(env)
}

// RoomInfo is one row of a ROOM_LIST payload.
type RoomInfo struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// RoomList lists all rooms.
type RoomList struct {
	Type  string     `json:"type"`
	Rooms []RoomInfo `json:"rooms"`
}

// RoomJoined confirms a create or join, naming the assigned role.
type RoomJoined struct {
	Type     string `json:"type"`
	RoomID   int64  `json:"room_id"`
	PlayerID string `json:"player_id"`
}

// GameStateUpdate carries a full board snapshot and whose turn it is. The
// board is a row-major grid of "."/"B"/"W" symbols.
type GameStateUpdate struct {
	Type  string     `json:"type"`
	Board [][]string `json:"board"`
	Turn  string     `json:"turn"`
}

// Status is a human-readable room announcement.
type Status struct {
	Type string `json:"type"`
	Msg  string `json:"msg"`
}

// MoveMade announces an applied move. Player is the role name, "black" or
// "white".
type MoveMade struct {
	Type   string `json:"type"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Player string `json:"player"`
}

// TurnChange announces whose move is awaited after a non-winning move.
type TurnChange struct {
	Type string `json:"type"`
	Turn string `json:"turn"`
}

// ChatMessage relays a chat line to a room.
type ChatMessage struct {
	Type    string `json:"type"`
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

// ErrorMessage reports a recoverable protocol error to the offending
// client only.
type ErrorMessage struct {
	Type string `json:"type"`
	Msg  string `json:"msg"`
}

// NewRoomList builds a ROOM_LIST message.
func NewRoomList(rooms []RoomInfo) RoomList {
	if rooms == nil {
		rooms = []RoomInfo{}
	}
	return RoomList{Type: TypeRoomList, Rooms: rooms}
}

// NewRoomJoined builds a ROOM_JOINED message.
func NewRoomJoined(roomID int64, role string) RoomJoined {
	return RoomJoined{Type: TypeRoomJoined, RoomID: roomID, PlayerID: role}
}

// NewGameStateUpdate builds a GAME_STATE_UPDATE message.
func NewGameStateUpdate(boardGrid [][]string, turn string) GameStateUpdate {
	return GameStateUpdate{Type: TypeGameStateUpdate, Board: boardGrid, Turn: turn}
}

// NewStatus builds a STATUS message.
func NewStatus(msg string) Status {
	return Status{Type: TypeStatus, Msg: msg}
}

// NewMoveMade builds a MOVE_MADE message.
func NewMoveMade(x, y int, player string) MoveMade {
	return MoveMade{Type: TypeMoveMade, X: x, Y: y, Player: player}
}

// NewTurnChange builds a TURN_CHANGE message.
func NewTurnChange(turn string) TurnChange {
	return TurnChange{Type: TypeTurnChange, Turn: turn}
}

// NewChatMessage builds a CHAT_MESSAGE message.
func NewChatMessage(sender, message string) ChatMessage {
	return ChatMessage{Type: TypeChatMessage, Sender: sender, Message: message}
}

// NewError builds an ERROR message.
func NewError(msg string) ErrorMessage {
	return ErrorMessage{Type: TypeError, Msg: msg}
}
