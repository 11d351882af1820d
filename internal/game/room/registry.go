package room

import (
	"errors"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/JSW0303/Gomoku/internal/game/board"
	"github.com/JSW0303/Gomoku/internal/game/rules"
)

// Registry operation errors. These are recoverable protocol-level failures
// reported back to the offending session only.
var (
	// ErrRoomNotFound means the room ID does not exist.
	ErrRoomNotFound = errors.New("room not found")
	// ErrAlreadyInRoom means the session already holds a slot in the room.
	ErrAlreadyInRoom = errors.New("already in the room")
	// ErrNotAPlayer means the session does not hold a player slot.
	ErrNotAPlayer = errors.New("only players can place stones")
	// ErrNotPlaying means the room is not in the Playing state.
	ErrNotPlaying = errors.New("game is not in progress")
	// ErrNotYourTurn means it is the other player's move.
	ErrNotYourTurn = errors.New("not your turn")
	// ErrIllegalMove means the coordinates are out of bounds or the cell
	// is occupied.
	ErrIllegalMove = errors.New("illegal move")
)

// RoomSummary is one row of a room listing.
type RoomSummary struct {
	ID          int64
	Status      Status
	PlayerCount int
}

// JoinResult describes a successful create or join, with everything the
// caller needs to notify the joiner and the room.
type JoinResult struct {
	RoomID int64
	Role   Role
	// Board is the symbol-grid snapshot at join time.
	Board [][]string
	// Turn is whose move is awaited.
	Turn Role
	// Started is true when this join filled the second player slot and
	// moved the room from Waiting to Playing.
	Started bool
	// Occupants is the post-join occupant snapshot for broadcasting.
	Occupants []string
}

// MoveResult describes a successfully placed stone.
type MoveResult struct {
	X, Y int
	Role Role
	// Won is true when the move completed a winning run; the room is
	// Finished and Turn is meaningless.
	Won bool
	// Turn is the next role to move when the game continues.
	Turn Role
	// Occupants is the occupant snapshot for broadcasting.
	Occupants []string
}

// LeaveResult describes the effect of a session leaving its room.
type LeaveResult struct {
	// Role is the slot the session held, or RoleNone if it held none.
	Role Role
	// GameOver is true when a player departure ended a game in progress.
	GameOver bool
	// Occupants is the snapshot of sessions remaining in the room.
	Occupants []string
}

// Registry is the process-wide mapping of room IDs to rooms. A single
// mutex guards the map, the ID counter, and every room's fields: per-move
// work is constant-time, so the coarse lock trades no meaningful
// throughput for straightforward correctness. Room IDs are assigned
// monotonically starting at 1 and are never reused; rooms are never
// deleted, even after finishing.
type Registry struct {
	mu     sync.Mutex
	rooms  map[int64]*Room
	nextID int64
	rules  rules.Rules
	logger *zap.Logger
}

// NewRegistry creates an empty registry that builds boards from the given
// rule set.
//
// Precondition: r must be valid; logger must be non-nil.
func NewRegistry(r rules.Rules, logger *zap.Logger) *Registry {
	return &Registry{
		rooms:  make(map[int64]*Room),
		nextID: 1,
		rules:  r,
		logger: logger,
	}
}

// CreateRoom allocates a new room with the creator seated as Black, an
// empty board, status Waiting, and the turn fixed to Black. It cannot
// fail.
//
// Precondition: sessionID must not currently occupy any room (enforced by
// the session handler).
func (reg *Registry) CreateRoom(sessionID string) JoinResult {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	id := reg.nextID
	reg.nextID++

	rm := &Room{
		id:         id,
		board:      board.New(reg.rules.BoardSize, reg.rules.WinLength),
		players:    map[Role]string{Black: sessionID},
		spectators: make(map[string]bool),
		turn:       Black,
		status:     Waiting,
	}
	reg.rooms[id] = rm

	reg.logger.Info("room created",
		zap.Int64("room_id", id),
		zap.String("session_id", sessionID),
	)

	return JoinResult{
		RoomID:    id,
		Role:      Black,
		Board:     rm.board.Snapshot(),
		Turn:      rm.turn,
		Occupants: rm.occupants(),
	}
}

// ListRooms returns a snapshot of all rooms in ascending ID order. The
// player count excludes spectators.
func (reg *Registry) ListRooms() []RoomSummary {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	out := make([]RoomSummary, 0, len(reg.rooms))
	for id, rm := range reg.rooms {
		out = append(out, RoomSummary{
			ID:          id,
			Status:      rm.status,
			PlayerCount: len(rm.players),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Join seats the session in the room: Black if vacant, else White if
// vacant, else Spectator. The joiner gets no choice. Filling the second
// player slot moves the room from Waiting to Playing.
//
// Postcondition: Returns ErrRoomNotFound or ErrAlreadyInRoom with no state
// change, or the assigned role and room snapshot.
func (reg *Registry) Join(roomID int64, sessionID string) (JoinResult, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	rm, ok := reg.rooms[roomID]
	if !ok {
		return JoinResult{}, ErrRoomNotFound
	}
	if rm.roleOf(sessionID) != RoleNone {
		return JoinResult{}, ErrAlreadyInRoom
	}

	var role Role
	switch {
	case rm.players[Black] == "":
		role = Black
		rm.players[Black] = sessionID
	case rm.players[White] == "":
		role = White
		rm.players[White] = sessionID
	default:
		role = Spectator
		rm.spectators[sessionID] = true
	}

	started := false
	if rm.status == Waiting && len(rm.players) == 2 {
		rm.status = Playing
		started = true
	}

	reg.logger.Info("session joined room",
		zap.Int64("room_id", roomID),
		zap.String("session_id", sessionID),
		zap.String("role", role.String()),
		zap.Bool("started", started),
	)

	return JoinResult{
		RoomID:    roomID,
		Role:      role,
		Board:     rm.board.Snapshot(),
		Turn:      rm.turn,
		Started:   started,
		Occupants: rm.occupants(),
	}, nil
}

// PlaceStone validates and applies a move for the session. On success the
// stone is placed, the win check runs, and the room's status or turn is
// updated. A rejected move leaves the board, turn, and status untouched.
//
// Postcondition: Returns ErrNotAPlayer, ErrNotPlaying, ErrNotYourTurn, or
// ErrIllegalMove with no state change, or the applied move.
func (reg *Registry) PlaceStone(roomID int64, sessionID string, role Role, x, y int) (MoveResult, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	rm, ok := reg.rooms[roomID]
	if !ok {
		return MoveResult{}, ErrRoomNotFound
	}
	if !role.IsPlayer() || rm.players[role] != sessionID {
		return MoveResult{}, ErrNotAPlayer
	}
	if rm.status != Playing {
		return MoveResult{}, ErrNotPlaying
	}
	if rm.turn != role {
		return MoveResult{}, ErrNotYourTurn
	}
	if !rm.board.Place(x, y, role.Stone()) {
		return MoveResult{}, ErrIllegalMove
	}

	res := MoveResult{
		X:         x,
		Y:         y,
		Role:      role,
		Occupants: rm.occupants(),
	}

	if rm.board.CheckWin(x, y, role.Stone()) {
		rm.status = Finished
		res.Won = true
		reg.logger.Info("game won",
			zap.Int64("room_id", roomID),
			zap.String("winner", role.String()),
			zap.Int("x", x),
			zap.Int("y", y),
		)
	} else {
		rm.turn = role.Opponent()
		res.Turn = rm.turn
	}

	return res, nil
}

// Leave removes the session from whatever slot it holds in the room. A
// player leaving a game in progress finishes the game; a spectator leaving
// has no effect on status. Unknown sessions and rooms are a no-op.
func (reg *Registry) Leave(roomID int64, sessionID string) LeaveResult {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	rm, ok := reg.rooms[roomID]
	if !ok {
		return LeaveResult{}
	}

	role := rm.roleOf(sessionID)
	switch {
	case role.IsPlayer():
		delete(rm.players, role)
	case role == Spectator:
		delete(rm.spectators, sessionID)
	default:
		return LeaveResult{}
	}

	res := LeaveResult{Role: role}
	if role.IsPlayer() && rm.status == Playing {
		rm.status = Finished
		res.GameOver = true
	}
	res.Occupants = rm.occupants()

	reg.logger.Info("session left room",
		zap.Int64("room_id", roomID),
		zap.String("session_id", sessionID),
		zap.String("role", role.String()),
		zap.Bool("game_over", res.GameOver),
	)

	return res
}

// Occupants returns the occupant snapshot of the room along with the
// session's role within it. ok is false when the room does not exist or
// the session holds no slot in it.
func (reg *Registry) Occupants(roomID int64, sessionID string) (ids []string, role Role, ok bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	rm, found := reg.rooms[roomID]
	if !found {
		return nil, RoleNone, false
	}
	role = rm.roleOf(sessionID)
	if role == RoleNone {
		return nil, RoleNone, false
	}
	return rm.occupants(), role, true
}
