// Package room provides game rooms and the process-wide room registry.
package room

import (
	"github.com/JSW0303/Gomoku/internal/game/board"
)

// Role is a session's position within a room. The zero value RoleNone means
// no role has been assigned yet; it is distinct from Spectator.
type Role int

const (
	// RoleNone means the session holds no slot in any room.
	RoleNone Role = iota
	// Black is the first player; black always moves first.
	Black
	// White is the second player.
	White
	// Spectator has read and chat access but may not place stones.
	Spectator
)

// String returns the wire name for the role.
func (r Role) String() string {
	switch r {
	case Black:
		return "black"
	case White:
		return "white"
	case Spectator:
		return "spectator"
	default:
		return "none"
	}
}

// IsPlayer reports whether the role may place stones.
func (r Role) IsPlayer() bool {
	return r == Black || r == White
}

// Stone returns the board stone for a player role, or board.Empty for
// non-player roles.
func (r Role) Stone() board.Stone {
	switch r {
	case Black:
		return board.Black
	case White:
		return board.White
	default:
		return board.Empty
	}
}

// Opponent returns the other player role.
//
// Precondition: r must be Black or White.
func (r Role) Opponent() Role {
	if r == Black {
		return White
	}
	return Black
}

// Status is a room's lifecycle state. The state machine is
// Waiting → Playing → Finished; Finished is terminal and there is no
// transition back to Waiting.
type Status int

const (
	// Waiting means the room has fewer than two players.
	Waiting Status = iota
	// Playing means both player slots are filled and turns alternate.
	Playing
	// Finished means a win occurred or a player departed mid-game.
	Finished
)

// String returns the wire name for the status.
func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Finished:
		return "finished"
	default:
		return "waiting"
	}
}

// Room is a single game's mutable state. All fields are guarded by the
// owning Registry's lock; Room has no locking of its own.
type Room struct {
	id         int64
	board      *board.Board
	players    map[Role]string // Black/White → session ID
	spectators map[string]bool // session IDs
	turn       Role
	status     Status
}

// occupants returns a snapshot of every session ID in the room, players
// and spectators alike.
func (r *Room) occupants() []string {
	ids := make([]string, 0, len(r.players)+len(r.spectators))
	for _, id := range r.players {
		ids = append(ids, id)
	}
	for id := range r.spectators {
		ids = append(ids, id)
	}
	return ids
}

// roleOf returns the slot held by the session, or RoleNone.
func (r *Room) roleOf(sessionID string) Role {
	for role, id := range r.players {
		if id == sessionID {
			return role
		}
	}
	if r.spectators[sessionID] {
		return Spectator
	}
	return RoleNone
}
