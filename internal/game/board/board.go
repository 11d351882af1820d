// Package board provides the gomoku board grid and win detection.
package board

// Stone is the contents of a single board cell.
type Stone int

const (
	// Empty marks a cell with no stone.
	Empty Stone = iota
	// Black is the first player's stone.
	Black
	// White is the second player's stone.
	White
)

// Symbol returns the single-character wire encoding for the stone.
func (s Stone) Symbol() string {
	switch s {
	case Black:
		return "B"
	case White:
		return "W"
	default:
		return "."
	}
}

// Board is a square gomoku grid. It carries no locking; the owning room
// serializes all access.
type Board struct {
	size      int
	winLength int
	cells     [][]Stone
}

// New creates an empty board.
//
// Precondition: size must be >= winLength and winLength must be >= 2.
// Postcondition: Returns a board with every cell Empty.
func New(size, winLength int) *Board {
	cells := make([][]Stone, size)
	for y := range cells {
		cells[y] = make([]Stone, size)
	}
	return &Board{
		size:      size,
		winLength: winLength,
		cells:     cells,
	}
}

// Size returns the board edge length.
func (b *Board) Size() int {
	return b.size
}

// At returns the stone at (x, y), or Empty for out-of-bounds coordinates.
func (b *Board) At(x, y int) Stone {
	if !b.inBounds(x, y) {
		return Empty
	}
	return b.cells[y][x]
}

// Place sets the stone at (x, y). It returns false without mutating the
// board when the coordinates are out of bounds or the cell is occupied.
// A placed stone is never removed for the life of the board.
//
// Precondition: stone must be Black or White.
func (b *Board) Place(x, y int, stone Stone) bool {
	if !b.inBounds(x, y) || b.cells[y][x] != Empty {
		return false
	}
	b.cells[y][x] = stone
	return true
}

// lineDirections are the four axes through a cell: horizontal, vertical,
// and the two diagonals.
var lineDirections = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

// CheckWin reports whether the stone at (x, y) completes a run of at least
// the win length in any of the four line directions through that cell. It
// only scans outward from (x, y), so the check is constant-time per move
// and must be evaluated immediately after the stone is placed.
//
// Precondition: the cell at (x, y) holds stone.
func (b *Board) CheckWin(x, y int, stone Stone) bool {
	for _, dir := range lineDirections {
		dx, dy := dir[0], dir[1]
		count := 1
		for i := 1; i < b.winLength; i++ {
			if b.At(x+dx*i, y+dy*i) != stone {
				break
			}
			count++
		}
		for i := 1; i < b.winLength; i++ {
			if b.At(x-dx*i, y-dy*i) != stone {
				break
			}
			count++
		}
		if count >= b.winLength {
			return true
		}
	}
	return false
}

// Snapshot returns the board as a row-major grid of wire symbols, suitable
// for a game state payload. Row index is y, column index is x.
func (b *Board) Snapshot() [][]string {
	grid := make([][]string, b.size)
	for y := 0; y < b.size; y++ {
		row := make([]string, b.size)
		for x := 0; x < b.size; x++ {
			row[x] = b.cells[y][x].Symbol()
		}
		grid[y] = row
	}
	return grid
}

func (b *Board) inBounds(x, y int) bool {
	return x >= 0 && x < b.size && y >= 0 && y < b.size
}
