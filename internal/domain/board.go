package domain

import "errors"

// Cell represents a board cell state. X and O double as the two players.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

// Opponent returns the other player. Empty has no opponent.
func (c Cell) Opponent() Cell {
	switch c {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

func (c Cell) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return " "
	}
}

// sign maps a cell onto the tally arithmetic: X=+1, O=-1, Empty=0.
func (c Cell) sign() int {
	switch c {
	case X:
		return 1
	case O:
		return -1
	default:
		return 0
	}
}

// Move is a (row, column) coordinate, both in [0,2].
type Move struct {
	Row int
	Col int
}

// Size is the board edge length.
const Size = 3

// Tally slots. Rows occupy 0..2 and columns 3..5.
const (
	lineRow0 = iota
	lineRow1
	lineRow2
	lineCol0
	lineCol1
	lineCol2
	lineDiag
	lineAnti
	numLines
)

// Errors returned by board operations. All are detected before mutating.
var (
	ErrOutOfBounds = errors.New("out of bounds")
	ErrOccupied    = errors.New("cell occupied")
	ErrEmptyCell   = errors.New("cell empty")
)

// Board is the 3x3 grid plus one running sum per winning line and the side
// to move. Search mutates it in place through Apply/Revert pairs.
type Board struct {
	cells [Size][Size]Cell
	lines [numLines]int
	turn  Cell
}

// NewBoard returns an empty board with first to move.
func NewBoard(first Cell) Board {
	if first != O {
		first = X
	}
	return Board{turn: first}
}

func inBounds(r, c int) bool {
	return r >= 0 && r < Size && c >= 0 && c < Size
}

// Apply places the side to move on (r, c) and passes the turn.
func (b *Board) Apply(r, c int) error {
	if !inBounds(r, c) {
		return ErrOutOfBounds
	}
	if b.cells[r][c] != Empty {
		return ErrOccupied
	}
	b.cells[r][c] = b.turn
	b.tally(r, c, b.turn.sign())
	b.turn = b.turn.Opponent()
	return nil
}

// Revert undoes the most recent Apply on (r, c). Calls must pair with Apply
// on the same coordinates in reverse order.
func (b *Board) Revert(r, c int) error {
	if !inBounds(r, c) {
		return ErrOutOfBounds
	}
	owner := b.cells[r][c]
	if owner == Empty {
		return ErrEmptyCell
	}
	b.cells[r][c] = Empty
	b.tally(r, c, -owner.sign())
	b.turn = owner
	return nil
}

func (b *Board) tally(r, c, delta int) {
	b.lines[lineRow0+r] += delta
	b.lines[lineCol0+c] += delta
	if r == c {
		b.lines[lineDiag] += delta
	}
	if r+c == Size-1 {
		b.lines[lineAnti] += delta
	}
}

// WonBy reports whether p owns a complete line.
func (b *Board) WonBy(p Cell) bool {
	want := Size * p.sign()
	if want == 0 {
		return false
	}
	for _, v := range b.lines {
		if v == want {
			return true
		}
	}
	return false
}

// Full reports whether no empty cell remains.
func (b *Board) Full() bool {
	for r := range b.cells {
		for c := range b.cells[r] {
			if b.cells[r][c] == Empty {
				return false
			}
		}
	}
	return true
}

// Turn returns the side to move.
func (b *Board) Turn() Cell { return b.turn }

// At returns the mark on (r, c), or Empty when out of bounds.
func (b *Board) At(r, c int) Cell {
	if !inBounds(r, c) {
		return Empty
	}
	return b.cells[r][c]
}

// Cells returns the grid row-major.
func (b *Board) Cells() [Size * Size]Cell {
	var out [Size * Size]Cell
	for r := range b.cells {
		for c := range b.cells[r] {
			out[r*Size+c] = b.cells[r][c]
		}
	}
	return out
}

// Lines returns a copy of the line tallies.
func (b *Board) Lines() [8]int { return b.lines }

// EmptyCells lists the legal moves in row-major order.
func (b *Board) EmptyCells() []Move {
	out := make([]Move, 0, Size*Size)
	for r := range b.cells {
		for c := range b.cells[r] {
			if b.cells[r][c] == Empty {
				out = append(out, Move{Row: r, Col: c})
			}
		}
	}
	return out
}

// Outcome classifies the position.
type Outcome int

const (
	InProgress Outcome = iota
	XWins
	OWins
	Draw
)

func (o Outcome) String() string {
	switch o {
	case XWins:
		return "x wins"
	case OWins:
		return "o wins"
	case Draw:
		return "draw"
	default:
		return "in progress"
	}
}

// Outcome reports the game result visible on the board.
func (b *Board) Outcome() Outcome {
	switch {
	case b.WonBy(X):
		return XWins
	case b.WonBy(O):
		return OWins
	case b.Full():
		return Draw
	default:
		return InProgress
	}
}
