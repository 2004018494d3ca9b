package domain

import "errors"

// Game holds the current state of a Tic-Tac-Toe match.
type Game struct {
	Board   Board
	Winner  Cell
	Over    bool
	Moves   int
	History []Move
}

// ErrGameOver is returned when playing into a finished match.
var ErrGameOver = errors.New("game over")

// New returns a new game with X to move.
func New() Game {
	return NewWithFirst(X)
}

// NewWithFirst returns a new game with first to move.
func NewWithFirst(first Cell) Game {
	return Game{Board: NewBoard(first)}
}

// Turn returns the side to move.
func (g *Game) Turn() Cell { return g.Board.Turn() }

// Play attempts to play the current turn at row r, column c (0..2).
func (g *Game) Play(r, c int) error {
	if g.Over {
		return ErrGameOver
	}
	mover := g.Board.Turn()
	if err := g.Board.Apply(r, c); err != nil {
		return err
	}
	g.Moves++
	g.History = append(g.History, Move{Row: r, Col: c})
	g.settle(mover)
	return nil
}

// Record registers a move already applied to the board, e.g. by the computer
// player which applies its own choice.
func (g *Game) Record(m Move) {
	mover := g.Board.At(m.Row, m.Col)
	g.Moves++
	g.History = append(g.History, m)
	g.settle(mover)
}

func (g *Game) settle(mover Cell) {
	if g.Board.WonBy(mover) {
		g.Winner = mover
		g.Over = true
		return
	}
	if g.Board.Full() {
		g.Winner = Empty
		g.Over = true
	}
}

// Clone returns a deep copy safe to hand to other goroutines.
func (g Game) Clone() Game {
	cp := g
	cp.History = append([]Move(nil), g.History...)
	return cp
}
