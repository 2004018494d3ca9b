// Package search decides the computer's moves by exhaustively walking the
// game tree on a single board, applying and reverting moves in place.
package search

import (
	"fmt"

	"github.com/jaminalder/tictoc/internal/domain"
)

// Evaluator judges whether a move dooms the side making it. Implementations
// must leave the board exactly as they found it.
type Evaluator interface {
	ForcesLoss(b *domain.Board, m domain.Move) bool
}

// allCells lists every coordinate in row-major order.
var allCells = func() (out [domain.Size * domain.Size]domain.Move) {
	for i := range out {
		out[i] = domain.Move{Row: i / domain.Size, Col: i % domain.Size}
	}
	return out
}()

// Exhaustive evaluates by full enumeration of every reply. No caching, no
// pruning beyond stopping at the first refutation.
type Exhaustive struct{}

// ForcesLoss reports whether playing m for the side to move lets the
// opponent force a win.
func (Exhaustive) ForcesLoss(b *domain.Board, m domain.Move) bool {
	mover := b.Turn()
	apply(b, m)
	defer revert(b, m)

	if b.WonBy(mover) {
		return false
	}
	if b.WonBy(mover.Opponent()) {
		return true
	}
	for _, reply := range allCells {
		if b.At(reply.Row, reply.Col) == domain.Empty && refutes(b, reply) {
			return true
		}
	}
	return false
}

// refutes reports whether reply, played by the side to move, either wins on
// the spot or leaves every answer losing.
func refutes(b *domain.Board, reply domain.Move) bool {
	replier := b.Turn()
	apply(b, reply)
	defer revert(b, reply)

	if b.WonBy(replier) {
		return true
	}
	if b.Full() {
		return false
	}
	for _, a := range allCells {
		if b.At(a.Row, a.Col) == domain.Empty && !(Exhaustive{}).ForcesLoss(b, a) {
			return false
		}
	}
	return true
}

// CompletesLine reports whether m wins outright for the side to move.
func CompletesLine(b *domain.Board, m domain.Move) bool {
	mover := b.Turn()
	apply(b, m)
	defer revert(b, m)
	return b.WonBy(mover)
}

// LeavesNoEscape reports whether, after m, every opponent reply is itself a
// forced loss for the opponent. A board filled by m is never a forced win.
func LeavesNoEscape(b *domain.Board, e Evaluator, m domain.Move) bool {
	apply(b, m)
	defer revert(b, m)

	if b.Full() {
		return false
	}
	for _, r := range allCells {
		if b.At(r.Row, r.Col) == domain.Empty && !e.ForcesLoss(b, r) {
			return false
		}
	}
	return true
}

// Classify splits the legal moves into those that avoid a forced loss and
// those that do not.
func Classify(b *domain.Board, e Evaluator) (safe, losing []domain.Move) {
	for _, m := range b.EmptyCells() {
		if e.ForcesLoss(b, m) {
			losing = append(losing, m)
		} else {
			safe = append(safe, m)
		}
	}
	return safe, losing
}

// apply and revert only ever see legal, matched coordinates from the search;
// an error here means the board was corrupted by a mismatched pair.
func apply(b *domain.Board, m domain.Move) {
	if err := b.Apply(m.Row, m.Col); err != nil {
		panic(fmt.Sprintf("search: apply %v: %v", m, err))
	}
}

func revert(b *domain.Board, m domain.Move) {
	if err := b.Revert(m.Row, m.Col); err != nil {
		panic(fmt.Sprintf("search: revert %v: %v", m, err))
	}
}
