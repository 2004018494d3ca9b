// Package console runs a game against the computer in a terminal.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"

	"github.com/jaminalder/tictoc/internal/domain"
	"github.com/jaminalder/tictoc/internal/search"
	"go.uber.org/zap"
)

// Loop alternates human input and computer replies until the game ends.
// The human plays X and the computer O.
type Loop struct {
	In            io.Reader
	Out           io.Writer
	Player        *search.Player
	Renderer      *Renderer
	ComputerFirst bool
	// Rand picks the computer's opening cell; nil means the first cell.
	Rand *rand.Rand
	Log  *zap.Logger
}

// Run plays one game. It returns the final outcome, or the context error if
// ctx is cancelled between turns, or io.EOF if input runs out.
func (l *Loop) Run(ctx context.Context) (domain.Outcome, error) {
	log := l.Log
	if log == nil {
		log = zap.NewNop()
	}
	render := l.Renderer
	if render == nil {
		render = NewRenderer(l.Out)
	}
	in := bufio.NewScanner(l.In)

	first := domain.X
	if l.ComputerFirst {
		first = domain.O
	}
	game := domain.NewWithFirst(first)
	if l.ComputerFirst {
		// Any opening is safe; a full search of the empty board buys nothing.
		open := domain.Move{}
		if l.Rand != nil {
			open = domain.Move{Row: l.Rand.Intn(domain.Size), Col: l.Rand.Intn(domain.Size)}
		}
		if err := game.Play(open.Row, open.Col); err != nil {
			return domain.InProgress, err
		}
		fmt.Fprintf(l.Out, "The computer chose %s.\n", FormatCoord(open))
	}
	if err := render.Board(&game.Board); err != nil {
		return domain.InProgress, err
	}

	for !game.Over {
		if err := ctx.Err(); err != nil {
			return domain.InProgress, err
		}
		m, err := l.readMove(in, &game)
		if err != nil {
			return domain.InProgress, err
		}
		log.Debug("human move", zap.String("cell", FormatCoord(m)))
		if err := render.Board(&game.Board); err != nil {
			return domain.InProgress, err
		}
		if game.Over {
			break
		}

		choice, err := l.Player.Choose(&game.Board)
		if err != nil {
			return domain.InProgress, fmt.Errorf("computer move: %w", err)
		}
		game.Record(choice.Move)
		if err := render.Board(&game.Board); err != nil {
			return domain.InProgress, err
		}
		fmt.Fprintf(l.Out, "The computer chose %s.\n", FormatCoord(choice.Move))
		if choice.Comment != "" {
			fmt.Fprintf(l.Out, "It says: %s\n", choice.Comment)
		}
	}

	outcome := game.Board.Outcome()
	switch outcome {
	case domain.OWins:
		fmt.Fprintln(l.Out, "The computer wins.")
	case domain.XWins:
		fmt.Fprintln(l.Out, "You won?! That should not happen.")
	default:
		fmt.Fprintln(l.Out, "A tie, who would have thought.")
	}
	return outcome, nil
}

// readMove prompts until the human enters a legal move and plays it.
func (l *Loop) readMove(in *bufio.Scanner, game *domain.Game) (domain.Move, error) {
	for {
		fmt.Fprint(l.Out, "What's your next move?\n")
		if !in.Scan() {
			if err := in.Err(); err != nil {
				return domain.Move{}, err
			}
			return domain.Move{}, io.EOF
		}
		m, err := ParseCoord(in.Text())
		if err != nil {
			fmt.Fprintln(l.Out, "Enter a cell like a1 or 21.")
			continue
		}
		if err := game.Play(m.Row, m.Col); err != nil {
			if errors.Is(err, domain.ErrOccupied) {
				fmt.Fprintln(l.Out, "That cell is taken!")
				continue
			}
			return domain.Move{}, err
		}
		return m, nil
	}
}
