package search

import (
	"errors"
	"math/rand"
	"time"

	"github.com/jaminalder/tictoc/internal/domain"
	"go.uber.org/zap"
)

// ErrNoMoves is returned when asked to move on a full board.
var ErrNoMoves = errors.New("no legal moves")

// Verdict describes why a move was chosen.
type Verdict int

const (
	VerdictNeutral Verdict = iota
	VerdictWin
	VerdictForcedWin
	VerdictResign
)

func (v Verdict) String() string {
	switch v {
	case VerdictWin:
		return "win"
	case VerdictForcedWin:
		return "forced win"
	case VerdictResign:
		return "resign"
	default:
		return "neutral"
	}
}

// Choice is the computer's move together with its verdict and remark.
type Choice struct {
	Move    domain.Move
	Verdict Verdict
	Comment string
}

var (
	defaultTaunts = []string{
		"Sooooooooo baaaaaaad",
		"Lost to a toaster lul",
		"Get on my level",
		"Did you even look at the board?",
	}
	defaultResignations = []string{
		"aaaaaaaaaAAAAAAAArrrgggggh",
		"Fine. Take it.",
	}
)

// Player is the computer opponent.
type Player struct {
	eval         Evaluator
	rng          *rand.Rand
	log          *zap.Logger
	taunts       []string
	resignations []string
}

// Option configures a Player.
type Option func(*Player)

// WithEvaluator replaces the exhaustive evaluator.
func WithEvaluator(e Evaluator) Option {
	return func(p *Player) {
		if e != nil {
			p.eval = e
		}
	}
}

// WithRand sets the source used to pick among equally good moves.
func WithRand(r *rand.Rand) Option {
	return func(p *Player) {
		if r != nil {
			p.rng = r
		}
	}
}

// WithSeed is WithRand over a fresh source seeded with seed.
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

// WithLogger logs move classification and choices at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(p *Player) {
		if l != nil {
			p.log = l
		}
	}
}

// WithTaunts sets the remarks made when a win is found.
func WithTaunts(lines ...string) Option {
	return func(p *Player) {
		if len(lines) > 0 {
			p.taunts = lines
		}
	}
}

// WithResignations sets the remarks made when every move loses.
func WithResignations(lines ...string) Option {
	return func(p *Player) {
		if len(lines) > 0 {
			p.resignations = lines
		}
	}
}

// NewPlayer returns a computer opponent using exhaustive search.
func NewPlayer(opts ...Option) *Player {
	p := &Player{
		eval:         Exhaustive{},
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		log:          zap.NewNop(),
		taunts:       defaultTaunts,
		resignations: defaultResignations,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Choose picks a move for the side to move and applies it to b.
func (p *Player) Choose(b *domain.Board) (Choice, error) {
	if b.Full() {
		return Choice{}, ErrNoMoves
	}
	safe, losing := Classify(b, p.eval)
	p.log.Debug("classified moves",
		zap.Stringer("side", b.Turn()),
		zap.Int("safe", len(safe)),
		zap.Int("losing", len(losing)))

	var choice Choice
	if len(safe) == 0 {
		choice = Choice{Move: p.pick(losing), Verdict: VerdictResign, Comment: p.remark(p.resignations)}
	} else {
		choice = p.best(b, safe)
	}

	apply(b, choice.Move)
	p.log.Debug("chose move",
		zap.Int("row", choice.Move.Row),
		zap.Int("col", choice.Move.Col),
		zap.Stringer("verdict", choice.Verdict))
	return choice, nil
}

// best prefers an immediate win, then a forced win, then any safe move.
func (p *Player) best(b *domain.Board, safe []domain.Move) Choice {
	for _, m := range safe {
		if CompletesLine(b, m) {
			return Choice{Move: m, Verdict: VerdictWin, Comment: p.remark(p.taunts)}
		}
	}
	for _, m := range safe {
		if LeavesNoEscape(b, p.eval, m) {
			return Choice{Move: m, Verdict: VerdictForcedWin, Comment: p.remark(p.taunts)}
		}
	}
	return Choice{Move: p.pick(safe), Verdict: VerdictNeutral}
}

func (p *Player) pick(moves []domain.Move) domain.Move {
	return moves[p.rng.Intn(len(moves))]
}

func (p *Player) remark(lines []string) string {
	return lines[p.rng.Intn(len(lines))]
}
