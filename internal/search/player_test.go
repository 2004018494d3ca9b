package search

import (
	"testing"

	"github.com/jaminalder/tictoc/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// alwaysLoses marks every move as losing.
type alwaysLoses struct{ calls int }

func (a *alwaysLoses) ForcesLoss(*domain.Board, domain.Move) bool {
	a.calls++
	return true
}

func TestChooseTakesImmediateWin(t *testing.T) {
	// O holds (1,0) and (1,1); X blundered elsewhere. O to move.
	b := boardFrom(t, domain.X, mv(0, 0), mv(1, 0), mv(2, 2), mv(1, 1), mv(0, 2))
	p := NewPlayer(WithSeed(1), WithTaunts("gg"))

	choice, err := p.Choose(&b)
	require.NoError(t, err)
	assert.Equal(t, mv(1, 2), choice.Move)
	assert.Equal(t, VerdictWin, choice.Verdict)
	assert.Equal(t, "gg", choice.Comment)
	assert.True(t, b.WonBy(domain.O))
}

func TestChooseFindsFork(t *testing.T) {
	b := boardFrom(t, domain.X, mv(1, 1), mv(0, 1), mv(0, 0), mv(2, 2))
	p := NewPlayer(WithSeed(3))

	choice, err := p.Choose(&b)
	require.NoError(t, err)
	assert.Equal(t, VerdictForcedWin, choice.Verdict)
	assert.NotEmpty(t, choice.Comment)
	assert.Equal(t, domain.X, b.At(choice.Move.Row, choice.Move.Col))
	assert.Equal(t, domain.O, b.Turn())
}

func TestChooseResignsWhenEveryMoveLoses(t *testing.T) {
	b := boardFrom(t, domain.X, mv(1, 1), mv(0, 1), mv(0, 0), mv(2, 2), mv(2, 0))
	before := b.EmptyCells()
	p := NewPlayer(WithSeed(5), WithResignations("ugh"))

	choice, err := p.Choose(&b)
	require.NoError(t, err)
	assert.Equal(t, VerdictResign, choice.Verdict)
	assert.Equal(t, "ugh", choice.Comment)
	assert.Contains(t, before, choice.Move)
	assert.Equal(t, domain.O, b.At(choice.Move.Row, choice.Move.Col))
}

func TestChooseNeutralHasNoComment(t *testing.T) {
	b := boardFrom(t, domain.X, mv(0, 0))
	p := NewPlayer(WithSeed(9))

	choice, err := p.Choose(&b)
	require.NoError(t, err)
	assert.Equal(t, mv(1, 1), choice.Move)
	assert.Equal(t, VerdictNeutral, choice.Verdict)
	assert.Empty(t, choice.Comment)
}

func TestChooseOnFullBoard(t *testing.T) {
	b := boardFrom(t, domain.X,
		mv(0, 0), mv(0, 1), mv(0, 2),
		mv(1, 1), mv(1, 0), mv(1, 2),
		mv(2, 1), mv(2, 0), mv(2, 2))
	before := b
	_, err := NewPlayer().Choose(&b)
	assert.ErrorIs(t, err, ErrNoMoves)
	assert.Equal(t, before, b)
}

func TestChooseUsesInjectedEvaluator(t *testing.T) {
	b := boardFrom(t, domain.X, mv(0, 0))
	eval := &alwaysLoses{}
	choice, err := NewPlayer(WithEvaluator(eval), WithSeed(1)).Choose(&b)
	require.NoError(t, err)
	assert.Equal(t, VerdictResign, choice.Verdict)
	assert.Equal(t, 8, eval.calls)
}

// playAllReplies walks every line the human can choose while the computer
// answers with Choose, failing if the human ever wins.
func playAllReplies(t *testing.T, p *Player, b domain.Board, human domain.Cell, games *int) {
	for _, m := range b.EmptyCells() {
		next := b
		require.NoError(t, next.Apply(m.Row, m.Col))
		if next.WonBy(human) {
			t.Fatalf("human won with %v on %v", m, next.Cells())
		}
		if next.Full() {
			*games++
			continue
		}
		if _, err := p.Choose(&next); err != nil {
			t.Fatalf("choose: %v", err)
		}
		if next.WonBy(human.Opponent()) || next.Full() {
			*games++
			continue
		}
		playAllReplies(t, p, next, human, games)
	}
}

func TestComputerNeverLosesMovingSecond(t *testing.T) {
	p := NewPlayer(WithSeed(11))
	games := 0
	playAllReplies(t, p, domain.NewBoard(domain.X), domain.X, &games)
	assert.Positive(t, games)
}

func TestComputerNeverLosesMovingFirst(t *testing.T) {
	if testing.Short() {
		t.Skip("full-board opening search")
	}
	p := NewPlayer(WithSeed(13))
	b := domain.NewBoard(domain.O)
	_, err := p.Choose(&b)
	require.NoError(t, err)
	games := 0
	playAllReplies(t, p, b, domain.X, &games)
	assert.Positive(t, games)
}

func TestVerdictString(t *testing.T) {
	assert.Equal(t, "neutral", VerdictNeutral.String())
	assert.Equal(t, "win", VerdictWin.String())
	assert.Equal(t, "forced win", VerdictForcedWin.String())
	assert.Equal(t, "resign", VerdictResign.String())
}
