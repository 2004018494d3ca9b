package console

import (
	"bytes"
	"context"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/jaminalder/tictoc/internal/domain"
	"github.com/jaminalder/tictoc/internal/search"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoord(t *testing.T) {
	cases := map[string]domain.Move{
		"a1":   {Row: 0, Col: 0},
		"c1":   {Row: 0, Col: 2},
		"b3":   {Row: 2, Col: 1},
		" A2 ": {Row: 1, Col: 0},
		"23":   {Row: 2, Col: 1},
		"31":   {Row: 0, Col: 2},
	}
	for in, want := range cases {
		got, err := ParseCoord(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"", "a", "d1", "a4", "a0", "04", "abc", "zz"} {
		_, err := ParseCoord(bad)
		assert.ErrorIs(t, err, ErrBadCoord, bad)
	}
}

func TestFormatCoordRoundTrip(t *testing.T) {
	for r := 0; r < domain.Size; r++ {
		for c := 0; c < domain.Size; c++ {
			m := domain.Move{Row: r, Col: c}
			got, err := ParseCoord(FormatCoord(m))
			require.NoError(t, err)
			assert.Equal(t, m, got)
		}
	}
	assert.Equal(t, "b3", FormatCoord(domain.Move{Row: 2, Col: 1}))
}

func TestRenderDrawsTopRowFirst(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, termenv.WithProfile(termenv.Ascii))
	b := domain.NewBoard(domain.X)
	require.NoError(t, b.Apply(0, 0))
	require.NoError(t, b.Apply(2, 2))
	require.NoError(t, r.Board(&b))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "3   |   | O", lines[0])
	assert.Equal(t, "1 X |   |  ", lines[4])
	assert.Equal(t, "  a   b   c", lines[5])
}

func newLoop(input string, computerFirst bool) (*Loop, *bytes.Buffer) {
	var out bytes.Buffer
	return &Loop{
		In:            strings.NewReader(input),
		Out:           &out,
		Player:        search.NewPlayer(search.WithSeed(1), search.WithTaunts("gg")),
		Renderer:      NewRenderer(&out, termenv.WithProfile(termenv.Ascii)),
		ComputerFirst: computerFirst,
		Rand:          rand.New(rand.NewSource(1)),
	}, &out
}

func TestLoopRepromptsAndReplies(t *testing.T) {
	// Bad input and a taken cell are re-prompted; the computer answers a1 with b2.
	loop, out := newLoop("a1\nzz\na1\nb1\nc2\na3\nb3\nc3\nc1\na2\n", false)
	outcome, err := loop.Run(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, domain.XWins, outcome)
	assert.Contains(t, out.String(), "Enter a cell like a1 or 21.")
	assert.Contains(t, out.String(), "That cell is taken!")
	assert.Contains(t, out.String(), "The computer chose b2.")
}

func TestLoopComputerFirst(t *testing.T) {
	var in strings.Builder
	for r := 1; r <= 3; r++ {
		for _, c := range "abc" {
			in.WriteString(string(c))
			in.WriteString(string(rune('0' + r)))
			in.WriteString("\n")
		}
	}
	loop, out := newLoop(in.String(), true)
	outcome, err := loop.Run(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, domain.XWins, outcome)
	assert.True(t, strings.HasPrefix(out.String(), "The computer chose "))
}

func TestLoopStopsOnEOF(t *testing.T) {
	loop, _ := newLoop("a1\n", false)
	_, err := loop.Run(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestLoopHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	loop, _ := newLoop("a1\n", false)
	_, err := loop.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
