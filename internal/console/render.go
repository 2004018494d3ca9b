package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/jaminalder/tictoc/internal/domain"
	"github.com/muesli/termenv"
)

// Renderer draws boards to a terminal.
type Renderer struct {
	out *termenv.Output
}

// NewRenderer colours output when w is a terminal that supports it.
func NewRenderer(w io.Writer, opts ...termenv.OutputOption) *Renderer {
	return &Renderer{out: termenv.NewOutput(w, opts...)}
}

func (r *Renderer) mark(c domain.Cell) string {
	s := r.out.String(c.String())
	switch c {
	case domain.X:
		return s.Foreground(r.out.Color("#E88388")).Bold().String()
	case domain.O:
		return s.Foreground(r.out.Color("#66C2CD")).Bold().String()
	default:
		return s.String()
	}
}

// Board draws b with row 3 on top and column letters underneath.
func (r *Renderer) Board(b *domain.Board) error {
	var sb strings.Builder
	for row := domain.Size - 1; row >= 0; row-- {
		fmt.Fprintf(&sb, "%d %s | %s | %s\n", row+1,
			r.mark(b.At(row, 0)), r.mark(b.At(row, 1)), r.mark(b.At(row, 2)))
		if row > 0 {
			sb.WriteString("  ---------\n")
		}
	}
	sb.WriteString("  a   b   c\n")
	_, err := io.WriteString(r.out, sb.String())
	return err
}
