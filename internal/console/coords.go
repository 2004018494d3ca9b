package console

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jaminalder/tictoc/internal/domain"
)

// ErrBadCoord is returned for input that names no cell.
var ErrBadCoord = errors.New("bad coordinate")

// ParseCoord reads a cell as column then row, both 1-based: "b3" or "23".
// Rows count from the bottom of the rendered board.
func ParseCoord(s string) (domain.Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 {
		return domain.Move{}, fmt.Errorf("%w: %q", ErrBadCoord, s)
	}
	var col int
	switch c := s[0]; {
	case c >= 'a' && c <= 'c':
		col = int(c - 'a')
	case c >= '1' && c <= '3':
		col = int(c - '1')
	default:
		return domain.Move{}, fmt.Errorf("%w: column %q", ErrBadCoord, c)
	}
	r := s[1]
	if r < '1' || r > '3' {
		return domain.Move{}, fmt.Errorf("%w: row %q", ErrBadCoord, r)
	}
	return domain.Move{Row: int(r - '1'), Col: col}, nil
}

// FormatCoord is the inverse of ParseCoord in letter form.
func FormatCoord(m domain.Move) string {
	return fmt.Sprintf("%c%d", 'a'+m.Col, m.Row+1)
}
