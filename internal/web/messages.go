package web

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"

	"github.com/jaminalder/tictoc/internal/app"
	"github.com/jaminalder/tictoc/internal/domain"
	"github.com/mitchellh/mapstructure"
)

// Message is the websocket envelope. Contents stays loosely typed on the way
// in and is decoded per message type.
type Message struct {
	Type     string      `json:"type"`
	Contents interface{} `json:"contents"`
}

// MakeMoveRequest asks to play the human move at (R, C).
type MakeMoveRequest struct {
	R int `mapstructure:"r"`
	C int `mapstructure:"c"`
}

// MakeMoveResponse reports whether a MakeMoveRequest was played.
type MakeMoveResponse struct {
	Status bool   `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// ComputerMove describes the computer's last move.
type ComputerMove struct {
	R       int    `json:"r"`
	C       int    `json:"c"`
	Verdict string `json:"verdict"`
	Comment string `json:"comment,omitempty"`
}

// BoardBroadcast is the full game view pushed after every turn.
type BoardBroadcast struct {
	ID       string        `json:"id"`
	Board    [3][3]string  `json:"board"`
	Turn     string        `json:"turn"`
	Moves    int           `json:"moves"`
	Over     bool          `json:"over"`
	Winner   string        `json:"winner,omitempty"`
	Status   string        `json:"status"`
	Computer *ComputerMove `json:"computer,omitempty"`
}

// ErrorResponse answers a message that could not be handled.
type ErrorResponse struct {
	Reason string `json:"reason"`
}

// decodeMove requires both coordinates and rejects fractional numbers, which
// a plain mapstructure.Decode would zero or truncate.
func decodeMove(contents interface{}) (MakeMoveRequest, error) {
	var (
		req MakeMoveRequest
		md  mapstructure.Metadata
	)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: wholeNumbers,
		Metadata:   &md,
		Result:     &req,
	})
	if err != nil {
		return req, err
	}
	if err := dec.Decode(contents); err != nil {
		return req, err
	}
	if len(md.Unset) > 0 {
		return req, fmt.Errorf("missing fields %v", md.Unset)
	}
	return req, nil
}

func wholeNumbers(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to.Kind() != reflect.Int || from.Kind() != reflect.Float64 {
		return data, nil
	}
	if f := data.(float64); f != math.Trunc(f) {
		return nil, fmt.Errorf("%v is not a whole number", f)
	}
	return data, nil
}

func newBoardBroadcast(gs app.GameState) BoardBroadcast {
	out := BoardBroadcast{
		ID:     gs.ID,
		Turn:   gs.Game.Turn().String(),
		Moves:  gs.Game.Moves,
		Over:   gs.Game.Over,
		Status: gs.Status(),
	}
	for r := range out.Board {
		for c := range out.Board[r] {
			out.Board[r][c] = cellText(gs, r, c)
		}
	}
	if gs.Game.Over && gs.Game.Winner != domain.Empty {
		out.Winner = gs.Game.Winner.String()
	}
	if lc := gs.LastComputer; lc != nil {
		out.Computer = &ComputerMove{
			R:       lc.Move.Row,
			C:       lc.Move.Col,
			Verdict: lc.Verdict.String(),
			Comment: lc.Comment,
		}
	}
	return out
}

func cellText(gs app.GameState, r, c int) string {
	cell := gs.Game.Board.At(r, c)
	if cell == domain.Empty {
		return ""
	}
	return cell.String()
}

// toMessage wraps a typed payload in an envelope named after the type.
func toMessage(typ string, contents interface{}) []byte {
	b, _ := json.Marshal(Message{Type: typ, Contents: contents})
	return b
}
