package game

import (
	"fmt"
	"strings"

	"github.com/hailam/chesscore/internal/board"
)

// PGNTags fills the seven tag roster. Empty values are written as "?".
type PGNTags struct {
	Event string
	Site  string
	Date  string // YYYY.MM.DD
	Round string
	White string
	Black string
}

const pgnLineWidth = 80

// PGN exports the game. Games that did not start from the initial position
// carry SetUp and FEN tags.
func (g *Game) PGN(tags PGNTags) string {
	var sb strings.Builder
	writeTag := func(name, value, unknown string) {
		if value == "" {
			value = unknown
		}
		value = strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(value)
		fmt.Fprintf(&sb, "[%s \"%s\"]\n", name, value)
	}
	writeTag("Event", tags.Event, "?")
	writeTag("Site", tags.Site, "?")
	writeTag("Date", tags.Date, "????.??.??")
	writeTag("Round", tags.Round, "?")
	writeTag("White", tags.White, "?")
	writeTag("Black", tags.Black, "?")
	writeTag("Result", g.Result(), "*")
	if g.startFEN != board.StartFEN {
		writeTag("SetUp", "1", "")
		writeTag("FEN", g.startFEN, "")
	}
	sb.WriteByte('\n')

	line := 0
	emit := func(tok string) {
		switch {
		case line == 0:
		case line+1+len(tok) > pgnLineWidth:
			sb.WriteByte('\n')
			line = 0
		default:
			sb.WriteByte(' ')
			line++
		}
		sb.WriteString(tok)
		line += len(tok)
	}

	start, _ := board.ParseFEN(g.startFEN)
	number, side := start.FullMoveNumber, start.SideToMove
	for i, san := range g.san {
		switch {
		case side == board.White:
			emit(fmt.Sprintf("%d.", number))
		case i == 0:
			emit(fmt.Sprintf("%d...", number))
		}
		emit(san)
		if side == board.Black {
			number++
		}
		side = side.Other()
	}
	emit(g.Result())
	sb.WriteByte('\n')
	return sb.String()
}
