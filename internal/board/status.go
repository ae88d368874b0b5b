package board

// GameStatus classifies a position.
type GameStatus uint8

const (
	Ongoing GameStatus = iota
	Check
	Checkmate
	Stalemate
	DrawFiftyMove
	DrawRepetition
	DrawInsufficientMaterial
)

var statusNames = [...]string{
	Ongoing:                  "ongoing",
	Check:                    "check",
	Checkmate:                "checkmate",
	Stalemate:                "stalemate",
	DrawFiftyMove:            "draw_fifty_move",
	DrawRepetition:           "draw_repetition",
	DrawInsufficientMaterial: "draw_insufficient_material",
}

func (s GameStatus) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// ParseGameStatus is the inverse of GameStatus.String.
func ParseGameStatus(s string) (GameStatus, bool) {
	for i, name := range statusNames {
		if name == s {
			return GameStatus(i), true
		}
	}
	return Ongoing, false
}

// IsTerminal reports whether the game is over.
func (s GameStatus) IsTerminal() bool {
	return s >= Checkmate
}

// IsDraw reports whether the status is one of the drawn outcomes.
func (s GameStatus) IsDraw() bool {
	return s == Stalemate || s >= DrawFiftyMove
}

// RepetitionKey identifies the position for threefold repetition: piece
// placement, side to move, castling rights and en-passant target.
func (p *Position) RepetitionKey() uint64 {
	return p.Hash
}

// Status classifies the position. history holds the repetition keys of the
// positions that came before this one in the game, oldest first; the current
// position is not part of it.
//
// A position without legal moves is always checkmate or stalemate. After
// that come the fifty-move rule, threefold repetition and insufficient
// material, and only then check.
func (p *Position) Status(history []uint64) GameStatus {
	inCheck := p.InCheck()
	if !p.HasLegalMoves() {
		if inCheck {
			return Checkmate
		}
		return Stalemate
	}
	if p.HalfMoveClock >= 100 {
		return DrawFiftyMove
	}
	if p.RepetitionCount(history) >= 3 {
		return DrawRepetition
	}
	if p.IsInsufficientMaterial() {
		return DrawInsufficientMaterial
	}
	if inCheck {
		return Check
	}
	return Ongoing
}

// RepetitionCount returns how many times the current position has occurred,
// counting itself, given the keys of the earlier positions.
func (p *Position) RepetitionCount(history []uint64) int {
	key := p.RepetitionKey()
	n := 1
	for _, k := range history {
		if k == key {
			n++
		}
	}
	return n
}
