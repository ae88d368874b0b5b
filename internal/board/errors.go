package board

import "fmt"

// InvalidFormatError reports FEN text that could not be decoded. No
// position is produced when it is returned.
type InvalidFormatError struct {
	Input  string
	Field  string
	Reason string
}

func (e *InvalidFormatError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid FEN %q: %s", e.Input, e.Reason)
	}
	return fmt.Sprintf("invalid FEN %q: %s: %s", e.Input, e.Field, e.Reason)
}

// IllegalMoveReason says why a well-formed move descriptor was rejected.
type IllegalMoveReason string

const (
	ReasonNoPiece              IllegalMoveReason = "no piece on origin square"
	ReasonWrongSide            IllegalMoveReason = "piece does not belong to the side to move"
	ReasonOwnPiece             IllegalMoveReason = "destination occupied by own piece"
	ReasonUnreachable          IllegalMoveReason = "piece cannot reach destination"
	ReasonPathBlocked          IllegalMoveReason = "path blocked"
	ReasonLeavesKingInCheck    IllegalMoveReason = "leaves own king in check"
	ReasonCastlingUnavailable  IllegalMoveReason = "castling right unavailable"
	ReasonCastlingThroughCheck IllegalMoveReason = "king is in check or crosses an attacked square"
	ReasonPromotionRequired    IllegalMoveReason = "promotion piece required"
	ReasonBadPromotion         IllegalMoveReason = "invalid promotion"
)

// IllegalMoveError is returned when a descriptor is not a legal move in the
// current position.
type IllegalMoveError struct {
	Move   Descriptor
	Reason IllegalMoveReason
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %s: %s", e.Move, e.Reason)
}
