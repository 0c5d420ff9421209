package domino

import "errors"

// Rule violations reported by the resolver. Callers match them with errors.Is;
// returned errors usually wrap one of these with detail.
var (
	ErrGameAlreadyFinished = errors.New("game already finished")
	ErrNotPlayerTurn       = errors.New("not player's turn")
	ErrTileNotInHand       = errors.New("tile not in hand")
	ErrIllegalPlacement    = errors.New("illegal placement")
	ErrMustPlayNotDraw     = errors.New("must play instead of drawing")
	ErrMustPlayNotPass     = errors.New("must play instead of passing")
	ErrStockEmpty          = errors.New("stock is empty")
)

// Input validation errors.
var (
	ErrInvalidSeat        = errors.New("invalid seat")
	ErrInvalidTile        = errors.New("invalid tile")
	ErrInvalidSide        = errors.New("invalid side")
	ErrInvalidPlayerCount = errors.New("player count must be between 2 and 4")
	ErrMatchFinished      = errors.New("match already finished")
	ErrGameInProgress     = errors.New("current game is not finished")
	ErrInvalidAction      = errors.New("unknown action")
)
