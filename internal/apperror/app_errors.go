package apperror

import "errors"

var (
	ErrInvalidMove    = errors.New("invalid move")
	ErrGameFinished   = errors.New("game is already finished")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInputClosed    = errors.New("input closed")
	ErrUnknownDriver  = errors.New("unknown driver")
	ErrInvalidTileDim = errors.New("tile dimensions must be positive")
)
