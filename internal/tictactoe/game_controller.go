package tictactoe

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
)

const (
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"
)

// Outcome describes the round after a turn. Winner is the mark that just moved.
type Outcome struct {
	Status string
	Winner entity.Mark
	Tie    bool
	Line   [3]int
}

func (that Outcome) IsFinished() bool {
	return that.Status == StatusFinished
}

// Score is the tally of finished rounds in a session.
type Score struct {
	X    int
	O    int
	Ties int
}

// GameController sequences turns on a single board: place, check win, check tie,
// then either finish the round or hand the turn to the other mark.
type GameController struct {
	logger *slog.Logger

	board   *entity.Board
	gameID  string
	outcome Outcome
	score   Score
}

func NewGameController(logger *slog.Logger, board *entity.Board) *GameController {
	that := &GameController{
		logger: logger.With("component", "game_controller"),
		board:  board,
	}
	that.Restart()

	return that
}

func (that *GameController) Board() *entity.Board {
	return that.board
}

func (that *GameController) GameID() string {
	return that.gameID
}

func (that *GameController) Outcome() Outcome {
	return that.outcome
}

func (that *GameController) Score() Score {
	return that.score
}

// MakeMove - plays a keypad label (1..9) for the current mark.
func (that *GameController) MakeMove(move int) (Outcome, error) {
	row, col := entity.MoveToRowCol(move)

	return that.MakeTurn(row, col)
}

// MakeTurn - plays (row, col) for the current mark.
func (that *GameController) MakeTurn(row, col int) (Outcome, error) {
	log := that.logger.With("method", "MakeTurn", "game_id", that.gameID)

	if that.outcome.IsFinished() {
		return that.outcome, apperror.ErrGameFinished
	}

	mark := that.board.Mark()
	if err := that.board.PlaceMark(row, col); err != nil {
		log.Debug("rejected turn", "mark", mark, "row", row, "col", col, "error", err)
		return that.outcome, fmt.Errorf("invalid turn: %w", err)
	}

	that.updateGameStatus(mark)
	log.Debug("turn played", "mark", mark, "row", row, "col", col, "board", that.board, "status", that.outcome.Status)

	return that.outcome, nil
}

// Restart - clears the board for a new round. The score is kept.
func (that *GameController) Restart() {
	that.board.Reset()
	that.gameID = uuid.New().String()
	that.outcome = Outcome{Status: StatusOngoing}

	that.logger.Info("round started", "game_id", that.gameID)
}

// updateGameStatus - checks the board after mark has moved. Win takes precedence over tie.
func (that *GameController) updateGameStatus(mark entity.Mark) {
	if line, ok := that.board.WinningLine(); ok {
		that.outcome = Outcome{Status: StatusFinished, Winner: mark, Line: line}
		that.addWin(mark)
		that.logger.Info("round won", "game_id", that.gameID, "winner", mark)

		return
	}

	if that.board.CheckTie() {
		that.outcome = Outcome{Status: StatusFinished, Tie: true}
		that.score.Ties++
		that.logger.Info("round tied", "game_id", that.gameID)

		return
	}

	that.board.ChangePlayer()
}

func (that *GameController) addWin(mark entity.Mark) {
	if mark == entity.PlayerX {
		that.score.X++
	} else {
		that.score.O++
	}
}
