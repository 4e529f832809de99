package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/tictactoe"
)

const (
	cellSeparator = " | "
	rowSeparator  = "-----------"

	markColorX = "#E88388"
	markColorO = "#71BEF2"
)

type gameController interface {
	Board() *entity.Board
	Score() tictactoe.Score
	MakeMove(move int) (tictactoe.Outcome, error)
	Restart()
}

// Driver plays the game over a line-based terminal.
type Driver struct {
	logger *slog.Logger

	game  gameController
	input *bufio.Scanner
	out   *termenv.Output

	clearScreen bool
}

func New(logger *slog.Logger, game gameController, input io.Reader, out *termenv.Output, clearScreen bool) *Driver {
	return &Driver{
		logger:      logger.With("component", "console"),
		game:        game,
		input:       bufio.NewScanner(input),
		out:         out,
		clearScreen: clearScreen,
	}
}

// Run - plays rounds until the players decline a replay or the input ends.
func (that *Driver) Run(ctx context.Context) error {
	if that.clearScreen {
		that.out.ClearScreen()
	}

	that.println("Welcome to Tic Tac Toe!")

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		that.ShowBoard()

		outcome, err := that.makeMove()
		if errors.Is(err, apperror.ErrInputClosed) {
			that.logger.Info("input closed, leaving console")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to make move: %w", err)
		}

		if !outcome.IsFinished() {
			continue
		}

		that.ShowBoard()
		that.announce(outcome)

		again, err := that.shouldPlayAgain()
		if errors.Is(err, apperror.ErrInputClosed) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read replay answer: %w", err)
		}

		if !again {
			that.println("\nSee you later!\n")
			return nil
		}

		that.game.Restart()
	}
}

// ShowBoard - prints the board top row first, the way a numeric keypad looks.
func (that *Driver) ShowBoard() {
	that.println(RenderBoard(that.out, that.game.Board()))
}

// RenderBoard - renders the grid with styled marks. An Ascii profile renders plain text.
func RenderBoard(out *termenv.Output, board *entity.Board) string {
	var sb strings.Builder

	sb.WriteString("\n")

	for row := entity.Rows - 1; row >= 0; row-- {
		cells := make([]string, 0, entity.Cols)
		for col := 0; col < entity.Cols; col++ {
			cells = append(cells, styleCell(out, board.Cell(row, col)))
		}

		sb.WriteString(" " + strings.Join(cells, cellSeparator) + "\n")

		if row > 0 {
			sb.WriteString(rowSeparator + "\n")
		}
	}

	return sb.String()
}

func styleCell(out *termenv.Output, cell string) string {
	switch cell {
	case string(entity.PlayerX):
		return out.String(cell).Foreground(out.Color(markColorX)).Bold().String()
	case string(entity.PlayerO):
		return out.String(cell).Foreground(out.Color(markColorO)).Bold().String()
	default:
		return cell
	}
}

// makeMove - prompts until the current player makes a legal move.
func (that *Driver) makeMove() (tictactoe.Outcome, error) {
	mark := that.game.Board().Mark()

	for {
		line, err := that.prompt(fmt.Sprintf("\tPlayer '%s', your turn. Where's your move? ", mark))
		if err != nil {
			return tictactoe.Outcome{}, err
		}

		move, err := parseMove(line)
		if err != nil {
			that.println("\nInvalid input. Please enter a number between 1 and 9!")
			continue
		}

		outcome, err := that.game.MakeMove(move)
		if errors.Is(err, apperror.ErrInvalidMove) {
			that.println("\nThat spot is already taken, pick another one!")
			continue
		}
		if err != nil {
			return outcome, err
		}

		return outcome, nil
	}
}

func parseMove(line string) (int, error) {
	move, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", apperror.ErrInvalidInput, line)
	}

	if move < 1 || move > entity.Rows*entity.Cols {
		return 0, fmt.Errorf("%w: move %d out of range", apperror.ErrInvalidInput, move)
	}

	return move, nil
}

func (that *Driver) announce(outcome tictactoe.Outcome) {
	if outcome.Tie {
		that.println("\t***** It's a tie! *****\n")
	} else {
		that.println(fmt.Sprintf("\t***** Player '%s', you win! *****\n", outcome.Winner))
	}

	score := that.game.Score()
	that.println(fmt.Sprintf("\tX: %d  O: %d  ties: %d\n", score.X, score.O, score.Ties))
}

// shouldPlayAgain - asks until the answer is y or n.
func (that *Driver) shouldPlayAgain() (bool, error) {
	for {
		answer, err := that.prompt("Do you want to play again? - y or n: ")
		if err != nil {
			return false, err
		}

		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y":
			return true, nil
		case "n":
			return false, nil
		}

		that.println("Please, enter 'y' or 'n'")
	}
}

func (that *Driver) prompt(text string) (string, error) {
	that.print(text)

	if !that.input.Scan() {
		if err := that.input.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}

		return "", apperror.ErrInputClosed
	}

	return that.input.Text(), nil
}

func (that *Driver) print(text string) {
	if _, err := io.WriteString(that.out, text); err != nil {
		that.logger.Error("failed to write output", "error", err)
	}
}

func (that *Driver) println(text string) {
	that.print(text + "\n")
}
