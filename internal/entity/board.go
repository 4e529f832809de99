package entity

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
)

const (
	Rows = 3
	Cols = 3
)

// Mark is one of the two player symbols.
type Mark string

const (
	PlayerX Mark = "X"
	PlayerO Mark = "O"
)

// WinCombos lists the 8 lines as flat indices (row*Cols + col).
var WinCombos = [][3]int{
	// rows
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	// columns
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	// diagonals
	{0, 4, 8},
	{2, 4, 6},
}

// Board is the 3x3 grid and the mark whose turn is active.
// Row 0 is the bottom row: labels follow a numeric keypad, 1 bottom-left and 9 top-right.
// An empty cell holds its own label ("1".."9").
type Board struct {
	cells [Rows][Cols]string
	mark  Mark
}

// NewBoard - returns a clean board with X to move.
func NewBoard() *Board {
	board := &Board{}
	board.Reset()

	return board
}

// Reset - clears all cells back to their labels and gives the turn to X.
func (that *Board) Reset() {
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			that.cells[row][col] = strconv.Itoa(Label(row, col))
		}
	}

	that.mark = PlayerX
}

func (that *Board) Mark() Mark {
	return that.mark
}

// Cell returns the content of a cell, or "" when the coordinates are off the board.
func (that *Board) Cell(row, col int) string {
	if !inRange(row, col) {
		return ""
	}

	return that.cells[row][col]
}

func (that *Board) IsMarked(row, col int) bool {
	return inRange(row, col) && isMark(that.cells[row][col])
}

// IsValidPlacement - reports whether (row, col) is on the board and still empty.
func (that *Board) IsValidPlacement(row, col int) bool {
	return inRange(row, col) && !isMark(that.cells[row][col])
}

// PlaceMark - writes the current mark into (row, col). The turn is not advanced.
func (that *Board) PlaceMark(row, col int) error {
	if !that.IsValidPlacement(row, col) {
		return fmt.Errorf("%w: row %d, col %d", apperror.ErrInvalidMove, row, col)
	}

	that.cells[row][col] = string(that.mark)

	return nil
}

func (that *Board) ChangePlayer() {
	if that.mark == PlayerX {
		that.mark = PlayerO
	} else {
		that.mark = PlayerX
	}
}

// WinningLine - returns the first line held entirely by one mark.
func (that *Board) WinningLine() ([3]int, bool) {
	for _, combo := range WinCombos {
		a, b, c := that.flat(combo[0]), that.flat(combo[1]), that.flat(combo[2])
		if isMark(a) && a == b && b == c {
			return combo, true
		}
	}

	return [3]int{}, false
}

func (that *Board) CheckWin() bool {
	_, ok := that.WinningLine()
	return ok
}

// CheckTie - reports whether no empty cell remains. Callers check for a win first.
func (that *Board) CheckTie() bool {
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			if !isMark(that.cells[row][col]) {
				return false
			}
		}
	}

	return true
}

func (that *Board) LogValue() slog.Value {
	rows := make([]string, 0, Rows)
	for row := Rows - 1; row >= 0; row-- {
		rows = append(rows, strings.Join(that.cells[row][:], ""))
	}

	return slog.GroupValue(
		slog.String("cells", strings.Join(rows, "/")),
		slog.String("mark", string(that.mark)),
	)
}

func (that *Board) flat(index int) string {
	return that.cells[index/Cols][index%Cols]
}

// MoveToRowCol - maps a keypad label (1..9) to zero-based coordinates.
// Labels outside 1..9 land off the board.
func MoveToRowCol(move int) (int, int) {
	return (move - 1) / Cols, (move - 1) % Cols
}

// Label is the inverse of MoveToRowCol.
func Label(row, col int) int {
	return row*Cols + col + 1
}

func inRange(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols
}

func isMark(cell string) bool {
	return cell == string(PlayerX) || cell == string(PlayerO)
}
