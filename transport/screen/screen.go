package screen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/tictactoe"
)

var (
	styleLabel   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleX       = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleO       = tcell.StyleDefault.Foreground(tcell.ColorBlue).Bold(true)
	styleGrid    = tcell.StyleDefault
	styleMessage = tcell.StyleDefault.Bold(true)
)

type gameController interface {
	Board() *entity.Board
	Outcome() tictactoe.Outcome
	Score() tictactoe.Score
	MakeTurn(row, col int) (tictactoe.Outcome, error)
	MakeMove(move int) (tictactoe.Outcome, error)
	Restart()
}

// Driver plays the game on a terminal cell grid. The board is split into
// tiles of a fixed size; row 0 is drawn at the bottom so labels read like a keypad.
type Driver struct {
	logger *slog.Logger

	game   gameController
	screen tcell.Screen

	tileWidth  int
	tileHeight int

	pressed bool
}

func New(logger *slog.Logger, game gameController, screen tcell.Screen, tileWidth, tileHeight int) (*Driver, error) {
	if tileWidth <= 0 || tileHeight <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", apperror.ErrInvalidTileDim, tileWidth, tileHeight)
	}

	return &Driver{
		logger:     logger.With("component", "screen"),
		game:       game,
		screen:     screen,
		tileWidth:  tileWidth,
		tileHeight: tileHeight,
	}, nil
}

// Run - polls screen events until the player quits or ctx is done.
// The screen must be initialized by the caller, who also finalizes it.
func (that *Driver) Run(ctx context.Context) error {
	that.screen.EnableMouse(tcell.MouseButtonEvents)
	that.screen.HideCursor()
	that.Draw()

	events := make(chan tcell.Event)
	done := make(chan struct{})

	errg, ctx := errgroup.WithContext(ctx)

	// event pump
	errg.Go(func() error {
		for {
			ev := that.screen.PollEvent()
			if ev == nil {
				return nil
			}

			select {
			case events <- ev:
			case <-done:
				return nil
			}
		}
	})

	errg.Go(func() error {
		defer func() {
			close(done)
			// wake the pump if it is blocked in PollEvent
			if err := that.screen.PostEvent(tcell.NewEventInterrupt(nil)); err != nil {
				that.logger.Debug("could not post interrupt", "error", err)
			}
		}()

		for {
			select {
			case <-ctx.Done():
				that.logger.Info("context done, leaving screen")
				return nil
			case ev := <-events:
				if that.HandleEvent(ev) {
					that.logger.Info("player quit")
					return nil
				}
				that.Draw()
			}
		}
	})

	if err := errg.Wait(); err != nil {
		return fmt.Errorf("screen driver: %w", err)
	}

	return nil
}

// HandleEvent - applies one event to the game. It reports whether the player asked to quit.
func (that *Driver) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		that.screen.Sync()
	case *tcell.EventKey:
		return that.handleKey(ev)
	case *tcell.EventMouse:
		that.handleMouse(ev)
	}

	return false
}

func (that *Driver) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlW, tcell.KeyCtrlC:
		return true
	case tcell.KeyEnter:
		that.playAgain()
	case tcell.KeyRune:
		switch r := ev.Rune(); {
		case r == 'q' || r == 'Q':
			return true
		case r == ' ':
			that.playAgain()
		case r >= '1' && r <= '9':
			move, _ := strconv.Atoi(string(r))
			that.play(func() (tictactoe.Outcome, error) { return that.game.MakeMove(move) })
		}
	}

	return false
}

func (that *Driver) handleMouse(ev *tcell.EventMouse) {
	pressed := ev.Buttons()&tcell.Button1 != 0
	clicked := pressed && !that.pressed
	that.pressed = pressed

	if !clicked {
		return
	}

	if that.game.Outcome().IsFinished() {
		that.playAgain()
		return
	}

	row, col := that.RowColFromMouse(ev.Position())
	that.play(func() (tictactoe.Outcome, error) { return that.game.MakeTurn(row, col) })
}

func (that *Driver) play(turn func() (tictactoe.Outcome, error)) {
	if that.game.Outcome().IsFinished() {
		return
	}

	if _, err := turn(); err != nil {
		if errors.Is(err, apperror.ErrInvalidMove) {
			that.logger.Debug("ignored move", "error", err)
			return
		}
		that.logger.Error("turn failed", "error", err)
	}
}

func (that *Driver) playAgain() {
	if that.game.Outcome().IsFinished() {
		that.game.Restart()
	}
}

// RowColFromMouse - maps a screen position to board coordinates by dividing by the tile size.
// Positions below or right of the board give coordinates the board rejects.
func (that *Driver) RowColFromMouse(x, y int) (int, int) {
	return entity.Rows - 1 - y/that.tileHeight, x / that.tileWidth
}

// Draw - renders the board, the status message and the score.
func (that *Driver) Draw() {
	that.screen.Clear()

	that.drawGrid()

	board := that.game.Board()
	outcome := that.game.Outcome()

	highlighted := map[int]bool{}
	if outcome.IsFinished() && !outcome.Tie {
		for _, index := range outcome.Line {
			highlighted[index] = true
		}
	}

	for row := 0; row < entity.Rows; row++ {
		for col := 0; col < entity.Cols; col++ {
			that.drawCell(board, row, col, highlighted[row*entity.Cols+col])
		}
	}

	that.drawStatus(board, outcome)

	that.screen.Show()
}

func (that *Driver) drawGrid() {
	width, height := entity.Cols*that.tileWidth, entity.Rows*that.tileHeight

	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			vertical := x%that.tileWidth == that.tileWidth-1 && x < width-1
			horizontal := y%that.tileHeight == that.tileHeight-1 && y < height-1

			switch {
			case vertical && horizontal:
				that.screen.SetContent(x, y, tcell.RunePlus, nil, styleGrid)
			case vertical:
				that.screen.SetContent(x, y, tcell.RuneVLine, nil, styleGrid)
			case horizontal:
				that.screen.SetContent(x, y, tcell.RuneHLine, nil, styleGrid)
			}
		}
	}
}

func (that *Driver) drawCell(board *entity.Board, row, col int, highlighted bool) {
	x, y := that.CellCenter(row, col)
	cell := board.Cell(row, col)

	style := styleLabel
	switch cell {
	case string(entity.PlayerX):
		style = styleX
	case string(entity.PlayerO):
		style = styleO
	}

	if highlighted {
		style = style.Reverse(true)
	}

	that.screen.SetContent(x, y, []rune(cell)[0], nil, style)
}

// CellCenter - returns the screen position where the content of (row, col) is drawn.
func (that *Driver) CellCenter(row, col int) (int, int) {
	x := col*that.tileWidth + (that.tileWidth-1)/2
	y := (entity.Rows-1-row)*that.tileHeight + (that.tileHeight-1)/2

	return x, y
}

func (that *Driver) drawStatus(board *entity.Board, outcome tictactoe.Outcome) {
	y := entity.Rows * that.tileHeight

	switch {
	case outcome.Tie:
		that.drawText(0, y, "***** It's a tie *****", styleMessage)
		that.drawText(0, y+1, "Click to play again!", tcell.StyleDefault)
	case outcome.IsFinished():
		that.drawText(0, y, fmt.Sprintf("***** Player '%s', you win! *****", outcome.Winner), styleMessage)
		that.drawText(0, y+1, "Click to play again!", tcell.StyleDefault)
	default:
		that.drawText(0, y, fmt.Sprintf("Player '%s', your turn", board.Mark()), styleMessage)
	}

	score := that.game.Score()
	that.drawText(0, y+2, fmt.Sprintf("X: %d  O: %d  ties: %d  (q to quit)", score.X, score.O, score.Ties), styleLabel)
}

func (that *Driver) drawText(x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		that.screen.SetContent(x+i, y, r, nil, style)
	}
}
