package screen

import (
	"context"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tileWidth  = 11
	tileHeight = 5
	statusLine = entity.Rows * tileHeight
)

func newDriver(t *testing.T) (context.Context, *suite.Suite, *Driver, *tictactoe.GameController) {
	t.Helper()

	ctx, st := suite.New(t)

	game := tictactoe.NewGameController(st.Logger, entity.NewBoard())
	driver, err := New(st.Logger, game, st.Screen, tileWidth, tileHeight)
	require.NoError(t, err)

	return ctx, st, driver, game
}

func click(driver *Driver, x, y int) {
	driver.HandleEvent(tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone))
	driver.HandleEvent(tcell.NewEventMouse(x, y, tcell.ButtonNone, tcell.ModNone))
}

func key(driver *Driver, r rune) bool {
	return driver.HandleEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
}

func TestNew(t *testing.T) {
	_, st := suite.New(t)
	game := tictactoe.NewGameController(st.Logger, entity.NewBoard())

	_, err := New(st.Logger, game, st.Screen, 0, tileHeight)

	require.ErrorIs(t, err, apperror.ErrInvalidTileDim)
}

func TestDriver_RowColFromMouse(t *testing.T) {
	_, _, driver, _ := newDriver(t)

	cases := map[string]struct {
		x, y     int
		row, col int
	}{
		"top left corner":     {x: 0, y: 0, row: 2, col: 0},
		"bottom left tile":    {x: 5, y: 14, row: 0, col: 0},
		"center tile":         {x: 16, y: 7, row: 1, col: 1},
		"top right edge":      {x: 32, y: 4, row: 2, col: 2},
		"right of the board":  {x: 33, y: 7, row: 1, col: 3},
		"below the board":     {x: 5, y: 15, row: -1, col: 0},
		"far below the board": {x: 5, y: 40, row: -6, col: 0},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			row, col := driver.RowColFromMouse(tc.x, tc.y)

			assert.Equal(t, tc.row, row)
			assert.Equal(t, tc.col, col)
		})
	}
}

func TestDriver_Draw(t *testing.T) {
	// Given: a fresh round
	_, st, driver, _ := newDriver(t)

	// When: the screen is drawn
	driver.Draw()

	// Then: labels are laid out like a keypad
	for move := 1; move <= 9; move++ {
		row, col := entity.MoveToRowCol(move)
		x, y := driver.CellCenter(row, col)
		assert.Equal(t, rune('0'+move), st.RuneAt(x, y), "label %d", move)
	}

	// Then: the grid separates the tiles
	assert.Equal(t, tcell.RuneVLine, st.RuneAt(tileWidth-1, 0))
	assert.Equal(t, tcell.RuneHLine, st.RuneAt(0, tileHeight-1))
	assert.Equal(t, tcell.RunePlus, st.RuneAt(tileWidth-1, tileHeight-1))

	// Then: the status line names the player to move
	assert.Contains(t, st.Line(statusLine), "Player 'X', your turn")
	assert.Contains(t, st.Line(statusLine+2), "X: 0  O: 0  ties: 0")
}

func TestDriver_Mouse(t *testing.T) {
	t.Run("Click places the current mark", func(t *testing.T) {
		// Given: a fresh round
		_, st, driver, game := newDriver(t)

		// When: X clicks the bottom left tile
		click(driver, 2, 13)
		driver.Draw()

		// Then: label 1 holds X and O is to move
		x, y := driver.CellCenter(0, 0)
		assert.Equal(t, 'X', st.RuneAt(x, y))
		assert.Equal(t, entity.PlayerO, game.Board().Mark())
		assert.Contains(t, st.Line(statusLine), "Player 'O', your turn")
	})

	t.Run("Holding the button places only once", func(t *testing.T) {
		_, _, driver, game := newDriver(t)

		// When: the button is pressed on one tile and dragged to another
		driver.HandleEvent(tcell.NewEventMouse(2, 13, tcell.Button1, tcell.ModNone))
		driver.HandleEvent(tcell.NewEventMouse(16, 7, tcell.Button1, tcell.ModNone))

		// Then: only the first tile is taken
		assert.Equal(t, "X", game.Board().Cell(0, 0))
		assert.Equal(t, "5", game.Board().Cell(1, 1))
	})

	t.Run("Occupied and off-board clicks are ignored", func(t *testing.T) {
		_, _, driver, game := newDriver(t)
		click(driver, 2, 13)

		click(driver, 2, 13)
		click(driver, 40, 2)
		click(driver, 2, 20)

		assert.Equal(t, entity.PlayerO, game.Board().Mark())
		assert.Equal(t, "X", game.Board().Cell(0, 0))
	})
}

func TestDriver_RoundLifecycle(t *testing.T) {
	// Given: X:1, O:2, X:4, O:5 played with the keypad
	_, st, driver, game := newDriver(t)
	for _, r := range "1245" {
		require.False(t, key(driver, r))
	}

	// When: X completes the left column
	require.False(t, key(driver, '7'))
	driver.Draw()

	// Then: X is announced and the line is highlighted
	assert.Contains(t, st.Line(statusLine), "Player 'X', you win!")
	assert.Contains(t, st.Line(statusLine+1), "Click to play again!")
	assert.Contains(t, st.Line(statusLine+2), "X: 1  O: 0  ties: 0")

	for _, move := range []int{1, 4, 7} {
		x, y := driver.CellCenter(entity.MoveToRowCol(move))
		_, _, attrs := st.StyleAt(x, y).Decompose()
		assert.NotZero(t, attrs&tcell.AttrReverse, "label %d", move)
	}

	// When: a key is pressed on the finished board
	key(driver, '9')

	// Then: nothing is placed
	assert.Equal(t, "9", game.Board().Cell(2, 2))

	// When: the player clicks to play again
	click(driver, 0, 0)
	driver.Draw()

	// Then: a clean round starts with X to move
	assert.False(t, game.Outcome().IsFinished())
	assert.Equal(t, entity.NewBoard(), game.Board())
	assert.Contains(t, st.Line(statusLine), "Player 'X', your turn")
}

func TestDriver_Tie(t *testing.T) {
	_, st, driver, game := newDriver(t)

	for _, r := range "132465798" {
		key(driver, r)
	}
	driver.Draw()

	assert.True(t, game.Outcome().Tie)
	assert.Contains(t, st.Line(statusLine), "It's a tie")

	// Enter restarts a finished round
	driver.HandleEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	assert.False(t, game.Outcome().IsFinished())
}

func TestDriver_QuitKeys(t *testing.T) {
	_, _, driver, _ := newDriver(t)

	for _, k := range []tcell.Key{tcell.KeyEscape, tcell.KeyCtrlW, tcell.KeyCtrlC} {
		assert.True(t, driver.HandleEvent(tcell.NewEventKey(k, 0, tcell.ModNone)))
	}

	assert.True(t, key(driver, 'q'))
	assert.False(t, key(driver, 'z'))
}

func TestDriver_Run(t *testing.T) {
	t.Run("Returns when the player quits", func(t *testing.T) {
		// Given: a player that places the center and then quits
		ctx, st, driver, game := newDriver(t)
		st.Screen.InjectKey(tcell.KeyRune, '5', tcell.ModNone)
		st.Screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

		// When: the driver runs
		err := driver.Run(ctx)

		// Then: it returns cleanly after applying the move
		require.NoError(t, err)
		assert.Equal(t, "X", game.Board().Cell(1, 1))
	})

	t.Run("Returns when the context is canceled", func(t *testing.T) {
		ctx, _, driver, _ := newDriver(t)
		ctx, cancel := context.WithCancel(ctx)
		cancel()

		err := driver.Run(ctx)

		require.NoError(t, err)
	})
}
