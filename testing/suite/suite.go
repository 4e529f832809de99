package suite

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

const maxWaitDuration = 10 * time.Second

const (
	screenWidth  = 80
	screenHeight = 24
)

type Suite struct {
	*testing.T
	Logger *slog.Logger

	Screen tcell.SimulationScreen
}

func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), maxWaitDuration)
	t.Cleanup(func() {
		cancel()
	})

	logger := slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("could not init simulation screen: %v", err)
	}

	screen.SetSize(screenWidth, screenHeight)

	t.Cleanup(func() {
		t.Helper()

		screen.Fini()
	})

	return ctx, &Suite{
		T:      t,
		Logger: logger,
		Screen: screen,
	}
}

// RuneAt returns the rune drawn at (x, y) on the last Show of the simulation screen.
func (that *Suite) RuneAt(x, y int) rune {
	that.Helper()

	cells, width, _ := that.Screen.GetContents()

	cell := cells[y*width+x]
	if len(cell.Runes) == 0 {
		return ' '
	}

	return cell.Runes[0]
}

// Line returns row y of the simulation screen as text.
func (that *Suite) Line(y int) string {
	that.Helper()

	cells, width, _ := that.Screen.GetContents()

	runes := make([]rune, 0, width)
	for x := 0; x < width; x++ {
		cell := cells[y*width+x]
		if len(cell.Runes) == 0 {
			runes = append(runes, ' ')
			continue
		}
		runes = append(runes, cell.Runes[0])
	}

	return string(runes)
}

// StyleAt returns the style drawn at (x, y).
func (that *Suite) StyleAt(x, y int) tcell.Style {
	that.Helper()

	cells, width, _ := that.Screen.GetContents()

	return cells[y*width+x].Style
}
