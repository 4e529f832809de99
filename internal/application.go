package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/config"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe/transport/console"
	"github.com/rocketscienceinc/tictactoe/transport/screen"
)

// Driver is a front end that plays rounds until the players leave.
type Driver interface {
	Run(ctx context.Context) error
}

// Terminal holds the streams the console driver plays over.
type Terminal struct {
	In  io.Reader
	Out io.Writer
}

// RunApp - runs the game with the configured driver until the players quit or a signal arrives.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	game := tictactoe.NewGameController(logger, entity.NewBoard())

	drv, cleanup, err := NewDriver(logger, conf, game, Terminal{In: os.Stdin, Out: os.Stdout})
	if err != nil {
		return err
	}
	defer cleanup()

	// run the driver
	driverErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting driver", "driver", conf.Driver, "game_id", game.GameID())
		driverErrCh <- drv.Run(ctx)
	}()

	select {
	case err = <-driverErrCh:
		if err != nil {
			return fmt.Errorf("%s driver error: %w", conf.Driver, err)
		}

		log.Info("Players left the game", "score", game.Score())
		return nil
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// NewDriver - builds the configured driver. The returned cleanup restores the terminal.
func NewDriver(logger *slog.Logger, conf *config.Config, game *tictactoe.GameController, term Terminal) (Driver, func(), error) {
	switch conf.Driver {
	case config.DriverConsole:
		opts := []termenv.OutputOption{}
		if conf.Console.NoColor {
			opts = append(opts, termenv.WithProfile(termenv.Ascii))
		}

		out := termenv.NewOutput(term.Out, opts...)

		return console.New(logger, game, term.In, out, !conf.Console.NoClear), func() {}, nil
	case config.DriverScreen:
		scr, err := tcell.NewScreen()
		if err != nil {
			return nil, nil, fmt.Errorf("could not create screen: %w", err)
		}

		if err = scr.Init(); err != nil {
			return nil, nil, fmt.Errorf("could not init screen: %w", err)
		}

		drv, err := screen.New(logger, game, scr, conf.Screen.TileWidth, conf.Screen.TileHeight)
		if err != nil {
			scr.Fini()
			return nil, nil, err
		}

		return drv, scr.Fini, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", apperror.ErrUnknownDriver, conf.Driver)
	}
}
