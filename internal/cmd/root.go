package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	app "github.com/rocketscienceinc/tictactoe/internal"
	"github.com/rocketscienceinc/tictactoe/internal/config"
)

// Root - the tictactoe command. Flags override the config file and environment.
func Root() *cobra.Command {
	root := &cobra.Command{
		Use:   "tictactoe",
		Short: "Play Tic Tac Toe with two players on one terminal",
		Long: heredoc.Doc(`tictactoe runs a two player game of Tic Tac Toe. X always
			moves first and the players take turns until one of them
			gets three in a row or the board is full.

			The default screen driver is played with the mouse or the
			number keys, laid out like a numeric keypad. The console
			driver (--cli) reads the same numbers from standard input.

			Settings are read from ./config.yml, then from
			$XDG_CONFIG_HOME/tictactoe/config.yml, and can be overridden
			with TICTACTOE_* environment variables. Logs are written to
			$XDG_STATE_HOME/tictactoe/tictactoe.log unless log-file is set.`),
		Args: cobra.NoArgs,

		SilenceErrors: true,
		SilenceUsage:  true,

		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logger, closer, err := newLogger(conf)
			if err != nil {
				return err
			}
			defer closer.Close()

			logger.Debug("config loaded", "driver", conf.Driver, "log_level", conf.LogLevel)

			return app.RunApp(logger, conf)
		},
	}

	root.Flags().Bool("cli", false, "Play on the line based console instead of the screen")
	root.Flags().StringP("config", "c", "", "Path to the config file")
	root.Flags().BoolP("debug", "d", false, "Write debug logs")

	return root
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	conf, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}

	if cli, _ := cmd.Flags().GetBool("cli"); cli {
		conf.Driver = config.DriverConsole
	}

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		conf.LogLevel = "debug"
	}

	return conf, nil
}
