package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
)

const (
	DriverScreen  = "screen"
	DriverConsole = "console"

	appName        = "tictactoe"
	configFileName = "config.yml"
	logFileName    = "tictactoe.log"
)

type Config struct {
	LogLevel string  `yaml:"log-level" env:"TICTACTOE_LOG_LEVEL" env-default:"info"`
	LogFile  string  `yaml:"log-file" env:"TICTACTOE_LOG_FILE" env-default:""`
	Driver   string  `yaml:"driver" env:"TICTACTOE_DRIVER" env-default:"screen"`
	Console  Console `yaml:"console"`
	Screen   Screen  `yaml:"screen"`
}

// Console settings are negative so that an unset key keeps the default behavior.
type Console struct {
	NoClear bool `yaml:"no-clear" env:"TICTACTOE_CONSOLE_NO_CLEAR"`
	NoColor bool `yaml:"no-color" env:"TICTACTOE_CONSOLE_NO_COLOR"`
}

type Screen struct {
	TileWidth  int `yaml:"tile-width" env:"TICTACTOE_SCREEN_TILE_WIDTH" env-default:"11"`
	TileHeight int `yaml:"tile-height" env:"TICTACTOE_SCREEN_TILE_HEIGHT" env-default:"5"`
}

// Load - reads the configuration from path, or from the first config.yml found
// in the working directory or the XDG config directories. Without a file only
// the environment and defaults are used.
func Load(path string) (*Config, error) {
	config := &Config{}

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		if err := cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) Validate() error {
	switch that.Driver {
	case DriverScreen, DriverConsole:
	default:
		return fmt.Errorf("%w: %q", apperror.ErrUnknownDriver, that.Driver)
	}

	if that.Screen.TileWidth <= 0 || that.Screen.TileHeight <= 0 {
		return fmt.Errorf("%w: %dx%d", apperror.ErrInvalidTileDim, that.Screen.TileWidth, that.Screen.TileHeight)
	}

	return nil
}

// GetLogFile - returns the configured log file, or the XDG state location.
func (that *Config) GetLogFile() (string, error) {
	if that.LogFile != "" {
		return that.LogFile, nil
	}

	path, err := xdg.StateFile(filepath.Join(appName, logFileName))
	if err != nil {
		return "", fmt.Errorf("failed to resolve log file: %w", err)
	}

	return path, nil
}

func findConfigFile() string {
	baseDir, err := os.Getwd()
	if err == nil {
		local := filepath.Join(baseDir, configFileName)
		if _, err = os.Stat(local); err == nil {
			return local
		}
	}

	path, err := xdg.SearchConfigFile(filepath.Join(appName, configFileName))
	if err != nil {
		return ""
	}

	return path
}
