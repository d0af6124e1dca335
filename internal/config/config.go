// Package config reads the espeak binary's settings from the environment and
// an optional .env file.
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	EngineSimulated = "simulated"
	EngineEspeak    = "espeak"

	PlayerNone      = "none"
	PlayerMiniaudio = "miniaudio"
	PlayerPortaudio = "portaudio"

	// DefaultWaveFile is where raw captured audio goes unless configured.
	DefaultWaveFile = "/tmp/espeak-wave"
)

type Config struct {
	// Engine is the synthesis engine backing the bridge.
	Engine string
	// WaveFile receives the raw audio of the last batch when capture is on.
	WaveFile string
	// Player is the local output device used by say and tui.
	Player     string
	ListenAddr string
	Voice      string
	Rate       int
	LogLevel   string
	// DataPath is handed to the engine as its data directory.
	DataPath string
}

// Load reads the environment, after loading .env from the working directory
// when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Engine:     getEnvDefault("ESPEAK_ENGINE", EngineSimulated),
		WaveFile:   getEnvDefault("ESPEAK_WAVE_FILE", DefaultWaveFile),
		Player:     getEnvDefault("ESPEAK_PLAYER", PlayerNone),
		ListenAddr: getEnvDefault("ESPEAK_LISTEN_ADDR", ":8080"),
		Voice:      getEnvDefault("ESPEAK_VOICE", "en"),
		Rate:       getEnvIntDefault("ESPEAK_RATE", 0),
		LogLevel:   getEnvDefault("ESPEAK_LOG_LEVEL", "info"),
		DataPath:   os.Getenv("ESPEAK_DATA_PATH"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getEnvDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func validateConfig(cfg *Config) error {
	if !slices.Contains([]string{EngineSimulated, EngineEspeak}, cfg.Engine) {
		return fmt.Errorf("ESPEAK_ENGINE must be %s or %s, got %q", EngineSimulated, EngineEspeak, cfg.Engine)
	}
	if !slices.Contains([]string{PlayerNone, PlayerMiniaudio, PlayerPortaudio}, cfg.Player) {
		return fmt.Errorf("ESPEAK_PLAYER must be %s, %s or %s, got %q", PlayerNone, PlayerMiniaudio, PlayerPortaudio, cfg.Player)
	}
	if cfg.Rate < 0 {
		return fmt.Errorf("ESPEAK_RATE must not be negative")
	}
	return nil
}
