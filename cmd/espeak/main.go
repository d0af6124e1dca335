// Command espeak speaks text, inspects the engine and serves remote clients
// through the callback bridge.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/koscakluka/ema-espeak/internal/config"
)

const usage = `usage: espeak <command> [flags] [args]

commands:
  say      speak text, optionally into a WAV file or through the local player
  voices   list the installed voices
  params   show the default parameters and the constant tables
  schema   print the JSON schema of the wire records
  serve    accept websocket clients
  tui      type text and follow the spoken word

configuration is read from the environment and .env:
  ESPEAK_ENGINE       simulated (default) or espeak
  ESPEAK_PLAYER       none (default), miniaudio or portaudio
  ESPEAK_WAVE_FILE    raw capture file, default /tmp/espeak-wave
  ESPEAK_LISTEN_ADDR  serve address, default :8080
  ESPEAK_VOICE        voice language, default en
  ESPEAK_RATE         words per minute, engine default when unset
  ESPEAK_LOG_LEVEL    debug, info, warn or error
`

type command func(ctx context.Context, cfg *config.Config, args []string) error

var commands = map[string]command{
	"say":    runSay,
	"voices": runVoices,
	"params": runParams,
	"schema": runSchema,
	"serve":  runServe,
	"tui":    runTUI,
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, os.Args[2:])
	stop()

	if errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	} else if err != nil {
		slog.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
