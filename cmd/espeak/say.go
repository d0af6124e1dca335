package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/koscakluka/ema-espeak/core/audio"
	"github.com/koscakluka/ema-espeak/core/bridge"
	"github.com/koscakluka/ema-espeak/core/engine"
	"github.com/koscakluka/ema-espeak/core/playback"
	"github.com/koscakluka/ema-espeak/core/speaker"
	"github.com/koscakluka/ema-espeak/internal/config"
)

func runSay(ctx context.Context, cfg *config.Config, args []string) error {
	flags := flag.NewFlagSet("say", flag.ContinueOnError)
	ssml := flags.Bool("ssml", false, "interpret SSML tags")
	phonemes := flags.Bool("phonemes", false, "interpret [[phoneme]] input")
	wavPath := flags.String("wav", "", "write all audio to this WAV file")
	capture := flags.Bool("capture", false, "capture the last batch into ESPEAK_WAVE_FILE and export it as WAV")
	voice := flags.String("voice", cfg.Voice, "voice language")
	rate := flags.Int("rate", cfg.Rate, "words per minute")
	if err := flags.Parse(args); err != nil {
		return err
	}

	text := strings.Join(flags.Args(), " ")
	if text == "" {
		input, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read text from stdin: %w", err)
		}
		text = strings.TrimSpace(string(input))
	}
	if text == "" {
		return fmt.Errorf("nothing to say")
	}

	e, err := newEngine(cfg)
	if err != nil {
		return err
	}
	b, err := startBridge(ctx, cfg, e, bridge.WithSynchronous(true), bridge.WithPlayback(false))
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(context.Background()); err != nil {
			slog.Warn("failed to close bridge", "error", err)
		}
	}()

	director, err := speaker.NewDirector(b)
	if err != nil {
		return err
	}
	s := director.NewSpeaker(speakerOptions(*voice, *rate)...)
	info := audio.GetDefaultEncodingInfo().WithSampleRate(b.SampleRate())

	s.AddCallback(func(n bridge.Notification) {
		switch n.Kind {
		case engine.EventWord:
			slog.Debug("word", "position", n.Position, "length", n.Length)
		case engine.EventMark:
			slog.Info("mark reached", "name", n.Name, "position", n.Position)
		}
	})

	if *wavPath != "" {
		sink, err := audio.CreateWavSink(*wavPath, info)
		if err != nil {
			return err
		}
		defer func() {
			if err := sink.Close(); err != nil {
				slog.Warn("failed to finish WAV file", "path", *wavPath, "error", err)
			}
		}()
		s.AddCallback(func(n bridge.Notification) {
			if len(n.Audio) == 0 {
				return
			}
			if _, err := sink.Write(n.Audio); err != nil {
				slog.Warn("failed to write WAV data", "path", *wavPath, "error", err)
			}
		})
	}

	if *capture {
		if err := b.SetWaveFilename(cfg.WaveFile); err != nil {
			return err
		}
	}

	client, closeClient, err := openPlayer(cfg, info)
	if err != nil {
		return err
	}
	defer closeClient()

	finished := make(chan struct{})
	var finishOnce sync.Once
	if client != nil {
		player := playback.NewPlayer(client, playback.WithOnFinished(func(string) {
			finishOnce.Do(func() { close(finished) })
		}))
		s.AddCallback(player.HandleNotification)
	} else {
		close(finished)
	}

	if err := s.Say(ctx, text,
		bridge.WithSSML(*ssml),
		bridge.WithPhonemes(*phonemes),
		bridge.WithEndPause(true),
	); err != nil {
		return err
	}

	select {
	case <-finished:
	case <-ctx.Done():
		return s.Stop(context.Background())
	}

	if *capture {
		wav := cfg.WaveFile + ".wav"
		if err := audio.ExportCapture(cfg.WaveFile, wav, info); err != nil {
			return err
		}
		slog.Info("captured audio exported", "raw", cfg.WaveFile, "wav", wav)
	}
	return nil
}
