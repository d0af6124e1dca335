package main

import (
	"context"
	"fmt"

	"github.com/koscakluka/ema-espeak/core/audio"
	"github.com/koscakluka/ema-espeak/core/audio/miniaudio"
	"github.com/koscakluka/ema-espeak/core/audio/portaudio"
	"github.com/koscakluka/ema-espeak/core/bridge"
	"github.com/koscakluka/ema-espeak/core/engine"
	"github.com/koscakluka/ema-espeak/core/engine/espeak"
	"github.com/koscakluka/ema-espeak/core/engine/simulated"
	"github.com/koscakluka/ema-espeak/core/playback"
	"github.com/koscakluka/ema-espeak/core/speaker"
	"github.com/koscakluka/ema-espeak/internal/config"
)

func newEngine(cfg *config.Config, opts ...simulated.Option) (engine.Engine, error) {
	if cfg.Engine == config.EngineEspeak {
		return espeak.New()
	}
	return simulated.New(opts...), nil
}

func startBridge(ctx context.Context, cfg *config.Config, e engine.Engine, opts ...bridge.InitOption) (*bridge.Bridge, error) {
	b := bridge.New(e)
	opts = append([]bridge.InitOption{bridge.WithDataPath(cfg.DataPath)}, opts...)
	if err := b.Init(ctx, opts...); err != nil {
		return nil, err
	}
	return b, nil
}

// openPlayer returns a nil client when no player is configured. closeClient is
// always safe to call.
func openPlayer(cfg *config.Config, info audio.EncodingInfo) (client playback.Client, closeClient func(), err error) {
	switch cfg.Player {
	case config.PlayerMiniaudio:
		c, err := miniaudio.NewClient(info)
		if err != nil {
			return nil, func() {}, fmt.Errorf("failed to open miniaudio player: %w", err)
		}
		return c, c.Close, nil
	case config.PlayerPortaudio:
		c, err := portaudio.NewClient(info, portaudio.DefaultFramesPerBuffer)
		if err != nil {
			return nil, func() {}, fmt.Errorf("failed to open portaudio player: %w", err)
		}
		return c, c.Close, nil
	}
	return nil, func() {}, nil
}

func speakerOptions(voice string, rate int) []speaker.Option {
	opts := []speaker.Option{speaker.WithVoice(bridge.VoiceSelection{Language: voice})}
	if rate > 0 {
		opts = append(opts, speaker.WithParameter(engine.ParameterRate, rate))
	}
	return opts
}
