package miniaudio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/ema-espeak/core/audio"
)

type playbackClient struct {
	device *malgo.Device
	info   audio.EncodingInfo
	queue  queue

	mu sync.Mutex
}

func (c *playbackClient) Init(audioContext *malgo.AllocatedContext, info audio.EncodingInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if info.Format != audio.EncodingLinear16 {
		return fmt.Errorf("%w: %s", audio.ErrUnsupportedFormat, info.Format.Name())
	}
	c.info = info

	sampleRate := uint32(info.SampleRate)
	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.SampleRate = sampleRate
	config.Playback.Format = malgo.FormatS16
	config.Playback.Channels = uint32(info.FrameSize() / info.Format.ByteSize())
	config.Alsa.NoMMap = 1
	config.PeriodSizeInFrames = sampleRate / 10
	config.Periods = 4

	device, err := malgo.InitDevice(audioContext.Context, config, malgo.DeviceCallbacks{
		Data: c.processAudio,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}
	c.device = device
	return nil
}

func (c *playbackClient) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	} else if c.device.IsStarted() {
		return nil
	}

	if err := c.device.Start(); err != nil {
		return fmt.Errorf("failed to start playback device: %w", err)
	}
	return nil
}

func (c *playbackClient) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	if err := c.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop playback device: %w", err)
	}
	c.ClearBuffer()
	return nil
}

func (c *playbackClient) SendAudio(audio []byte) error {
	c.mu.Lock()
	started := c.device != nil && c.device.IsStarted()
	c.mu.Unlock()
	if !started {
		return fmt.Errorf("device not started")
	}

	c.queue.push(audio)
	return nil
}

func (c *playbackClient) ClearBuffer() {
	go notify(c.queue.clear())
}

func (c *playbackClient) Mark(mark string, callback func(string)) error {
	c.queue.mark(mark, callback)
	return nil
}

func (c *playbackClient) AwaitMark() error {
	done := make(chan struct{})
	c.queue.mark("", func(string) { close(done) })
	<-done
	return nil
}

func (c *playbackClient) Uninit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	c.device.Uninit()
	c.device = nil
	go notify(c.queue.clear())
	return nil
}

func (c *playbackClient) processAudio(pOutput, _ []byte, frameCount uint32) {
	need := int(frameCount) * c.info.FrameSize()
	if need > len(pOutput) {
		need = len(pOutput)
	}

	if reached := c.queue.fill(pOutput[:need], c.info.SilenceValue()); len(reached) > 0 {
		go notify(reached)
	}
}
