// Package portaudio plays synthesized audio through the default output device
// using PortAudio. Writes block until the device accepted the audio.
package portaudio

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/koscakluka/ema-espeak/core/audio"
)

const DefaultFramesPerBuffer = 1024

type Client struct {
	info   audio.EncodingInfo
	stream *portaudio.Stream
	out    []int16

	mu            sync.Mutex
	leftoverAudio []byte
}

// NewClient opens and starts an output-only stream for mono linear16 audio.
func NewClient(info audio.EncodingInfo, framesPerBuffer int) (*Client, error) {
	if info.Format != audio.EncodingLinear16 {
		return nil, fmt.Errorf("%w: %s", audio.ErrUnsupportedFormat, info.Format.Name())
	}
	if framesPerBuffer <= 0 {
		framesPerBuffer = DefaultFramesPerBuffer
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	out := make([]int16, framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(0, 1, float64(info.SampleRate), framesPerBuffer, out)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to open portaudio stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to start portaudio stream: %w", err)
	}

	return &Client{info: info, stream: stream, out: out}, nil
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.stream.Stop()
	_ = c.stream.Close()
	_ = portaudio.Terminate()
}

// SendAudio writes every complete buffer of audio and keeps the remainder
// for the next call.
func (c *Client) SendAudio(audio []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var buffers [][]byte
	buffers, c.leftoverAudio = split(c.leftoverAudio, audio, len(c.out)*2)
	return c.write(buffers)
}

func (c *Client) ClearBuffer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leftoverAudio = nil
}

// AwaitMark flushes the remainder padded with silence. It returns once the
// device accepted it.
func (c *Client) AwaitMark() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.leftoverAudio) == 0 {
		return nil
	}
	buffer := pad(c.leftoverAudio, len(c.out)*2, c.info.SilenceValue())
	c.leftoverAudio = nil
	return c.write([][]byte{buffer})
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return c.info
}

func (c *Client) write(buffers [][]byte) error {
	for _, buffer := range buffers {
		copy(c.out, audio.BytesToSamples(buffer))
		if err := c.stream.Write(); err != nil {
			logger.Warn("failed to write to portaudio stream", "error", err)
			return fmt.Errorf("failed to write to portaudio stream: %w", err)
		}
	}
	return nil
}
