package audio

import "time"

const (
	// DefaultSampleRate is the rate espeak synthesizes at.
	DefaultSampleRate = 22050
	DefaultChannels   = 1
	DefaultFormat     = "linear16"
)

func GetDefaultEncodingInfo() EncodingInfo {
	return EncodingInfo{SampleRate: DefaultSampleRate, Channels: DefaultChannels, Format: EncodingLinear16}
}

// EncodingInfo describes raw PCM produced by the engine.
type EncodingInfo struct {
	SampleRate int
	Channels   int
	Format     encodingFormat
}

func (e EncodingInfo) IsZero() bool {
	return e.SampleRate == 0 || e.Format.Name() == ""
}

// WithSampleRate returns a copy of e using sampleRate. Non-positive values are
// ignored.
func (e EncodingInfo) WithSampleRate(sampleRate int) EncodingInfo {
	if sampleRate > 0 {
		e.SampleRate = sampleRate
	}
	return e
}

func (e EncodingInfo) channels() int {
	if e.Channels <= 0 {
		return 1
	}
	return e.Channels
}

// FrameSize is the number of bytes of one frame across all channels.
func (e EncodingInfo) FrameSize() int {
	return e.Format.ByteSize() * e.channels()
}

func (e EncodingInfo) BytesPerSecond() int {
	return e.SampleRate * e.FrameSize()
}

// Duration of n bytes of audio in this encoding.
func (e EncodingInfo) Duration(n int) time.Duration {
	bytesPerSecond := e.BytesPerSecond()
	if bytesPerSecond <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second / time.Duration(bytesPerSecond)
}

func (e EncodingInfo) SilenceValue() byte {
	switch e.Format {
	case EncodingALaw:
		return 0x55
	case EncodingMulaw:
		return 0xFF
	}

	return 0
}

type encodingFormat string

func (e encodingFormat) Name() string {
	return string(e)
}

func (e encodingFormat) ByteSize() int {
	switch e {
	case EncodingMulaw, EncodingALaw:
		return 1
	case EncodingLinear16:
		return 2
	}
	return -1
}

const (
	EncodingMulaw    encodingFormat = "mulaw"
	EncodingALaw     encodingFormat = "alaw"
	EncodingLinear16 encodingFormat = "linear16"
)
