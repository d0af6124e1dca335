package portaudio

import "go.opentelemetry.io/contrib/bridges/otelslog"

var logger = otelslog.NewLogger("github.com/koscakluka/ema-espeak/core/audio/portaudio")

// split cuts leftover followed by audio into buffers of size bytes. The
// incomplete tail is returned as a fresh slice.
func split(leftover, audio []byte, size int) (buffers [][]byte, rest []byte) {
	joined := make([]byte, 0, len(leftover)+len(audio))
	joined = append(joined, leftover...)
	joined = append(joined, audio...)

	for len(joined) >= size {
		buffers = append(buffers, joined[:size:size])
		joined = joined[size:]
	}
	if len(joined) > 0 {
		rest = append([]byte(nil), joined...)
	}
	return buffers, rest
}

func pad(audio []byte, size int, silence byte) []byte {
	padded := make([]byte, size)
	n := copy(padded, audio)
	for i := n; i < size; i++ {
		padded[i] = silence
	}
	return padded
}
