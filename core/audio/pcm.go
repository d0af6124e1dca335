package audio

import "encoding/binary"

// SamplesToBytes encodes samples as little-endian linear16 into a new slice.
func SamplesToBytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(sample))
	}
	return out
}

// BytesToSamples decodes little-endian linear16. A trailing odd byte is
// dropped.
func BytesToSamples(audio []byte) []int16 {
	samples := make([]int16, len(audio)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(audio[i*2 : i*2+2]))
	}
	return samples
}
