package simulated

import "math"

// tone renders a sine of frequency Hz. Each word gets a short fade in and
// out so batches join without clicks.
func tone(sampleRate, durationMs int, frequency float64, amplitude int) []int16 {
	n := sampleRate * durationMs / 1000
	samples := make([]int16, n)
	fade := min(n/8, sampleRate/200)

	for i := range samples {
		gain := 1.0
		if fade > 0 {
			switch {
			case i < fade:
				gain = float64(i) / float64(fade)
			case i >= n-fade:
				gain = float64(n-i-1) / float64(fade)
			}
		}
		value := math.Sin(2*math.Pi*frequency*float64(i)/float64(sampleRate)) * float64(amplitude) * gain
		samples[i] = int16(value)
	}
	return samples
}

func silence(sampleRate, durationMs int) []int16 {
	return make([]int16, sampleRate*durationMs/1000)
}
