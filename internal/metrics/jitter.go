package metrics

import (
	"math"
	"math/cmplx"
	"time"

	"github.com/mjibson/go-dsp/fft"
)

// JitterSpectrum returns the magnitude spectrum of the frame lengths with
// the mean removed, bins 1..n/2. A steady loop gives a flat, near zero
// spectrum; a spike at bin k means a hiccup every n/k frames.
func JitterSpectrum(elapsed []time.Duration) []float64 {
	n := len(elapsed)
	if n < 4 {
		return nil
	}

	mean := 0.0
	for _, e := range elapsed {
		mean += e.Seconds()
	}
	mean /= float64(n)

	data := make([]float64, n)
	for i, e := range elapsed {
		data[i] = (e.Seconds() - mean) * 1000
	}

	spectrum := fft.FFTReal(data)
	out := make([]float64, n/2)
	for k := range out {
		out[k] = cmplx.Abs(spectrum[k+1]) / float64(n)
	}
	return out
}

// DominantPeriod is the period, in frames, of the strongest spectrum bin,
// or 0 if the spectrum is empty or flat.
func DominantPeriod(spectrum []float64, frames int) float64 {
	best, bestMag := -1, 0.0
	for k, mag := range spectrum {
		if mag > bestMag {
			best, bestMag = k, mag
		}
	}
	if best < 0 || bestMag < 1e-9 {
		return 0
	}
	return float64(frames) / float64(best+1)
}

// Jitter is the standard deviation of the frame lengths.
func Jitter(elapsed []time.Duration) time.Duration {
	if len(elapsed) < 2 {
		return 0
	}
	mean := 0.0
	for _, e := range elapsed {
		mean += float64(e)
	}
	mean /= float64(len(elapsed))

	variance := 0.0
	for _, e := range elapsed {
		d := float64(e) - mean
		variance += d * d
	}
	return time.Duration(math.Sqrt(variance / float64(len(elapsed))))
}
