// Package dsp computes magnitude spectrograms and extracts constellation
// peaks from them, the first two stages of the fingerprinting pipeline.
package dsp

import (
	"math"
	"math/cmplx"

	"github.com/maddyblue/go-dsp/fft"
)

// Tunables. Defaults match the reference design; callers may override
// them through config.DSPConfig, but the zero value of Config always
// resolves to these.
const (
	DefaultFFTSize          = 4096
	DefaultHopSize          = 2048
	DefaultNeighborhoodSize = 20
)

// Signal is a transient, mono PCM buffer at a fixed sample rate.
type Signal struct {
	Samples    []float64
	SampleRate int
}

// Spectrogram is a dense, time-major magnitude array: Data[frame][bin].
// Bins = FFTSize/2 + 1. All entries are non-negative.
type Spectrogram struct {
	Data   [][]float64
	Frames int
	Bins   int
}

// Config carries the spectrogram/peak-picker tunables. A zero Config
// resolves every field to the package defaults in Resolve.
type Config struct {
	FFTSize          int
	HopSize          int
	NeighborhoodSize int
}

// Resolve fills unset fields with the reference design's defaults.
func (c Config) Resolve() Config {
	if c.FFTSize <= 0 {
		c.FFTSize = DefaultFFTSize
	}
	if c.HopSize <= 0 {
		c.HopSize = DefaultHopSize
	}
	if c.NeighborhoodSize <= 0 {
		c.NeighborhoodSize = DefaultNeighborhoodSize
	}
	return c
}

// hannWindow returns a periodic-free (symmetric) Hann window of length n.
func hannWindow(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := 0; i < n; i++ {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

// Compute runs a windowed STFT over signal and returns the magnitude
// spectrogram. Framing follows the scipy STFT convention: the signal is
// symmetrically zero-padded by FFTSize/2 samples on each side before
// framing, which keeps peak time indices stable regardless of where a
// query clip was sliced from its reference. An empty signal yields a
// zero-frame spectrogram rather than a single all-zero frame.
func Compute(signal Signal, cfg Config) Spectrogram {
	cfg = cfg.Resolve()
	n := cfg.FFTSize
	hop := cfg.HopSize
	bins := n/2 + 1

	if len(signal.Samples) == 0 {
		return Spectrogram{Bins: bins}
	}

	boundary := n / 2
	padded := make([]float64, boundary+len(signal.Samples)+boundary)
	copy(padded[boundary:], signal.Samples)

	frames := (len(padded)-n)/hop + 1
	if frames < 1 {
		frames = 1
	}

	window := hannWindow(n)
	data := make([][]float64, frames)
	frame := make([]float64, n)

	for i := 0; i < frames; i++ {
		start := i * hop
		end := start + n

		for j := range frame {
			frame[j] = 0
		}
		if start < len(padded) {
			copyEnd := end
			if copyEnd > len(padded) {
				copyEnd = len(padded)
			}
			copy(frame, padded[start:copyEnd])
		}
		for j := 0; j < n; j++ {
			frame[j] *= window[j]
		}

		spectrum := fft.FFTReal(frame)
		row := make([]float64, bins)
		for b := 0; b < bins; b++ {
			row[b] = cmplx.Abs(spectrum[b])
		}
		data[i] = row
	}

	return Spectrogram{Data: data, Frames: frames, Bins: bins}
}
