package dsp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPeaksEmptySpectrogramIsEmpty(t *testing.T) {
	peaks := Peaks(Spectrogram{}, Config{}, nil)
	require.Empty(t, peaks)
}

func TestPeaksConstantSpectrogramYieldsNone(t *testing.T) {
	// A constant spectrogram has std == 0, so threshold == mean, and the
	// strict ">" comparison rejects every cell even though every cell
	// equals its own local max.
	rows := 30
	cols := 30
	data := make([][]float64, rows)
	for i := range data {
		data[i] = make([]float64, cols)
		for j := range data[i] {
			data[i][j] = 5.0
		}
	}
	s := Spectrogram{Data: data, Frames: rows, Bins: cols}

	peaks := Peaks(s, Config{}, nil)
	require.Empty(t, peaks)
}

func TestPeaksFindsIsolatedSpike(t *testing.T) {
	rows, cols := 40, 40
	data := make([][]float64, rows)
	for i := range data {
		data[i] = make([]float64, cols)
	}
	data[20][20] = 100.0

	s := Spectrogram{Data: data, Frames: rows, Bins: cols}
	override := 1.0
	peaks := Peaks(s, Config{NeighborhoodSize: 20}, &override)

	require.Len(t, peaks, 1)
	require.Equal(t, Peak{Time: 20, Freq: 20}, peaks[0])
}

func TestPeaksAreSortedByTimeThenFreq(t *testing.T) {
	rows, cols := 50, 50
	data := make([][]float64, rows)
	for i := range data {
		data[i] = make([]float64, cols)
	}
	data[10][5] = 50
	data[10][30] = 50
	data[40][1] = 50

	s := Spectrogram{Data: data, Frames: rows, Bins: cols}
	override := 1.0
	peaks := Peaks(s, Config{NeighborhoodSize: 20}, &override)

	require.Len(t, peaks, 3)
	for i := 1; i < len(peaks); i++ {
		require.True(t, peaks[i-1].Time < peaks[i].Time ||
			(peaks[i-1].Time == peaks[i].Time && peaks[i-1].Freq <= peaks[i].Freq))
	}
}

func TestPeaksOverrideReplacesAdaptiveThreshold(t *testing.T) {
	rows, cols := 20, 20
	data := make([][]float64, rows)
	for i := range data {
		data[i] = make([]float64, cols)
		for j := range data[i] {
			data[i][j] = 10.0
		}
	}
	s := Spectrogram{Data: data, Frames: rows, Bins: cols}

	high := 1000.0
	require.Empty(t, Peaks(s, Config{}, &high))

	// The adaptive threshold (mean == 10) rejects every cell; a low
	// override accepts them all, since each equals its local max.
	low := 1.0
	require.Len(t, Peaks(s, Config{}, &low), rows*cols)
}
