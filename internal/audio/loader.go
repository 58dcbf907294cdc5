// Package audio is the signal loader collaborator: it decodes an audio
// file to mono PCM at the core's fixed sample rate. The core treats its
// output as opaque.
package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"

	"github.com/eureka-audio/eureka/internal/dsp"
)

// TargetSampleRate is the fixed rate every decoded signal is resampled
// to, matching the core's R=44100 assumption.
const TargetSampleRate = 44100

// resampleQuality is the beep.Resample linear-interpolation quality; 4
// is beep's own recommended default for speech/music material.
const resampleQuality = 4

// RecognizedExtensions lists the file suffixes add-dir treats as
// audio. ogg and m4a are recognized for directory filtering but are
// not decodable by this loader (see Load); a complete deployment pairs
// this package with additional decoders for those containers.
var RecognizedExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".flac": true,
	".m4a":  true,
	".ogg":  true,
}

// Load decodes path to a mono Signal at TargetSampleRate.
func Load(path string) (dsp.Signal, error) {
	ext := strings.ToLower(filepath.Ext(path))

	f, err := os.Open(path)
	if err != nil {
		return dsp.Signal{}, fmt.Errorf("audio: open %s: %w", path, err)
	}
	defer f.Close()

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)

	switch ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		return dsp.Signal{}, fmt.Errorf("audio: unsupported extension %q for %s", ext, path)
	}
	if err != nil {
		return dsp.Signal{}, fmt.Errorf("audio: decode %s: %w", path, err)
	}
	defer streamer.Close()

	var stream beep.Streamer = streamer
	if format.SampleRate != beep.SampleRate(TargetSampleRate) {
		stream = beep.Resample(resampleQuality, format.SampleRate, beep.SampleRate(TargetSampleRate), streamer)
	}

	samples := make([]float64, 0, streamer.Len())
	buf := make([][2]float64, 2048)
	for {
		n, ok := stream.Stream(buf)
		for i := 0; i < n; i++ {
			samples = append(samples, (buf[i][0]+buf[i][1])/2)
		}
		if !ok {
			break
		}
	}

	return dsp.Signal{Samples: samples, SampleRate: TargetSampleRate}, nil
}
