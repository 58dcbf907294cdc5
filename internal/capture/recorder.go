// Package capture records live microphone audio into the rolling
// buffer the facade samples from during real-time recognition, kept
// separate from any recognition logic: this package only produces PCM.
package capture

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const (
	// SampleRate matches the core's fixed R=44100.
	SampleRate = 44100
	// FramesPerBuffer is the PortAudio callback chunk size.
	FramesPerBuffer = 1024
	// MaxBufferSeconds bounds memory use for the rolling capture
	// buffer; older audio is dropped once this much has accumulated.
	MaxBufferSeconds = 10
)

// Recorder streams mono microphone audio into a bounded rolling buffer.
// onAudio runs on PortAudio's own callback goroutine, so buffer access
// is guarded by mu throughout.
type Recorder struct {
	stream    *portaudio.Stream
	mu        sync.Mutex
	buffer    []float64
	recording bool
}

// New initializes PortAudio and returns an idle Recorder.
func New() (*Recorder, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("capture: initialize portaudio: %w", err)
	}
	return &Recorder{buffer: make([]float64, 0, SampleRate*MaxBufferSeconds)}, nil
}

// Start opens the default input device and begins recording.
func (r *Recorder) Start() error {
	if r.recording {
		return fmt.Errorf("capture: already recording")
	}

	device, err := portaudio.DefaultInputDevice()
	if err != nil {
		return fmt.Errorf("capture: default input device: %w", err)
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: 1,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      float64(SampleRate),
		FramesPerBuffer: FramesPerBuffer,
	}

	stream, err := portaudio.OpenStream(params, r.onAudio)
	if err != nil {
		return fmt.Errorf("capture: open stream: %w", err)
	}
	r.stream = stream

	if err := r.stream.Start(); err != nil {
		return fmt.Errorf("capture: start stream: %w", err)
	}
	r.recording = true
	return nil
}

func (r *Recorder) onAudio(in []float32) {
	if len(in) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sample := range in {
		r.buffer = append(r.buffer, float64(sample))
	}

	max := SampleRate * MaxBufferSeconds
	if len(r.buffer) > max {
		drop := len(r.buffer) - max
		copy(r.buffer, r.buffer[drop:])
		r.buffer = r.buffer[:max]
	}
}

// Window returns a copy of the most recent `seconds` of captured audio,
// or everything captured so far if that is shorter.
func (r *Recorder) Window(seconds int) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := SampleRate * seconds
	if len(r.buffer) < want {
		out := make([]float64, len(r.buffer))
		copy(out, r.buffer)
		return out
	}
	start := len(r.buffer) - want
	out := make([]float64, want)
	copy(out, r.buffer[start:])
	return out
}

// Stop stops the stream without tearing down PortAudio.
func (r *Recorder) Stop() error {
	if !r.recording {
		return nil
	}
	r.recording = false
	if r.stream == nil {
		return nil
	}
	if err := r.stream.Stop(); err != nil {
		return fmt.Errorf("capture: stop stream: %w", err)
	}
	if err := r.stream.Close(); err != nil {
		return fmt.Errorf("capture: close stream: %w", err)
	}
	return nil
}

// Close stops recording (if active) and releases PortAudio entirely.
func (r *Recorder) Close() error {
	if err := r.Stop(); err != nil {
		return err
	}
	return portaudio.Terminate()
}
