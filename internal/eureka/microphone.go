package eureka

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/eureka-audio/eureka/internal/capture"
	"github.com/eureka-audio/eureka/internal/dsp"
	"github.com/eureka-audio/eureka/internal/fingerprint"
	"github.com/eureka-audio/eureka/internal/match"
)

// listenTimeout bounds a microphone session with a Shazam-style
// 30-second window: give up if nothing is recognized in time.
const listenTimeout = 30 * time.Second

// pollInterval is how often the rolling capture buffer is re-fingerprinted.
const pollInterval = 2 * time.Second

// captureWindowSeconds is how much of the rolling buffer each poll
// fingerprints; shorter than the file-recognition path because live
// audio is noisier and the facade wants a fresh answer every poll.
const captureWindowSeconds = 5

// tolerantExtraHashes bounds GenerateTolerant's extra hash budget for
// microphone queries, keeping the tolerant pass a small multiple of the
// canonical one instead of unbounded.
const tolerantExtraHashes = 2000

// IdentifyMicrophone records from the default input device and
// fingerprints the rolling buffer every pollInterval until a match is
// found, the caller's signal fires, or listenTimeout elapses.
func (e *Eureka) IdentifyMicrophone(ctx context.Context) (*match.Result, error) {
	recorder, err := capture.New()
	if err != nil {
		return nil, err
	}
	defer recorder.Close()

	if err := recorder.Start(); err != nil {
		return nil, err
	}
	sessionID := uuid.NewString()
	e.log.Infof("mic[%s]: listening... (30s timeout)", sessionID)

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signalChan)

	timeout := time.NewTimer(listenTimeout)
	defer timeout.Stop()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			recorder.Stop()
			return nil, ctx.Err()

		case <-signalChan:
			e.log.Infof("mic[%s]: interrupted, stopping microphone listen", sessionID)
			recorder.Stop()
			return nil, nil

		case <-timeout.C:
			e.log.Infof("mic[%s]: no match within timeout, stopping microphone listen", sessionID)
			recorder.Stop()
			return nil, nil

		case <-ticker.C:
			window := recorder.Window(captureWindowSeconds)
			if len(window) < capture.SampleRate*captureWindowSeconds {
				continue
			}

			result, err := e.identifyWindow(ctx, window)
			if err != nil {
				e.log.Error(err)
				continue
			}
			if result != nil {
				e.log.Infof("mic[%s]: match found: %s by %s (confidence %.3f)", sessionID, result.SongName, result.Artist, result.Confidence)
				recorder.Stop()
				return result, nil
			}
		}
	}
}

// identifyWindow fingerprints a raw capture window with the tolerant
// hasher (noisier signal than a clean file) and probes the store.
func (e *Eureka) identifyWindow(ctx context.Context, window []float64) (*match.Result, error) {
	signal := dsp.Signal{Samples: window, SampleRate: capture.SampleRate}
	spectrogram := dsp.Compute(signal, e.dspCfg)
	peaks := dsp.Peaks(spectrogram, e.dspCfg, nil)
	if len(peaks) < 20 {
		return nil, nil
	}

	hashes := fingerprint.GenerateTolerant(peaks, tolerantExtraHashes, e.hashParams)
	if len(hashes) < 50 {
		return nil, nil
	}

	return match.Identify(ctx, hashes, e.db, e.matchParams)
}
