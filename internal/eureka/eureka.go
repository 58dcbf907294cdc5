// Package eureka is the facade: it wires the spectrogram, peak-picker,
// hasher, store and matcher into the handful of operations a caller
// actually needs.
package eureka

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/eureka-audio/eureka/internal/audio"
	"github.com/eureka-audio/eureka/internal/config"
	"github.com/eureka-audio/eureka/internal/dsp"
	"github.com/eureka-audio/eureka/internal/fingerprint"
	"github.com/eureka-audio/eureka/internal/logging"
	"github.com/eureka-audio/eureka/internal/match"
	"github.com/eureka-audio/eureka/internal/store"
)

// Eureka orchestrates Add/Identify/List/Delete over one store.Database.
type Eureka struct {
	db          store.Database
	cfg         config.Config
	dspCfg      dsp.Config
	hashParams  fingerprint.Params
	matchParams match.Params
	log         *logging.Logger
}

// New builds a facade over an already-open store, using cfg's DSP,
// hashing and matching tunables (falling back to the reference
// defaults for anything unset).
func New(db store.Database, cfg config.Config, log *logging.Logger) *Eureka {
	return &Eureka{
		db:  db,
		cfg: cfg,
		dspCfg: dsp.Config{
			FFTSize:          cfg.DSP.FFTSize,
			HopSize:          cfg.DSP.HopSize,
			NeighborhoodSize: cfg.DSP.NeighborhoodSize,
		},
		hashParams: fingerprint.Params{
			ZoneMin: cfg.DSP.ZoneMin,
			ZoneMax: cfg.DSP.ZoneMax,
			FanOut:  cfg.DSP.FanOut,
		},
		matchParams: match.Params{
			MinMatches: cfg.DSP.MinMatches,
		},
		log: log,
	}
}

// Fingerprint runs the full B->C->D pipeline over a decoded signal.
func (e *Eureka) Fingerprint(signal dsp.Signal) []fingerprint.HashRecord {
	spectrogram := dsp.Compute(signal, e.dspCfg)
	peaks := dsp.Peaks(spectrogram, e.dspCfg, nil)
	return fingerprint.Generate(peaks, e.hashParams)
}

// Add ingests one audio file as a new song. An empty fingerprint set is
// not an error: the song is still inserted, with zero fingerprint rows.
func (e *Eureka) Add(ctx context.Context, path, name, artist string) (store.Song, error) {
	signal, err := audio.Load(path)
	if err != nil {
		return store.Song{}, err
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	hashes := e.Fingerprint(signal)
	e.log.Infof("fingerprinted %s: %d hashes", path, len(hashes))

	id, err := e.db.InsertSong(ctx, name, artist, hashes)
	if err != nil {
		return store.Song{}, fmt.Errorf("eureka: add %s: %w", path, err)
	}
	return e.db.Name(ctx, id)
}

// AddDir ingests every recognized-extension file directly under dir,
// non-recursively, reporting progress for long directory walks.
func (e *Eureka) AddDir(ctx context.Context, dir string) ([]store.Song, error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*"))
	if err != nil {
		return nil, fmt.Errorf("eureka: list %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if audio.RecognizedExtensions[strings.ToLower(filepath.Ext(entry))] {
			files = append(files, entry)
		}
	}
	if len(files) == 0 {
		return nil, nil
	}

	runID := uuid.NewString()
	e.log.Infof("add-dir[%s]: ingesting %d files from %s", runID, len(files), dir)

	bar := progressbar.Default(int64(len(files)), "ingesting "+dir)
	var added []store.Song
	for _, file := range files {
		song, err := e.Add(ctx, file, "", "")
		if err != nil {
			e.log.Error(fmt.Errorf("add-dir[%s]: skip %s: %w", runID, file, err))
			_ = bar.Add(1)
			continue
		}
		added = append(added, song)
		_ = bar.Add(1)
	}
	e.log.Infof("add-dir[%s]: ingested %d/%d files", runID, len(added), len(files))
	return added, nil
}

// Identify fingerprints an audio file and returns the best match, or
// nil if no song clears the alignment threshold.
func (e *Eureka) Identify(ctx context.Context, path string) (*match.Result, error) {
	signal, err := audio.Load(path)
	if err != nil {
		return nil, err
	}
	hashes := e.Fingerprint(signal)
	return match.Identify(ctx, hashes, e.db, e.matchParams)
}

// List returns every song in the catalog, ordered by id.
func (e *Eureka) List(ctx context.Context) ([]store.Song, error) {
	return e.db.List(ctx)
}

// Counts returns (n_songs, n_fingerprints).
func (e *Eureka) Counts(ctx context.Context) (int64, int64, error) {
	return e.db.Counts(ctx)
}

// Delete removes a song and all of its fingerprints.
func (e *Eureka) Delete(ctx context.Context, id int64) error {
	return e.db.DeleteSong(ctx, id)
}
