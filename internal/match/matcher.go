// Package match turns raw hash hits against the index into a
// confidence-ranked identification via time-coherent alignment voting.
package match

import (
	"context"

	"github.com/eureka-audio/eureka/internal/fingerprint"
	"github.com/eureka-audio/eureka/internal/store"
)

// DefaultMinMatches is the minimum count an alignment spike must reach
// before it is trusted as a match rather than background hash-collision
// noise.
const DefaultMinMatches = 5

// Params carries the alignment-gate tunable. A zero Params resolves to
// DefaultMinMatches in Resolve, so deployments can override min_matches
// from config.
type Params struct {
	MinMatches int
}

// Resolve fills an unset MinMatches with DefaultMinMatches.
func (p Params) Resolve() Params {
	if p.MinMatches <= 0 {
		p.MinMatches = DefaultMinMatches
	}
	return p
}

// Result is a confidence-ranked identification.
type Result struct {
	SongID         int64
	SongName       string
	Artist         string
	Confidence     float64
	AlignedMatches int
	Offset         int // t_db - t_query at the winning alignment
}

type voteKey struct {
	SongID int64
	Delta  int
}

// Identify probes db with queryHashes and returns the best time-coherent
// alignment, or (nil, nil) if no song clears params.MinMatches. It is
// pure and total given a working store: the only error path is a store
// failure.
func Identify(ctx context.Context, queryHashes []fingerprint.HashRecord, db store.Database, params Params) (*Result, error) {
	params = params.Resolve()
	if len(queryHashes) == 0 {
		return nil, nil
	}

	queryTime := make(map[fingerprint.Hash]int, len(queryHashes))
	hashes := make([]fingerprint.Hash, 0, len(queryHashes))
	for _, rec := range queryHashes {
		if _, seen := queryTime[rec.Hash]; !seen {
			hashes = append(hashes, rec.Hash)
		}
		queryTime[rec.Hash] = rec.AnchorTime
	}

	hits, err := db.Probe(ctx, hashes)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}

	votes := make(map[voteKey]int)
	for _, hit := range hits {
		qt, ok := queryTime[hit.Hash]
		if !ok {
			continue
		}
		key := voteKey{SongID: hit.Posting.SongID, Delta: hit.Posting.TAnchor - qt}
		votes[key]++
	}

	best, bestCount, found := argmax(votes)
	if !found || bestCount < params.MinMatches {
		return nil, nil
	}

	song, err := db.Name(ctx, best.SongID)
	if err != nil {
		return nil, err
	}

	return &Result{
		SongID:         best.SongID,
		SongName:       song.Name,
		Artist:         song.Artist,
		Confidence:     float64(bestCount) / float64(len(queryHashes)),
		AlignedMatches: bestCount,
		Offset:         best.Delta,
	}, nil
}

// argmax selects the vote key with the highest count. Ties break on the
// smaller SongID, then the smaller Delta; this just needs to be stable
// across runs.
func argmax(votes map[voteKey]int) (voteKey, int, bool) {
	var best voteKey
	bestCount := -1
	found := false

	for key, count := range votes {
		if !found ||
			count > bestCount ||
			(count == bestCount && isBetterTieBreak(key, best)) {
			best = key
			bestCount = count
			found = true
		}
	}
	return best, bestCount, found
}

func isBetterTieBreak(candidate, current voteKey) bool {
	if candidate.SongID != current.SongID {
		return candidate.SongID < current.SongID
	}
	return candidate.Delta < current.Delta
}
