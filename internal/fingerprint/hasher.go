// Package fingerprint turns a spectrogram's constellation of peaks into
// the compact, combinatorial hashes that get stored in or probed
// against the index.
package fingerprint

import (
	"sort"

	"github.com/eureka-audio/eureka/internal/dsp"
)

// Reference tunables. Units are STFT time frames.
const (
	DefaultZoneMin = 1
	DefaultZoneMax = 200
	DefaultFanOut  = 15
)

// Params carries the anchor/target fan-out tunables. A zero Params
// resolves every field to the reference defaults in Resolve, so
// deployments can override fan_out/zone_min/zone_max from config.
type Params struct {
	ZoneMin int
	ZoneMax int
	FanOut  int
}

// Resolve fills unset fields with the reference design's defaults.
func (p Params) Resolve() Params {
	if p.ZoneMin <= 0 {
		p.ZoneMin = DefaultZoneMin
	}
	if p.ZoneMax <= 0 {
		p.ZoneMax = DefaultZoneMax
	}
	if p.FanOut <= 0 {
		p.FanOut = DefaultFanOut
	}
	return p
}

// HashRecord pairs a hash token with the time frame of its anchor peak.
// The song identity is supplied out-of-band, at insert time, rather
// than carried on every record: a record produced for a query never has
// one, and the store is what stamps a song_id onto a record on insert.
type HashRecord struct {
	Hash       Hash
	AnchorTime int
}

// Generate builds the canonical hash stream for peaks: sort by time
// (ties by frequency, for determinism), then fan each peak out as an
// anchor to up to params.FanOut subsequent peaks whose time delta falls
// in [params.ZoneMin, params.ZoneMax]. Output is grouped by anchor in
// sorted-peak order and, within an anchor, ascending by delta.
func Generate(peaks []dsp.Peak, params Params) []HashRecord {
	params = params.Resolve()
	sorted := sortedCopy(peaks)

	var out []HashRecord
	for i, anchor := range sorted {
		accepted := 0
		for j := i + 1; j < len(sorted) && accepted < params.FanOut; j++ {
			target := sorted[j]
			delta := target.Time - anchor.Time
			if delta < params.ZoneMin {
				continue
			}
			if delta > params.ZoneMax {
				break
			}

			out = append(out, HashRecord{
				Hash:       computeHash(anchor.Freq, target.Freq, delta),
				AnchorTime: anchor.Time,
			})
			accepted++
		}
	}
	return out
}

// GenerateTolerant produces Generate's canonical hashes plus a bounded
// set of neighboring-bin variants (anchor and target bin +-1), used
// only on the query side for noisy or microphone-captured audio where
// the true peak may have landed one bin off from the reference
// recording's. It never changes what gets stored for a reference — only
// what a query probes the index with — so a reference's stored
// fingerprints are always produced by Generate.
func GenerateTolerant(peaks []dsp.Peak, maxExtra int, params Params) []HashRecord {
	params = params.Resolve()
	out := Generate(peaks, params)
	if maxExtra <= 0 {
		return out
	}

	sorted := sortedCopy(peaks)
	offsets := [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

	added := 0
	for i, anchor := range sorted {
		if added >= maxExtra {
			break
		}
		for j := i + 1; j < len(sorted) && j < i+params.FanOut; j++ {
			target := sorted[j]
			delta := target.Time - anchor.Time
			if delta < params.ZoneMin {
				continue
			}
			if delta > params.ZoneMax {
				break
			}

			for _, off := range offsets {
				f1, f2 := anchor.Freq+off[0], target.Freq+off[1]
				if f1 < 0 || f2 < 0 {
					continue
				}
				out = append(out, HashRecord{
					Hash:       computeHash(f1, f2, delta),
					AnchorTime: anchor.Time,
				})
				added++
				if added >= maxExtra {
					return out
				}
			}
		}
	}
	return out
}

func sortedCopy(peaks []dsp.Peak) []dsp.Peak {
	sorted := make([]dsp.Peak, len(peaks))
	copy(sorted, peaks)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Time != sorted[j].Time {
			return sorted[i].Time < sorted[j].Time
		}
		return sorted[i].Freq < sorted[j].Freq
	})
	return sorted
}
