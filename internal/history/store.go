package history

import (
	"sort"
	"sync"
	"time"

	"snowcore/internal/models"
)

type key struct {
	asset   string
	channel Channel
}

// Store accumulates the rolling sensor history the live-sensor screen charts.
// Each ingested snapshot appends one point per (asset, channel): the mean of
// that channel's non-null readings for the asset. Assets or channels absent
// from a snapshot simply stop appending; their history freezes rather than
// being cleared.
type Store struct {
	mu      sync.RWMutex
	windows map[key]*Window
}

func NewStore() *Store {
	return &Store{windows: make(map[key]*Window)}
}

// Ingest folds one snapshot into the rolling windows. The sample time is the
// snapshot's server timestamp when parseable, otherwise ingest time.
func (s *Store) Ingest(snap models.SensorSnapshot) {
	at := time.Now()
	if snap.Timestamp != "" {
		if t, err := time.Parse(time.RFC3339, snap.Timestamp); err == nil {
			at = t
		}
	}

	byAsset := make(map[string][]models.SensorReading)
	for _, r := range snap.Sensors {
		byAsset[r.AssetID] = append(byAsset[r.AssetID], r)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for asset, readings := range byAsset {
		for _, ch := range Channels {
			var sum float64
			var n int
			for _, r := range readings {
				if v := ChannelValue(r, ch); v != nil {
					sum += *v
					n++
				}
			}
			if n == 0 {
				continue
			}
			k := key{asset: asset, channel: ch}
			w := s.windows[k]
			if w == nil {
				w = &Window{}
				s.windows[k] = w
			}
			w.Append(Sample{Time: at, Value: sum / float64(n)})
		}
	}
}

// Samples returns a copy of the window for one asset and channel.
func (s *Store) Samples(asset string, ch Channel) []Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w := s.windows[key{asset: asset, channel: ch}]
	if w == nil {
		return nil
	}
	return w.Samples()
}

// AssetsWithData lists the distinct asset ids in a snapshot that report at
// least one channel, sorted lexicographically.
func AssetsWithData(readings []models.SensorReading) []string {
	seen := make(map[string]struct{})
	for _, r := range readings {
		if r.HasData() {
			seen[r.AssetID] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
