package location

import "sync"

const (
	// HistoryBound is the maximum number of retained samples; oldest are evicted.
	HistoryBound = 100
	// stationaryThresholdKmh is the speed below which the subject counts as stationary.
	stationaryThresholdKmh = 0.5
	// familiarityRadiusKm is the radius within which prior samples count as visits.
	familiarityRadiusKm = 0.1
	// familiarityMinVisits is the visit count at or above which an area is familiar.
	familiarityMinVisits = 3
)

// Speed is the kinematic state derived from the two most recent samples.
type Speed struct {
	SpeedKmh     float64 `json:"speedKmh"`
	IsStationary bool    `json:"isStationary"`
}

// Familiarity reports how often a location has been visited before.
type Familiarity struct {
	VisitCount   int  `json:"visitCount"`
	IsUnfamiliar bool `json:"isUnfamiliar"`
}

// Track holds the bounded, newest-first sample history.
type Track struct {
	mu      sync.RWMutex
	samples []Sample // newest first
}

// NewTrack returns an empty track.
func NewTrack() *Track {
	return &Track{}
}

// Record appends a sample to the front of the history and trims to HistoryBound.
// Malformed samples are rejected with ErrInvalidSample and do not mutate history.
func (t *Track) Record(s Sample) error {
	if !s.Valid() {
		return ErrInvalidSample
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.samples = append([]Sample{s}, t.samples...)
	if len(t.samples) > HistoryBound {
		t.samples = t.samples[:HistoryBound]
	}
	return nil
}

// Current returns the most recent sample. ok is false when there is no fix yet.
func (t *Track) Current() (s Sample, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.samples) == 0 {
		return Sample{}, false
	}
	return t.samples[0], true
}

// Len returns the number of retained samples.
func (t *Track) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.samples)
}

// History returns up to limit samples, newest first. limit <= 0 returns all.
func (t *Track) History(limit int) []Sample {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := len(t.samples)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Sample, n)
	copy(out, t.samples[:n])
	return out
}

// Speed derives speed from the two most recent samples: great-circle distance
// over elapsed time. With fewer than two samples, or a non-positive elapsed
// time, the subject counts as stationary at 0 km/h.
func (t *Track) Speed() Speed {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.samples) < 2 {
		return Speed{SpeedKmh: 0, IsStationary: true}
	}
	newest, prev := t.samples[0], t.samples[1]
	elapsed := newest.CapturedAt.Sub(prev.CapturedAt).Seconds()
	if elapsed <= 0 {
		return Speed{SpeedKmh: 0, IsStationary: true}
	}
	distKm := HaversineKm(newest.Lat, newest.Lng, prev.Lat, prev.Lng)
	kmh := distKm / elapsed * 3600
	return Speed{SpeedKmh: kmh, IsStationary: kmh < stationaryThresholdKmh}
}

// Familiarity counts recorded samples older than s within familiarityRadiusKm
// of it. An area visited fewer than familiarityMinVisits times is unfamiliar.
func (t *Track) Familiarity(s Sample) Familiarity {
	t.mu.RLock()
	defer t.mu.RUnlock()
	count := 0
	for _, prior := range t.samples {
		if !prior.CapturedAt.Before(s.CapturedAt) {
			continue
		}
		if HaversineKm(s.Lat, s.Lng, prior.Lat, prior.Lng) <= familiarityRadiusKm {
			count++
		}
	}
	return Familiarity{VisitCount: count, IsUnfamiliar: count < familiarityMinVisits}
}
