// Package threat derives a low/medium/high threat assessment from location
// kinematics and time of day.
package threat

import (
	"sync"

	"safeguard/backend/internal/location"
)

// Level is the assessed threat severity.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// rank orders levels by severity for max comparisons.
func (l Level) rank() int {
	switch l {
	case LevelHigh:
		return 2
	case LevelMedium:
		return 1
	default:
		return 0
	}
}

// Assessment is the derived threat classification. Only the latest is retained;
// assessments are recomputed, never merged.
type Assessment struct {
	Level       Level    `json:"level"`
	Confidence  float64  `json:"confidence"`
	Suggestions []string `json:"suggestions"`
}

// IsolationProbe reports whether a position is in an isolated area.
// Injectable so a real point-of-interest signal can replace the stub without
// changing the analyzer contract.
type IsolationProbe interface {
	IsIsolated(s location.Sample) bool
}

// StubIsolationProbe always reports isolated. The core has no point-of-interest
// data, so this stands in until a real signal is wired.
type StubIsolationProbe struct{}

// IsIsolated always returns true; see the type doc.
func (StubIsolationProbe) IsIsolated(location.Sample) bool { return true }

// IsNightTime reports whether the hour of day counts as night.
func IsNightTime(hourOfDay int) bool {
	return hourOfDay < 6 || hourOfDay > 22
}

// Analyzer computes assessments from a track and keeps only the latest one.
// Callers gate invocation on the monitoring setting; when monitoring is off,
// Assess must not be called and Latest keeps returning the prior value.
type Analyzer struct {
	probe IsolationProbe

	mu     sync.RWMutex
	latest Assessment
}

// NewAnalyzer returns an Analyzer using the given probe; nil selects the stub.
func NewAnalyzer(probe IsolationProbe) *Analyzer {
	if probe == nil {
		probe = StubIsolationProbe{}
	}
	return &Analyzer{probe: probe, latest: baseAssessment()}
}

func baseAssessment() Assessment {
	return Assessment{Level: LevelLow, Confidence: 0.7, Suggestions: []string{}}
}

// Assess evaluates the sample against the track's kinematics and the hour of
// day, stores the result as the latest assessment, and returns it.
//
// Rules run in a fixed order (night-time, then stationary); the level is the
// maximum reached and the last rule to fire supplies the confidence.
func (a *Analyzer) Assess(track *location.Track, sample location.Sample, hourOfDay int) Assessment {
	out := baseAssessment()

	if IsNightTime(hourOfDay) && track.Familiarity(sample).IsUnfamiliar {
		out.Level = LevelMedium
		out.Confidence = 0.8
		out.Suggestions = append(out.Suggestions, "unfamiliar area at night")
	}
	if track.Speed().IsStationary && a.probe.IsIsolated(sample) {
		if out.Level.rank() < LevelMedium.rank() {
			out.Level = LevelMedium
		}
		out.Confidence = 0.75
		out.Suggestions = append(out.Suggestions, "stationary in isolated area")
	}

	a.mu.Lock()
	a.latest = out
	a.mu.Unlock()
	return out
}

// Latest returns the most recent assessment (the base assessment before any Assess call).
func (a *Analyzer) Latest() Assessment {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.latest
}
