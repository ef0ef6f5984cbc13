package location

import (
	"math"
	"testing"
	"time"
)

func sampleAt(lat, lng float64, at time.Time) Sample {
	return Sample{Lat: lat, Lng: lng, AccuracyMeters: 10, CapturedAt: at}
}

func TestRecord_NewestFirst(t *testing.T) {
	track := NewTrack()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if err := track.Record(sampleAt(10, 10, base)); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := track.Record(sampleAt(20, 20, base.Add(time.Minute))); err != nil {
		t.Fatalf("Record: %v", err)
	}

	cur, ok := track.Current()
	if !ok {
		t.Fatal("Current should return a sample after Record")
	}
	if cur.Lat != 20 {
		t.Errorf("Current().Lat = %v, want 20 (newest sample)", cur.Lat)
	}
	history := track.History(0)
	if len(history) != 2 {
		t.Fatalf("len(History) = %d, want 2", len(history))
	}
	if history[1].Lat != 10 {
		t.Errorf("History[1].Lat = %v, want 10 (oldest last)", history[1].Lat)
	}
}

func TestRecord_EvictsBeyondBound(t *testing.T) {
	track := NewTrack()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < HistoryBound+5; i++ {
		s := sampleAt(float64(i)*0.001, 0, base.Add(time.Duration(i)*time.Second))
		if err := track.Record(s); err != nil {
			t.Fatalf("Record #%d: %v", i, err)
		}
	}

	if track.Len() != HistoryBound {
		t.Errorf("Len = %d, want %d", track.Len(), HistoryBound)
	}
	// The newest sample survives; the first five recorded do not.
	cur, _ := track.Current()
	if cur.Lat != float64(HistoryBound+4)*0.001 {
		t.Errorf("Current().Lat = %v, want newest sample retained", cur.Lat)
	}
}

func TestRecord_RejectsInvalidSample(t *testing.T) {
	track := NewTrack()
	bad := Sample{Lat: math.NaN(), Lng: 0, CapturedAt: time.Now()}

	if err := track.Record(bad); err != ErrInvalidSample {
		t.Fatalf("Record(NaN) error = %v, want ErrInvalidSample", err)
	}
	if track.Len() != 0 {
		t.Errorf("Len = %d after rejected sample, want 0", track.Len())
	}
}

func TestSpeed_SingleSampleIsStationary(t *testing.T) {
	track := NewTrack()
	_ = track.Record(sampleAt(10, 10, time.Now()))

	sp := track.Speed()
	if !sp.IsStationary {
		t.Error("single sample should be stationary")
	}
	if sp.SpeedKmh != 0 {
		t.Errorf("SpeedKmh = %v, want 0", sp.SpeedKmh)
	}
}

func TestSpeed_OneKilometerPerHour(t *testing.T) {
	track := NewTrack()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// ~1km north over one hour: about 1 km/h, above the stationary threshold.
	_ = track.Record(sampleAt(0, 0, base))
	_ = track.Record(sampleAt(0.009, 0, base.Add(time.Hour)))

	sp := track.Speed()
	if sp.IsStationary {
		t.Error("1 km/h should not be stationary")
	}
	if sp.SpeedKmh < 0.9 || sp.SpeedKmh > 1.1 {
		t.Errorf("SpeedKmh = %v, want ~1.0", sp.SpeedKmh)
	}
}

func TestSpeed_IdenticalCoordinatesStationary(t *testing.T) {
	track := NewTrack()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	_ = track.Record(sampleAt(10, 10, base))
	_ = track.Record(sampleAt(10, 10, base.Add(time.Minute)))

	sp := track.Speed()
	if !sp.IsStationary {
		t.Error("identical coordinates should be stationary")
	}
}

func TestSpeed_NonPositiveElapsedStationary(t *testing.T) {
	track := NewTrack()
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	_ = track.Record(sampleAt(0, 0, at))
	_ = track.Record(sampleAt(1, 1, at))

	sp := track.Speed()
	if !sp.IsStationary || sp.SpeedKmh != 0 {
		t.Errorf("Speed = %+v, want stationary at 0 for zero elapsed time", sp)
	}
}

func TestFamiliarity_UnfamiliarWithFewVisits(t *testing.T) {
	track := NewTrack()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	_ = track.Record(sampleAt(10, 10, base))
	_ = track.Record(sampleAt(10, 10, base.Add(time.Minute)))

	probe := sampleAt(10, 10, base.Add(2*time.Minute))
	fam := track.Familiarity(probe)
	if fam.VisitCount != 2 {
		t.Errorf("VisitCount = %d, want 2", fam.VisitCount)
	}
	if !fam.IsUnfamiliar {
		t.Error("two prior visits should still be unfamiliar")
	}
}

func TestFamiliarity_FamiliarAtThreeVisits(t *testing.T) {
	track := NewTrack()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_ = track.Record(sampleAt(10, 10, base.Add(time.Duration(i)*time.Minute)))
	}

	probe := sampleAt(10, 10, base.Add(10*time.Minute))
	fam := track.Familiarity(probe)
	if fam.IsUnfamiliar {
		t.Errorf("three prior visits should be familiar, got VisitCount=%d", fam.VisitCount)
	}
}

func TestFamiliarity_IgnoresDistantSamples(t *testing.T) {
	track := NewTrack()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// ~1km away, well outside the 100m familiarity radius.
	for i := 0; i < 5; i++ {
		_ = track.Record(sampleAt(10.009, 10, base.Add(time.Duration(i)*time.Minute)))
	}

	probe := sampleAt(10, 10, base.Add(10*time.Minute))
	fam := track.Familiarity(probe)
	if fam.VisitCount != 0 {
		t.Errorf("VisitCount = %d, want 0 for distant samples", fam.VisitCount)
	}
	if !fam.IsUnfamiliar {
		t.Error("area with no nearby visits should be unfamiliar")
	}
}

func TestHaversineKm_KnownDistance(t *testing.T) {
	// One degree of latitude is roughly 111km.
	d := HaversineKm(0, 0, 1, 0)
	if d < 110 || d > 112 {
		t.Errorf("HaversineKm(0,0,1,0) = %v, want ~111", d)
	}
}
