package timer

import "testing"

func TestStart_RejectsNonPositiveDuration(t *testing.T) {
	tm := New(nil, nil)

	if err := tm.Start(0); err != ErrInvalidDuration {
		t.Errorf("Start(0) error = %v, want ErrInvalidDuration", err)
	}
	if err := tm.Start(-5); err != ErrInvalidDuration {
		t.Errorf("Start(-5) error = %v, want ErrInvalidDuration", err)
	}
	if tm.Active() {
		t.Error("timer should stay idle after rejected Start")
	}
}

func TestStart_ArmsCountdown(t *testing.T) {
	tm := New(nil, nil)

	if err := tm.Start(30); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !tm.Active() {
		t.Error("timer should be active after Start")
	}
	if tm.Remaining() != 1800 {
		t.Errorf("Remaining = %d, want 1800", tm.Remaining())
	}
	if tm.Duration() != 1800 {
		t.Errorf("Duration = %d, want 1800", tm.Duration())
	}
}

func TestStart_RestartResetsRemaining(t *testing.T) {
	tm := New(nil, nil)

	_ = tm.Start(30)
	for i := 0; i < 100; i++ {
		tm.Tick()
	}
	_ = tm.Start(30)

	if tm.Remaining() != 1800 {
		t.Errorf("Remaining after restart = %d, want 1800 (overwrite, not additive)", tm.Remaining())
	}
}

func TestTick_ExpiresExactlyOnce(t *testing.T) {
	expirations := 0
	tm := New(func() { expirations++ }, nil)

	_ = tm.Start(30)
	for i := 0; i < 1800; i++ {
		tm.Tick()
	}

	if expirations != 1 {
		t.Fatalf("expirations = %d, want 1", expirations)
	}
	if tm.Active() {
		t.Error("timer should be idle after expiry")
	}
	if tm.Remaining() != 0 {
		t.Errorf("Remaining = %d, want 0", tm.Remaining())
	}

	// Further ticks are ignored and never fire again.
	for i := 0; i < 10; i++ {
		tm.Tick()
	}
	if expirations != 1 {
		t.Errorf("expirations after extra ticks = %d, want 1", expirations)
	}
}

func TestTick_IgnoredWhileIdle(t *testing.T) {
	expirations := 0
	tm := New(func() { expirations++ }, nil)

	tm.Tick()
	tm.Tick()

	if expirations != 0 {
		t.Errorf("expirations = %d, want 0 for idle ticks", expirations)
	}
}

func TestCheckIn_CancelsPendingExpiry(t *testing.T) {
	expirations := 0
	checkIns := 0
	tm := New(func() { expirations++ }, func() { checkIns++ })

	_ = tm.Start(1)
	for i := 0; i < 59; i++ {
		tm.Tick()
	}
	if err := tm.CheckIn(); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	for i := 0; i < 120; i++ {
		tm.Tick()
	}

	if expirations != 0 {
		t.Errorf("expirations = %d, want 0 after check-in", expirations)
	}
	if checkIns != 1 {
		t.Errorf("checkIns = %d, want 1", checkIns)
	}
	if tm.Active() {
		t.Error("timer should be idle after check-in")
	}
}

func TestCheckIn_FailsWhileIdle(t *testing.T) {
	tm := New(nil, nil)

	if err := tm.CheckIn(); err != ErrNotRunning {
		t.Errorf("CheckIn on idle timer error = %v, want ErrNotRunning", err)
	}
}
