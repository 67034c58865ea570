package core

import "testing"

func TestManualClock(t *testing.T) {
	clock := NewManualClock(100)
	if clock.Now() != 100 {
		t.Fatalf("expected 100, got %d", clock.Now())
	}
	clock.Advance(50)
	if clock.Now() != 150 {
		t.Fatalf("expected 150, got %d", clock.Now())
	}
	clock.Set(1000)
	if clock.Now() != 1000 {
		t.Fatalf("expected 1000, got %d", clock.Now())
	}
}

func TestSystemClockTicks(t *testing.T) {
	if (SystemClock{}).Now() == 0 {
		t.Fatalf("expected nonzero system tick")
	}
}
