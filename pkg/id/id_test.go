package id

import (
	"testing"
	"time"
)

func resetClock() { NowMs = func() int64 { return time.Now().UnixMilli() } }

func TestOrderingMonotonic(t *testing.T) {
	g := NewGenerator()
	NowMs = func() int64 { return 1000 }
	defer resetClock()

	a := g.Next()
	b := g.Next()
	if a.Compare(b) >= 0 {
		t.Fatalf("expected a<b")
	}
	if a.String() >= b.String() {
		t.Fatalf("hex form must sort like the bytes: %s >= %s", a, b)
	}
}

func TestClockRegressionGuard(t *testing.T) {
	g := NewGenerator()
	now := int64(1000)
	NowMs = func() int64 { return now }
	defer resetClock()

	a := g.Next()
	now = 900
	b := g.Next()
	if a.Compare(b) >= 0 {
		t.Fatalf("expected b>a despite clock regression")
	}
	if b.Millis() != 1000 {
		t.Fatalf("expected pinned ms 1000, got %d", b.Millis())
	}
}

func TestSequenceOverflowWaitsNextMs(t *testing.T) {
	g := NewGenerator()
	NowMs = func() int64 { return 2000 }
	defer resetClock()

	g.lastMs = 2000
	g.sequence = ^uint64(0) - 1
	_ = g.Next()

	done := make(chan ID)
	go func() { done <- g.Next() }()

	time.AfterFunc(10*time.Millisecond, func() { NowMs = func() int64 { return 2001 } })

	select {
	case got := <-done:
		if got.Millis() != 2001 {
			t.Fatalf("expected rollover to 2001, got %d", got.Millis())
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timeout waiting for overflow handling")
	}
}

func TestParseRoundTrip(t *testing.T) {
	g := NewGenerator()
	for _, want := range g.NextN(5) {
		got, err := Parse(want.String())
		if err != nil {
			t.Fatalf("parse %s: %v", want, err)
		}
		if got != want {
			t.Fatalf("round trip mismatch: %s != %s", got, want)
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "abc", "zz000000000000000000000000000000"} {
		if _, err := Parse(in); err != ErrMalformed {
			t.Fatalf("Parse(%q): expected ErrMalformed, got %v", in, err)
		}
	}
}
