package otf

import (
	"errors"
	"math"
	"testing"
)

func TestSetChannelCoarseAndFine(t *testing.T) {
	sp := newScriptPort("C ", "I ")
	d := newTestDevice(sp)
	defer d.Close()

	actual, err := d.SetChannel(testCtx(t), 1550.4)
	if err != nil {
		t.Fatalf("SetChannel error: %v", err)
	}
	if math.Abs(actual-1550.4) > 1e-9 {
		t.Fatalf("expected actual 1550.4, got %v", actual)
	}

	// The documented encoding for 1550.4 nm, byte for byte.
	want := []string{"C1550,", "I0002,"}
	got := sp.written()
	if len(got) != len(want) {
		t.Fatalf("expected %d writes, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("write %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSetChannelCoarseOnly(t *testing.T) {
	sp := newScriptPort("C1549 ")
	d := newTestDevice(sp)
	defer d.Close()

	actual, err := d.SetChannel(testCtx(t), 1550.0)
	if err != nil {
		t.Fatalf("SetChannel error: %v", err)
	}
	if actual != 1550.0 {
		t.Fatalf("expected actual 1550.0, got %v", actual)
	}

	got := sp.written()
	if len(got) != 1 || got[0] != "C1550," {
		t.Fatalf("expected single coarse write C1550,, got %q", got)
	}
}

func TestSetChannelStepsDown(t *testing.T) {
	sp := newScriptPort("C ", "D ")
	d := newTestDevice(sp)
	defer d.Close()

	actual, err := d.SetChannel(testCtx(t), 1549.8)
	if err != nil {
		t.Fatalf("SetChannel error: %v", err)
	}
	if math.Abs(actual-1549.8) > 1e-9 {
		t.Fatalf("expected actual 1549.8, got %v", actual)
	}

	got := sp.written()
	if len(got) != 2 || got[0] != "C1550," || got[1] != "D0001," {
		t.Fatalf("expected writes [C1550, D0001,], got %q", got)
	}
}

func TestSetChannelOffGridRoundsToNearest(t *testing.T) {
	sp := newScriptPort("C ", "I ")
	d := newTestDevice(sp)
	defer d.Close()

	actual, err := d.SetChannel(testCtx(t), 1550.25)
	if err != nil {
		t.Fatalf("SetChannel error: %v", err)
	}
	if math.Abs(actual-1550.2) > 1e-9 {
		t.Fatalf("expected nearest grid wavelength 1550.2, got %v", actual)
	}
}

func TestSetChannelClampsToTuningFloor(t *testing.T) {
	// 1509.9 rounds to coarse 1510 with one negative fine step, which
	// would land at 1509.8 below the tuning range; the floor wins.
	sp := newScriptPort("C ")
	d := newTestDevice(sp)
	defer d.Close()

	actual, err := d.SetChannel(testCtx(t), 1509.9)
	if err != nil {
		t.Fatalf("SetChannel error: %v", err)
	}
	if actual != 1510.0 {
		t.Fatalf("expected clamp to 1510.0, got %v", actual)
	}

	got := sp.written()
	if len(got) != 1 || got[0] != "C1510," {
		t.Fatalf("expected single coarse write C1510,, got %q", got)
	}
}

func TestSetChannelOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		wl   float64
	}{
		{"below range", 1500},
		{"above range", 1600.5},
		{"just below", 1509.4},
		{"just above", 1589.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mp := newMockPort()
			d := newTestDevice(mp)
			defer d.Close()

			_, err := d.SetChannel(testCtx(t), tt.wl)
			if !errors.Is(err, ErrOutOfRange) {
				t.Fatalf("expected ErrOutOfRange for %v, got %v", tt.wl, err)
			}
			if len(mp.written()) != 0 {
				t.Fatalf("expected no writes for rejected wavelength, got %q", mp.written())
			}
		})
	}
}

func TestSetChannelRepeatedCallsAreIndependent(t *testing.T) {
	sp := newScriptPort("C ", "C ", "I ")
	d := newTestDevice(sp)
	defer d.Close()

	if _, err := d.SetChannel(testCtx(t), 1520); err != nil {
		t.Fatalf("first SetChannel error: %v", err)
	}
	if _, err := d.SetChannel(testCtx(t), 1570.2); err != nil {
		t.Fatalf("second SetChannel error: %v", err)
	}

	want := []string{"C1520,", "C1570,", "I0001,"}
	got := sp.written()
	if len(got) != len(want) {
		t.Fatalf("expected %d writes, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("write %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSetChannelWriteFailure(t *testing.T) {
	mp := newMockPort()
	mp.writeErr = errors.New("input/output error")
	d := newTestDevice(mp)
	defer d.Close()

	_, err := d.SetChannel(testCtx(t), 1550)
	var ioe *IOError
	if !errors.As(err, &ioe) {
		t.Fatalf("expected *IOError on write failure, got %T: %v", err, err)
	}
}
