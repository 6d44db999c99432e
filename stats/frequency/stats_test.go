package frequency

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-dynid/internal/testutil"
)

func TestSpectrumPeakBin(t *testing.T) {
	// 64 Hz at 1024 Hz over 1024 samples lands exactly on bin 64.
	x := testutil.Sine(64, 1.0/1024, 1, 0, 1024)

	mag, err := Spectrum(x)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mag) != 513 {
		t.Fatalf("len=%d, want 513", len(mag))
	}
	if got := testutil.ArgMax(mag, 0, len(mag)); got != 64 {
		t.Fatalf("peak bin=%d, want 64", got)
	}
	if math.Abs(mag[64]-512) > 1e-6 {
		t.Fatalf("peak magnitude=%v, want 512", mag[64])
	}
}

func TestSpectrumRemovesMean(t *testing.T) {
	mag, err := Spectrum(testutil.DC(5, 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range mag {
		if v > 1e-9 {
			t.Fatalf("bin %d = %v, want 0", i, v)
		}
	}
}

func TestSpectrumTooShort(t *testing.T) {
	if _, err := Spectrum([]float64{1}); !errors.Is(err, ErrTooShort) {
		t.Fatalf("err=%v, want ErrTooShort", err)
	}
}

func TestRolloff(t *testing.T) {
	mag := []float64{0, 1, 0, 0, 0}
	if got := Rolloff(mag, 8, 0.85); got != 1 {
		t.Fatalf("Rolloff=%v, want 1", got)
	}
	if got := Rolloff(make([]float64, 5), 8, 0.85); got != 0 {
		t.Fatalf("Rolloff of silence=%v, want 0", got)
	}
}

func TestCentroid(t *testing.T) {
	mag := []float64{0, 1, 0, 1, 0}
	if got := Centroid(mag, 8); math.Abs(got-2) > 1e-12 {
		t.Fatalf("Centroid=%v, want 2", got)
	}
}

func TestChannelBandwidth(t *testing.T) {
	const h = 0.001
	x := testutil.Sine(2, h, 1, 0, 4096)
	noise := testutil.Sine(150, h, 0.01, 0, 4096)
	for i := range x {
		x[i] += noise[i]
	}

	bw, err := ChannelBandwidth(x, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bw < 1 || bw > 10 {
		t.Fatalf("bandwidth=%v Hz, want near 2 Hz", bw)
	}

	if _, err := ChannelBandwidth(x, 0); err == nil {
		t.Fatal("expected error for zero interval")
	}
}
