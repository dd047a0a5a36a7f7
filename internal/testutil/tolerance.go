package testutil

import (
	"math"
	"testing"
)

// DefaultTolerance is the absolute tolerance used by routing tests.
const DefaultTolerance = 1e-12

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t testing.TB, got, want []float64, eps float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}

	for i := range got {
		if diff := math.Abs(got[i] - want[i]); diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireUnchanged fails t if buf no longer matches the snapshot taken
// before processing.
func RequireUnchanged(t testing.TB, buf, snapshot []float64) {
	t.Helper()

	for i := range snapshot {
		if buf[i] != snapshot[i] {
			t.Fatalf("index %d modified: got %v, want %v", i, buf[i], snapshot[i])
		}
	}
}
