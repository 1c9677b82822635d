package testutil

import (
	"testing"

	"github.com/udisondev/skirmish/internal/model"
)

// AssertVecNear проверяет, что два вектора совпадают с точностью delta.
func AssertVecNear(t testing.TB, want, got model.Vec2, delta float64) {
	t.Helper()

	if d := want.Distance(got); d > delta {
		t.Fatalf("vector mismatch: want %+v, got %+v (off by %g)", want, got, d)
	}
}
