package types

import (
	"math"
	"testing"
)

func TestSafeInverse(t *testing.T) {
	if got := safeInverse(2); got != 0.5 {
		t.Fatalf("safeInverse(2): got %v, want 0.5", got)
	}

	got := safeInverse(0)
	if math.IsInf(float64(got), 0) || math.IsNaN(float64(got)) {
		t.Fatalf("safeInverse(0) should not be Inf/NaN, got %v", got)
	}
	if got <= 0 {
		t.Fatalf("safeInverse(0) should preserve sign (+0 -> positive), got %v", got)
	}

	negGot := safeInverse(float32(math.Copysign(0, -1)))
	if negGot >= 0 {
		t.Fatalf("safeInverse(-0) should preserve sign (-> negative), got %v", negGot)
	}
}

func TestRayIntersectBoxHit(t *testing.T) {
	box := BBox{Min: XYZ(-1, -1, -1), Max: XYZ(1, 1, 1)}
	r := NewRay(XYZ(0, 0, -5), XYZ(0, 0, 1), 0, 100)

	tEnter, tExit := r.IntersectBox(box)
	if tEnter > tExit {
		t.Fatalf("expected a hit, got tEnter=%v tExit=%v", tEnter, tExit)
	}
	if tEnter < 3.999 || tEnter > 4.001 {
		t.Fatalf("expected tEnter close to 4, got %v", tEnter)
	}
}

func TestRayIntersectBoxMiss(t *testing.T) {
	box := BBox{Min: XYZ(-1, -1, -1), Max: XYZ(1, 1, 1)}
	r := NewRay(XYZ(0, 5, -5), XYZ(0, 0, 1), 0, 100)

	tEnter, tExit := r.IntersectBox(box)
	if tEnter <= tExit {
		t.Fatalf("expected a miss, got tEnter=%v tExit=%v", tEnter, tExit)
	}
}

func TestRayIntersectBoxAxisAligned(t *testing.T) {
	box := BBox{Min: XYZ(5, -1, -1), Max: XYZ(6, 1, 1)}
	// Ray travels along X but does not reach the box's Y/Z slab.
	r := NewRay(XYZ(0, 5, 0), XYZ(1, 0, 0), 0, 1000)

	tEnter, tExit := r.IntersectBox(box)
	if math.IsNaN(float64(tEnter)) || math.IsNaN(float64(tExit)) {
		t.Fatalf("axis-aligned ray produced NaN: tEnter=%v tExit=%v", tEnter, tExit)
	}
	if math.IsInf(float64(tEnter), 0) {
		t.Fatalf("axis-aligned ray produced Inf tEnter: %v", tEnter)
	}
}
