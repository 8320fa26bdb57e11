package types

import "math"

// Ray is a ray segment, org + t*dir for t in [TMin, TMax]. TMax is mutated
// during traversal as closer hits are found, tightening the segment.
type Ray struct {
	Org  Vec3
	Dir  Vec3
	TMin float32
	TMax float32
}

// NewRay builds a ray covering [tmin, tmax].
func NewRay(org, dir Vec3, tmin, tmax float32) Ray {
	return Ray{Org: org, Dir: dir, TMin: tmin, TMax: tmax}
}

// safeInverse returns 1/x, except when x is too close to zero to invert
// safely, in which case it returns a very large number with the sign of x.
// This keeps the slab test below well-behaved for axis-aligned rays instead
// of producing an infinity.
func safeInverse(x float32) float32 {
	if fabs32(x) <= epsilon32 {
		return float32(math.Copysign(float64(1.0/epsilon32), float64(x)))
	}
	return 1.0 / x
}

// InvDir returns the ray direction with every component safely inverted.
func (r Ray) InvDir() Vec3 {
	return Vec3{safeInverse(r.Dir[0]), safeInverse(r.Dir[1]), safeInverse(r.Dir[2])}
}

// IntersectBox runs the slab test against bbox and returns the entry/exit
// parameters of the intersection with the ray's current [TMin, TMax]
// interval. A hit is indicated by tEnter <= tExit; the comparisons use
// plain, non-propagating min/max so that NaN operands conservatively
// produce a miss.
func (r Ray) IntersectBox(bbox BBox) (tEnter, tExit float32) {
	inv := r.InvDir()

	loX, hiX := (bbox.Min[0]-r.Org[0])*inv[0], (bbox.Max[0]-r.Org[0])*inv[0]
	loY, hiY := (bbox.Min[1]-r.Org[1])*inv[1], (bbox.Max[1]-r.Org[1])*inv[1]
	loZ, hiZ := (bbox.Min[2]-r.Org[2])*inv[2], (bbox.Max[2]-r.Org[2])*inv[2]

	tMinX, tMaxX := fmin32(loX, hiX), fmax32(loX, hiX)
	tMinY, tMaxY := fmin32(loY, hiY), fmax32(loY, hiY)
	tMinZ, tMaxZ := fmin32(loZ, hiZ), fmax32(loZ, hiZ)

	tEnter = fmax32(r.TMin, fmax32(tMinX, fmax32(tMinY, tMinZ)))
	tExit = fmin32(r.TMax, fmin32(tMaxX, fmin32(tMaxY, tMaxZ)))
	return tEnter, tExit
}

const epsilon32 float32 = 1.1920929e-07 // math.Float32frombits(0x34000000), matches C++'s FLT_EPSILON

func fabs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// fmin32/fmax32 are non-NaN-propagating: if either operand is NaN, the
// plain "a < b" comparison is false, so the second operand wins. This
// matches the C++ reference's robust_min/robust_max and keeps the slab test
// and the triangle test well-behaved on degenerate input.
func fmin32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func fmax32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
