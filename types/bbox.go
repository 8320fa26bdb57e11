package types

import "math"

// BBox is an axis-aligned bounding box.
type BBox struct {
	Min Vec3
	Max Vec3
}

// EmptyBBox returns a box primed for growth via Extend/ExtendBox: Min is set
// to +MaxFloat32 and Max to -MaxFloat32 so that extending with any point or
// box yields a correct result.
func EmptyBBox() BBox {
	return BBox{
		Min: Splat(math.MaxFloat32),
		Max: Splat(-math.MaxFloat32),
	}
}

// BBoxFromPoint returns the degenerate box containing a single point.
func BBoxFromPoint(p Vec3) BBox {
	return BBox{Min: p, Max: p}
}

// Extend grows the box so that it also contains p.
func (b BBox) Extend(p Vec3) BBox {
	return BBox{
		Min: MinVec3(b.Min, p),
		Max: MaxVec3(b.Max, p),
	}
}

// ExtendBox grows the box so that it also contains other.
func (b BBox) ExtendBox(other BBox) BBox {
	return BBox{
		Min: MinVec3(b.Min, other.Min),
		Max: MaxVec3(b.Max, other.Max),
	}
}

// Diagonal returns Max - Min.
func (b BBox) Diagonal() Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b BBox) Center() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// LargestAxis returns the index (0, 1 or 2) of the axis along which the box
// has its greatest extent.
func (b BBox) LargestAxis() int {
	d := b.Diagonal()
	axis := 0
	if d[axis] < d[1] {
		axis = 1
	}
	if d[axis] < d[2] {
		axis = 2
	}
	return axis
}

// HalfArea returns a quantity proportional to the surface area of the box;
// used by the SAH cost model, where only relative ordering matters.
func (b BBox) HalfArea() float32 {
	d := b.Diagonal()
	return (d[0]+d[1])*d[2] + d[0]*d[1]
}
