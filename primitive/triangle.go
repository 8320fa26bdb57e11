// Package primitive implements the geometric primitives that a Bvh can be
// built over and traversed against.
package primitive

import "github.com/achilleasa/bvhtrace/types"

// Triangle is a single triangle defined by its three vertices, grounded on
// original_source/assets/bvh.cpp's Triangle::intersect (Möller-Trumbore,
// edge1/edge2 cross variant) and named after scene/primitive.go's
// NewTriangle constructor.
type Triangle struct {
	P0, P1, P2 types.Vec3
}

// NewTriangle builds a Triangle from its three vertices.
func NewTriangle(p0, p1, p2 types.Vec3) Triangle {
	return Triangle{P0: p0, P1: p1, P2: p2}
}

// Bounds returns the triangle's axis-aligned bounding box.
func (t Triangle) Bounds() types.BBox {
	return types.BBoxFromPoint(t.P0).Extend(t.P1).Extend(t.P2)
}

// Center returns the triangle's centroid, used by the builders to bin
// primitives by position.
func (t Triangle) Center() types.Vec3 {
	return t.P0.Add(t.P1).Add(t.P2).Mul(1.0 / 3.0)
}

// Intersect tests ray against the triangle, tightening ray.TMax and
// reporting true on a hit within the ray's current [TMin, TMax] interval.
// The barycentric comparisons are written so that a NaN operand (which can
// arise when the ray is parallel to the triangle's plane) falls through to
// a miss rather than a false hit.
func (t Triangle) Intersect(ray *types.Ray) bool {
	e1 := t.P0.Sub(t.P1)
	e2 := t.P2.Sub(t.P0)
	n := e1.Cross(e2)

	c := t.P0.Sub(ray.Org)
	r := ray.Dir.Cross(c)
	invDet := 1.0 / n.Dot(ray.Dir)

	u := r.Dot(e2) * invDet
	v := r.Dot(e1) * invDet
	w := 1.0 - u - v

	if !(u >= 0 && v >= 0 && w >= 0) {
		return false
	}

	hitT := n.Dot(c) * invDet
	if hitT < ray.TMin || hitT > ray.TMax {
		return false
	}

	ray.TMax = hitT
	return true
}
