// Package traverse walks a Bvh to find the closest primitive a ray hits,
// generic over any primitive type that knows how to intersect a ray.
// Grounded on original_source/assets/bvh.cpp's Bvh::traverse (iterative
// stack, tightening ray.tmax as closer hits are found) and on the type
// parameter style of other_examples/drone115b-gobvh.
package traverse

import (
	"github.com/achilleasa/bvhtrace/bvh"
	"github.com/achilleasa/bvhtrace/types"
)

// Primitive is the contract a traversable object must satisfy: given a ray,
// report whether it is hit within the ray's current [TMin, TMax] interval,
// tightening ray.TMax to the hit distance when it returns true.
type Primitive interface {
	Intersect(ray *types.Ray) bool
}

// ClosestHit finds the closest primitive, if any, that ray hits among prims,
// using b to prune the search. The primitive indices referenced by b's nodes
// must be valid indices into prims.
func ClosestHit[P Primitive](b *bvh.Bvh, ray *types.Ray, prims []P) bvh.Hit {
	hit := bvh.NoHit()
	if len(b.Nodes) == 0 {
		return hit
	}

	stack := make([]uint32, 0, 64)
	stack = append(stack, 0)
	for len(stack) > 0 {
		nodeIndex := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := b.Nodes[nodeIndex]
		tEnter, tExit := ray.IntersectBox(node.Bounds)
		if tEnter > tExit {
			continue
		}

		if node.IsLeaf() {
			for i := uint32(0); i < node.PrimCount; i++ {
				primIndex := b.PrimIndices[node.FirstIndex+i]
				if prims[primIndex].Intersect(ray) {
					hit = bvh.Hit{PrimIndex: primIndex}
				}
			}
			continue
		}

		stack = append(stack, node.FirstIndex, node.FirstIndex+1)
	}
	return hit
}

// AnyHit reports whether ray hits any primitive, stopping at the first hit
// found rather than searching for the closest one.
func AnyHit[P Primitive](b *bvh.Bvh, ray *types.Ray, prims []P) bool {
	if len(b.Nodes) == 0 {
		return false
	}

	stack := make([]uint32, 0, 64)
	stack = append(stack, 0)
	for len(stack) > 0 {
		nodeIndex := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := b.Nodes[nodeIndex]
		tEnter, tExit := ray.IntersectBox(node.Bounds)
		if tEnter > tExit {
			continue
		}

		if node.IsLeaf() {
			for i := uint32(0); i < node.PrimCount; i++ {
				primIndex := b.PrimIndices[node.FirstIndex+i]
				if prims[primIndex].Intersect(ray) {
					return true
				}
			}
			continue
		}

		stack = append(stack, node.FirstIndex, node.FirstIndex+1)
	}
	return false
}
