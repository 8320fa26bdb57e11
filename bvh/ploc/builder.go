// Package ploc builds a BVH bottom-up using parallel locally-ordered
// clustering: primitives are ordered along a Morton curve and then
// repeatedly merged with their nearest neighbor within a small window,
// grounded on original_source/assets/bvh_ploc.cpp's Bvh::build and
// find_closest_node.
package ploc

import (
	"sort"
	"time"

	"github.com/achilleasa/bvhtrace/bvh"
	"github.com/achilleasa/bvhtrace/log"
	"github.com/achilleasa/bvhtrace/types"
)

// searchRadius bounds how far, in sorted Morton order, a node looks for its
// nearest-neighbor merge candidate.
const searchRadius = 14

// Stats summarizes a completed build.
type Stats struct {
	Nodes     int
	Leaves    int
	MaxDepth  int
	BuildTime time.Duration
}

// clusterNode is a node still being merged; it doubles as the leaf
// representation before any merging has taken place.
type clusterNode struct {
	bounds     types.BBox
	primCount  uint32
	firstIndex uint32
}

// Build constructs a BVH from N parallel boxes/centers by Morton-sorting the
// primitives and merging nearest neighbors bottom-up. N must equal
// len(boxes) == len(centers); N == 0 returns an empty Bvh.
func Build(boxes []types.BBox, centers []types.Vec3) (*bvh.Bvh, Stats) {
	logger := log.New("ploc")
	n := len(boxes)
	var stats Stats
	if n == 0 {
		return &bvh.Bvh{}, stats
	}

	start := time.Now()

	centerBounds := types.EmptyBBox()
	for _, c := range centers {
		centerBounds = centerBounds.Extend(c)
	}
	diag := centerBounds.Diagonal()

	mortons := make([]uint32, n)
	for i, c := range centers {
		mortons[i] = quantize(c, centerBounds.Min, diag)
	}

	primIndices := make([]uint32, n)
	for i := range primIndices {
		primIndices[i] = uint32(i)
	}
	sort.Slice(primIndices, func(i, j int) bool {
		return mortons[primIndices[i]] < mortons[primIndices[j]]
	})

	current := make([]clusterNode, n)
	for i, p := range primIndices {
		current[i] = clusterNode{bounds: boxes[p], primCount: 1, firstIndex: uint32(i)}
	}

	nodes := make([]bvh.Node, 2*n-1)
	insertionIndex := len(nodes)
	leafCount := 0

	mergeIndex := make([]int, n)
	for len(current) > 1 {
		for i := range current {
			mergeIndex[i] = findClosestNode(current, i)
		}

		next := make([]clusterNode, 0, len(current))
		for i := range current {
			j := mergeIndex[i]
			if i != mergeIndex[j] {
				next = append(next, current[i])
				continue
			}
			if i > j {
				// The pair is merged exactly once, from the
				// lower index's perspective.
				continue
			}

			insertionIndex -= 2
			nodes[insertionIndex+0] = toNode(current[i])
			nodes[insertionIndex+1] = toNode(current[j])
			if current[i].primCount == 1 {
				leafCount++
			}
			if current[j].primCount == 1 {
				leafCount++
			}

			next = append(next, clusterNode{
				bounds:     current[i].bounds.ExtendBox(current[j].bounds),
				primCount:  0,
				firstIndex: uint32(insertionIndex),
			})
		}
		current = next
		mergeIndex = mergeIndex[:len(current)]
	}

	if n == 1 {
		leafCount = 1
	} else if insertionIndex != 1 {
		panic("ploc: merge loop left more than the root slot unfilled")
	}
	nodes[0] = toNode(current[0])

	stats.Leaves = leafCount
	stats.Nodes = len(nodes) - leafCount
	stats.BuildTime = time.Since(start)

	result := &bvh.Bvh{Nodes: nodes, PrimIndices: primIndices}
	stats.MaxDepth = result.Depth(0)
	logger.Debugf("ploc build: %d node(s), %d leaf(ves), max depth %d, %s",
		len(nodes), stats.Leaves, stats.MaxDepth, stats.BuildTime)

	return result, stats
}

func toNode(c clusterNode) bvh.Node {
	return bvh.Node{Bounds: c.bounds, PrimCount: c.primCount, FirstIndex: c.firstIndex}
}

// quantize maps a primitive center onto the Morton grid, clamping to
// [0, gridDim-1] so centers on the bounding box's max face don't overflow.
func quantize(center, centerBoundsMin types.Vec3, diag types.Vec3) uint32 {
	grid := [3]uint32{}
	for axis := 0; axis < 3; axis++ {
		extent := diag[axis]
		var t float32
		if extent > 0 {
			t = (center[axis] - centerBoundsMin[axis]) * (float32(gridDim) / extent)
		}
		if t < 0 {
			t = 0
		}
		if t > gridDim-1 {
			t = gridDim - 1
		}
		grid[axis] = uint32(t)
	}
	return encode(grid[0], grid[1], grid[2])
}

// findClosestNode returns the index, within [index-searchRadius,
// index+searchRadius] of current, whose merged bounding box has the
// smallest half-area with current[index]. It never returns index itself.
func findClosestNode(current []clusterNode, index int) int {
	begin := index - searchRadius
	if begin < 0 {
		begin = 0
	}
	end := index + searchRadius + 1
	if end > len(current) {
		end = len(current)
	}

	self := current[index]
	bestIndex := index
	var bestDistance float32 = -1
	for i := begin; i < end; i++ {
		if i == index {
			continue
		}
		distance := self.bounds.ExtendBox(current[i].bounds).HalfArea()
		if bestDistance < 0 || distance < bestDistance {
			bestDistance = distance
			bestIndex = i
		}
	}
	return bestIndex
}
