// Package sah builds a BVH top-down using a binned Surface Area Heuristic,
// structured after scene/compiler/bvh_builder.go (logger + stats +
// exported Build entry point) and following original_source/assets/bvh.cpp's
// binned split search and median-split fallback.
package sah

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/achilleasa/bvhtrace/bvh"
	"github.com/achilleasa/bvhtrace/log"
	"github.com/achilleasa/bvhtrace/types"
)

const (
	// minPrims is the primitive count below which a node always becomes
	// a leaf, regardless of what the SAH cost says.
	minPrims = 2

	// maxPrims is the primitive count above which a node must be split
	// even if the binned SAH search found no improving split; the
	// median-split fallback takes over in that case.
	maxPrims = 8

	// traversalCost is the cost bias "c_t" applied to the leaf-cost
	// estimate: half_area * (n - c_t).
	traversalCost float32 = 1.0

	// binCount is the number of bins used to approximate the exact SAH
	// search along each axis.
	binCount = 16
)

// Stats summarizes a completed build.
type Stats struct {
	Nodes     int
	Leaves    int
	MaxDepth  int
	BuildTime time.Duration
}

type bin struct {
	bounds types.BBox
	count  uint32
}

func (b bin) cost() float32 {
	return b.bounds.HalfArea() * float32(b.count)
}

func (b bin) extend(other bin) bin {
	return bin{bounds: b.bounds.ExtendBox(other.bounds), count: b.count + other.count}
}

// split describes a candidate partition of a node's primitives along one
// axis. rightBin == 0 marks an invalid split (no candidate found, or one of
// the two sides would be empty); valid splits always have rightBin in
// [1, binCount-1].
type split struct {
	axis     int
	cost     float32
	rightBin int
}

func (s split) valid() bool {
	return s.rightBin != 0
}

func binIndex(axis int, nodeBounds types.BBox, center types.Vec3) int {
	extent := nodeBounds.Max[axis] - nodeBounds.Min[axis]
	if extent <= 0 {
		return 0
	}
	idx := int((center[axis] - nodeBounds.Min[axis]) * (float32(binCount) / extent))
	if idx < 0 {
		idx = 0
	}
	if idx > binCount-1 {
		idx = binCount - 1
	}
	return idx
}

type builder struct {
	logger log.Logger

	boxes   []types.BBox
	centers []types.Vec3

	nodes       []bvh.Node
	primIndices []uint32

	stats Stats
}

// Build constructs a BVH from N parallel boxes/centers using the binned SAH
// heuristic. N must equal len(boxes) == len(centers); N == 0 returns an
// empty Bvh.
func Build(boxes []types.BBox, centers []types.Vec3) (*bvh.Bvh, Stats) {
	n := len(boxes)
	b := &builder{
		logger:  log.New("sah"),
		boxes:   boxes,
		centers: centers,
	}

	if n == 0 {
		return &bvh.Bvh{}, b.stats
	}

	start := time.Now()

	b.primIndices = make([]uint32, n)
	for i := range b.primIndices {
		b.primIndices[i] = uint32(i)
	}

	b.nodes = make([]bvh.Node, 2*n-1)
	b.nodes[0] = bvh.Node{PrimCount: uint32(n), FirstIndex: 0}

	nodeCount := uint32(1)
	// Explicit worklist of (node index, depth) pairs instead of
	// call-stack recursion, per this module's preference for bounded
	// native stack usage.
	type item struct {
		index uint32
		depth int
	}
	stack := []item{{index: 0, depth: 0}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.depth+1 > b.stats.MaxDepth {
			b.stats.MaxDepth = top.depth + 1
		}

		left, right, didSplit := b.processNode(top.index, nodeCount)
		if !didSplit {
			b.stats.Leaves++
			continue
		}
		b.stats.Nodes++
		nodeCount += 2
		stack = append(stack, item{index: left, depth: top.depth + 1}, item{index: right, depth: top.depth + 1})
	}

	b.nodes = b.nodes[:nodeCount]
	b.stats.BuildTime = time.Since(start)
	b.logger.Debugf("sah build: %d node(s), %d leaf(ves), max depth %d, %s",
		len(b.nodes), b.stats.Leaves, b.stats.MaxDepth, b.stats.BuildTime)

	return &bvh.Bvh{Nodes: b.nodes, PrimIndices: b.primIndices}, b.stats
}

// processNode recomputes node's bounds, decides whether it should become a
// leaf or a split, and if it splits, allocates the two child slots starting
// at nodeCount (the caller is responsible for reserving both slots in the
// node array and bumping its running node count by 2).
func (b *builder) processNode(nodeIndex, nodeCount uint32) (left, right uint32, didSplit bool) {
	node := &b.nodes[nodeIndex]

	bounds := types.EmptyBBox()
	primRange := b.primIndices[node.FirstIndex : node.FirstIndex+node.PrimCount]
	for _, p := range primRange {
		bounds = bounds.ExtendBox(b.boxes[p])
	}
	node.Bounds = bounds

	if node.PrimCount < minPrims {
		return 0, 0, false
	}

	var best split
	for axis := 0; axis < 3; axis++ {
		if s := b.findBestSplit(axis, bounds, primRange); s.valid() && (!best.valid() || s.cost < best.cost) {
			best = s
		}
	}

	leafCost := bounds.HalfArea() * (float32(node.PrimCount) - traversalCost)

	var firstRight uint32
	if !best.valid() || best.cost > leafCost {
		if node.PrimCount <= maxPrims {
			return 0, 0, false
		}
		// Median-split fallback: sort by center along the box's
		// largest axis and split the range in half.
		axis := bounds.LargestAxis()
		sort.Slice(primRange, func(i, j int) bool {
			return b.centers[primRange[i]][axis] < b.centers[primRange[j]][axis]
		})
		firstRight = node.FirstIndex + node.PrimCount/2
	} else {
		mid := partition(primRange, func(p uint32) bool {
			return binIndex(best.axis, bounds, b.centers[p]) < best.rightBin
		})
		firstRight = node.FirstIndex + uint32(mid)
	}

	leftCount := firstRight - node.FirstIndex
	rightCount := node.PrimCount - leftCount
	if leftCount == 0 || rightCount == 0 {
		panic(fmt.Sprintf("sah: chosen split produced an empty side (left=%d, right=%d)", leftCount, rightCount))
	}

	left, right = nodeCount, nodeCount+1
	if int(right) >= len(b.nodes) {
		panic("sah: node array overflow")
	}

	b.nodes[left] = bvh.Node{FirstIndex: node.FirstIndex, PrimCount: leftCount}
	b.nodes[right] = bvh.Node{FirstIndex: firstRight, PrimCount: rightCount}

	node.FirstIndex = left
	node.PrimCount = 0

	return left, right, true
}

// findBestSplit bins primRange's primitives along axis and returns the
// lowest-cost valid split, following the backward/forward sweep described
// by the reference implementation: right_cost[i] is accumulated back to
// front, then a forward sweep pairs each prefix with the matching suffix.
func (b *builder) findBestSplit(axis int, nodeBounds types.BBox, primRange []uint32) split {
	var bins [binCount]bin
	for i := range bins {
		bins[i].bounds = types.EmptyBBox()
	}
	for _, p := range primRange {
		idx := binIndex(axis, nodeBounds, b.centers[p])
		bins[idx].bounds = bins[idx].bounds.ExtendBox(b.boxes[p])
		bins[idx].count++
	}

	var rightCost [binCount]float32
	rightAccum := bin{bounds: types.EmptyBBox()}
	for i := binCount - 1; i > 0; i-- {
		rightAccum = rightAccum.extend(bins[i])
		rightCost[i] = rightAccum.cost()
	}

	result := split{axis: axis, cost: math.MaxFloat32}
	leftAccum := bin{bounds: types.EmptyBBox()}
	for i := 0; i < binCount-1; i++ {
		leftAccum = leftAccum.extend(bins[i])
		cost := leftAccum.cost() + rightCost[i+1]
		if cost < result.cost {
			result.cost = cost
			result.rightBin = i + 1
		}
	}
	return result
}

// partition rearranges items in place so that every element satisfying pred
// comes before every element that doesn't, mirroring std::partition; it
// returns the index of the first element for which pred is false. A stable
// ordering within each side is not required.
func partition(items []uint32, pred func(uint32) bool) int {
	i := 0
	for j := range items {
		if pred(items[j]) {
			items[i], items[j] = items[j], items[i]
			i++
		}
	}
	return i
}
