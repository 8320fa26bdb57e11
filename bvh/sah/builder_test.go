package sah

import (
	"math/rand"
	"testing"

	"github.com/achilleasa/bvhtrace/types"
)

func boxCenter(min, max types.Vec3) (types.BBox, types.Vec3) {
	return types.BBox{Min: min, Max: max}, min.Add(max).Mul(0.5)
}

func gridInputs(n int) ([]types.BBox, []types.Vec3) {
	boxes := make([]types.BBox, n)
	centers := make([]types.Vec3, n)
	for i := 0; i < n; i++ {
		x := float32(i % 8)
		y := float32((i / 8) % 8)
		z := float32(i / 64)
		box, center := boxCenter(types.XYZ(x, y, z), types.XYZ(x+0.5, y+0.5, z+0.5))
		boxes[i] = box
		centers[i] = center
	}
	return boxes, centers
}

func TestBuildSingleLeaf(t *testing.T) {
	boxes, centers := gridInputs(1)
	b, stats := Build(boxes, centers)

	if len(b.Nodes) != 1 {
		t.Fatalf("expected a single-node tree, got %d nodes", len(b.Nodes))
	}
	if !b.Nodes[0].IsLeaf() || b.Nodes[0].PrimCount != 1 {
		t.Fatalf("expected root to be a 1-primitive leaf, got %+v", b.Nodes[0])
	}
	if stats.Leaves != 1 {
		t.Fatalf("expected 1 leaf in stats, got %d", stats.Leaves)
	}
}

func TestBuildEmptyInput(t *testing.T) {
	b, _ := Build(nil, nil)
	if len(b.Nodes) != 0 || len(b.PrimIndices) != 0 {
		t.Fatalf("expected an empty Bvh for N=0, got %+v", b)
	}
}

func TestBuildInvariants(t *testing.T) {
	boxes, centers := gridInputs(200)
	b, _ := Build(boxes, centers)

	leaves := 0
	seen := make([]bool, len(boxes))
	var walk func(idx uint32)
	walk = func(idx uint32) {
		node := b.Nodes[idx]
		if node.IsLeaf() {
			leaves++
			if node.PrimCount < 1 {
				t.Fatalf("leaf with zero primitives at node %d", idx)
			}
			union := types.EmptyBBox()
			for k := uint32(0); k < node.PrimCount; k++ {
				p := b.PrimIndices[node.FirstIndex+k]
				if seen[p] {
					t.Fatalf("primitive %d referenced by more than one leaf", p)
				}
				seen[p] = true
				union = union.ExtendBox(boxes[p])
			}
			if union != node.Bounds {
				t.Fatalf("leaf bbox mismatch at node %d: got %+v want %+v", idx, node.Bounds, union)
			}
			return
		}

		left, right := b.Nodes[node.FirstIndex], b.Nodes[node.FirstIndex+1]
		walk(node.FirstIndex)
		walk(node.FirstIndex + 1)

		union := left.Bounds.ExtendBox(right.Bounds)
		if union != node.Bounds {
			t.Fatalf("inner bbox mismatch at node %d: got %+v want %+v", idx, node.Bounds, union)
		}
	}
	walk(0)

	if len(b.Nodes) != 2*leaves-1 {
		t.Fatalf("expected %d nodes for %d leaves, got %d", 2*leaves-1, leaves, len(b.Nodes))
	}
	for i, s := range seen {
		if !s {
			t.Fatalf("primitive %d not covered by any leaf", i)
		}
	}

	rootUnion := types.EmptyBBox()
	for _, box := range boxes {
		rootUnion = rootUnion.ExtendBox(box)
	}
	if rootUnion != b.Nodes[0].Bounds {
		t.Fatalf("root bbox does not equal union of all input boxes")
	}
}

func TestBuildDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	n := 150
	boxes := make([]types.BBox, n)
	centers := make([]types.Vec3, n)
	for i := range boxes {
		min := types.XYZ(rng.Float32()*10, rng.Float32()*10, rng.Float32()*10)
		max := min.Add(types.XYZ(rng.Float32(), rng.Float32(), rng.Float32()))
		boxes[i], centers[i] = boxCenter(min, max)
	}

	b1, _ := Build(boxes, centers)
	b2, _ := Build(boxes, centers)

	if len(b1.Nodes) != len(b2.Nodes) {
		t.Fatalf("node count mismatch across builds: %d vs %d", len(b1.Nodes), len(b2.Nodes))
	}
	for i := range b1.Nodes {
		if b1.Nodes[i] != b2.Nodes[i] {
			t.Fatalf("node %d differs across builds: %+v vs %+v", i, b1.Nodes[i], b2.Nodes[i])
		}
	}
	for i := range b1.PrimIndices {
		if b1.PrimIndices[i] != b2.PrimIndices[i] {
			t.Fatalf("prim index %d differs across builds: %d vs %d", i, b1.PrimIndices[i], b2.PrimIndices[i])
		}
	}
}
