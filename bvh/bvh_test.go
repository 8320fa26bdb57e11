package bvh

import (
	"testing"

	"github.com/achilleasa/bvhtrace/types"
)

func TestNodeIsLeaf(t *testing.T) {
	leaf := Node{PrimCount: 3, FirstIndex: 7}
	if !leaf.IsLeaf() {
		t.Fatalf("expected node with PrimCount=3 to be a leaf")
	}

	inner := Node{PrimCount: 0, FirstIndex: 1}
	if inner.IsLeaf() {
		t.Fatalf("expected node with PrimCount=0 to be an inner node")
	}
}

func TestHitSentinel(t *testing.T) {
	none := NoHit()
	if none.Valid() {
		t.Fatalf("expected NoHit() to be invalid")
	}

	h := Hit{PrimIndex: 5}
	if !h.Valid() {
		t.Fatalf("expected a hit with a real index to be valid")
	}
}

func TestDepthAndLeafCount(t *testing.T) {
	// Two leaves under a single root.
	b := &Bvh{
		Nodes: []Node{
			{Bounds: types.EmptyBBox(), PrimCount: 0, FirstIndex: 1},
			{Bounds: types.EmptyBBox(), PrimCount: 1, FirstIndex: 0},
			{Bounds: types.EmptyBBox(), PrimCount: 1, FirstIndex: 1},
		},
		PrimIndices: []uint32{0, 1},
	}

	if got := b.Depth(0); got != 2 {
		t.Fatalf("expected depth 2, got %d", got)
	}
	if got := b.LeafCount(0); got != 2 {
		t.Fatalf("expected 2 leaves, got %d", got)
	}
}
