package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/achilleasa/bvhtrace/bvh"
	"github.com/achilleasa/bvhtrace/bvh/ploc"
	"github.com/achilleasa/bvhtrace/bvh/sah"
	"github.com/achilleasa/bvhtrace/obj"
	"github.com/achilleasa/bvhtrace/ppm"
	"github.com/achilleasa/bvhtrace/primitive"
	"github.com/achilleasa/bvhtrace/traverse"
	"github.com/achilleasa/bvhtrace/types"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// ErrMissingScene is returned when the trace command is invoked without a
// scene file argument.
var ErrMissingScene = errors.New("missing scene file argument")

// ErrUnknownBuilder is returned when --builder names something other than
// "sah" or "ploc".
var ErrUnknownBuilder = errors.New(`unknown builder; expected "sah" or "ploc"`)

// buildStats is the subset of sah.Stats/ploc.Stats this command needs to
// display, so RenderScene doesn't have to care which builder produced them.
type buildStats struct {
	name      string
	nodes     int
	leaves    int
	maxDepth  int
	buildTime time.Duration
}

// RenderScene loads a triangle mesh, builds a BVH over it, ray traces a
// fixed pinhole camera view of it and writes the result to a PPM file. The
// coloring and fixed camera setup are grounded on
// original_source/assets/bvh.cpp's main().
func RenderScene(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return ErrMissingScene
	}
	sceneFile := ctx.Args().First()

	builderName := ctx.String("builder")
	if builderName != "sah" && builderName != "ploc" {
		return ErrUnknownBuilder
	}

	width := ctx.Int("width")
	height := ctx.Int("height")
	outFile := ctx.String("out")

	tris, err := obj.Load(sceneFile)
	if err != nil {
		return err
	}
	logger.Noticef("loaded %s: %d triangle(s)", sceneFile, len(tris))

	boxes := make([]types.BBox, len(tris))
	centers := make([]types.Vec3, len(tris))
	for i, tri := range tris {
		boxes[i] = tri.Bounds()
		centers[i] = tri.Center()
	}

	b, stats := buildBvh(builderName, boxes, centers)
	logger.Noticef("built %s BVH: %d inner node(s), %d leaf(ves), max depth %d, %s",
		stats.name, stats.nodes, stats.leaves, stats.maxDepth, stats.buildTime)

	image, hitCount := renderView(b, tris, width, height)
	logger.Noticef("rendered %dx%d frame, %d ray-triangle intersection(s)", width, height, hitCount)

	if err := image.Save(outFile); err != nil {
		return err
	}
	logger.Noticef("saved image to %s", outFile)

	displayBuildStats(stats)
	return nil
}

func buildBvh(name string, boxes []types.BBox, centers []types.Vec3) (*bvh.Bvh, buildStats) {
	switch name {
	case "ploc":
		b, s := ploc.Build(boxes, centers)
		return b, buildStats{name: name, nodes: s.Nodes, leaves: s.Leaves, maxDepth: s.MaxDepth, buildTime: s.BuildTime}
	default:
		b, s := sah.Build(boxes, centers)
		return b, buildStats{name: name, nodes: s.Nodes, leaves: s.Leaves, maxDepth: s.MaxDepth, buildTime: s.BuildTime}
	}
}

// renderView traces a fixed pinhole camera (eye at (0,1,3) looking down -Z)
// across a width x height grid, coloring each pixel by its hit primitive
// index so that the BVH's spatial partitioning is visible in the output.
func renderView(b *bvh.Bvh, tris []primitive.Triangle, width, height int) (*ppm.Image, int) {
	eye := types.XYZ(0, 1, 3)
	dir := types.XYZ(0, 0, -1).Normalize()
	up := types.XYZ(0, 1, 0)
	right := dir.Cross(up).Normalize()
	up = right.Cross(dir)

	image := ppm.NewImage(width, height)
	hitCount := 0
	for y := 0; y < height; y++ {
		v := 2.0*float32(y)/float32(height) - 1.0
		for x := 0; x < width; x++ {
			u := 2.0*float32(x)/float32(width) - 1.0

			rayDir := dir.Add(right.Mul(u)).Add(up.Mul(v))
			ray := types.NewRay(eye, rayDir, 0, math.MaxFloat32)

			hit := traverse.ClosestHit(b, &ray, tris)

			var r, g, bch byte
			if hit.Valid() {
				hitCount++
				r = byte(hit.PrimIndex * 37)
				g = byte(hit.PrimIndex * 91)
				bch = byte(hit.PrimIndex * 51)
			}
			// Flip Y: v increases upward but the PPM writer expects
			// row 0 at the top of the image.
			image.Set(x, height-1-y, r, g, bch)
		}
	}
	return image, hitCount
}

func displayBuildStats(stats buildStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Builder", "Inner nodes", "Leaves", "Max depth", "Build time"})
	table.Append([]string{
		stats.name,
		fmt.Sprintf("%d", stats.nodes),
		fmt.Sprintf("%d", stats.leaves),
		fmt.Sprintf("%d", stats.maxDepth),
		stats.buildTime.String(),
	})
	table.Render()
	logger.Noticef("build statistics\n%s", buf.String())
}
