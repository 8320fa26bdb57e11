// Package obj loads triangle meshes from the Wavefront OBJ format,
// structured after scene/reader/wavefront.go (bufio.Scanner line parsing,
// strings.Fields tokenizing, contextual error wrapping) and following
// original_source/assets/bvh.cpp's obj:: namespace, which this package
// supplements with: fan triangulation of faces with more than 3 vertices,
// rather than rejecting them outright.
package obj

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/bvhtrace/log"
	"github.com/achilleasa/bvhtrace/primitive"
	"github.com/achilleasa/bvhtrace/types"
)

// ErrNoTriangles is returned when a file parses cleanly but contains no
// triangular faces.
var ErrNoTriangles = errors.New("obj: no triangles found in input")

var logger = log.New("obj")

// Load reads an OBJ file from path and returns its triangles.
func Load(path string) ([]primitive.Triangle, error) {
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tris, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("obj: %s: %w", path, err)
	}
	logger.Debugf("parsed %s into %d triangle(s) in %s", path, len(tris), time.Since(start))
	return tris, nil
}

// Read parses an OBJ stream and returns its triangles. Only "v" and "f"
// records are interpreted; everything else (normals, texture coordinates,
// groups, materials) is ignored, matching the stripped-down reference
// parser this package is grounded on.
func Read(r io.Reader) ([]primitive.Triangle, error) {
	var vertices []types.Vec3
	var triangles []primitive.Triangle

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 || tokens[0] == "#" {
			continue
		}

		switch tokens[0] {
		case "v":
			v, err := parseVertex(tokens)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			vertices = append(vertices, v)
		case "f":
			tris, err := parseFace(tokens[1:], vertices)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			triangles = append(triangles, tris...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(triangles) == 0 {
		return nil, ErrNoTriangles
	}
	return triangles, nil
}

func parseVertex(tokens []string) (types.Vec3, error) {
	if len(tokens) < 4 {
		return types.Vec3{}, fmt.Errorf("'v' expects 3 arguments, got %d", len(tokens)-1)
	}
	var v types.Vec3
	for i := 0; i < 3; i++ {
		coord, err := strconv.ParseFloat(tokens[i+1], 32)
		if err != nil {
			return types.Vec3{}, fmt.Errorf("could not parse vertex coordinate %q: %w", tokens[i+1], err)
		}
		v[i] = float32(coord)
	}
	return v, nil
}

// parseFace fan-triangulates a face record of 3 or more vertex arguments,
// mirroring the point[0], point[1], v accumulation loop in the reference
// obj::load_from_stream.
func parseFace(args []string, vertices []types.Vec3) ([]primitive.Triangle, error) {
	if len(args) < 3 {
		return nil, fmt.Errorf("'f' expects at least 3 arguments, got %d", len(args))
	}

	points := make([]types.Vec3, len(args))
	for i, arg := range args {
		index, err := parseFaceVertexIndex(arg, len(vertices))
		if err != nil {
			return nil, fmt.Errorf("face argument %d: %w", i, err)
		}
		points[i] = vertices[index]
	}

	tris := make([]primitive.Triangle, 0, len(points)-2)
	for i := 2; i < len(points); i++ {
		tris = append(tris, primitive.NewTriangle(points[0], points[i-1], points[i]))
	}
	return tris, nil
}

// parseFaceVertexIndex extracts the vertex index from a "v", "v/vt" or
// "v/vt/vn" token, supporting negative indices that count back from the end
// of the vertex list, as Wavefront OBJ allows.
func parseFaceVertexIndex(token string, vertexCount int) (int, error) {
	vTok := token
	if slash := strings.IndexByte(token, '/'); slash >= 0 {
		vTok = token[:slash]
	}

	parsed, err := strconv.ParseInt(vTok, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("could not parse vertex index %q: %w", vTok, err)
	}

	var index int
	if parsed < 0 {
		index = vertexCount + int(parsed)
	} else {
		index = int(parsed) - 1
	}
	if index < 0 || index >= vertexCount {
		return 0, fmt.Errorf("vertex index %d out of bounds (%d vertices defined)", parsed, vertexCount)
	}
	return index, nil
}
