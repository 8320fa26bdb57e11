// Package ppm writes images in the binary PPM (P6) format, grounded on the
// PPM writer in original_source/assets/bvh.cpp's main(): a short text
// header followed by top-to-bottom rows of raw RGB bytes.
package ppm

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Image is an RGB framebuffer with one byte per channel, indexed as
// Pixels[3*(y*Width+x)+c], with y=0 at the top of the image.
type Image struct {
	Width, Height int
	Pixels        []byte
}

// NewImage allocates a black framebuffer of the given size.
func NewImage(width, height int) *Image {
	return &Image{Width: width, Height: height, Pixels: make([]byte, 3*width*height)}
}

// Set writes an RGB triple at (x, y).
func (img *Image) Set(x, y int, r, g, b byte) {
	offset := 3 * (y*img.Width + x)
	img.Pixels[offset+0] = r
	img.Pixels[offset+1] = g
	img.Pixels[offset+2] = b
}

// Save writes img to path in binary PPM (P6) format.
func (img *Image) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := img.WriteTo(f); err != nil {
		return fmt.Errorf("ppm: %s: %w", path, err)
	}
	return nil
}

// WriteTo encodes img as binary PPM to w.
func (img *Image) WriteTo(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6 %d %d %d\n", img.Width, img.Height, 255); err != nil {
		return err
	}
	if _, err := bw.Write(img.Pixels); err != nil {
		return err
	}
	return bw.Flush()
}
