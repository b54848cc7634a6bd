// Package atlas implements the texture-atlas core: source images, the
// next-fit packer, the pixel compositor, and the binary record codec.
//
// The pipeline is a single forward pass: a set of SourceImages is sorted by
// descending pixel area, packed onto a fixed-width canvas, composited into
// one RGBA buffer, and described by normalized Records. Nothing is mutated
// after its creation phase.
package atlas

import (
	"sort"

	"github.com/atlast-io/atlast/pkg/errors"
)

// SourceImage is one decoded input image. Pixels are RGBA, 8 bits per
// channel, row-major, so len(Pixels) == Width*Height*4. A SourceImage is
// loaded once and never mutated afterwards.
type SourceImage struct {
	Name   string
	Width  uint32
	Height uint32
	Pixels []byte
}

// Area returns the pixel area, the ordering key for packing.
func (s *SourceImage) Area() uint64 {
	return uint64(s.Width) * uint64(s.Height)
}

// Validate checks that the pixel buffer matches the declared dimensions.
func (s *SourceImage) Validate() error {
	if want := int(s.Width) * int(s.Height) * 4; len(s.Pixels) != want {
		return errors.New(errors.ErrCodeInvalidInput,
			"image %q: pixel buffer is %d bytes, want %d for %dx%d RGBA",
			s.Name, len(s.Pixels), want, s.Width, s.Height)
	}
	return nil
}

// SortByAreaDesc sorts images by descending pixel area. The sort is stable:
// equal-area images keep their original discovery order, which in turn keeps
// the whole pipeline deterministic for a given input set.
func SortByAreaDesc(images []*SourceImage) {
	sort.SliceStable(images, func(i, j int) bool {
		return images[i].Area() > images[j].Area()
	})
}

// CanvasWidth is the sizing pass: the canvas width is the maximum width over
// all source images, chosen once before any placement happens. It is a
// property of the input set, not a configurable value.
func CanvasWidth(images []*SourceImage) uint32 {
	var w uint32
	for _, img := range images {
		if img.Width > w {
			w = img.Width
		}
	}
	return w
}
