package atlas

import (
	"github.com/atlast-io/atlast/pkg/errors"
	"github.com/atlast-io/atlast/pkg/geom"
)

// Canvas is the composited atlas pixel buffer: RGBA8, row-major,
// Width*Height*4 bytes. Pixels not covered by any placement stay zero
// (transparent black).
type Canvas struct {
	Width  uint32
	Height uint32
	Pixels []byte
}

// CanvasHeight derives the final canvas height from the packed placements:
// the maximum bottom edge over all rectangles. Zero placements yield zero.
func CanvasHeight(placements []geom.Rect) uint32 {
	var h uint32
	for _, rect := range placements {
		if b := rect.Bottom(); b > h {
			h = b
		}
	}
	return h
}

// Composite blits every image into a fresh canvas at its placement. Images
// and placements correspond by index. Each source pixel is copied verbatim,
// all four channels, with no blending or color-space conversion; the result
// is pure given its inputs.
//
// Placements are trusted to be non-overlapping and in-bounds (the packer
// guarantees both), but a destination index past the buffer is still treated
// as a fatal internal error rather than a panic.
func Composite(images []*SourceImage, placements []geom.Rect, canvasWidth uint32) (*Canvas, error) {
	if len(images) != len(placements) {
		return nil, errors.New(errors.ErrCodeInternal,
			"%d images but %d placements", len(images), len(placements))
	}

	height := CanvasHeight(placements)
	c := &Canvas{
		Width:  canvasWidth,
		Height: height,
		Pixels: make([]byte, int(canvasWidth)*int(height)*4),
	}

	for i, img := range images {
		if err := img.Validate(); err != nil {
			return nil, err
		}
		if err := c.blit(img, placements[i]); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// blit copies img row by row to its placement rectangle.
func (c *Canvas) blit(img *SourceImage, rect geom.Rect) error {
	rowBytes := int(img.Width) * 4
	for row := uint32(0); row < img.Height; row++ {
		src := int(row) * rowBytes
		dst := (int(row+rect.Y)*int(c.Width) + int(rect.X)) * 4
		if dst+rowBytes > len(c.Pixels) {
			return errors.New(errors.ErrCodeInternalBounds,
				"image %q: row %d writes past the canvas buffer", img.Name, row)
		}
		copy(c.Pixels[dst:dst+rowBytes], img.Pixels[src:src+rowBytes])
	}
	return nil
}

// At returns the RGBA bytes of the canvas pixel at (x, y). It is a test and
// inspection helper, not a hot path.
func (c *Canvas) At(x, y uint32) [4]byte {
	i := (int(y)*int(c.Width) + int(x)) * 4
	return [4]byte{c.Pixels[i], c.Pixels[i+1], c.Pixels[i+2], c.Pixels[i+3]}
}
