package atlas

import (
	"github.com/atlast-io/atlast/pkg/errors"
	"github.com/atlast-io/atlast/pkg/geom"
)

// DefaultMaxScanSteps bounds the number of candidate positions examined per
// image. The scan normally terminates long before this; the cap exists so a
// pathological input surfaces a packing error instead of spinning forever.
const DefaultMaxScanSteps = 1 << 26

// PackOptions configures the placement scan.
type PackOptions struct {
	// WidthBound switches the horizontal bound check from the historical
	// x+height form to the intuitive x+width form. The historical check is
	// the default: changing it shifts every downstream placement, so the
	// corrected variant is a separate, opt-in code path.
	WidthBound bool

	// MaxScanSteps caps candidate positions per image. Zero means
	// DefaultMaxScanSteps.
	MaxScanSteps uint64
}

// Packer assigns non-overlapping placements on a canvas of fixed width and
// algorithmically grown height. The width must come from the sizing pass
// (CanvasWidth); making it an explicit constructor argument keeps the
// two-phase contract visible in the types.
//
// Packing is inherently sequential: each placement depends on all prior
// placements. A Packer is not safe for concurrent use.
type Packer struct {
	canvasWidth uint32
	opts        PackOptions
	placed      []geom.Rect
}

// NewPacker creates a packer for a canvas of the given fixed width.
func NewPacker(canvasWidth uint32, opts PackOptions) *Packer {
	if opts.MaxScanSteps == 0 {
		opts.MaxScanSteps = DefaultMaxScanSteps
	}
	return &Packer{canvasWidth: canvasWidth, opts: opts}
}

// Pack places every image in order and returns one rectangle per image, in
// the same order. Callers that want the canonical packing order sort with
// SortByAreaDesc first.
//
// The scan for each image is a literal next-fit walk: start at (0,0), advance
// x by one while the candidate collides, wrapping to the next row when x
// reaches canvasWidth-1, and accept the first free slot. Collision means any
// already-placed rectangle contains a corner of the candidate (see
// geom.Rect.ContainsCorner for the limits of that test) or the candidate
// crosses the horizontal bound.
func (p *Packer) Pack(images []*SourceImage) ([]geom.Rect, error) {
	if len(images) == 0 {
		return nil, nil
	}
	if p.canvasWidth == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "canvas width is zero")
	}

	placements := make([]geom.Rect, 0, len(images))
	for _, img := range images {
		rect, err := p.nextSlot(img)
		if err != nil {
			return nil, err
		}
		p.placed = append(p.placed, rect)
		placements = append(placements, rect)
	}
	return placements, nil
}

// Placed returns the rectangles accepted so far, in placement order.
func (p *Packer) Placed() []geom.Rect {
	return p.placed
}

// nextSlot scans for the first non-colliding position for img.
func (p *Packer) nextSlot(img *SourceImage) (geom.Rect, error) {
	pos := geom.Rect{X: 0, Y: 0, Width: img.Width, Height: img.Height}

	// The bound dimension can never exceed the canvas width: if it did, the
	// bound check would fail at every x and the scan would walk down the
	// canvas forever. Unreachable when the width comes from the sizing pass,
	// but guarded for callers that construct the packer directly.
	if bound := p.boundDim(pos); bound > p.canvasWidth {
		return geom.Rect{}, errors.New(errors.ErrCodePackUnplaceable,
			"image %q (%dx%d) cannot fit on a canvas %d pixels wide",
			img.Name, img.Width, img.Height, p.canvasWidth)
	}

	var steps uint64
	for p.collides(pos) {
		steps++
		if steps > p.opts.MaxScanSteps {
			return geom.Rect{}, errors.New(errors.ErrCodePackBudget,
				"image %q: no free slot within %d scan steps", img.Name, p.opts.MaxScanSteps)
		}
		if pos.X == p.canvasWidth-1 {
			pos.X = 0
			pos.Y++
		} else {
			pos.X++
		}
	}
	return pos, nil
}

// collides reports whether pos overlaps a placed rectangle (per the corner
// test) or crosses the horizontal bound.
func (p *Packer) collides(pos geom.Rect) bool {
	if pos.X+p.boundDim(pos) > p.canvasWidth {
		return true
	}
	for _, rect := range p.placed {
		if rect.ContainsCorner(pos) {
			return true
		}
	}
	return false
}

// boundDim is the dimension compared against the canvas width. The
// historical scan checks x+height; WidthBound selects x+width instead.
func (p *Packer) boundDim(pos geom.Rect) uint32 {
	if p.opts.WidthBound {
		return pos.Width
	}
	return pos.Height
}
