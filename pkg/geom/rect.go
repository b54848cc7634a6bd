// Package geom provides the integer rectangle type used for atlas placements.
package geom

// Rect is an axis-aligned rectangle in canvas pixel coordinates, origin
// top-left. A Rect is immutable once a placement has been accepted.
// Zero-size rectangles are degenerate but valid.
type Rect struct {
	X      uint32 `json:"x"`
	Y      uint32 `json:"y"`
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// ContainsPoint reports whether (x, y) lies within the closed bounds of r.
// Both edges are inclusive.
func (r Rect) ContainsPoint(x, y uint32) bool {
	return r.X <= x &&
		r.Y <= y &&
		r.X+r.Width >= x &&
		r.Y+r.Height >= y
}

// ContainsCorner reports whether any of the four corners of other falls
// within the closed bounds of r.
//
// This is a corner-only containment heuristic, not a full AABB overlap test:
// it misses the case where other fully contains r without any of other's own
// corners landing inside r. The packer's placement results depend on this
// exact behavior, so it must not be "fixed" to a true intersection test.
func (r Rect) ContainsCorner(other Rect) bool {
	return r.ContainsPoint(other.X, other.Y) ||
		r.ContainsPoint(other.X+other.Width, other.Y) ||
		r.ContainsPoint(other.X, other.Y+other.Height) ||
		r.ContainsPoint(other.X+other.Width, other.Y+other.Height)
}

// Right returns the exclusive right edge, X+Width.
func (r Rect) Right() uint32 { return r.X + r.Width }

// Bottom returns the exclusive bottom edge, Y+Height.
func (r Rect) Bottom() uint32 { return r.Y + r.Height }

// Area returns the pixel area of r.
func (r Rect) Area() uint64 {
	return uint64(r.Width) * uint64(r.Height)
}
