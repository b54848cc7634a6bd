package atlas

import (
	"github.com/atlast-io/atlast/pkg/geom"
)

// Record describes where one source image lives in the atlas, normalized to
// [0,1] texture coordinates: X and Width are divided by the canvas width,
// Y and Height by the canvas height. Single precision throughout; consumers
// multiply back by the canvas dimensions to recover pixel placements.
type Record struct {
	X      float32
	Y      float32
	Width  float32
	Height float32
	Name   string
}

// NewRecords converts placements into normalized records, in placement
// order. Images and placements correspond by index.
func NewRecords(images []*SourceImage, placements []geom.Rect, canvasWidth, canvasHeight uint32) []Record {
	records := make([]Record, len(placements))
	w := float32(canvasWidth)
	h := float32(canvasHeight)
	for i, rect := range placements {
		records[i] = Record{
			X:      float32(rect.X) / w,
			Y:      float32(rect.Y) / h,
			Width:  float32(rect.Width) / w,
			Height: float32(rect.Height) / h,
			Name:   images[i].Name,
		}
	}
	return records
}
