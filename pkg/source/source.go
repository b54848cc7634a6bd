// Package source loads the input image set for a packing run.
//
// A run's inputs are all .png files under a directory, discovered in lexical
// walk order so the same tree always yields the same sequence. Each file is
// decoded once into an RGBA SourceImage; the set is read-only afterwards.
package source

import (
	"image"
	"image/draw"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	_ "image/png" // register the PNG decoder

	"github.com/charmbracelet/log"

	"github.com/atlast-io/atlast/pkg/atlas"
	"github.com/atlast-io/atlast/pkg/errors"
)

// Scan walks dir recursively and decodes every .png file into a SourceImage,
// in lexical discovery order. Names are file stems; two files with the same
// stem both stay in the set (the ambiguity is the consumer's to resolve).
// An unreadable tree or an undecodable file aborts the scan.
func Scan(dir string, logger *log.Logger) ([]*atlas.SourceImage, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "input directory %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s is not a directory", dir)
	}

	var images []*atlas.SourceImage
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "walk %s", path)
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".png") {
			return nil
		}

		img, err := DecodeFile(path)
		if err != nil {
			return err
		}
		logger.Debug("adding image", "path", path, "size", img.Area())
		images = append(images, img)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

// DecodeFile decodes one PNG into an RGBA SourceImage. Any PNG subformat
// (palette, grayscale, 16-bit) is converted to 8-bit RGBA; the image name is
// the file stem.
func DecodeFile(path string) (*atlas.SourceImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()

	decoded, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInputDecode, err, "decode %s", path)
	}

	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return FromImage(name, decoded), nil
}

// FromImage converts a decoded image into a SourceImage, re-drawing into a
// fresh RGBA buffer so the pixel layout is always tightly packed row-major.
func FromImage(name string, img image.Image) *atlas.SourceImage {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return &atlas.SourceImage{
		Name:   name,
		Width:  uint32(w),
		Height: uint32(h),
		Pixels: rgba.Pix,
	}
}
