// Package archive reads and writes the .atlas output container.
//
// An atlas archive is a zip file with exactly two entries: atlas.png, the
// composited RGBA canvas, and atlas.data, the binary record blob. The whole
// archive is assembled in memory and persisted in a single atomic step so a
// failed run never leaves a partial file on disk.
package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/atlast-io/atlast/pkg/errors"
)

// Entry names inside the archive.
const (
	ImageEntry = "atlas.png"
	DataEntry  = "atlas.data"
)

// Build assembles the archive bytes in memory: ImageEntry first, DataEntry
// second. Entry order is fixed so identical inputs produce identical
// archives.
func Build(png, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, entry := range []struct {
		name string
		body []byte
	}{
		{ImageEntry, png},
		{DataEntry, data},
	} {
		// Store entries with a fixed header; the default zip timestamp is
		// zero, which keeps the output byte-identical across runs.
		w, err := zw.CreateHeader(&zip.FileHeader{Name: entry.name, Method: zip.Deflate})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeWriteFailed, err, "create archive entry %s", entry.name)
		}
		if _, err := w.Write(entry.body); err != nil {
			return nil, errors.Wrap(errors.ErrCodeWriteFailed, err, "write archive entry %s", entry.name)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeWriteFailed, err, "finalize archive")
	}
	return buf.Bytes(), nil
}

// Write builds the archive and persists it atomically: the bytes go to a
// temp file in the destination directory, then a rename moves it into place.
func Write(path string, png, data []byte) error {
	body, err := Build(png, data)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".atlas-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "create temp file in %s", dir)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "write %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "close %s", tmp.Name())
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "rename into %s", path)
	}
	return nil
}

// Read opens an archive and returns the two entry payloads. Archives with
// missing or unexpected entries are rejected.
func Read(path string) (png, data []byte, err error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidArchive, err, "open %s", path)
	}
	defer zr.Close()

	entries := map[string][]byte{}
	for _, f := range zr.File {
		if f.Name != ImageEntry && f.Name != DataEntry {
			return nil, nil, errors.New(errors.ErrCodeInvalidArchive,
				"%s: unexpected entry %q", path, f.Name)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidArchive, err, "open entry %s", f.Name)
		}
		body, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidArchive, err, "read entry %s", f.Name)
		}
		entries[f.Name] = body
	}

	png, okPNG := entries[ImageEntry]
	data, okData := entries[DataEntry]
	if !okPNG || !okData {
		return nil, nil, errors.New(errors.ErrCodeInvalidArchive,
			"%s: want entries %s and %s, found %d entries", path, ImageEntry, DataEntry, len(entries))
	}
	return png, data, nil
}
