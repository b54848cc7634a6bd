package archive

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atlast-io/atlast/pkg/errors"
)

func TestBuildEntries(t *testing.T) {
	body, err := Build([]byte("png-bytes"), []byte("data-bytes"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		t.Fatalf("zip.NewReader: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("archive has %d entries, want 2", len(zr.File))
	}
	if zr.File[0].Name != ImageEntry || zr.File[1].Name != DataEntry {
		t.Errorf("entries = [%s, %s], want [%s, %s]",
			zr.File[0].Name, zr.File[1].Name, ImageEntry, DataEntry)
	}
}

func TestBuildDeterministic(t *testing.T) {
	a, err := Build([]byte("x"), []byte("y"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b, err := Build([]byte("x"), []byte("y"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("Build is not deterministic")
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.atlas")

	if err := Write(path, []byte("png"), []byte("data")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	png, data, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(png) != "png" || string(data) != "data" {
		t.Errorf("round trip = (%q, %q), want (png, data)", png, data)
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	if err := Write(filepath.Join(dir, "out.atlas"), []byte("p"), []byte("d")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(files) != 1 || files[0].Name() != "out.atlas" {
		names := make([]string, len(files))
		for i, f := range files {
			names[i] = f.Name()
		}
		t.Errorf("directory contents = %v, want [out.atlas]", names)
	}
}

func TestWriteUnwritableDir(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "missing", "out.atlas"), nil, nil)
	if !errors.Is(err, errors.ErrCodeWriteFailed) {
		t.Fatalf("err = %v, want WRITE_FAILED", err)
	}
}

func TestReadMissingFile(t *testing.T) {
	_, _, err := Read(filepath.Join(t.TempDir(), "nope.atlas"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Fatalf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestReadRejectsForeignEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.atlas")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("rogue.txt")
	w.Write([]byte("nope"))
	zw.Close()
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := Read(path)
	if !errors.Is(err, errors.ErrCodeInvalidArchive) {
		t.Fatalf("err = %v, want INVALID_ARCHIVE", err)
	}
	if !strings.Contains(err.Error(), "rogue.txt") {
		t.Errorf("error should name the foreign entry: %v", err)
	}
}

func TestReadRejectsMissingEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "half.atlas")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create(ImageEntry)
	w.Write([]byte("png"))
	zw.Close()
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := Read(path)
	if !errors.Is(err, errors.ErrCodeInvalidArchive) {
		t.Fatalf("err = %v, want INVALID_ARCHIVE", err)
	}
}
