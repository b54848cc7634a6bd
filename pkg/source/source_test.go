package source

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/atlast-io/atlast/pkg/errors"
)

func writePNG(t *testing.T, path string, w, h int, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), 2, 2, color.RGBA{0, 255, 0, 255})
	writePNG(t, filepath.Join(dir, "a.png"), 4, 4, color.RGBA{255, 0, 0, 255})
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Nested directories are walked too.
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writePNG(t, filepath.Join(sub, "c.png"), 1, 1, color.RGBA{0, 0, 255, 255})

	images, err := Scan(dir, testLogger())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	// Lexical walk order: a.png, b.png, then sub/c.png.
	wantNames := []string{"a", "b", "c"}
	if len(images) != len(wantNames) {
		t.Fatalf("got %d images, want %d", len(images), len(wantNames))
	}
	for i, name := range wantNames {
		if images[i].Name != name {
			t.Errorf("images[%d].Name = %q, want %q", i, images[i].Name, name)
		}
		if err := images[i].Validate(); err != nil {
			t.Errorf("images[%d]: %v", i, err)
		}
	}
	if images[0].Width != 4 || images[0].Height != 4 {
		t.Errorf("a = %dx%d, want 4x4", images[0].Width, images[0].Height)
	}

	// Pixel content survives the decode verbatim.
	if px := images[0].Pixels; px[0] != 255 || px[1] != 0 || px[2] != 0 || px[3] != 255 {
		t.Errorf("a pixel 0 = %v, want red", px[:4])
	}
}

func TestScanEmptyDir(t *testing.T) {
	images, err := Scan(t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(images) != 0 {
		t.Errorf("got %d images from empty dir", len(images))
	}
}

func TestScanMissingDir(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "missing"), testLogger())
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Fatalf("err = %v, want INVALID_PATH", err)
	}
}

func TestScanNotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.png")
	writePNG(t, path, 1, 1, color.RGBA{})
	_, err := Scan(path, testLogger())
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Fatalf("err = %v, want INVALID_PATH", err)
	}
}

func TestScanUndecodableFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "fake.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Scan(dir, testLogger())
	if !errors.Is(err, errors.ErrCodeInputDecode) {
		t.Fatalf("err = %v, want INPUT_DECODE", err)
	}
}

func TestDecodeFileStem(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sprite.walk.png")
	writePNG(t, path, 3, 2, color.RGBA{1, 2, 3, 4})

	img, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}
	if img.Name != "sprite.walk" {
		t.Errorf("Name = %q, want %q", img.Name, "sprite.walk")
	}
	if img.Width != 3 || img.Height != 2 {
		t.Errorf("size = %dx%d, want 3x2", img.Width, img.Height)
	}
}

func TestFromImageNonZeroOrigin(t *testing.T) {
	// SubImage produces non-zero bounds; FromImage must repack tightly.
	base := image.NewRGBA(image.Rect(0, 0, 8, 8))
	base.SetRGBA(5, 5, color.RGBA{9, 8, 7, 255})
	sub := base.SubImage(image.Rect(4, 4, 8, 8)).(*image.RGBA)

	img := FromImage("sub", sub)
	if img.Width != 4 || img.Height != 4 {
		t.Fatalf("size = %dx%d, want 4x4", img.Width, img.Height)
	}
	// (5,5) in the base is (1,1) in the sub-image.
	i := (1*4 + 1) * 4
	if img.Pixels[i] != 9 || img.Pixels[i+1] != 8 || img.Pixels[i+2] != 7 {
		t.Errorf("pixel (1,1) = %v, want {9 8 7 255}", img.Pixels[i:i+4])
	}
}
