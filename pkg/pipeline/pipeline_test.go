package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/atlast-io/atlast/pkg/cache"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// writePNG writes a solid-color opaque PNG of the given size.
func writePNG(t *testing.T, dir, name string, w, h int, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding %s: %v", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

// scenarioDir recreates the canonical three-image layout: one 4x4 plus two
// 2x2 images on a width-4 canvas.
func scenarioDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writePNG(t, dir, "a.png", 2, 2, color.RGBA{R: 255, A: 255})
	writePNG(t, dir, "b.png", 2, 2, color.RGBA{G: 255, A: 255})
	writePNG(t, dir, "c.png", 4, 4, color.RGBA{B: 255, A: 255})
	return dir
}

func TestExecuteScenario(t *testing.T) {
	runner := NewRunner(nil, nil, testLogger())
	result, err := runner.Execute(context.Background(), Options{
		InputDir: scenarioDir(t),
		Logger:   testLogger(),
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.NoOp {
		t.Fatal("unexpected no-op result")
	}
	if result.Images != 3 {
		t.Errorf("Images = %d, want 3", result.Images)
	}
	if result.CanvasWidth != 4 || result.CanvasHeight != 10 {
		t.Errorf("canvas = %dx%d, want 4x10", result.CanvasWidth, result.CanvasHeight)
	}
	if len(result.Records) != 3 {
		t.Fatalf("got %d records, want 3", len(result.Records))
	}
	first := result.Records[0]
	if first.Name != "c" {
		t.Errorf("first record = %q, want %q (largest image packs first)", first.Name, "c")
	}
	if first.X != 0 || first.Y != 0 || first.Width != 1 || first.Height != 0.4 {
		t.Errorf("record c = %+v, want {0 0 1 0.4}", first)
	}
	if len(result.PNG) == 0 || len(result.Data) == 0 {
		t.Error("expected both artifacts to be populated")
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(result.PNG))
	if err != nil {
		t.Fatalf("decoding atlas png: %v", err)
	}
	if cfg.Width != 4 || cfg.Height != 10 {
		t.Errorf("png dimensions = %dx%d, want 4x10", cfg.Width, cfg.Height)
	}
}

func TestExecuteDeterministic(t *testing.T) {
	dir := scenarioDir(t)
	runner := NewRunner(nil, nil, testLogger())

	var outputs [][2][]byte
	for i := 0; i < 2; i++ {
		result, err := runner.Execute(context.Background(), Options{
			InputDir: dir,
			Logger:   testLogger(),
		})
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		outputs = append(outputs, [2][]byte{result.PNG, result.Data})
	}
	if !bytes.Equal(outputs[0][0], outputs[1][0]) {
		t.Error("atlas image differs between identical runs")
	}
	if !bytes.Equal(outputs[0][1], outputs[1][1]) {
		t.Error("record data differs between identical runs")
	}
}

func TestExecuteEmptyDir(t *testing.T) {
	runner := NewRunner(nil, nil, testLogger())
	result, err := runner.Execute(context.Background(), Options{
		InputDir: t.TempDir(),
		Logger:   testLogger(),
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !result.NoOp {
		t.Error("expected NoOp for empty input directory")
	}
	if result.PNG != nil || result.Data != nil {
		t.Error("no-op result should carry no artifacts")
	}
}

func TestExecuteCacheHit(t *testing.T) {
	dir := scenarioDir(t)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := NewRunner(fc, nil, testLogger())
	defer runner.Close()

	opts := Options{InputDir: dir, Logger: testLogger()}
	cold, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("cold run: %v", err)
	}
	if cold.CacheInfo.ArtifactHit {
		t.Error("cold run should not hit the cache")
	}

	warm, err := runner.Execute(context.Background(), Options{InputDir: dir, Logger: testLogger()})
	if err != nil {
		t.Fatalf("warm run: %v", err)
	}
	if !warm.CacheInfo.ArtifactHit {
		t.Error("warm run should hit the cache")
	}
	if !bytes.Equal(cold.PNG, warm.PNG) || !bytes.Equal(cold.Data, warm.Data) {
		t.Error("cached artifacts differ from computed artifacts")
	}
	if warm.CanvasWidth != cold.CanvasWidth || warm.CanvasHeight != cold.CanvasHeight {
		t.Errorf("cached canvas = %dx%d, want %dx%d",
			warm.CanvasWidth, warm.CanvasHeight, cold.CanvasWidth, cold.CanvasHeight)
	}
	if len(warm.Records) != len(cold.Records) {
		t.Errorf("cached records = %d, want %d", len(warm.Records), len(cold.Records))
	}
}

func TestExecuteRefreshBypassesCache(t *testing.T) {
	dir := scenarioDir(t)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := NewRunner(fc, nil, testLogger())
	defer runner.Close()

	if _, err := runner.Execute(context.Background(), Options{InputDir: dir, Logger: testLogger()}); err != nil {
		t.Fatalf("cold run: %v", err)
	}
	refreshed, err := runner.Execute(context.Background(), Options{
		InputDir: dir,
		Refresh:  true,
		Logger:   testLogger(),
	})
	if err != nil {
		t.Fatalf("refresh run: %v", err)
	}
	if refreshed.CacheInfo.ArtifactHit {
		t.Error("refresh run must not be served from cache")
	}
}

func TestExecuteOptionsChangeKey(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "tile.png", 3, 3, color.RGBA{R: 128, A: 255})
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := NewRunner(fc, nil, testLogger())
	defer runner.Close()

	if _, err := runner.Execute(context.Background(), Options{InputDir: dir, Logger: testLogger()}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	other, err := runner.Execute(context.Background(), Options{
		InputDir:   dir,
		WidthBound: true,
		Logger:     testLogger(),
	})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if other.CacheInfo.ArtifactHit {
		t.Error("different pack options must not share cache entries")
	}
}

func TestExecuteMissingDir(t *testing.T) {
	runner := NewRunner(nil, nil, testLogger())
	_, err := runner.Execute(context.Background(), Options{
		InputDir: filepath.Join(t.TempDir(), "absent"),
		Logger:   testLogger(),
	})
	if err == nil {
		t.Fatal("expected error for missing input directory")
	}
}
