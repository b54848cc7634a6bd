package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/atlast-io/atlast/pkg/errors"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlast.toml")
	body := `
[pack]
input = "assets/sprites"
output = "build/sprites.atlas"
width_bound = true
max_scan_steps = 1024
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Pack.Input != "assets/sprites" {
		t.Errorf("Input = %q", f.Pack.Input)
	}
	if f.Pack.Output != "build/sprites.atlas" {
		t.Errorf("Output = %q", f.Pack.Output)
	}
	if !f.Pack.WidthBound {
		t.Error("WidthBound should be true")
	}
	if f.Pack.MaxScanSteps != 1024 {
		t.Errorf("MaxScanSteps = %d", f.Pack.MaxScanSteps)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Fatalf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[pack\nbroken"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}
}

func TestLoadDefaultMissingIsEmpty(t *testing.T) {
	f, err := LoadDefault(t.TempDir())
	if err != nil {
		t.Fatalf("LoadDefault: %v", err)
	}
	if *f != (File{}) {
		t.Errorf("missing default config should be empty, got %+v", f)
	}
}

func TestLoadDefaultReadsFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, DefaultFilename), []byte("[pack]\ninput = \"x\""), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := LoadDefault(dir)
	if err != nil {
		t.Fatalf("LoadDefault: %v", err)
	}
	if f.Pack.Input != "x" {
		t.Errorf("Input = %q, want x", f.Pack.Input)
	}
}
