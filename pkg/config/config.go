// Package config loads the optional atlast.toml project configuration.
//
// The file gives a project a checked-in default for the pack command:
//
//	[pack]
//	input = "assets/sprites"
//	output = "build/sprites.atlas"
//	width_bound = false
//	max_scan_steps = 0
//
// Command-line flags always win over file values; a missing file simply
// yields an empty configuration.
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/atlast-io/atlast/pkg/errors"
)

// DefaultFilename is the configuration file looked up in the working
// directory when no explicit --config path is given.
const DefaultFilename = "atlast.toml"

// File is the full configuration file.
type File struct {
	Pack Pack `toml:"pack"`
}

// Pack configures the pack command.
type Pack struct {
	Input        string `toml:"input"`
	Output       string `toml:"output"`
	WidthBound   bool   `toml:"width_bound"`
	MaxScanSteps uint64 `toml:"max_scan_steps"`
}

// Load reads a configuration file from an explicit path. The file must
// exist and parse.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %s", path)
	}
	return parse(path, data)
}

// LoadDefault looks for DefaultFilename in dir. A missing file is not an
// error; it returns an empty configuration.
func LoadDefault(dir string) (*File, error) {
	path := filepath.Join(dir, DefaultFilename)
	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return &File{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %s", path)
	}
	return parse(path, data)
}

func parse(path string, data []byte) (*File, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	return &f, nil
}
