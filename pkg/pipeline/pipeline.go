// Package pipeline provides the core packing pipeline for atlast.
//
// The pipeline is a single forward pass executed once per run:
//
//  1. Scan: discover and decode the input image set
//  2. Pack: size the canvas and place every image
//  3. Composite: blit the placements into one RGBA canvas
//  4. Encode: render the canvas to PNG and the placements to atlas.data
//
// The run is deterministic, so both encoded artifacts are cached against a
// hash of the input set plus the packing options; a later run over unchanged
// inputs skips packing and compositing entirely.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{InputDir: "sprites"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.NoOp {
//	    err = archive.Write("output.atlas", result.PNG, result.Data)
//	}
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/atlast-io/atlast/pkg/atlas"
	"github.com/atlast-io/atlast/pkg/cache"
	"github.com/atlast-io/atlast/pkg/errors"
)

// Default values shared by the CLI and any embedding caller.
const (
	// DefaultInputDir is where images are discovered when no directory is
	// given.
	DefaultInputDir = "."

	// DefaultOutput is the archive path written when none is given.
	DefaultOutput = "output.atlas"
)

// Artifact kinds used for cache keys.
const (
	ArtifactPNG  = "png"
	ArtifactData = "data"
)

// Options contains all configuration for a packing run.
type Options struct {
	// InputDir is the directory scanned for .png inputs.
	InputDir string

	// Output is the archive path. The pipeline itself does not write it;
	// it participates only in validation and CLI messaging.
	Output string

	// WidthBound selects the corrected horizontal bound check in the packer
	// (x+width instead of the historical x+height).
	WidthBound bool

	// MaxScanSteps caps packer candidate positions per image. Zero means
	// the packer default.
	MaxScanSteps uint64

	// Refresh bypasses the artifact cache for this run.
	Refresh bool

	// Logger receives progress output. Defaults to a discard logger.
	Logger *log.Logger

	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.InputDir == "" {
		o.InputDir = DefaultInputDir
	}
	if o.Output == "" {
		o.Output = DefaultOutput
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// PackOptions returns the packer configuration for this run.
func (o *Options) PackOptions() atlas.PackOptions {
	return atlas.PackOptions{
		WidthBound:   o.WidthBound,
		MaxScanSteps: o.MaxScanSteps,
	}
}

// ArtifactKeyOpts returns the cache key options: everything that can shift
// placements must appear here.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		WidthBound:   o.WidthBound,
		MaxScanSteps: o.MaxScanSteps,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// NoOp is true when the scan found no images; nothing else is set.
	NoOp bool

	// Images is the number of source images packed.
	Images int

	// CanvasWidth and CanvasHeight are the final atlas dimensions.
	CanvasWidth  uint32
	CanvasHeight uint32

	// PNG is the encoded atlas image, Data the encoded record blob.
	PNG  []byte
	Data []byte

	// Records are the normalized placement records, in packing order.
	Records []atlas.Record

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks whether the artifacts came from cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ScanTime      time.Duration
	PackTime      time.Duration
	CompositeTime time.Duration
	EncodeTime    time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	ArtifactHit bool // Whether both artifacts came from cache
}

// validateImages rejects inputs whose pixel buffers do not match their
// declared dimensions before any packing work happens.
func validateImages(images []*atlas.SourceImage) error {
	for _, img := range images {
		if err := img.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "input %q", img.Name)
		}
	}
	return nil
}
